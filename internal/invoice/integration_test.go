package invoice_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/zombor/invoice-tracker/internal/document"
	"github.com/zombor/invoice-tracker/internal/export"
	"github.com/zombor/invoice-tracker/internal/invoice"
	"github.com/zombor/invoice-tracker/internal/scanning"
)

// stubScanner answers every scan with the same hint
type stubScanner struct {
	hint  *scanning.Hint
	calls int
}

func (s *stubScanner) ScanInvoice(ctx context.Context, data []byte, contentType string) (*scanning.Hint, error) {
	s.calls++
	return s.hint, nil
}

func (s *stubScanner) Close() error {
	return nil
}

// noPDFParser fails for every document; uploads in this suite are images
type noPDFParser struct{}

func (noPDFParser) Parse(ctx context.Context, name string, data []byte) (*document.Document, error) {
	return nil, errors.New("unexpected PDF")
}

var _ = Describe("Integration", func() {
	var (
		tempDir  string
		db       *invoice.BoltDB
		store    *invoice.DirArchive
		scanner  *stubScanner
		server   *invoice.Server
		ghServer *ghttp.Server
	)

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()

		var err error
		db, err = invoice.NewBoltDB(filepath.Join(tempDir, "test.db"))
		Expect(err).NotTo(HaveOccurred())

		store, err = invoice.NewDirArchive(filepath.Join(tempDir, "invoices"))
		Expect(err).NotTo(HaveOccurred())

		scanner = &stubScanner{hint: &scanning.Hint{Date: "2024-03-20", Total: "£42.50"}}
		aggregator := invoice.NewAggregator(invoice.WithAssist(scanner))
		service := invoice.NewService(db, store, noPDFParser{}, aggregator)
		server = invoice.NewServer(service, export.Writer{}, invoice.BasicAuth{})

		ghServer = ghttp.NewServer()
	})

	AfterEach(func() {
		ghServer.Close()
		db.Close()
	})

	It("uploads a scanned invoice, stores it and exports it", func() {
		ghServer.AppendHandlers(
			server.Handler().ServeHTTP, // upload
			server.Handler().ServeHTTP, // file
			server.Handler().ServeHTTP, // export
		)

		fileContent := []byte("\x89PNG fake image")
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, err := writer.CreateFormFile("file", "scan.png")
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write(fileContent)
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).To(Succeed())

		resp, err := http.Post(ghServer.URL()+"/api/invoices", writer.FormDataContentType(), body)
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusCreated))

		var inv invoice.Invoice
		Expect(json.NewDecoder(resp.Body).Decode(&inv)).To(Succeed())
		Expect(inv.ContentType).To(Equal("image/png"))
		Expect(inv.Date).To(Equal("20/03/2024"))
		Expect(inv.Total).To(Equal(51.0))
		Expect(scanner.calls).To(Equal(1))

		saved, err := db.GetInvoice(inv.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(saved.RawTotal).To(Equal("£42.50"))

		fileResp, err := http.Get(ghServer.URL() + "/api/invoices/" + inv.ID + "/file")
		Expect(err).NotTo(HaveOccurred())
		defer fileResp.Body.Close()
		data, err := io.ReadAll(fileResp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal(fileContent))

		csvResp, err := http.Get(ghServer.URL() + "/api/export.csv")
		Expect(err).NotTo(HaveOccurred())
		defer csvResp.Body.Close()
		csv, err := io.ReadAll(csvResp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(csv)).To(Equal("File Name;Date;Total (EUR)\nscan.png;20/03/2024;51.00\n"))
	})
})
