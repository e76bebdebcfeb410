package invoice

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DirArchive", func() {
	var (
		dir     string
		archive *DirArchive
	)

	BeforeEach(func() {
		dir = filepath.Join(GinkgoT().TempDir(), "invoices")
		var err error
		archive, err = NewDirArchive(dir)
		Expect(err).NotTo(HaveOccurred())
	})

	It("creates the directory", func() {
		Expect(dir).To(BeADirectory())
	})

	Describe("Put", func() {
		It("names the document after the invoice ID", func() {
			name, err := archive.Put("abc", "Invoice #7 (final).pdf", []byte("%PDF-1.4"))
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("abc_Invoice 7 final.pdf"))

			data, err := os.ReadFile(filepath.Join(dir, name))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("%PDF-1.4"))
		})

		It("keeps directory components out of the stored name", func() {
			name, err := archive.Put("abc", "../../escape.pdf", []byte("x"))
			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("abc_escape.pdf"))
			Expect(filepath.Join(filepath.Dir(dir), "escape.pdf")).NotTo(BeAnExistingFile())
		})

		It("requires an invoice ID", func() {
			_, err := archive.Put("", "a.pdf", []byte("x"))
			Expect(err).To(MatchError(ContainSubstring("empty ID")))
		})
	})

	Describe("Open", func() {
		It("returns the archived bytes", func() {
			name, err := archive.Put("abc", "a.pdf", []byte("content"))
			Expect(err).NotTo(HaveOccurred())

			data, err := archive.Open(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("content"))
		})

		It("does not follow paths out of the directory", func() {
			Expect(os.WriteFile(filepath.Join(filepath.Dir(dir), "secret.pdf"), []byte("s"), 0644)).To(Succeed())
			_, err := archive.Open("../secret.pdf")
			Expect(err).To(MatchError(os.ErrNotExist))
		})

		It("wraps a missing document", func() {
			_, err := archive.Open("missing.pdf")
			Expect(err).To(MatchError(ContainSubstring("opening archived invoice")))
			Expect(err).To(MatchError(os.ErrNotExist))
		})
	})

	Describe("Remove", func() {
		It("deletes the document", func() {
			name, err := archive.Put("abc", "a.pdf", []byte("content"))
			Expect(err).NotTo(HaveOccurred())

			Expect(archive.Remove(name)).To(Succeed())
			Expect(filepath.Join(dir, name)).NotTo(BeAnExistingFile())
		})

		It("wraps a missing document", func() {
			Expect(archive.Remove("missing.pdf")).To(MatchError(ContainSubstring("removing archived invoice")))
		})
	})
})

var _ = DescribeTable("sanitizeFilename",
	func(in, want string) {
		Expect(sanitizeFilename(in)).To(Equal(want))
	},
	Entry("plain", "invoice.pdf", "invoice.pdf"),
	Entry("special characters", "inv#1 (copy).pdf", "inv1 copy.pdf"),
	Entry("collapsed spaces", "a   b.pdf", "a b.pdf"),
	Entry("only special characters", "###.pdf", "invoice.pdf"),
	Entry("directory components", "../../etc/passwd", "passwd"),
)
