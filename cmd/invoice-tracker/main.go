package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/zombor/invoice-tracker/internal/document"
	"github.com/zombor/invoice-tracker/internal/export"
	"github.com/zombor/invoice-tracker/internal/invoice"
	"github.com/zombor/invoice-tracker/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

// sharedConfig holds the flags every command understands
type sharedConfig struct {
	assist      *string
	geminiKey   *string
	geminiModel *string
	ollamaURL   *string
	ollamaModel *string
	cellGap     *int
	logLevel    *string
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootFlags := ff.NewFlagSet("invoice-tracker")
	cfg := sharedConfig{
		assist:      rootFlags.StringLong("assist", "none", "Last-resort model scanner: 'none', 'gemini' or 'ollama'"),
		geminiKey:   rootFlags.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)"),
		geminiModel: rootFlags.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name"),
		ollamaURL:   rootFlags.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL"),
		ollamaModel: rootFlags.StringLong("ollama-model", "llava", "Ollama vision model name"),
		cellGap:     rootFlags.IntLong("cell-gap", int(document.DefaultCellGap), "Horizontal gap in points that separates table cells"),
		logLevel:    rootFlags.StringLong("log-level", "info", "Log level: debug, info, warn or error"),
	}
	_ = rootFlags.BoolLong("version", "Show version information")

	rootCmd := &ff.Command{
		Name:  "invoice-tracker",
		Usage: "invoice-tracker <batch|serve> [FLAGS]",
		Flags: rootFlags,
		Exec: func(ctx context.Context, args []string) error {
			return ff.ErrHelp
		},
	}
	rootCmd.Subcommands = append(rootCmd.Subcommands, batchCommand(rootFlags, &cfg), serveCommand(rootFlags, &cfg))

	if err := rootCmd.ParseAndRun(ctx, os.Args[1:], ff.WithEnvVarPrefix("INVOICE_TRACKER")); err != nil {
		if errors.Is(err, ff.ErrHelp) {
			fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Command(rootCmd.GetSelected()))
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func batchCommand(parent *ff.FlagSet, cfg *sharedConfig) *ff.Command {
	fs := ff.NewFlagSet("batch").SetParent(parent)
	var (
		dir      = fs.StringLong("dir", ".", "Directory containing the invoice PDFs")
		xlsxPath = fs.StringLong("xlsx", "", "Excel output path (default <dir>/Invoices.xlsx)")
		csvPath  = fs.StringLong("csv", "", "CSV output path (default <dir>/Invoices.csv)")
		failFast = fs.BoolLong("fail-fast", "Stop at the first document that cannot be parsed")
	)

	return &ff.Command{
		Name:      "batch",
		Usage:     "invoice-tracker batch [FLAGS]",
		ShortHelp: "extract every PDF in a directory and write Invoices.xlsx and Invoices.csv",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			setupLogging(*cfg.logLevel)

			aggregator, closeScanner, err := newAggregator(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeScanner()

			batch := invoice.NewBatch(document.NewPDFParser(float64(*cfg.cellGap)), aggregator, *failFast)
			records, err := batch.Run(ctx, *dir)
			if err != nil {
				return fmt.Errorf("processing %s: %w", *dir, err)
			}
			if len(records) == 0 {
				slog.Warn("No data available or unable to extract valid invoice data from the PDFs")
				return nil
			}

			if *xlsxPath == "" {
				*xlsxPath = filepath.Join(*dir, "Invoices.xlsx")
			}
			if *csvPath == "" {
				*csvPath = filepath.Join(*dir, "Invoices.csv")
			}
			if err := writeFile(*xlsxPath, records, export.WriteXLSX); err != nil {
				return err
			}
			if err := writeFile(*csvPath, records, export.WriteCSV); err != nil {
				return err
			}

			slog.Info("All PDF files have been processed", "records", len(records), "xlsx", *xlsxPath, "csv", *csvPath)
			return nil
		},
	}
}

func serveCommand(parent *ff.FlagSet, cfg *sharedConfig) *ff.Command {
	fs := ff.NewFlagSet("serve").SetParent(parent)
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		dbPath      = fs.StringLong("db", "invoices.db", "Database file path")
		storagePath = fs.StringLong("storage", "./invoices", "Storage directory path")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
	)

	return &ff.Command{
		Name:      "serve",
		Usage:     "invoice-tracker serve [FLAGS]",
		ShortHelp: "run the upload and export HTTP API",
		Flags:     fs,
		Exec: func(ctx context.Context, args []string) error {
			setupLogging(*cfg.logLevel)

			slog.Info("Initializing database...")
			db, err := invoice.NewBoltDB(*dbPath)
			if err != nil {
				return fmt.Errorf("initializing database: %w", err)
			}
			defer db.Close()

			slog.Info("Initializing archive...")
			archive, err := invoice.NewDirArchive(*storagePath)
			if err != nil {
				return fmt.Errorf("initializing archive: %w", err)
			}

			aggregator, closeScanner, err := newAggregator(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeScanner()

			service := invoice.NewService(db, archive, document.NewPDFParser(float64(*cfg.cellGap)), aggregator)
			server := invoice.NewServer(service, export.Writer{}, invoice.BasicAuth{
				Username: *authUser,
				Password: *authPass,
			})

			addr := fmt.Sprintf(":%d", *port)
			errc := make(chan error, 1)
			go func() {
				errc <- server.Start(addr)
			}()

			slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
			if *authUser != "" || *authPass != "" {
				slog.Info("Basic auth enabled", "user", *authUser)
			}

			select {
			case err := <-errc:
				return fmt.Errorf("server error: %w", err)
			case <-ctx.Done():
				slog.Info("Shutting down...")
				return nil
			}
		},
	}
}

// newAggregator builds the extraction chains, with the assist scanner when one is selected
func newAggregator(ctx context.Context, cfg *sharedConfig) (*invoice.Aggregator, func(), error) {
	noop := func() {}

	var scanner scanning.Scanner
	var err error
	switch *cfg.assist {
	case "", "none":
		return invoice.NewAggregator(), noop, nil
	case "gemini":
		apiKey := *cfg.geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini assist...", "model", *cfg.geminiModel)
		scanner, err = scanning.NewGemini(ctx, apiKey, *cfg.geminiModel)
	case "ollama":
		slog.Info("Initializing Ollama assist...", "url", *cfg.ollamaURL, "model", *cfg.ollamaModel)
		scanner, err = scanning.NewOllama(*cfg.ollamaURL, *cfg.ollamaModel)
	default:
		return nil, noop, fmt.Errorf("invalid assist type %q (valid: none, gemini, ollama)", *cfg.assist)
	}
	if err != nil {
		return nil, noop, fmt.Errorf("initializing assist: %w", err)
	}

	return invoice.NewAggregator(invoice.WithAssist(scanner)), func() { scanner.Close() }, nil
}

func writeFile(path string, records []invoice.Record, write func(w io.Writer, records []invoice.Record) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f, records); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
