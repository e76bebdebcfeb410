package invoice

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Archive keeps the original document of every invoice, keyed by invoice ID
type Archive interface {
	// Put stores the document of invoice id and returns its stored name
	Put(id, filename string, data []byte) (string, error)
	Open(storedName string) ([]byte, error)
	Remove(storedName string) error
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	filenameSpaces      = regexp.MustCompile(`\s+`)
)

// sanitizeFilename strips special characters and truncates long names
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)

	base = unsafeFilenameChars.ReplaceAllString(base, "")
	base = strings.TrimSpace(filenameSpaces.ReplaceAllString(base, " "))
	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "invoice"
	}
	return base + ext
}

// storedName is the archive name of an invoice document: the invoice ID, an
// underscore and the sanitized upload name
func storedName(id, filename string) string {
	return id + "_" + sanitizeFilename(filename)
}

// DirArchive is an Archive backed by one flat directory
type DirArchive struct {
	dir string
}

// NewDirArchive creates dir when needed
func NewDirArchive(dir string) (*DirArchive, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}
	return &DirArchive{dir: dir}, nil
}

func (a *DirArchive) Put(id, filename string, data []byte) (string, error) {
	if id == "" {
		return "", errors.New("archiving invoice: empty ID")
	}
	name := storedName(id, filename)
	if err := os.WriteFile(a.path(name), data, 0644); err != nil {
		return "", fmt.Errorf("archiving invoice %s: %w", id, err)
	}
	return name, nil
}

func (a *DirArchive) Open(storedName string) ([]byte, error) {
	data, err := os.ReadFile(a.path(storedName))
	if err != nil {
		return nil, fmt.Errorf("opening archived invoice: %w", err)
	}
	return data, nil
}

func (a *DirArchive) Remove(storedName string) error {
	if err := os.Remove(a.path(storedName)); err != nil {
		return fmt.Errorf("removing archived invoice: %w", err)
	}
	return nil
}

// path never leaves dir
func (a *DirArchive) path(name string) string {
	return filepath.Join(a.dir, filepath.Base(name))
}
