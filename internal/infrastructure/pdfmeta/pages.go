// Package pdfmeta reads document metadata recorded alongside history entries.
package pdfmeta

import (
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/doeshing/readerstate/internal/pkg/filesystem"
	"github.com/doeshing/readerstate/internal/ports"
)

// Reader counts pages with github.com/ledongthuc/pdf.
type Reader struct{}

// NewReader returns a page counter.
func NewReader() *Reader {
	return &Reader{}
}

// PageCount opens the document at path and returns its number of pages.
func (Reader) PageCount(path string) (count int, err error) {
	path = filesystem.ExpandPath(path)

	// The parser panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			count, err = 0, fmt.Errorf("read %s: malformed document: %v", path, r)
		}
	}()

	file, doc, err := pdf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	return doc.NumPage(), nil
}

var _ ports.PageCounter = Reader{}
