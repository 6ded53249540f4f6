// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdf extracts plain text from PDF documents so that citation
// spans can be found in it.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNotPDF is returned when the input does not start with a PDF header.
var ErrNotPDF = errors.New("not a PDF document")

var pdfMagic = []byte("%PDF-")

// ExtractText returns the plain text of the first maxPages pages of the
// PDF read from r. A maxPages of 0 or less reads every page. Pages that
// fail to decode are skipped.
func ExtractText(r io.ReaderAt, size int64, maxPages int) (text string, err error) {
	head := make([]byte, len(pdfMagic))
	if _, err := r.ReadAt(head, 0); err != nil || !bytes.Equal(head, pdfMagic) {
		return "", ErrNotPDF
	}

	// The decoder panics on some malformed streams.
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("decoding PDF: %v", p)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	n := reader.NumPage()
	if maxPages <= 0 || maxPages > n {
		maxPages = n
	}

	var b strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// ExtractBytes is ExtractText over an in-memory document.
func ExtractBytes(data []byte, maxPages int) (string, error) {
	return ExtractText(bytes.NewReader(data), int64(len(data)), maxPages)
}

// ExtractFile is ExtractText over the file at path.
func ExtractFile(path string, maxPages int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	return ExtractText(f, info.Size(), maxPages)
}
