package extract

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var reRepeatSpace = regexp.MustCompile(`\s{2,}`)

// PDFExtractor extracts positioned text fragments page by page using the
// ledongthuc/pdf backend.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF page extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractPages iterates pages in order and joins each page's text fragments
// with single spaces, collapsing repeated whitespace within the page. Pages
// with no text are skipped. Nothing is retained after the call returns.
func (x *PDFExtractor) ExtractPages(ctx context.Context, data []byte) (pages []string, err error) {
	// The parser panics on some malformed cross-reference tables; surface
	// that as an unreadable-document error instead of crashing the request.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = &ExtractionError{Cause: fmt.Errorf("parse PDF: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ExtractionError{Cause: fmt.Errorf("parse PDF: %w", err)}
	}

	total := reader.NumPage()
	pages = make([]string, 0, total)
	for num := 1; num <= total; num++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}

		content := page.Content()
		fragments := make([]string, 0, len(content.Text))
		for _, t := range content.Text {
			if t.S != "" {
				fragments = append(fragments, t.S)
			}
		}

		pageText := strings.TrimSpace(reRepeatSpace.ReplaceAllString(strings.Join(fragments, " "), " "))
		if pageText != "" {
			pages = append(pages, pageText)
		}
	}

	return pages, nil
}
