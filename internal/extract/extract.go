// Package extract turns source documents into normalized text for the
// conversion pipeline.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/docvoice/docvoice/internal/textproc"
)

// MinTextLength is the minimum normalized character count considered a
// usable text layer. Anything shorter is treated as an image-only document.
const MinTextLength = 10

// ExtractionError reports a source document whose byte stream could not be
// parsed or that carries no usable embedded text.
type ExtractionError struct {
	Cause error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract: %v", e.Cause)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// PageExtractor produces raw page-ordered text from a document byte stream.
// Implementations may select among parsing backends internally; the pipeline
// depends only on this capability.
type PageExtractor interface {
	ExtractPages(ctx context.Context, data []byte) ([]string, error)
}

// Text extracts the full document text: pages joined by a blank-line
// separator, passed through extraction normalization (artifact cleanup and
// reversed-line repair). Returns an *ExtractionError when the source cannot
// be parsed or the normalized text is below MinTextLength.
func Text(ctx context.Context, src PageExtractor, data []byte) (string, error) {
	pages, err := src.ExtractPages(ctx, data)
	if err != nil {
		var ee *ExtractionError
		if errors.As(err, &ee) {
			return "", err
		}
		return "", &ExtractionError{Cause: err}
	}

	var b strings.Builder
	for _, page := range pages {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(page)
	}

	text := textproc.NormalizeExtracted(b.String())
	if utf8.RuneCountInString(text) < MinTextLength {
		return "", &ExtractionError{Cause: fmt.Errorf("document has no usable text layer (%d chars extracted)", utf8.RuneCountInString(text))}
	}
	return text, nil
}
