package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type stubExtractor struct {
	pages []string
	err   error
}

func (s *stubExtractor) ExtractPages(_ context.Context, _ []byte) ([]string, error) {
	return s.pages, s.err
}

func TestTextJoinsPages(t *testing.T) {
	src := &stubExtractor{pages: []string{
		"First page content goes here.",
		"",
		"  Second page content follows.  ",
	}}

	text, err := Text(t.Context(), src, []byte("doc"))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	want := "First page content goes here.\n\nSecond page content follows."
	if text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
}

func TestTextNormalizesArtifacts(t *testing.T) {
	src := &stubExtractor{pages: []string{"spaced\t\tout\u200Btext from a pdf"}}

	text, err := Text(t.Context(), src, []byte("doc"))
	if err != nil {
		t.Fatalf("Text: %v", err)
	}
	if strings.Contains(text, "\t") || strings.Contains(text, "\u200B") {
		t.Errorf("artifacts survived: %q", text)
	}
}

func TestTextTooShort(t *testing.T) {
	src := &stubExtractor{pages: []string{"hi"}}

	_, err := Text(t.Context(), src, []byte("doc"))
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %T (%v), want *ExtractionError", err, err)
	}
}

func TestTextNoPages(t *testing.T) {
	src := &stubExtractor{}

	_, err := Text(t.Context(), src, []byte("doc"))
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %T (%v), want *ExtractionError", err, err)
	}
}

func TestTextWrapsExtractorError(t *testing.T) {
	cause := errors.New("bad xref table")
	src := &stubExtractor{err: cause}

	_, err := Text(t.Context(), src, []byte("doc"))
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %T (%v), want *ExtractionError", err, err)
	}
	if !errors.Is(err, cause) {
		t.Error("cause not preserved through wrapping")
	}
}

func TestPDFExtractorRejectsGarbage(t *testing.T) {
	x := NewPDFExtractor()

	_, err := Text(t.Context(), x, []byte("this is not a pdf at all, just bytes"))
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %T (%v), want *ExtractionError", err, err)
	}
}

func TestPDFExtractorRejectsTruncatedHeader(t *testing.T) {
	x := NewPDFExtractor()

	// A valid magic number with nothing behind it.
	_, err := Text(t.Context(), x, []byte("%PDF-1.7\n"))
	var ee *ExtractionError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %T (%v), want *ExtractionError", err, err)
	}
}
