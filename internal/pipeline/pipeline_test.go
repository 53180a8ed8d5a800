package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/docvoice/docvoice/internal/extract"
	"github.com/docvoice/docvoice/internal/synth"
	"github.com/docvoice/docvoice/internal/textproc"
)

// recordingEngine returns each chunk's text wrapped in markers so tests can
// check assembly order, and records the requests it saw.
type recordingEngine struct {
	mu       sync.Mutex
	requests []synth.Request
	failOn   string
	err      error
	delay    time.Duration
}

func (e *recordingEngine) Synthesize(ctx context.Context, req synth.Request) (io.Reader, error) {
	e.mu.Lock()
	e.requests = append(e.requests, req)
	e.mu.Unlock()

	if e.delay > 0 {
		select {
		case <-time.After(e.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if e.err != nil && (e.failOn == "" || strings.Contains(req.Text, e.failOn)) {
		return nil, e.err
	}
	return bytes.NewReader([]byte("<" + req.Text + ">")), nil
}

func (e *recordingEngine) Voices() []synth.Voice { return nil }
func (e *recordingEngine) Close() error          { return nil }

func (e *recordingEngine) seen() []synth.Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]synth.Request, len(e.requests))
	copy(out, e.requests)
	return out
}

type fakeExtractor struct {
	pages []string
	err   error
}

func (f *fakeExtractor) ExtractPages(_ context.Context, _ []byte) ([]string, error) {
	return f.pages, f.err
}

func TestConvertTextMetadata(t *testing.T) {
	engine := &recordingEngine{}
	p := New(nil, engine, nil, Options{})

	res, err := p.ConvertText(t.Context(), "Hello world. A small but complete document for testing.")
	if err != nil {
		t.Fatalf("ConvertText: %v", err)
	}
	if res.Language != textproc.ScriptLatin {
		t.Errorf("language = %q, want latin", res.Language)
	}
	if res.ChunkCount != 1 {
		t.Errorf("chunks = %d, want 1", res.ChunkCount)
	}
	if res.TextLength == 0 {
		t.Error("text length not reported")
	}
	if len(res.Audio) == 0 {
		t.Error("no audio assembled")
	}
}

func TestConvertTextTooShort(t *testing.T) {
	p := New(nil, &recordingEngine{}, nil, Options{})
	_, err := p.ConvertText(t.Context(), "Hi.")
	if !errors.Is(err, ErrInputTooShort) {
		t.Fatalf("err = %v, want ErrInputTooShort", err)
	}
}

func TestConvertAssemblesInSequenceOrder(t *testing.T) {
	engine := &recordingEngine{}
	p := New(nil, engine, nil, Options{MaxChunkSize: 60})

	var sentences []string
	for i := 0; i < 12; i++ {
		sentences = append(sentences, fmt.Sprintf("Numbered sentence %02d ends here.", i))
	}
	res, err := p.ConvertText(t.Context(), strings.Join(sentences, " "))
	if err != nil {
		t.Fatalf("ConvertText: %v", err)
	}
	if res.ChunkCount < 2 {
		t.Fatalf("chunks = %d, want several", res.ChunkCount)
	}

	// Audio segments appear in chunk order, so the numbered markers must be
	// strictly increasing in the output.
	audio := string(res.Audio)
	last := -1
	for i := 0; i < 12; i++ {
		idx := strings.Index(audio, fmt.Sprintf("%02d", i))
		if idx < 0 {
			t.Fatalf("sentence %02d missing from audio", i)
		}
		if idx < last {
			t.Fatalf("sentence %02d out of order", i)
		}
		last = idx
	}
}

func TestConvertAbortsOnSynthesisError(t *testing.T) {
	engine := &recordingEngine{err: errors.New("boom"), failOn: "02"}
	p := New(nil, engine, nil, Options{MaxChunkSize: 40})

	var sentences []string
	for i := 0; i < 6; i++ {
		sentences = append(sentences, fmt.Sprintf("Numbered sentence %02d ends here.", i))
	}
	res, err := p.ConvertText(t.Context(), strings.Join(sentences, " "))
	if err == nil {
		t.Fatal("expected error")
	}
	if res != nil {
		t.Error("partial result returned alongside error")
	}

	var synthErr *SynthesisError
	if !errors.As(err, &synthErr) {
		t.Fatalf("err = %T, want *SynthesisError", err)
	}
	if synthErr.SequenceIndex < 1 {
		t.Errorf("sequence index = %d", synthErr.SequenceIndex)
	}
}

func TestConvertParallelPreservesOrder(t *testing.T) {
	engine := &recordingEngine{delay: 2 * time.Millisecond}
	p := New(nil, engine, nil, Options{MaxChunkSize: 60, Parallelism: 4})

	var sentences []string
	for i := 0; i < 12; i++ {
		sentences = append(sentences, fmt.Sprintf("Numbered sentence %02d ends here.", i))
	}
	res, err := p.ConvertText(t.Context(), strings.Join(sentences, " "))
	if err != nil {
		t.Fatalf("ConvertText: %v", err)
	}

	audio := string(res.Audio)
	last := -1
	for i := 0; i < 12; i++ {
		idx := strings.Index(audio, fmt.Sprintf("%02d", i))
		if idx < 0 || idx < last {
			t.Fatalf("sentence %02d missing or out of order", i)
		}
		last = idx
	}
}

func TestConvertParallelAbortsOnError(t *testing.T) {
	engine := &recordingEngine{err: errors.New("boom"), failOn: "03", delay: time.Millisecond}
	p := New(nil, engine, nil, Options{MaxChunkSize: 40, Parallelism: 3})

	var sentences []string
	for i := 0; i < 9; i++ {
		sentences = append(sentences, fmt.Sprintf("Numbered sentence %02d ends here.", i))
	}
	res, err := p.ConvertText(t.Context(), strings.Join(sentences, " "))
	if err == nil {
		t.Fatal("expected error")
	}
	if res != nil {
		t.Error("partial result returned alongside error")
	}
}

func TestConvertPassesLanguageInstruction(t *testing.T) {
	engine := &recordingEngine{}
	p := New(nil, engine, nil, Options{})

	_, err := p.ConvertText(t.Context(), "كتاب جيد جدا وهذا نص عربي طويل بما يكفي للتجربة")
	if err != nil {
		t.Fatalf("ConvertText: %v", err)
	}

	reqs := engine.seen()
	if len(reqs) == 0 {
		t.Fatal("engine never called")
	}
	if reqs[0].LanguageInstruction == "" {
		t.Error("arabic text synthesized without a language instruction")
	}
}

func TestConvertPDF(t *testing.T) {
	engine := &recordingEngine{}
	extractor := &fakeExtractor{pages: []string{
		"Page one has some sentences on it.",
		"Page two carries the conclusion of it all.",
	}}
	p := New(extractor, engine, nil, Options{})

	res, err := p.ConvertPDF(t.Context(), []byte("%PDF-fake"))
	if err != nil {
		t.Fatalf("ConvertPDF: %v", err)
	}
	if res.Language != textproc.ScriptLatin {
		t.Errorf("language = %q", res.Language)
	}
	audio := string(res.Audio)
	if !strings.Contains(audio, "Page one") || !strings.Contains(audio, "conclusion") {
		t.Errorf("page text missing from synthesis: %q", audio)
	}
}

func TestConvertPDFExtractionError(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("bad xref")}
	p := New(extractor, &recordingEngine{}, nil, Options{})

	_, err := p.ConvertPDF(t.Context(), []byte("not a pdf"))
	var extractErr *extract.ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("err = %T (%v), want *extract.ExtractionError", err, err)
	}
}
