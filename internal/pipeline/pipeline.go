// Package pipeline sequences a document conversion: extract, normalize,
// optimize, detect language, segment, synthesize per chunk, assemble.
package pipeline

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"unicode/utf8"

	"github.com/docvoice/docvoice/internal/audio"
	"github.com/docvoice/docvoice/internal/extract"
	"github.com/docvoice/docvoice/internal/synth"
	"github.com/docvoice/docvoice/internal/textproc"
)

// Options tune one pipeline instance. Zero values fall back to defaults.
type Options struct {
	// MaxChunkSize bounds segmentation; must sit below the engine's hard
	// input cap. Defaults to synth.DefaultChunkSize.
	MaxChunkSize int
	// MinTextLength is the shortest processed text worth synthesizing.
	MinTextLength int
	Voice         string
	Model         string
	Speed         float64
	// Parallelism above 1 issues that many chunk synthesis calls at once.
	// Assembly always follows chunk sequence order, not completion order.
	Parallelism int
}

// Result is one finished conversion.
type Result struct {
	// Audio is the assembled MP3 stream.
	Audio []byte
	// Language is the document's dominant script.
	Language textproc.Script
	// TextLength is the character count of the processed text.
	TextLength int
	ChunkCount int
}

// Pipeline converts documents to speech audio. All state is per-call; a
// single Pipeline is safe for concurrent requests.
type Pipeline struct {
	extractor extract.PageExtractor
	engine    synth.Engine
	optimizer *textproc.Optimizer
	opts      Options
}

// New creates a pipeline. The extractor may be nil when only ConvertText is
// used; optimizer nil falls back to the built-in lexicon.
func New(extractor extract.PageExtractor, engine synth.Engine, optimizer *textproc.Optimizer, opts Options) *Pipeline {
	if opts.MaxChunkSize <= 0 {
		opts.MaxChunkSize = synth.DefaultChunkSize
	}
	if opts.MinTextLength <= 0 {
		opts.MinTextLength = extract.MinTextLength
	}
	if optimizer == nil {
		optimizer = textproc.NewOptimizer(nil)
	}
	return &Pipeline{
		extractor: extractor,
		engine:    engine,
		optimizer: optimizer,
		opts:      opts,
	}
}

// ConvertPDF extracts the PDF's text layer and converts it.
// Returns *extract.ExtractionError for unreadable or image-only documents.
func (p *Pipeline) ConvertPDF(ctx context.Context, data []byte) (*Result, error) {
	text, err := extract.Text(ctx, p.extractor, data)
	if err != nil {
		return nil, err
	}
	return p.convert(ctx, text)
}

// ConvertText converts directly entered text.
func (p *Pipeline) ConvertText(ctx context.Context, raw string) (*Result, error) {
	return p.convert(ctx, textproc.Normalize(raw))
}

func (p *Pipeline) convert(ctx context.Context, normalized string) (*Result, error) {
	cleaned := textproc.CleanText(normalized)
	optimized := p.optimizer.Optimize(cleaned)

	length := utf8.RuneCountInString(optimized)
	if length < p.opts.MinTextLength {
		return nil, ErrInputTooShort
	}

	script := textproc.DetectScript(optimized)
	chunks := textproc.Segment(optimized, p.opts.MaxChunkSize)
	if len(chunks) == 0 {
		return nil, ErrInputTooShort
	}

	slog.InfoContext(ctx, "converting document",
		slog.Int("text_length", length),
		slog.String("language", string(script)),
		slog.Int("chunks", len(chunks)),
	)

	segments, err := p.synthesizeAll(ctx, chunks, script)
	if err != nil {
		return nil, err
	}

	return &Result{
		Audio:      audio.Assemble(segments),
		Language:   script,
		TextLength: length,
		ChunkCount: len(chunks),
	}, nil
}

func (p *Pipeline) synthesizeAll(ctx context.Context, chunks []textproc.Chunk, script textproc.Script) ([][]byte, error) {
	if p.opts.Parallelism > 1 && len(chunks) > 1 {
		return p.synthesizeParallel(ctx, chunks, script)
	}

	segments := make([][]byte, 0, len(chunks))
	for _, c := range chunks {
		seg, err := p.synthesizeChunk(ctx, c, script)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// synthesizeParallel issues bounded concurrent synthesis calls. Each result
// lands in its chunk's slot, so assembly order matches sequence order no
// matter which call finishes first. The first failure cancels the rest.
func (p *Pipeline) synthesizeParallel(ctx context.Context, chunks []textproc.Chunk, script textproc.Script) ([][]byte, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	segments := make([][]byte, len(chunks))
	sem := make(chan struct{}, p.opts.Parallelism)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for i, c := range chunks {
		wg.Add(1)
		go func(slot int, c textproc.Chunk) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			seg, err := p.synthesizeChunk(ctx, c, script)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				cancel()
				return
			}
			segments[slot] = seg
		}(i, c)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return segments, nil
}

func (p *Pipeline) synthesizeChunk(ctx context.Context, c textproc.Chunk, script textproc.Script) ([]byte, error) {
	req := synth.Request{
		Text:                c.Text,
		LanguageInstruction: synth.InstructionForScript(script),
		Voice:               p.opts.Voice,
		Model:               p.opts.Model,
		Speed:               p.opts.Speed,
	}

	r, err := p.engine.Synthesize(ctx, req)
	if err != nil {
		return nil, &SynthesisError{SequenceIndex: c.SequenceIndex, Cause: err}
	}

	seg, err := io.ReadAll(r)
	if err != nil {
		return nil, &SynthesisError{SequenceIndex: c.SequenceIndex, Cause: err}
	}
	return seg, nil
}
