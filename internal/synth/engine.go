package synth

import (
	"context"
	"io"
)

// MaxEngineInput is the hard per-request text cap documented by the hosted
// speech APIs (OpenAI: 4096 characters). Chunking must stay below it.
const MaxEngineInput = 4096

// DefaultChunkSize is the segmentation bound used when none is configured;
// it sits under MaxEngineInput with a safety margin for pause markers the
// optimizer appends.
const DefaultChunkSize = 3800

// Request is one chunk synthesis call.
type Request struct {
	// Text must not exceed MaxEngineInput characters.
	Text string
	// LanguageInstruction is an optional pronunciation hint derived from the
	// document's dominant script. Backends that cannot express it ignore it.
	LanguageInstruction string
	Voice               string
	Model               string
	// Speed is the playback rate multiplier; zero means engine default.
	Speed float64
}

// Voice describes an available synthesis voice.
type Voice struct {
	ID       string
	Name     string
	Language string
}

// Engine synthesizes speech audio (MP3) from text.
type Engine interface {
	Synthesize(ctx context.Context, req Request) (io.Reader, error)
	Voices() []Voice
	Close() error
}
