package pipeline

import (
	"errors"
	"fmt"
)

// ErrInputTooShort reports text below the minimum viable length for
// synthesis, whether it came from extraction or direct entry.
var ErrInputTooShort = errors.New("input text too short for synthesis")

// SynthesisError reports a failed synthesis call for one chunk. The pipeline
// aborts on the first one; no partial audio is ever assembled.
type SynthesisError struct {
	SequenceIndex int
	Cause         error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesize chunk %d: %v", e.SequenceIndex, e.Cause)
}

func (e *SynthesisError) Unwrap() error { return e.Cause }
