package synth

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
)

type stubEngine struct {
	err    error
	audio  []byte
	calls  int
	closed bool
}

func (s *stubEngine) Synthesize(_ context.Context, _ Request) (io.Reader, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return bytes.NewReader(s.audio), nil
}

func (s *stubEngine) Voices() []Voice {
	return []Voice{{ID: "stub", Name: "Stub", Language: "en"}}
}

func (s *stubEngine) Close() error {
	s.closed = true
	return nil
}

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("insufficient_quota: hard limit reached"), true},
		{errors.New("You exceeded your current quota"), true},
		{errors.New("HTTP 429 Too Many Requests"), true},
		{errors.New("Rate limit reached for tts-1-hd"), true},
		{errors.New("invalid api key"), false},
		{errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		if got := IsQuotaError(tt.err); got != tt.want {
			t.Errorf("IsQuotaError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestFailoverAdvancesOnQuota(t *testing.T) {
	exhausted := &stubEngine{err: errors.New("insufficient_quota")}
	healthy := &stubEngine{audio: []byte("mp3")}
	f := NewFailover(exhausted, healthy)

	r, err := f.Synthesize(t.Context(), Request{Text: "hello"})
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	out, _ := io.ReadAll(r)
	if string(out) != "mp3" {
		t.Errorf("audio = %q", out)
	}
	if exhausted.calls != 1 || healthy.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", exhausted.calls, healthy.calls)
	}
}

func TestFailoverAbortsOnNonQuotaError(t *testing.T) {
	authErr := errors.New("invalid api key")
	broken := &stubEngine{err: authErr}
	never := &stubEngine{audio: []byte("mp3")}
	f := NewFailover(broken, never)

	_, err := f.Synthesize(t.Context(), Request{Text: "hello"})
	if !errors.Is(err, authErr) {
		t.Fatalf("err = %v, want %v", err, authErr)
	}
	if never.calls != 0 {
		t.Errorf("second engine called %d times after a non-quota failure", never.calls)
	}
}

func TestFailoverAllExhausted(t *testing.T) {
	a := &stubEngine{err: errors.New("quota exceeded on key A")}
	b := &stubEngine{err: errors.New("quota exceeded on key B")}
	f := NewFailover(a, b)

	_, err := f.Synthesize(t.Context(), Request{Text: "hello"})
	if err == nil {
		t.Fatal("expected error when every engine is exhausted")
	}
	if !IsQuotaError(err) {
		t.Errorf("final error should be the last quota error, got %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", a.calls, b.calls)
	}
}

func TestFailoverNoEngines(t *testing.T) {
	f := NewFailover()
	if _, err := f.Synthesize(t.Context(), Request{Text: "hello"}); err == nil {
		t.Fatal("expected error with no engines")
	}
}

func TestFailoverVoicesAndClose(t *testing.T) {
	a := &stubEngine{}
	b := &stubEngine{}
	f := NewFailover(a, b)

	voices := f.Voices()
	if len(voices) != 1 || voices[0].ID != "stub" {
		t.Errorf("voices = %+v", voices)
	}

	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !a.closed || !b.closed {
		t.Error("not every engine was closed")
	}
}
