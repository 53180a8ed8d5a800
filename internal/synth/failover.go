package synth

import (
	"context"
	"errors"
	"io"
	"strings"
)

// quotaMarkers are the substrings hosted speech APIs use for exhausted-quota
// and rate-limit failures. These are the only failures worth trying another
// credential for; auth or input errors fail the same way everywhere.
var quotaMarkers = []string{
	"quota",
	"insufficient_quota",
	"rate limit",
	"too many requests",
	"429",
}

// IsQuotaError reports whether err looks like a quota or rate-limit failure,
// i.e. one that a different credential (or a later retry) could get past.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range quotaMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// Failover tries a fixed, ordered list of engines (typically the same
// backend built with different credentials) until one succeeds. Quota-class
// failures advance to the next engine; any other failure aborts immediately
// so auth and input errors surface once, not per credential. Each attempt is
// independent; Failover keeps no state between calls.
type Failover struct {
	engines []Engine
}

// NewFailover creates a failover engine over the given candidates, in order.
func NewFailover(engines ...Engine) *Failover {
	return &Failover{engines: engines}
}

func (f *Failover) Synthesize(ctx context.Context, req Request) (io.Reader, error) {
	if len(f.engines) == 0 {
		return nil, errors.New("no synthesis engines configured")
	}

	var lastErr error
	for _, e := range f.engines {
		audio, err := e.Synthesize(ctx, req)
		if err == nil {
			return audio, nil
		}
		lastErr = err
		if !IsQuotaError(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (f *Failover) Voices() []Voice {
	if len(f.engines) == 0 {
		return nil
	}
	return f.engines[0].Voices()
}

func (f *Failover) Close() error {
	var errs []error
	for _, e := range f.engines {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
