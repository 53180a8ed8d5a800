package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pitabwire/frame/queue"
	"github.com/rs/xid"
)

// Publisher wraps frame's queue manager to emit typed conversion events.
type Publisher struct {
	queueMgr queue.Manager
	source   string
	queueRef string
}

// NewPublisher creates a publisher that emits events to the given queue
// reference.
func NewPublisher(queueMgr queue.Manager, source string, queueRef string) *Publisher {
	return &Publisher{
		queueMgr: queueMgr,
		source:   source,
		queueRef: queueRef,
	}
}

// Emit publishes a typed event to the event bus.
func (p *Publisher) Emit(ctx context.Context, eventType EventType, conversionID string, data interface{}) error {
	envelope := Envelope{
		ID:           xid.New().String(),
		Type:         eventType,
		Source:       p.source,
		ConversionID: conversionID,
		Timestamp:    time.Now().UTC(),
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	envelope.Data = raw

	return p.queueMgr.Publish(ctx, p.queueRef, envelope)
}
