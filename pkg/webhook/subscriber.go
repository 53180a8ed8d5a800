package webhook

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/pitabwire/frame/workerpool"
	"github.com/pitabwire/util"

	"github.com/docvoice/docvoice/pkg/events"
)

// Subscriber implements queue.SubscribeWorker on the conversion event stream:
// each conversion.started / conversion.completed / conversion.failed envelope
// fans out to every endpoint subscribed to that event type.
type Subscriber struct {
	Repo      *Repository
	Deliverer *Deliverer
	Pool      workerpool.WorkerPool
}

// Handle is called by frame's pub/sub for each conversion event message.
// Deliveries run off the worker pool so a slow endpoint cannot stall the
// event stream; a full pool drops the delivery rather than blocking.
func (ws *Subscriber) Handle(ctx context.Context, _ map[string]string, message []byte) error {
	var env events.Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		util.Log(ctx).WithError(err).Error("webhook subscriber: unmarshal conversion event")
		return err
	}

	webhooks, err := ws.Repo.ListByEventType(ctx, env.Type)
	if err != nil {
		util.Log(ctx).WithError(err).Error("webhook subscriber: list endpoints")
		return err
	}

	for _, wh := range webhooks {
		wh := wh
		env := env
		if ws.Pool != nil {
			if err := ws.Pool.Submit(ctx, func() {
				ws.Deliverer.Deliver(ctx, wh, env)
			}); err != nil {
				slog.WarnContext(ctx, "webhook pool full, dropping delivery",
					slog.String("webhook_id", wh.ID),
					slog.String("event", string(env.Type)))
			}
		} else {
			go ws.Deliverer.Deliver(ctx, wh, env)
		}
	}

	return nil
}
