package events

import (
	"encoding/json"
	"time"
)

// EventType identifies the kind of event flowing through the system.
type EventType string

const (
	ConversionStarted   EventType = "conversion.started"
	ConversionCompleted EventType = "conversion.completed"
	ConversionFailed    EventType = "conversion.failed"
	WebhookTest         EventType = "webhook.test"
)

// Envelope is the standard event wrapper published to the event bus.
type Envelope struct {
	ID           string            `json:"id"`
	Type         EventType         `json:"type"`
	Source       string            `json:"source"`
	ConversionID string            `json:"conversion_id"`
	Timestamp    time.Time         `json:"timestamp"`
	Data         json.RawMessage   `json:"data"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// ConversionStartedData is the payload for conversion.started events.
type ConversionStartedData struct {
	SourceType string `json:"source_type"` // "pdf" or "text"
	FileName   string `json:"file_name,omitempty"`
	InputBytes int    `json:"input_bytes"`
}

// ConversionCompletedData is the payload for conversion.completed events.
type ConversionCompletedData struct {
	Language   string `json:"language"`
	TextLength int    `json:"text_length"`
	ChunkCount int    `json:"chunk_count"`
	AudioBytes int    `json:"audio_bytes"`
	DurationMs int64  `json:"duration_ms"`
}

// ConversionFailedData is the payload for conversion.failed events.
type ConversionFailedData struct {
	Reason string `json:"reason"` // "extraction", "input_too_short", "synthesis"
	Error  string `json:"error"`
}

// WebhookTestData is the payload for webhook.test events.
type WebhookTestData struct {
	WebhookID string `json:"webhook_id"`
	Message   string `json:"message"`
}
