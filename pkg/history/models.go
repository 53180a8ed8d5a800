// Package history persists per-conversion records for listing and auditing.
// The conversion pipeline itself stays stateless; the service layer records
// outcomes here after the fact.
package history

import "github.com/pitabwire/frame/data"

// Conversion is one finished (or failed) conversion request.
type Conversion struct {
	data.BaseModel

	SourceType string `gorm:"type:varchar(10);not null;index:idx_conv_source" json:"source_type"`
	FileName   string `gorm:"type:varchar(512)"                               json:"file_name,omitempty"`
	TextLength int    `gorm:"default:0"                                       json:"text_length"`
	Language   string `gorm:"type:varchar(20)"                                json:"language"`
	ChunkCount int    `gorm:"default:0"                                       json:"chunk_count"`
	AudioBytes int    `gorm:"default:0"                                       json:"audio_bytes"`
	Voice      string `gorm:"type:varchar(50)"                                json:"voice,omitempty"`
	Backend    string `gorm:"type:varchar(50)"                                json:"backend,omitempty"`
	Status     string `gorm:"type:varchar(20);not null;index:idx_conv_status" json:"status"`
	Error      string `gorm:"type:text"                                       json:"error,omitempty"`
	DurationMs int64  `gorm:"default:0"                                       json:"duration_ms"`
}

func (Conversion) TableName() string { return "conversions" }

// Conversion status values.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)
