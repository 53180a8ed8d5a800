// Package config defines environment-driven configuration for the docvoice
// service and CLI.
package config

import (
	"strings"

	"github.com/pitabwire/frame/config"
)

// ServiceConfig holds configuration for the docvoice service.
type ServiceConfig struct {
	config.ConfigurationDefault

	// Synthesis backend and credentials.
	TTSBackend         string `envDefault:"openai"                        env:"TTS_BACKEND"`
	OpenAIAPIKey       string `envDefault:""                              env:"OPENAI_API_KEY"`
	OpenAIAPIKeysExtra string `envDefault:""                              env:"OPENAI_API_KEYS_EXTRA"`
	OpenAIBaseURL      string `envDefault:"https://api.openai.com/v1"     env:"OPENAI_BASE_URL"`
	GoogleAPIKey       string `envDefault:""                              env:"GOOGLE_API_KEY"`
	ElevenLabsAPIKey   string `envDefault:""                              env:"ELEVENLABS_API_KEY"`

	// Voice and delivery.
	Voice       string  `envDefault:"fable"    env:"VOICE"`
	Model       string  `envDefault:"tts-1-hd" env:"MODEL"`
	SpeechSpeed float64 `envDefault:"0.85"     env:"SPEECH_SPEED"`

	// Pipeline tuning.
	MaxChunkSize         int    `envDefault:"3800"     env:"MAX_CHUNK_SIZE"`
	MinTextLength        int    `envDefault:"10"       env:"MIN_TEXT_LENGTH"`
	MaxUploadBytes       int64  `envDefault:"52428800" env:"MAX_UPLOAD_BYTES"`
	SynthesisParallelism int    `envDefault:"1"        env:"SYNTHESIS_PARALLELISM"`
	LexiconDir           string `envDefault:""         env:"LEXICON_DIR"`

	// Webhooks.
	WebhookWorkers    int `envDefault:"16"  env:"WEBHOOK_WORKERS"`
	WebhookMaxRetries int `envDefault:"5"   env:"WEBHOOK_MAX_RETRIES"`
	WebhookTimeoutSec int `envDefault:"10"  env:"WEBHOOK_TIMEOUT_SEC"`
	WebhookBackoffSec int `envDefault:"1"   env:"WEBHOOK_BACKOFF_INITIAL_SEC"`
	WebhookBackoffMax int `envDefault:"300" env:"WEBHOOK_BACKOFF_MAX_SEC"`
}

// CredentialList returns the OpenAI API keys in rotation order: the primary
// key first, then any extras. Empty entries are dropped.
func (c *ServiceConfig) CredentialList() []string {
	keys := make([]string, 0, 4)
	if c.OpenAIAPIKey != "" {
		keys = append(keys, c.OpenAIAPIKey)
	}
	for _, k := range strings.Split(c.OpenAIAPIKeysExtra, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
