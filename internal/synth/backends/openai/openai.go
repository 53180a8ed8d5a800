package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/docvoice/docvoice/internal/synth"
	"github.com/docvoice/docvoice/internal/synth/backends/restutil"
	"github.com/docvoice/docvoice/internal/synth/registry"
)

func init() {
	registry.TTS.Register("openai", func(config map[string]string) (synth.Engine, error) {
		apiKey := config["openai_api_key"]
		if apiKey == "" {
			apiKey = config["api_key"]
		}
		if apiKey == "" {
			return nil, fmt.Errorf("openai API key required (set openai_api_key in config)")
		}
		baseURL := config["openai_base_url"]
		if baseURL == "" {
			baseURL = config["base_url"]
		}
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1"
		}
		model := config["model"]
		if model == "" {
			model = "tts-1-hd"
		}
		speed := 0.0
		if s := config["speed"]; s != "" {
			if v, err := strconv.ParseFloat(s, 64); err == nil {
				speed = v
			}
		}
		return &TTS{apiKey: apiKey, baseURL: baseURL, model: model, speed: speed}, nil
	})
}

// TTS implements synth.Engine using the OpenAI-compatible speech API,
// requesting MP3 so segments can be concatenated directly.
type TTS struct {
	apiKey  string
	baseURL string
	model   string
	speed   float64
}

type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed,omitempty"`
	Instructions   string  `json:"instructions,omitempty"`
}

func (o *TTS) Synthesize(ctx context.Context, req synth.Request) (io.Reader, error) {
	voice := req.Voice
	if voice == "" {
		voice = "fable"
	}
	model := req.Model
	if model == "" {
		model = o.model
	}
	speed := req.Speed
	if speed == 0 {
		speed = o.speed
	}

	body := speechRequest{
		Model:          model,
		Input:          req.Text,
		Voice:          voice,
		ResponseFormat: "mp3",
		Speed:          speed,
		Instructions:   req.LanguageInstruction,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + o.apiKey,
		"Content-Type":  "application/json",
	}

	resp, err := restutil.DoRaw(ctx, "POST", o.baseURL+"/audio/speech", headers, marshalJSON(body))
	if err != nil {
		return nil, fmt.Errorf("openai TTS: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("openai TTS read: %w", err)
	}
	return bytes.NewReader(audio), nil
}

func (o *TTS) Voices() []synth.Voice {
	return []synth.Voice{
		{ID: "alloy", Name: "Alloy", Language: "en"},
		{ID: "echo", Name: "Echo", Language: "en"},
		{ID: "fable", Name: "Fable", Language: "en"},
		{ID: "onyx", Name: "Onyx", Language: "en"},
		{ID: "nova", Name: "Nova", Language: "en"},
		{ID: "shimmer", Name: "Shimmer", Language: "en"},
	}
}

func (o *TTS) Close() error {
	return nil
}

func marshalJSON(v any) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}
