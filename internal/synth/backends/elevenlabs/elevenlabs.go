package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/docvoice/docvoice/internal/synth"
	"github.com/docvoice/docvoice/internal/synth/backends/restutil"
	"github.com/docvoice/docvoice/internal/synth/registry"
)

func init() {
	registry.TTS.Register("elevenlabs", func(config map[string]string) (synth.Engine, error) {
		apiKey := config["elevenlabs_api_key"]
		if apiKey == "" {
			apiKey = config["api_key"]
		}
		if apiKey == "" {
			return nil, fmt.Errorf("elevenlabs API key required (set elevenlabs_api_key in config)")
		}
		model := config["model"]
		if model == "" {
			model = "eleven_multilingual_v2"
		}
		return &TTS{apiKey: apiKey, model: model}, nil
	})
}

type speechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Speed           float64 `json:"speed,omitempty"`
}

// TTS implements synth.Engine using the ElevenLabs REST API with MP3 output.
// The multilingual model infers pronunciation from the text itself, so the
// language instruction is not forwarded.
type TTS struct {
	apiKey string
	model  string
}

func (e *TTS) Synthesize(ctx context.Context, req synth.Request) (io.Reader, error) {
	voice := req.Voice
	if voice == "" {
		voice = "21m00Tcm4TlvDq8ikWAM" // Rachel (default)
	}
	model := req.Model
	if model == "" {
		model = e.model
	}

	apiURL := fmt.Sprintf("https://api.elevenlabs.io/v1/text-to-speech/%s?output_format=mp3_44100_128", voice)

	headers := map[string]string{
		"xi-api-key":   e.apiKey,
		"Content-Type": "application/json",
	}

	body := speechRequest{
		Text:    req.Text,
		ModelID: model,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
			Speed:           req.Speed,
		},
	}

	resp, err := restutil.DoRaw(ctx, "POST", apiURL, headers, marshalJSON(body))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs TTS: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs TTS read: %w", err)
	}
	return bytes.NewReader(audio), nil
}

func (e *TTS) Voices() []synth.Voice {
	return []synth.Voice{
		{ID: "21m00Tcm4TlvDq8ikWAM", Name: "Rachel", Language: "en"},
		{ID: "AZnzlk1XvdvUeBnXmlld", Name: "Domi", Language: "en"},
		{ID: "EXAVITQu4vr4xnSDxMaL", Name: "Bella", Language: "en"},
		{ID: "ErXwobaYiN019PkySvjV", Name: "Antoni", Language: "en"},
	}
}

func (e *TTS) Close() error {
	return nil
}

func marshalJSON(v any) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}
