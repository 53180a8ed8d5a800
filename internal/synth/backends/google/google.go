package google

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"regexp"

	"github.com/docvoice/docvoice/internal/synth"
	"github.com/docvoice/docvoice/internal/synth/backends/restutil"
	"github.com/docvoice/docvoice/internal/synth/registry"
)

func init() {
	registry.TTS.Register("google", func(config map[string]string) (synth.Engine, error) {
		apiKey := config["google_api_key"]
		if apiKey == "" {
			apiKey = config["api_key"]
		}
		if apiKey == "" {
			return nil, fmt.Errorf("google API key required (set google_api_key in config)")
		}
		return &TTS{apiKey: apiKey}, nil
	})
}

type synthRequest struct {
	Input       synthInput       `json:"input"`
	Voice       synthVoice       `json:"voice"`
	AudioConfig synthAudioConfig `json:"audioConfig"`
}

type synthInput struct {
	Text string `json:"text"`
}

type synthVoice struct {
	LanguageCode string `json:"languageCode"`
	Name         string `json:"name"`
}

type synthAudioConfig struct {
	AudioEncoding string  `json:"audioEncoding"`
	SpeakingRate  float64 `json:"speakingRate,omitempty"`
}

type synthResponse struct {
	AudioContent string `json:"audioContent"` // base64-encoded
}

// Google voice names carry their language code as a prefix ("ar-XA-Wavenet-A").
var reVoiceLang = regexp.MustCompile(`^[a-z]{2,3}-[A-Z]{2}`)

// TTS implements synth.Engine using the Google Cloud Text-to-Speech REST API
// with MP3 output. Google takes a language code rather than a free-text
// instruction; the code is derived from the voice name prefix.
type TTS struct {
	apiKey string
}

func (g *TTS) Synthesize(ctx context.Context, req synth.Request) (io.Reader, error) {
	apiURL := "https://texttospeech.googleapis.com/v1/text:synthesize?key=" + g.apiKey

	voice := req.Voice
	if voice == "" {
		voice = "en-US-Neural2-A"
	}
	languageCode := "en-US"
	if m := reVoiceLang.FindString(voice); m != "" {
		languageCode = m
	}

	body := synthRequest{
		Input: synthInput{Text: req.Text},
		Voice: synthVoice{
			LanguageCode: languageCode,
			Name:         voice,
		},
		AudioConfig: synthAudioConfig{
			AudioEncoding: "MP3",
			SpeakingRate:  req.Speed,
		},
	}

	var resp synthResponse
	if err := restutil.DoJSON(ctx, "POST", apiURL, nil, body, &resp); err != nil {
		return nil, fmt.Errorf("google TTS: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("google TTS decode audio: %w", err)
	}

	return bytes.NewReader(audio), nil
}

func (g *TTS) Voices() []synth.Voice {
	return []synth.Voice{
		{ID: "en-US-Neural2-A", Name: "Neural2 A (Female)", Language: "en-US"},
		{ID: "en-US-Neural2-C", Name: "Neural2 C (Female)", Language: "en-US"},
		{ID: "en-US-Studio-M", Name: "Studio M (Male)", Language: "en-US"},
		{ID: "ar-XA-Wavenet-A", Name: "Wavenet A (Arabic)", Language: "ar-XA"},
		{ID: "hi-IN-Wavenet-A", Name: "Wavenet A (Hindi)", Language: "hi-IN"},
		{ID: "ru-RU-Wavenet-A", Name: "Wavenet A (Russian)", Language: "ru-RU"},
	}
}

func (g *TTS) Close() error {
	return nil
}
