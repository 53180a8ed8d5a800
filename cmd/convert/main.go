// Command convert turns a PDF or text file into an MP3 from the command line,
// using the same pipeline as the docvoice service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/docvoice/docvoice/internal/extract"
	"github.com/docvoice/docvoice/internal/pipeline"
	"github.com/docvoice/docvoice/internal/synth/registry"
	"github.com/docvoice/docvoice/internal/textproc"

	// Register synthesis backends via init().
	_ "github.com/docvoice/docvoice/internal/synth/backends/elevenlabs"
	_ "github.com/docvoice/docvoice/internal/synth/backends/google"
	_ "github.com/docvoice/docvoice/internal/synth/backends/openai"
)

func main() {
	var (
		input    = flag.String("in", "", "input file (.pdf or .txt)")
		output   = flag.String("out", "", "output MP3 file (default: input name with .mp3)")
		backend  = flag.String("backend", envOr("TTS_BACKEND", "openai"), "synthesis backend")
		voice    = flag.String("voice", envOr("VOICE", "fable"), "voice ID")
		model    = flag.String("model", envOr("MODEL", "tts-1-hd"), "synthesis model")
		speed    = flag.Float64("speed", 0.85, "speech speed")
		parallel = flag.Int("parallel", 1, "concurrent synthesis calls")
		lexDir   = flag.String("lexicon", os.Getenv("LEXICON_DIR"), "directory of lexicon YAML files")
	)
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	out := *output
	if out == "" {
		ext := filepath.Ext(*input)
		out = strings.TrimSuffix(*input, ext) + ".mp3"
	}

	engine, err := registry.TTS.Create(*backend, map[string]string{
		"openai_api_key":     os.Getenv("OPENAI_API_KEY"),
		"openai_base_url":    os.Getenv("OPENAI_BASE_URL"),
		"google_api_key":     os.Getenv("GOOGLE_API_KEY"),
		"elevenlabs_api_key": os.Getenv("ELEVENLABS_API_KEY"),
		"model":              *model,
		"speed":              fmt.Sprintf("%g", *speed),
	})
	if err != nil {
		log.Fatalf("creating %s backend: %v", *backend, err)
	}
	defer engine.Close()

	lexicon := textproc.DefaultLexicon()
	if *lexDir != "" {
		if err := lexicon.LoadDir(*lexDir); err != nil {
			log.Fatalf("loading lexicon: %v", err)
		}
	}

	pipe := pipeline.New(
		extract.NewPDFExtractor(),
		engine,
		textproc.NewOptimizer(lexicon),
		pipeline.Options{
			Voice:       *voice,
			Model:       *model,
			Speed:       *speed,
			Parallelism: *parallel,
		},
	)

	ctx := context.Background()
	result, err := run(ctx, pipe, *input)
	if err != nil {
		log.Fatalf("converting %s: %v", *input, err)
	}

	if err := os.WriteFile(out, result.Audio, 0o644); err != nil {
		log.Fatalf("writing %s: %v", out, err)
	}

	fmt.Printf("wrote %s (%d bytes, %s, %d chunks, %d chars)\n",
		out, len(result.Audio), result.Language, result.ChunkCount, result.TextLength)
}

func run(ctx context.Context, pipe *pipeline.Pipeline, input string) (*pipeline.Result, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(input), ".pdf") {
		return pipe.ConvertPDF(ctx, data)
	}
	return pipe.ConvertText(ctx, string(data))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
