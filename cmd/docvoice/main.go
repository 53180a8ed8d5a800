package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/pitabwire/frame"
	"github.com/pitabwire/frame/config"
	"github.com/pitabwire/frame/workerpool"

	dvconfig "github.com/docvoice/docvoice/config"
	"github.com/docvoice/docvoice/internal/convert"
	"github.com/docvoice/docvoice/internal/extract"
	"github.com/docvoice/docvoice/internal/httputil"
	"github.com/docvoice/docvoice/internal/pipeline"
	"github.com/docvoice/docvoice/internal/synth"
	"github.com/docvoice/docvoice/internal/synth/registry"
	"github.com/docvoice/docvoice/internal/textproc"
	"github.com/docvoice/docvoice/pkg/events"
	"github.com/docvoice/docvoice/pkg/history"
	"github.com/docvoice/docvoice/pkg/webhook"
	webhookapi "github.com/docvoice/docvoice/pkg/webhook/api"

	// Register synthesis backends via init().
	_ "github.com/docvoice/docvoice/internal/synth/backends/elevenlabs"
	_ "github.com/docvoice/docvoice/internal/synth/backends/google"
	_ "github.com/docvoice/docvoice/internal/synth/backends/openai"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadWithOIDC[dvconfig.ServiceConfig](ctx)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	eventRef := cfg.GetEventsQueueName()
	eventURL := cfg.GetEventsQueueURL()

	ctx, srv := frame.NewService(
		frame.WithConfig(&cfg),
		frame.WithName("docvoice"),
		frame.WithRegisterServerOauth2Client(),
		frame.WithDatastore(),
		frame.WithRegisterPublisher(eventRef, eventURL),
		frame.WithWorkerPoolOptions(
			workerpool.WithPoolCount(cfg.WorkerPoolCount),
			workerpool.WithSinglePoolCapacity(cfg.WorkerPoolCapacity),
		),
	)
	defer srv.Stop(ctx)

	pool, err := srv.WorkManager().GetPool()
	if err != nil {
		log.Fatalf("getting worker pool: %v", err)
	}

	authenticator := srv.SecurityManager().GetAuthenticator(ctx)

	pub := events.NewPublisher(srv.QueueManager(), "docvoice", eventRef)

	// --- Synthesis engine ---
	engine, err := buildEngine(&cfg)
	if err != nil {
		log.Fatalf("building synthesis engine: %v", err)
	}
	defer engine.Close()

	// --- Lexicon with optional hot reload ---
	lexicon := textproc.DefaultLexicon()
	if cfg.LexiconDir != "" {
		if err := lexicon.LoadDir(cfg.LexiconDir); err != nil {
			log.Printf("warning: loading lexicon: %v", err)
		} else {
			_ = pool.Submit(ctx, func() {
				if err := lexicon.WatchAndReload(ctx.Done()); err != nil {
					log.Printf("warning: lexicon watch stopped: %v", err)
				}
			})
		}
	}

	// --- Pipeline ---
	pipe := pipeline.New(
		extract.NewPDFExtractor(),
		engine,
		textproc.NewOptimizer(lexicon),
		pipeline.Options{
			MaxChunkSize:  cfg.MaxChunkSize,
			MinTextLength: cfg.MinTextLength,
			Voice:         cfg.Voice,
			Model:         cfg.Model,
			Speed:         cfg.SpeechSpeed,
			Parallelism:   cfg.SynthesisParallelism,
		},
	)

	// --- Persistence and webhooks ---
	dbPool := srv.DatastoreManager().GetPool(ctx, "__default__pool_name__")
	histRepo := history.NewRepository(dbPool)
	whRepo := webhook.NewRepository(dbPool)
	whDeliverer := webhook.NewDeliverer(whRepo, webhook.DelivererConfig{
		MaxRetries:        cfg.WebhookMaxRetries,
		TimeoutSec:        cfg.WebhookTimeoutSec,
		BackoffInitialSec: cfg.WebhookBackoffSec,
		BackoffMaxSec:     cfg.WebhookBackoffMax,
	}, pool)
	whSubscriber := &webhook.Subscriber{
		Repo:      whRepo,
		Deliverer: whDeliverer,
		Pool:      pool,
	}

	// --- HTTP Mux ---
	mux := http.NewServeMux()

	convHandler := convert.NewHandler(pipe, engine, histRepo, pub, cfg.MaxUploadBytes)
	convHandler.RegisterRoutes(mux)

	whHandler := webhookapi.NewHandler(whRepo, pub)
	whHandler.RegisterRoutes(mux)

	handler := httputil.LoggingMiddleware(mux)
	handler = httputil.AuthenticatedMiddleware(handler, authenticator)

	srv.Init(ctx,
		frame.WithRegisterSubscriber(eventRef+".webhooks", eventURL, whSubscriber),
		frame.WithHTTPHandler(httputil.H2CHandler(handler)),
	)

	if err := srv.Run(ctx, ""); err != nil {
		log.Fatalf("service exited: %v", err)
	}
}

// buildEngine constructs the synthesis engine from configuration. The openai
// backend gets one engine per configured credential wrapped in a failover so
// quota exhaustion rotates to the next key.
func buildEngine(cfg *dvconfig.ServiceConfig) (synth.Engine, error) {
	if cfg.TTSBackend == "openai" {
		keys := cfg.CredentialList()
		if len(keys) == 0 {
			return nil, fmt.Errorf("no OpenAI API keys configured")
		}
		engines := make([]synth.Engine, 0, len(keys))
		for _, key := range keys {
			eng, err := registry.TTS.Create("openai", map[string]string{
				"openai_api_key":  key,
				"openai_base_url": cfg.OpenAIBaseURL,
				"model":           cfg.Model,
				"speed":           fmt.Sprintf("%g", cfg.SpeechSpeed),
			})
			if err != nil {
				return nil, err
			}
			engines = append(engines, eng)
		}
		return synth.NewFailover(engines...), nil
	}

	return registry.TTS.Create(cfg.TTSBackend, map[string]string{
		"google_api_key":     cfg.GoogleAPIKey,
		"elevenlabs_api_key": cfg.ElevenLabsAPIKey,
		"model":              cfg.Model,
		"speed":              fmt.Sprintf("%g", cfg.SpeechSpeed),
	})
}
