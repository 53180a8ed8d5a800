// Package convert exposes the document-to-speech pipeline over HTTP.
package convert

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/docvoice/docvoice/internal/extract"
	"github.com/docvoice/docvoice/internal/pipeline"
	"github.com/docvoice/docvoice/internal/synth"
	"github.com/docvoice/docvoice/pkg/events"
	"github.com/docvoice/docvoice/pkg/history"
)

const defaultMaxUploadBytes = 50 << 20

// Handler provides REST endpoints for document conversion.
type Handler struct {
	pipe           *pipeline.Pipeline
	engine         synth.Engine
	history        *history.Repository
	publisher      *events.Publisher
	maxUploadBytes int64
}

// NewHandler creates a conversion handler. The history repository and event
// publisher may be nil; conversions then run without persistence or events.
func NewHandler(pipe *pipeline.Pipeline, engine synth.Engine, hist *history.Repository, publisher *events.Publisher, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{
		pipe:           pipe,
		engine:         engine,
		history:        hist,
		publisher:      publisher,
		maxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes registers all conversion API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/convert", h.Convert)
	mux.HandleFunc("GET /v1/voices", h.ListVoices)
	mux.HandleFunc("POST /v1/voices/preview", h.PreviewVoice)
	mux.HandleFunc("GET /v1/conversions", h.ListConversions)
	mux.HandleFunc("GET /v1/conversions/{id}", h.GetConversion)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// Convert handles POST /v1/convert. Multipart uploads carry a PDF in the
// "file" field; JSON bodies carry raw text. Responds with the assembled MP3.
func (h *Handler) Convert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	ctx := r.Context()

	conversionID := xid.New().String()
	start := time.Now()

	var (
		result     *pipeline.Result
		err        error
		sourceType string
		fileName   string
		inputBytes int
	)

	contentType := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		sourceType = "pdf"
		file, header, ferr := r.FormFile("file")
		if ferr != nil {
			writeError(w, http.StatusBadRequest, "missing file field")
			return
		}
		defer file.Close()
		fileName = header.Filename

		data, rerr := io.ReadAll(file)
		if rerr != nil {
			writeError(w, http.StatusBadRequest, "failed to read upload")
			return
		}
		inputBytes = len(data)

		h.emit(ctx, events.ConversionStarted, conversionID, events.ConversionStartedData{
			SourceType: sourceType,
			FileName:   fileName,
			InputBytes: inputBytes,
		})
		result, err = h.pipe.ConvertPDF(ctx, data)

	case strings.HasPrefix(contentType, "application/json"):
		sourceType = "text"
		var req TextRequest
		if derr := json.NewDecoder(r.Body).Decode(&req); derr != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		inputBytes = len(req.Text)

		h.emit(ctx, events.ConversionStarted, conversionID, events.ConversionStartedData{
			SourceType: sourceType,
			InputBytes: inputBytes,
		})
		result, err = h.pipe.ConvertText(ctx, req.Text)

	default:
		writeError(w, http.StatusUnsupportedMediaType, "expected multipart/form-data or application/json")
		return
	}

	durationMs := time.Since(start).Milliseconds()

	if err != nil {
		h.recordFailure(ctx, conversionID, sourceType, fileName, durationMs, err)
		h.writeConvertError(w, err)
		return
	}

	h.record(ctx, &history.Conversion{
		SourceType: sourceType,
		FileName:   fileName,
		TextLength: result.TextLength,
		Language:   string(result.Language),
		ChunkCount: result.ChunkCount,
		AudioBytes: len(result.Audio),
		Status:     history.StatusCompleted,
		DurationMs: durationMs,
	}, conversionID)

	h.emit(ctx, events.ConversionCompleted, conversionID, events.ConversionCompletedData{
		Language:   string(result.Language),
		TextLength: result.TextLength,
		ChunkCount: result.ChunkCount,
		AudioBytes: len(result.Audio),
		DurationMs: durationMs,
	})

	slog.InfoContext(ctx, "conversion finished",
		slog.String("conversion_id", conversionID),
		slog.String("source", sourceType),
		slog.Int("chunks", result.ChunkCount),
		slog.Int64("duration_ms", durationMs),
	)

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("X-Docvoice-Conversion", conversionID)
	w.Header().Set("X-Docvoice-Language", string(result.Language))
	w.Header().Set("X-Docvoice-Text-Length", strconv.Itoa(result.TextLength))
	w.Header().Set("X-Docvoice-Chunks", strconv.Itoa(result.ChunkCount))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Audio)
}

func (h *Handler) writeConvertError(w http.ResponseWriter, err error) {
	var extractErr *extract.ExtractionError
	if errors.As(err, &extractErr) {
		writeError(w, http.StatusUnprocessableEntity,
			"could not extract text; provide a PDF with selectable text")
		return
	}
	if errors.Is(err, pipeline.ErrInputTooShort) {
		writeError(w, http.StatusBadRequest, "document text is too short to convert")
		return
	}
	var synthErr *pipeline.SynthesisError
	if errors.As(err, &synthErr) {
		if synth.IsQuotaError(synthErr.Cause) {
			writeError(w, http.StatusTooManyRequests, "synthesis quota exhausted on all credentials")
			return
		}
		writeError(w, http.StatusBadGateway, "speech synthesis failed")
		return
	}
	writeError(w, http.StatusInternalServerError, "conversion failed")
}

func failureReason(err error) string {
	var extractErr *extract.ExtractionError
	if errors.As(err, &extractErr) {
		return "extraction"
	}
	if errors.Is(err, pipeline.ErrInputTooShort) {
		return "input_too_short"
	}
	var synthErr *pipeline.SynthesisError
	if errors.As(err, &synthErr) {
		return "synthesis"
	}
	return "internal"
}

func (h *Handler) recordFailure(ctx context.Context, conversionID, sourceType, fileName string, durationMs int64, err error) {
	h.record(ctx, &history.Conversion{
		SourceType: sourceType,
		FileName:   fileName,
		Status:     history.StatusFailed,
		Error:      err.Error(),
		DurationMs: durationMs,
	}, conversionID)

	h.emit(ctx, events.ConversionFailed, conversionID, events.ConversionFailedData{
		Reason: failureReason(err),
		Error:  err.Error(),
	})
}

func (h *Handler) record(ctx context.Context, conv *history.Conversion, conversionID string) {
	if h.history == nil {
		return
	}
	conv.ID = conversionID
	if err := h.history.Create(ctx, conv); err != nil {
		slog.ErrorContext(ctx, "record conversion failed", slog.String("error", err.Error()))
	}
}

func (h *Handler) emit(ctx context.Context, eventType events.EventType, conversionID string, data any) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Emit(ctx, eventType, conversionID, data); err != nil {
		slog.WarnContext(ctx, "emit event failed",
			slog.String("event", string(eventType)),
			slog.String("error", err.Error()))
	}
}

// ListVoices handles GET /v1/voices.
func (h *Handler) ListVoices(w http.ResponseWriter, r *http.Request) {
	voices := h.engine.Voices()
	resp := make([]VoiceResponse, 0, len(voices))
	for _, v := range voices {
		resp = append(resp, VoiceResponse{ID: v.ID, Name: v.Name, Language: v.Language})
	}
	writeJSON(w, http.StatusOK, resp)
}

const defaultPreviewText = "Hello! This is a short preview of the selected voice."

// PreviewVoice handles POST /v1/voices/preview. Synthesizes a short sample
// with the requested voice, bypassing segmentation.
func (h *Handler) PreviewVoice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Voice == "" {
		writeError(w, http.StatusBadRequest, "voice is required")
		return
	}
	text := req.Text
	if text == "" {
		text = defaultPreviewText
	}

	reader, err := h.engine.Synthesize(r.Context(), synth.Request{
		Text:  text,
		Voice: req.Voice,
		Speed: 1.0,
	})
	if err != nil {
		if synth.IsQuotaError(err) {
			writeError(w, http.StatusTooManyRequests, "synthesis quota exhausted on all credentials")
			return
		}
		writeError(w, http.StatusBadGateway, "speech synthesis failed")
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, reader)
}

// ListConversions handles GET /v1/conversions.
func (h *Handler) ListConversions(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeJSON(w, http.StatusOK, []history.Conversion{})
		return
	}

	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}
	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	records, err := h.history.ListRecent(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list conversions")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// GetConversion handles GET /v1/conversions/{id}.
func (h *Handler) GetConversion(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotFound, "conversion not found")
		return
	}
	rec, err := h.history.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "conversion not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
