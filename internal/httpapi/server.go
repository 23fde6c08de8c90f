package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"voiced/pkg/types"
)

// maxInputRunes bounds the synthesis input, matching the OpenAI speech
// endpoint's documented limit.
const maxInputRunes = 4096

// SpeechResult is finished audio ready to return to the client.
type SpeechResult struct {
	Audio       []byte
	ContentType string
	// Agent is the voice that was used, reported via X-Agent-Voice.
	Agent string
}

// Service defines the methods required by the HTTP API layer. The local
// manager and the remote synthesis proxy both implement it.
type Service interface {
	Speech(ctx context.Context, req types.SpeechRequest) (SpeechResult, error)
	Transcribe(ctx context.Context, audio []byte, language string) (types.Transcription, error)
	CreateVoice(ctx context.Context, agentName, instruct string) (SpeechResult, error)
	ListVoices() types.VoicesResponse
	ReloadVoices(ctx context.Context) (int, error)
	Health() types.HealthResponse
	Ready() bool
}

// Options carries gateway-level settings the service layer does not know.
type Options struct {
	Host    string
	Port    int
	Version string
	APIKey  string

	// RateLimitRequests per RateLimitWindow per client; zero disables.
	RateLimitRequests int
	RateLimitWindow   time.Duration

	Logger zerolog.Logger
}

var agentNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

type gateway struct {
	svc  Service
	opts Options
	log  zerolog.Logger
}

// NewMux assembles the chi router with the full middleware chain.
func NewMux(svc Service, opts Options) http.Handler {
	g := &gateway{svc: svc, opts: opts, log: opts.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	r.Use(MetricsMiddleware)
	if opts.RateLimitRequests > 0 && opts.RateLimitWindow > 0 {
		r.Use(newRateLimiter(opts.RateLimitRequests, opts.RateLimitWindow).middleware)
	}
	r.Use(APIKeyMiddleware(opts.APIKey))

	r.Post("/v1/audio/speech", g.handleSpeech)
	r.Post("/v1/audio/transcriptions", g.handleTranscriptions)
	r.Get("/v1/voices", g.handleListVoices)
	r.Post("/v1/voices", g.handleCreateVoice)
	r.Post("/v1/voices/reload", g.handleReloadVoices)
	r.Get("/health", g.handleHealth)
	r.Get("/", g.handleRoot)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	MountSwagger(r)

	return r
}

// handleSpeech godoc
// @Summary      Generate speech
// @Description  Synthesizes the input text in the requested agent's voice.
// @Accept       json
// @Produce      audio/wav
// @Param        request body types.SpeechRequest true "Speech request"
// @Success      200 {file} binary
// @Failure      400 {object} types.ErrorResponse
// @Router       /v1/audio/speech [post]
func (g *gateway) handleSpeech(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.SpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Input) == "" {
		writeJSONError(w, http.StatusBadRequest, "Input text is empty")
		return
	}
	if utf8.RuneCountInString(req.Input) > maxInputRunes {
		writeJSONError(w, http.StatusBadRequest, "Input text too long. Maximum 4096 characters.")
		return
	}

	start := time.Now()
	res, err := g.svc.Speech(r.Context(), req)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		g.log.Warn().Err(err).Str("agent", req.Agent).Msg("speech request failed")
		writeServiceError(w, err)
		return
	}
	g.log.Info().Str("agent", res.Agent).Int("bytes", len(res.Audio)).
		Dur("dur", time.Since(start)).Msg("speech generated")

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+speechFilename(res.ContentType))
	w.Header().Set("X-Agent-Voice", res.Agent)
	w.Write(res.Audio)
}

func speechFilename(contentType string) string {
	if strings.HasPrefix(contentType, "audio/mpeg") {
		return "speech.mp3"
	}
	return "speech.wav"
}

// handleTranscriptions godoc
// @Summary      Transcribe audio
// @Description  Transcribes an uploaded audio file to text.
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Audio file"
// @Param        language formData string false "Language hint"
// @Param        response_format formData string false "json, text or verbose_json"
// @Success      200 {object} types.TranscriptionResponse
// @Failure      400 {object} types.ErrorResponse
// @Router       /v1/audio/transcriptions [post]
func (g *gateway) handleTranscriptions(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Missing audio file")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "failed to read audio file")
		return
	}
	if len(data) == 0 {
		writeJSONError(w, http.StatusBadRequest, "Empty audio file")
		return
	}

	format := r.FormValue("response_format")
	if format == "" {
		format = "json"
	}
	switch format {
	case "json", "text", "verbose_json":
	default:
		writeJSONError(w, http.StatusBadRequest, "Unsupported response format: "+format)
		return
	}

	start := time.Now()
	tr, err := g.svc.Transcribe(r.Context(), data, r.FormValue("language"))
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		g.log.Warn().Err(err).Msg("transcription request failed")
		writeServiceError(w, err)
		return
	}
	g.log.Info().Int("audio_bytes", len(data)).Dur("dur", time.Since(start)).Msg("audio transcribed")

	switch format {
	case "text":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, tr.Text)
	case "verbose_json":
		writeJSON(w, verboseTranscription(tr))
	default:
		writeJSON(w, types.TranscriptionResponse{Text: tr.Text})
	}
}

// verboseTranscription shapes a transcription into the OpenAI verbose_json
// response with a single synthetic segment spanning the whole input.
func verboseTranscription(tr types.Transcription) types.VerboseTranscriptionResponse {
	resp := types.VerboseTranscriptionResponse{
		Task:     "transcribe",
		Language: tr.Language,
		Duration: tr.Duration,
		Text:     tr.Text,
		Segments: []types.TranscriptionSegment{},
	}
	if tr.Text != "" {
		resp.Segments = append(resp.Segments, types.TranscriptionSegment{
			ID:     0,
			Start:  0,
			End:    tr.Duration,
			Text:   tr.Text,
			Tokens: []int{},
		})
	}
	return resp
}

// handleListVoices godoc
// @Summary      List voices
// @Produce      json
// @Success      200 {object} types.VoicesResponse
// @Router       /v1/voices [get]
func (g *gateway) handleListVoices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, g.svc.ListVoices())
}

// handleCreateVoice godoc
// @Summary      Create a voice
// @Description  Designs a new voice from a description, registers it and returns the designed audio.
// @Accept       json
// @Produce      audio/wav
// @Param        request body types.CreateVoiceRequest true "Voice description"
// @Success      200 {file} binary
// @Failure      400 {object} types.ErrorResponse
// @Failure      409 {object} types.ErrorResponse
// @Router       /v1/voices [post]
func (g *gateway) handleCreateVoice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.CreateVoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !agentNamePattern.MatchString(req.AgentName) {
		writeJSONError(w, http.StatusBadRequest, "Invalid agent name. Use letters, numbers and underscores only.")
		return
	}
	if strings.TrimSpace(req.Instruct) == "" {
		writeJSONError(w, http.StatusBadRequest, "Voice description is empty")
		return
	}

	res, err := g.svc.CreateVoice(r.Context(), req.AgentName, req.Instruct)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		g.log.Warn().Err(err).Str("agent", req.AgentName).Msg("voice creation failed")
		writeServiceError(w, err)
		return
	}
	g.log.Info().Str("agent", res.Agent).Msg("voice created")

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+res.Agent+".wav")
	w.Header().Set("X-Agent-Voice", res.Agent)
	w.Write(res.Audio)
}

// handleReloadVoices godoc
// @Summary      Reload voices
// @Description  Re-reads the voice catalog and recomputes all voice prompts.
// @Produce      json
// @Success      200 {object} types.ReloadResponse
// @Router       /v1/voices/reload [post]
func (g *gateway) handleReloadVoices(w http.ResponseWriter, r *http.Request) {
	n, err := g.svc.ReloadVoices(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		g.log.Warn().Err(err).Msg("voice reload failed")
		writeServiceError(w, err)
		return
	}
	writeJSON(w, types.ReloadResponse{
		Status:       "success",
		VoicesLoaded: n,
		Message:      "Voice configuration reloaded successfully",
	})
}

// handleHealth godoc
// @Summary      Health report
// @Produce      json
// @Success      200 {object} types.HealthResponse
// @Router       /health [get]
func (g *gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	h := g.svc.Health()
	h.Host = g.opts.Host
	h.Port = g.opts.Port
	h.AuthEnabled = g.opts.APIKey != ""
	writeJSON(w, h)
}

func (g *gateway) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, types.ServiceInfo{
		Name:        "voiced",
		Description: "OpenAI-compatible speech gateway with voice cloning and transcription",
		Version:     g.opts.Version,
		Endpoints: map[string]string{
			"speech":         "POST /v1/audio/speech",
			"transcriptions": "POST /v1/audio/transcriptions",
			"voices":         "GET /v1/voices",
			"create_voice":   "POST /v1/voices",
			"reload_voices":  "POST /v1/voices/reload",
			"health":         "GET /health",
			"metrics":        "GET /metrics",
		},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}
