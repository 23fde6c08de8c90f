// Package proxy implements the gateway service interface against the
// ElevenLabs API, for deployments without local accelerator hardware.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"voiced/internal/httpapi"
	"voiced/pkg/types"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	ttsModelID     = "eleven_turbo_v2_5"
	sttModelID     = "scribe_v1"
)

// ElevenLabs is a stateless httpapi.Service forwarding synthesis and
// transcription upstream. Voice management requires the local backend.
type ElevenLabs struct {
	apiKey  string
	voiceID string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

var _ httpapi.Service = (*ElevenLabs)(nil)

// Option configures an ElevenLabs proxy.
type Option func(*ElevenLabs)

// WithBaseURL overrides the upstream API origin. Used by tests.
func WithBaseURL(u string) Option {
	return func(p *ElevenLabs) { p.baseURL = u }
}

// WithLogger installs a structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *ElevenLabs) { p.log = l }
}

// New constructs the proxy for the given API key and default voice id.
func New(apiKey, voiceID string, opts ...Option) *ElevenLabs {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	p := &ElevenLabs{
		apiKey:  apiKey,
		voiceID: voiceID,
		baseURL: defaultBaseURL,
		client:  &http.Client{Transport: tr, Timeout: 2 * time.Minute},
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// notSupportedError reports an operation the remote backend cannot do.
type notSupportedError struct{ op string }

func (e notSupportedError) Error() string {
	return e.op + " is not supported by the elevenlabs backend"
}
func (e notSupportedError) StatusCode() int { return http.StatusNotImplemented }

// upstreamStatusError surfaces an upstream HTTP failure without leaking the
// upstream body to the client.
type upstreamStatusError struct{ status string }

func (e upstreamStatusError) Error() string   { return "upstream request failed: " + e.status }
func (e upstreamStatusError) StatusCode() int { return http.StatusBadGateway }

// Speech forwards synthesis to the text-to-speech endpoint. The OpenAI speed
// field maps onto the ElevenLabs style setting; output is MP3.
func (p *ElevenLabs) Speech(ctx context.Context, req types.SpeechRequest) (httpapi.SpeechResult, error) {
	speed := req.Speed
	if speed == 0 {
		speed = 1.0
	}
	style := (speed - 0.5) / 2.0
	if style < 0 {
		style = 0
	} else if style > 1 {
		style = 1
	}

	payload := map[string]any{
		"text":     req.Input,
		"model_id": ttsModelID,
		"voice_settings": map[string]any{
			"stability":         0.5,
			"similarity_boost":  0.75,
			"style":             style,
			"use_speaker_boost": true,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return httpapi.SpeechResult{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v1/text-to-speech/"+p.voiceID, bytes.NewReader(body))
	if err != nil {
		return httpapi.SpeechResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return httpapi.SpeechResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		p.log.Warn().Str("status", resp.Status).Bytes("body", b).Msg("elevenlabs tts failed")
		return httpapi.SpeechResult{}, upstreamStatusError{status: resp.Status}
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return httpapi.SpeechResult{}, err
	}

	agent := req.Agent
	if agent == "" {
		agent = "elevenlabs"
	}
	return httpapi.SpeechResult{Audio: audio, ContentType: "audio/mpeg", Agent: agent}, nil
}

// Transcribe forwards the audio to the speech-to-text endpoint.
func (p *ElevenLabs) Transcribe(ctx context.Context, audio []byte, language string) (types.Transcription, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "audio")
	if err != nil {
		return types.Transcription{}, err
	}
	if _, err := fw.Write(audio); err != nil {
		return types.Transcription{}, err
	}
	mw.WriteField("model_id", sttModelID)
	if language != "" {
		mw.WriteField("language_code", language)
	}
	if err := mw.Close(); err != nil {
		return types.Transcription{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/v1/speech-to-text", &body)
	if err != nil {
		return types.Transcription{}, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("xi-api-key", p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return types.Transcription{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		p.log.Warn().Str("status", resp.Status).Bytes("body", b).Msg("elevenlabs stt failed")
		return types.Transcription{}, upstreamStatusError{status: resp.Status}
	}

	var out struct {
		Text         string `json:"text"`
		LanguageCode string `json:"language_code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return types.Transcription{}, fmt.Errorf("parse upstream response: %w", err)
	}
	return types.Transcription{Text: out.Text, Language: out.LanguageCode}, nil
}

func (p *ElevenLabs) CreateVoice(context.Context, string, string) (httpapi.SpeechResult, error) {
	return httpapi.SpeechResult{}, notSupportedError{op: "voice creation"}
}

func (p *ElevenLabs) ReloadVoices(context.Context) (int, error) {
	return 0, notSupportedError{op: "voice reload"}
}

// ListVoices reports an empty catalog: upstream voices are selected by id,
// not managed here.
func (p *ElevenLabs) ListVoices() types.VoicesResponse {
	return types.VoicesResponse{Voices: []types.VoiceInfo{}}
}

// Health reports a static healthy status; the proxy holds no models.
func (p *ElevenLabs) Health() types.HealthResponse {
	return types.HealthResponse{
		Status:       "healthy",
		ModelOffload: types.OffloadStatus{Enabled: false, Location: "remote"},
	}
}

func (p *ElevenLabs) Ready() bool { return true }
