package manager

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"strings"
	"time"
)

// qwenServerRuntime implements TTSRuntime by talking to a model runtime
// sidecar over HTTP. The sidecar owns the accelerator; this adapter only
// forwards load, inference and placement commands and decodes the results.
type qwenServerRuntime struct {
	baseURL        string
	apiKey         string
	reqTimeout     time.Duration
	connectTimeout time.Duration
	httpClient     *http.Client
}

// NewQwenServerRuntime constructs a server-backed TTS runtime.
func NewQwenServerRuntime(baseURL, apiKey string, reqTimeout, connectTimeout time.Duration) TTSRuntime {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	// Timeout stays 0 on the client: every request carries a context deadline
	// instead, so a slow generation cannot be killed by a blanket timeout.
	cli := &http.Client{Transport: tr, Timeout: 0}
	return &qwenServerRuntime{
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiKey:         apiKey,
		reqTimeout:     reqTimeout,
		connectTimeout: connectTimeout,
		httpClient:     cli,
	}
}

func (r *qwenServerRuntime) Load(ctx context.Context, modelPath string) (TTSModel, error) {
	var out struct {
		ModelID string `json:"model_id"`
	}
	err := r.postJSON(ctx, "/v1/models/load", map[string]any{"model_path": modelPath}, &out)
	if err != nil {
		return nil, err
	}
	if out.ModelID == "" {
		return nil, errors.New("qwen server returned empty model id")
	}
	return &qwenServerModel{runtime: r, modelID: out.ModelID}, nil
}

// postJSON issues one JSON request/response exchange with the configured
// request timeout applied on top of the caller's context.
func (r *qwenServerRuntime) postJSON(ctx context.Context, path string, payload, out any) error {
	if r.reqTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.reqTimeout)
		defer cancel()
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("qwen server http error: %s: %s", resp.Status, string(b))
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// qwenServerModel is one model instance held by the sidecar, addressed by id.
type qwenServerModel struct {
	runtime *qwenServerRuntime
	modelID string
}

// waveformResponse is the sidecar's audio payload: little-endian float32
// samples, base64-encoded.
type waveformResponse struct {
	AudioB64   string `json:"audio_b64"`
	SampleRate int    `json:"sample_rate"`
}

func (w waveformResponse) decode() (Waveform, error) {
	raw, err := base64.StdEncoding.DecodeString(w.AudioB64)
	if err != nil {
		return Waveform{}, fmt.Errorf("decode audio payload: %w", err)
	}
	if len(raw)%4 != 0 {
		return Waveform{}, errors.New("audio payload is not float32-aligned")
	}
	samples := make([]float32, len(raw)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	if w.SampleRate <= 0 {
		return Waveform{}, errors.New("audio payload missing sample rate")
	}
	return Waveform{Samples: samples, SampleRate: w.SampleRate}, nil
}

func (s *qwenServerModel) CreateVoiceClonePrompt(ctx context.Context, refAudioPath, refText string) (VoicePrompt, error) {
	var out struct {
		Prompt VoicePrompt `json:"prompt"`
	}
	err := s.runtime.postJSON(ctx, "/v1/models/"+s.modelID+"/clone-prompt", map[string]any{
		"ref_audio_path": refAudioPath,
		"ref_text":       refText,
	}, &out)
	if err != nil {
		return nil, err
	}
	if len(out.Prompt) == 0 {
		return nil, errors.New("qwen server returned empty voice prompt")
	}
	return out.Prompt, nil
}

func (s *qwenServerModel) GenerateVoiceClone(ctx context.Context, text string, prompt VoicePrompt) (Waveform, error) {
	var out waveformResponse
	// The prompt goes into the payload exactly as cached.
	err := s.runtime.postJSON(ctx, "/v1/models/"+s.modelID+"/voice-clone", map[string]any{
		"text":   text,
		"prompt": prompt,
	}, &out)
	if err != nil {
		return Waveform{}, err
	}
	return out.decode()
}

func (s *qwenServerModel) GenerateVoiceDesign(ctx context.Context, text, instruct string) (Waveform, error) {
	var out waveformResponse
	err := s.runtime.postJSON(ctx, "/v1/models/"+s.modelID+"/voice-design", map[string]any{
		"text":     text,
		"instruct": instruct,
	}, &out)
	if err != nil {
		return Waveform{}, err
	}
	return out.decode()
}

func (s *qwenServerModel) MoveToHost(ctx context.Context) error {
	return s.runtime.postJSON(ctx, "/v1/models/"+s.modelID+"/placement", map[string]any{"device": "host"}, nil)
}

func (s *qwenServerModel) MoveToAccelerator(ctx context.Context) error {
	return s.runtime.postJSON(ctx, "/v1/models/"+s.modelID+"/placement", map[string]any{"device": "accelerator"}, nil)
}

func (s *qwenServerModel) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.runtime.postJSON(ctx, "/v1/models/"+s.modelID+"/unload", map[string]any{}, nil)
}
