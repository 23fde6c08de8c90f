package manager

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"voiced/internal/audio"
)

// whisperServerRuntime implements STTRuntime against a whisper.cpp server
// exposing the /inference endpoint. The model is chosen at server start, so
// Load only verifies reachability.
type whisperServerRuntime struct {
	baseURL    string
	reqTimeout time.Duration
	httpClient *http.Client
}

// NewWhisperServerRuntime constructs a server-backed transcription runtime.
func NewWhisperServerRuntime(baseURL string, reqTimeout, connectTimeout time.Duration) STTRuntime {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &whisperServerRuntime{
		baseURL:    strings.TrimRight(baseURL, "/"),
		reqTimeout: reqTimeout,
		httpClient: &http.Client{Transport: tr, Timeout: 0},
	}
}

func (r *whisperServerRuntime) Load(ctx context.Context, cfg STTModelConfig) (STTModel, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/health", nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper server unreachable: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whisper server health check: %s", resp.Status)
	}
	return &whisperServerModel{runtime: r}, nil
}

type whisperServerModel struct {
	runtime *whisperServerRuntime
}

// whisperServerResult is the verbose_json response of whisper.cpp server.
type whisperServerResult struct {
	Language string `json:"language"`
	Segments []struct {
		Text string `json:"text"`
		// Offsets are reported in milliseconds.
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
	} `json:"segments"`
}

func (s *whisperServerModel) Transcribe(ctx context.Context, samples []float32, opts TranscribeOptions) (TranscribeResult, error) {
	if s.runtime.reqTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.runtime.reqTimeout)
		defer cancel()
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "audio.wav")
	if err != nil {
		return TranscribeResult{}, err
	}
	if _, err := fw.Write(audio.EncodeWAV(samples, audio.TranscribeSampleRate)); err != nil {
		return TranscribeResult{}, err
	}
	mw.WriteField("response_format", "verbose_json")
	if opts.Language != "" {
		mw.WriteField("language", opts.Language)
	}
	if opts.BeamSize > 0 {
		mw.WriteField("beam_size", fmt.Sprintf("%d", opts.BeamSize))
	}
	if err := mw.Close(); err != nil {
		return TranscribeResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.runtime.baseURL+"/inference", &body)
	if err != nil {
		return TranscribeResult{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := s.runtime.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return TranscribeResult{}, ctx.Err()
		}
		return TranscribeResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return TranscribeResult{}, fmt.Errorf("whisper server http error: %s: %s", resp.Status, string(b))
	}

	var raw whisperServerResult
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return TranscribeResult{}, fmt.Errorf("parse whisper server response: %w", err)
	}

	out := TranscribeResult{Language: raw.Language}
	for _, seg := range raw.Segments {
		out.Segments = append(out.Segments, TranscriptSegment{
			Text:  seg.Text,
			Start: float64(seg.Offsets.From) / 1000,
			End:   float64(seg.Offsets.To) / 1000,
		})
		if end := float64(seg.Offsets.To) / 1000; end > out.Duration {
			out.Duration = end
		}
	}
	return out, nil
}

func (s *whisperServerModel) Close() error { return nil }
