//go:build whispercpp

// This file contains the in-process STT runtime backed by the whisper.cpp CGO
// bindings. The whisper.cpp static library (libwhisper.a) and headers
// (whisper.h) must be available at link time via LIBRARY_PATH and
// C_INCLUDE_PATH environment variables.

package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
)

// whisperCppRuntime implements STTRuntime with in-process whisper.cpp
// inference, eliminating HTTP overhead entirely.
type whisperCppRuntime struct{}

// NewWhisperCppRuntime constructs the CGO-backed transcription runtime. The
// model is loaded from the path in STTModelConfig.Model.
func NewWhisperCppRuntime() STTRuntime { return whisperCppRuntime{} }

func (whisperCppRuntime) Load(_ context.Context, cfg STTModelConfig) (STTModel, error) {
	if cfg.Model == "" {
		return nil, errors.New("whispercpp: model path must not be empty")
	}
	model, err := whisperlib.New(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("whispercpp: load model %q: %w", cfg.Model, err)
	}
	return &whisperCppModel{model: model}, nil
}

type whisperCppModel struct {
	// mu serializes inference. A whisper context is not thread-safe, and
	// creating one per request keeps the model shareable without sharing
	// contexts.
	mu    sync.Mutex
	model whisperlib.Model
}

func (m *whisperCppModel) Transcribe(ctx context.Context, samples []float32, opts TranscribeOptions) (TranscribeResult, error) {
	if err := ctx.Err(); err != nil {
		return TranscribeResult{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	wctx, err := m.model.NewContext()
	if err != nil {
		return TranscribeResult{}, fmt.Errorf("whispercpp: create context: %w", err)
	}
	if opts.Language != "" {
		if err := wctx.SetLanguage(opts.Language); err != nil {
			return TranscribeResult{}, fmt.Errorf("whispercpp: set language %q: %w", opts.Language, err)
		}
	}
	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return TranscribeResult{}, fmt.Errorf("whispercpp: process audio: %w", err)
	}

	var out TranscribeResult
	out.Language = wctx.DetectedLanguage()
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return TranscribeResult{}, fmt.Errorf("whispercpp: read segment: %w", err)
		}
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		out.Segments = append(out.Segments, TranscriptSegment{
			Text:  text,
			Start: segment.Start.Seconds(),
			End:   segment.End.Seconds(),
		})
		if end := segment.End.Seconds(); end > out.Duration {
			out.Duration = end
		}
	}
	return out, nil
}

func (m *whisperCppModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.model != nil {
		err := m.model.Close()
		m.model = nil
		return err
	}
	return nil
}
