package manager

import (
	"context"

	"voiced/internal/audio"
)

// SpeechOutput is a finished synthesis: WAV bytes plus the agent whose voice
// was used (after default fallback).
type SpeechOutput struct {
	WAV   []byte
	Agent string
}

// Synthesize generates speech for text in the named agent's voice. An unknown
// agent falls back to the catalog default; if neither resolves to a cached
// prompt the request is rejected. The idle clock is stamped so the offload
// monitor sees activity even when generation later fails.
func (m *Manager) Synthesize(ctx context.Context, text, agentName string) (SpeechOutput, error) {
	base, _, err := m.ensureAcceleratorAndSnapshot(ctx)
	if err != nil {
		return SpeechOutput{}, err
	}
	m.stampIdleClock()

	if agentName == "" {
		agentName = m.catalog.DefaultVoice()
	}
	prompt, ok := m.promptFor(agentName)
	if !ok {
		def := m.catalog.DefaultVoice()
		if agentName != def {
			m.log.Warn().Str("agent", agentName).Str("default", def).
				Msg("no voice prompt for agent; using default voice")
			prompt, ok = m.promptFor(def)
		}
		if !ok {
			return SpeechOutput{}, ErrVoiceNotFound(agentName)
		}
	}
	if base == nil {
		return SpeechOutput{}, ErrModelNotReady("TTS base")
	}

	// The cached prompt is already the full sequence; it goes through as-is.
	wave, err := base.GenerateVoiceClone(ctx, text, prompt)
	if err != nil {
		return SpeechOutput{}, errUpstream("speech generation", err)
	}
	wav := audio.EncodeWAV(wave.Samples, wave.SampleRate)
	m.publisher.Publish(Event{Name: "speech_generated", Agent: agentName,
		Fields: map[string]any{"chars": len(text)}})
	return SpeechOutput{WAV: wav, Agent: agentName}, nil
}
