package manager

import (
	"context"
	"strings"

	"voiced/internal/audio"
	"voiced/pkg/types"
)

// Transcribe decodes uploaded audio to mono 16 kHz PCM and runs it through
// the transcription model. Transcription does not touch the TTS placement and
// deliberately does not stamp the idle clock: only synthesis traffic keeps
// the TTS weights on the accelerator.
func (m *Manager) Transcribe(ctx context.Context, data []byte, language string) (types.Transcription, error) {
	m.placementMu.Lock()
	stt := m.stt
	m.placementMu.Unlock()
	if stt == nil {
		return types.Transcription{}, ErrModelNotReady("STT")
	}

	samples, err := audio.DecodeToMono16k(ctx, data)
	if err != nil {
		return types.Transcription{}, errUpstream("audio decoding", err)
	}

	res, err := stt.Transcribe(ctx, samples, TranscribeOptions{
		BeamSize:  m.cfg.STTBeamSize,
		BestOf:    m.cfg.STTBestOf,
		VADFilter: m.cfg.STTVADFilter,
		Language:  language,
	})
	if err != nil {
		return types.Transcription{}, errUpstream("transcription", err)
	}

	parts := make([]string, 0, len(res.Segments))
	for _, seg := range res.Segments {
		if t := strings.TrimSpace(seg.Text); t != "" {
			parts = append(parts, t)
		}
	}
	duration := res.Duration
	if duration == 0 {
		duration = float64(len(samples)) / float64(audio.TranscribeSampleRate)
	}
	return types.Transcription{
		Text:     strings.Join(parts, " "),
		Language: res.Language,
		Duration: duration,
	}, nil
}
