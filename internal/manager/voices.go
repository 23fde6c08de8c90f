package manager

import (
	"context"
	"path/filepath"

	"voiced/internal/audio"
	"voiced/internal/catalog"
	"voiced/internal/common/fsutil"
	"voiced/pkg/types"
)

// CreateVoice designs a brand-new voice from a textual description, saves its
// reference audio as {agent}.wav, registers it in the catalog, caches a clone
// prompt so the voice is usable immediately, and returns the designed audio.
// There is no rollback: if a later step fails, earlier steps stay done and
// startup logs any orphaned voice file.
func (m *Manager) CreateVoice(ctx context.Context, agentName, instruct string) (SpeechOutput, error) {
	m.voicesMu.Lock()
	defer m.voicesMu.Unlock()

	if m.catalog.Has(agentName) {
		return SpeechOutput{}, ErrVoiceConflict(agentName)
	}

	base, design, err := m.ensureAcceleratorAndSnapshot(ctx)
	if err != nil {
		return SpeechOutput{}, err
	}
	m.stampIdleClock()
	if design == nil {
		return SpeechOutput{}, ErrModelNotReady("TTS voice design")
	}

	intro := catalog.ReferenceText(agentName)
	m.log.Info().Str("agent", agentName).Msg("designing new voice")
	wave, err := design.GenerateVoiceDesign(ctx, intro, instruct)
	if err != nil {
		return SpeechOutput{}, errUpstream("voice design generation", err)
	}
	wav := audio.EncodeWAV(wave.Samples, wave.SampleRate)

	file := agentName + ".wav"
	path := filepath.Join(m.catalog.Dir(), file)
	if err := fsutil.EnsureDir(m.catalog.Dir()); err != nil {
		return SpeechOutput{}, errPersistence(err)
	}
	if err := fsutil.WriteFileAtomic(path, wav, 0o644); err != nil {
		return SpeechOutput{}, errPersistence(err)
	}

	description := truncateRunes(instruct, defaultDescriptionTrim)
	if err := m.catalog.Add(agentName, file, description, instruct); err != nil {
		return SpeechOutput{}, errPersistence(err)
	}

	// Derive the clone prompt now so the first synthesis does not pay for it.
	// A failure here leaves the voice registered but promptless; a reload can
	// repair it later.
	if base != nil {
		prompt, err := base.CreateVoiceClonePrompt(ctx, path, intro)
		if err != nil {
			m.log.Error().Err(err).Str("agent", agentName).
				Msg("voice registered but prompt computation failed")
		} else {
			m.cachePrompt(agentName, prompt)
		}
	}

	m.publisher.Publish(Event{Name: "voice_created", Agent: agentName})
	m.log.Info().Str("agent", agentName).Str("file", file).Msg("voice created")
	return SpeechOutput{WAV: wav, Agent: agentName}, nil
}

// ReloadVoicePrompts re-reads the catalog from disk and recomputes every voice
// prompt, replacing the cache wholesale. Used after out-of-band edits to the
// voices directory.
func (m *Manager) ReloadVoicePrompts(ctx context.Context) (int, error) {
	m.voicesMu.Lock()
	defer m.voicesMu.Unlock()

	if err := m.catalog.Load(); err != nil {
		return 0, errPersistence(err)
	}
	base, _, err := m.ensureAcceleratorAndSnapshot(ctx)
	if err != nil {
		return 0, err
	}
	m.stampIdleClock()
	if base == nil {
		return 0, ErrModelNotReady("TTS base")
	}
	prompts := m.precomputeAll(ctx, base)
	m.setPrompts(prompts)
	m.publisher.Publish(Event{Name: "voices_reloaded", Fields: map[string]any{"voices": len(prompts)}})
	return len(prompts), nil
}

// ListVoices reports all registered voices with their prompt readiness.
func (m *Manager) ListVoices() types.VoicesResponse {
	named := m.catalog.List()
	voices := make([]types.VoiceInfo, 0, len(named))
	for _, v := range named {
		_, ready := m.promptFor(v.Name)
		voices = append(voices, types.VoiceInfo{
			Name:        v.Name,
			File:        v.File,
			Description: v.Description,
			HasPrompt:   ready,
		})
	}
	return types.VoicesResponse{
		Voices:       voices,
		DefaultVoice: m.catalog.DefaultVoice(),
		Total:        len(voices),
	}
}

// truncateRunes shortens s to at most n runes.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
