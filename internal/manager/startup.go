package manager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Startup loads all model artifacts onto the accelerator, precomputes voice
// prompts, and starts the idle monitor when offload is enabled. It is
// idempotent: a second call after a successful completion is a no-op, and the
// startMu lock prevents two concurrent runs.
func (m *Manager) Startup(ctx context.Context) error {
	m.startMu.Lock()
	defer m.startMu.Unlock()
	if m.initialized {
		return nil
	}

	if err := m.catalog.Load(); err != nil {
		return fmt.Errorf("load voice catalog: %w", err)
	}

	m.log.Info().Str("path", m.cfg.BaseModelPath).Msg("loading TTS base model for voice cloning")
	base, err := m.cfg.TTS.Load(ctx, m.cfg.BaseModelPath)
	if err != nil {
		return fmt.Errorf("load base model: %w", err)
	}

	m.log.Info().Str("path", m.cfg.DesignModelPath).Msg("loading TTS voice design model for voice creation")
	design, err := m.cfg.TTS.Load(ctx, m.cfg.DesignModelPath)
	if err != nil {
		_ = base.Close()
		return fmt.Errorf("load voice design model: %w", err)
	}

	m.log.Info().Str("model", m.cfg.STTModel.Model).Msg("loading STT model")
	sttStart := time.Now()
	stt, err := m.cfg.STT.Load(ctx, m.cfg.STTModel)
	if err != nil {
		_ = base.Close()
		_ = design.Close()
		return fmt.Errorf("load stt model: %w", err)
	}
	m.sttLoadDuration = time.Since(sttStart)
	m.log.Info().Dur("took", m.sttLoadDuration).Str("device", m.cfg.STTModel.Device).Msg("STT model loaded")

	m.placementMu.Lock()
	m.base = base
	m.design = design
	m.stt = stt
	m.placement = PlacementAccelerator
	m.placementMu.Unlock()

	m.log.Info().Msg("pre-computing voice prompts for all agents")
	m.setPrompts(m.precomputeAll(ctx, base))

	m.logOrphanVoiceFiles()
	m.stampIdleClock()

	if m.cfg.OffloadEnabled {
		m.monitorStop = make(chan struct{})
		m.monitorDone = make(chan struct{})
		go m.offloadMonitor()
	}

	m.initialized = true
	m.publisher.Publish(Event{Name: "startup_done", Fields: map[string]any{"voices": m.promptCount()}})
	m.log.Info().Int("voices", m.promptCount()).Msg("all models loaded and voice prompts cached")
	return nil
}

// Shutdown stops the idle monitor (waiting up to the configured grace period),
// releases all model references and clears the prompt cache. Idempotent.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.startMu.Lock()
	defer m.startMu.Unlock()
	if !m.initialized {
		return nil
	}

	if m.monitorStop != nil {
		close(m.monitorStop)
		select {
		case <-m.monitorDone:
		case <-time.After(m.cfg.ShutdownGrace):
			// The monitor only sleeps between checks, so this should not
			// happen unless a placement transition wedged. Abandon it.
			m.log.Warn().Msg("idle monitor did not stop within grace period")
		case <-ctx.Done():
		}
		m.monitorStop = nil
		m.monitorDone = nil
	}

	m.placementMu.Lock()
	if m.base != nil {
		_ = m.base.Close()
		m.base = nil
	}
	if m.design != nil {
		_ = m.design.Close()
		m.design = nil
	}
	if m.stt != nil {
		_ = m.stt.Close()
		m.stt = nil
	}
	m.placement = PlacementUnloaded
	m.placementMu.Unlock()

	m.setPrompts(map[string]VoicePrompt{})
	m.initialized = false
	m.log.Info().Msg("manager shutdown complete")
	return nil
}

// logOrphanVoiceFiles reports *.wav files in the voices directory that have no
// catalog entry. Voice creation has no transactional rollback, so a failure
// between the file write and the catalog commit can leave these behind.
func (m *Manager) logOrphanVoiceFiles() {
	entries, err := os.ReadDir(m.catalog.Dir())
	if err != nil {
		return
	}
	registered := make(map[string]bool)
	for _, v := range m.catalog.List() {
		registered[v.File] = true
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".wav") || registered[name] {
			continue
		}
		m.log.Warn().Str("file", filepath.Join(m.catalog.Dir(), name)).
			Msg("voice file has no catalog entry; likely left by a failed voice creation")
	}
}
