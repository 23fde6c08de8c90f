package manager

import (
	"context"

	"voiced/internal/catalog"
	"voiced/internal/common/fsutil"
)

// precomputeAll derives a voice clone prompt for every catalog entry whose
// reference audio file exists. Failures are logged and skipped so one broken
// voice cannot block startup.
func (m *Manager) precomputeAll(ctx context.Context, model TTSModel) map[string]VoicePrompt {
	out := make(map[string]VoicePrompt)
	for _, v := range m.catalog.List() {
		path, ok := m.catalog.FilePath(v.Name)
		if !ok {
			continue
		}
		if !fsutil.PathExists(path) {
			m.log.Warn().Str("agent", v.Name).Str("file", path).
				Msg("reference audio missing; skipping voice prompt")
			continue
		}
		prompt, err := model.CreateVoiceClonePrompt(ctx, path, catalog.ReferenceText(v.Name))
		if err != nil {
			m.log.Error().Err(err).Str("agent", v.Name).Msg("voice prompt computation failed; skipping")
			continue
		}
		out[v.Name] = prompt
		m.log.Debug().Str("agent", v.Name).Msg("voice prompt cached")
	}
	return out
}

// promptFor returns the cached prompt for agentName.
func (m *Manager) promptFor(agentName string) (VoicePrompt, bool) {
	m.promptsMu.RLock()
	defer m.promptsMu.RUnlock()
	p, ok := m.prompts[agentName]
	return p, ok
}

// cachePrompt installs or replaces one agent's prompt.
func (m *Manager) cachePrompt(agentName string, p VoicePrompt) {
	m.promptsMu.Lock()
	m.prompts[agentName] = p
	m.promptsMu.Unlock()
}

// setPrompts replaces the whole cache.
func (m *Manager) setPrompts(ps map[string]VoicePrompt) {
	m.promptsMu.Lock()
	m.prompts = ps
	m.promptsMu.Unlock()
}

func (m *Manager) promptCount() int {
	m.promptsMu.RLock()
	defer m.promptsMu.RUnlock()
	return len(m.prompts)
}
