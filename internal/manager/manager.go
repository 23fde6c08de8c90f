package manager

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"voiced/internal/catalog"
)

// Manager is the single authority over model placement, inference dispatch,
// and idle-driven offload.
type Manager struct {
	cfg       ManagerConfig
	log       zerolog.Logger
	publisher EventPublisher
	catalog   *catalog.Catalog

	// placementMu serializes placement transitions and the moment dispatch
	// reads the model references. Inference compute itself runs outside it.
	placementMu sync.Mutex
	placement   Placement
	base        TTSModel
	design      TTSModel
	stt         STTModel

	sttLoadDuration time.Duration

	promptsMu sync.RWMutex
	prompts   map[string]VoicePrompt

	// voicesMu serializes catalog-mutating operations (create, reload) so
	// concurrent creations cannot lose updates.
	voicesMu sync.Mutex

	// lastRequest is the idle clock: unix nanoseconds of the most recent
	// synthesis-triggering request. Racy last-write-wins by design; it is an
	// approximate idle signal, not a counter.
	lastRequest atomic.Int64

	startMu     sync.Mutex
	initialized bool
	monitorStop chan struct{}
	monitorDone chan struct{}
}

// Ready reports whether Startup completed and the base model is held.
func (m *Manager) Ready() bool {
	m.startMu.Lock()
	defer m.startMu.Unlock()
	return m.initialized
}

// DefaultVoice returns the catalog's default agent name.
func (m *Manager) DefaultVoice() string { return m.catalog.DefaultVoice() }

// HasVoice reports whether agentName is registered in the catalog.
func (m *Manager) HasVoice(agentName string) bool { return m.catalog.Has(agentName) }

// STTLoadDuration reports how long the transcription model took to load.
func (m *Manager) STTLoadDuration() time.Duration { return m.sttLoadDuration }

// stampIdleClock records "now" as the last request time.
func (m *Manager) stampIdleClock() {
	m.lastRequest.Store(time.Now().UnixNano())
}

func (m *Manager) idleFor() time.Duration {
	ns := m.lastRequest.Load()
	if ns == 0 {
		return 0
	}
	return time.Since(time.Unix(0, ns))
}
