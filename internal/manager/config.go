package manager

import (
	"time"

	"github.com/rs/zerolog"

	"voiced/internal/catalog"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultIdleTimeout     = 5 * time.Minute
	defaultCheckInterval   = 30 * time.Second
	defaultShutdownGrace   = 5 * time.Second
	defaultSTTBeamSize     = 5
	defaultSTTBestOf       = 5
	defaultDescriptionTrim = 100
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	Catalog *catalog.Catalog

	TTS TTSRuntime
	STT STTRuntime

	BaseModelPath   string
	DesignModelPath string
	STTModel        STTModelConfig

	STTBeamSize  int
	STTBestOf    int
	STTVADFilter bool

	OffloadEnabled bool
	IdleTimeout    time.Duration
	CheckInterval  time.Duration
	ShutdownGrace  time.Duration

	Logger    zerolog.Logger
	Publisher EventPublisher
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		cfg:       cfg,
		catalog:   cfg.Catalog,
		log:       cfg.Logger,
		publisher: cfg.Publisher,
		placement: PlacementUnloaded,
		prompts:   make(map[string]VoicePrompt),
	}
	// Apply defaults if unset
	if m.cfg.IdleTimeout <= 0 {
		m.cfg.IdleTimeout = defaultIdleTimeout
	}
	if m.cfg.CheckInterval <= 0 {
		m.cfg.CheckInterval = defaultCheckInterval
	}
	if m.cfg.ShutdownGrace <= 0 {
		m.cfg.ShutdownGrace = defaultShutdownGrace
	}
	if m.cfg.STTBeamSize <= 0 {
		m.cfg.STTBeamSize = defaultSTTBeamSize
	}
	if m.cfg.STTBestOf <= 0 {
		m.cfg.STTBestOf = defaultSTTBestOf
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	return m
}
