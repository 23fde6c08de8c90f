package manager

import (
	"context"
	"time"
)

// offloadMonitor periodically checks the idle clock and moves the TTS models
// to host memory once the idle timeout elapses. It stops when monitorStop is
// closed and signals completion by closing monitorDone.
func (m *Manager) offloadMonitor() {
	defer close(m.monitorDone)
	m.log.Info().
		Dur("idle_timeout", m.cfg.IdleTimeout).
		Dur("check_interval", m.cfg.CheckInterval).
		Msg("idle offload monitor started")

	for {
		select {
		case <-m.monitorStop:
			m.log.Debug().Msg("idle offload monitor stopping")
			return
		case <-time.After(m.cfg.CheckInterval):
		}

		if m.idleFor() < m.cfg.IdleTimeout {
			continue
		}
		if err := m.moveToHost(context.Background()); err != nil {
			m.log.Error().Err(err).Msg("idle offload failed; will retry next interval")
		}
	}
}

// OffloadStatus reports the current offload configuration and idle state for
// health reporting.
func (m *Manager) offloadStatus() (location string, secondsIdle float64) {
	return m.CurrentPlacement().String(), m.idleFor().Seconds()
}
