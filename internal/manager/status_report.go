package manager

import "voiced/pkg/types"

// Health assembles the manager's portion of the /health report. The gateway
// fills in the listen address and auth flag.
func (m *Manager) Health() types.HealthResponse {
	m.placementMu.Lock()
	models := types.ModelsHealth{
		TTSBase:        m.base != nil,
		TTSVoiceDesign: m.design != nil,
		STT:            m.stt != nil,
	}
	m.placementMu.Unlock()

	status := "healthy"
	if !models.TTSBase || !models.STT {
		status = "degraded"
	}

	location, idle := m.offloadStatus()
	return types.HealthResponse{
		Status:       status,
		Models:       models,
		VoicesLoaded: m.catalog.Len(),
		ModelOffload: types.OffloadStatus{
			Enabled:                 m.cfg.OffloadEnabled,
			Location:                location,
			IdleTimeoutSeconds:      int(m.cfg.IdleTimeout.Seconds()),
			SecondsSinceLastRequest: idle,
		},
	}
}
