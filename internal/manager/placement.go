package manager

import "context"

// ensureAcceleratorAndSnapshot brings the TTS models onto the accelerator if
// they are not already there and returns the current model references. From
// Host the weights move back; from Unloaded both models are loaded from
// scratch and the prompt cache rebuilt. The placement lock covers the
// transition and the snapshot together so a concurrent offload cannot slip in
// between; inference compute happens after release.
func (m *Manager) ensureAcceleratorAndSnapshot(ctx context.Context) (base, design TTSModel, err error) {
	m.placementMu.Lock()
	defer m.placementMu.Unlock()

	switch m.placement {
	case PlacementAccelerator:
		// Nothing to do.
	case PlacementHost:
		m.log.Info().Msg("moving TTS models back to accelerator")
		m.publisher.Publish(Event{Name: "onload_start"})
		if m.base != nil {
			if err := m.base.MoveToAccelerator(ctx); err != nil {
				return nil, nil, errUpstream("move base model to accelerator", err)
			}
		}
		if m.design != nil {
			if err := m.design.MoveToAccelerator(ctx); err != nil {
				return nil, nil, errUpstream("move voice design model to accelerator", err)
			}
		}
		m.placement = PlacementAccelerator
		m.publisher.Publish(Event{Name: "onload_done"})
	case PlacementUnloaded:
		if err := m.coldReloadLocked(ctx); err != nil {
			return nil, nil, err
		}
	}
	return m.base, m.design, nil
}

// coldReloadLocked loads both TTS models from scratch and rebuilds the prompt
// cache. Caller holds placementMu. Stale references (weights released by an
// external actor) are closed after the fresh loads succeed.
func (m *Manager) coldReloadLocked(ctx context.Context) error {
	m.log.Warn().Msg("TTS models unloaded; cold reloading onto accelerator")
	m.publisher.Publish(Event{Name: "onload_start"})

	nb, err := m.cfg.TTS.Load(ctx, m.cfg.BaseModelPath)
	if err != nil {
		return errUpstream("reload base model", err)
	}
	nd, err := m.cfg.TTS.Load(ctx, m.cfg.DesignModelPath)
	if err != nil {
		_ = nb.Close()
		return errUpstream("reload voice design model", err)
	}

	if m.base != nil {
		_ = m.base.Close()
	}
	if m.design != nil {
		_ = m.design.Close()
	}
	m.base = nb
	m.design = nd
	m.placement = PlacementAccelerator

	m.setPrompts(m.precomputeAll(ctx, nb))
	m.publisher.Publish(Event{Name: "onload_done"})
	m.log.Info().Int("voices", m.promptCount()).Msg("cold reload complete")
	return nil
}

// moveToHost transfers accelerator-resident TTS weights to host memory. Only
// valid from the accelerator placement; any other state is a no-op so the
// idle monitor and explicit callers cannot double-offload.
func (m *Manager) moveToHost(ctx context.Context) error {
	m.placementMu.Lock()
	defer m.placementMu.Unlock()

	if m.placement != PlacementAccelerator {
		return nil
	}
	m.log.Info().Dur("idle", m.idleFor()).Msg("offloading TTS models to host memory")
	m.publisher.Publish(Event{Name: "offload_start"})
	if m.base != nil {
		if err := m.base.MoveToHost(ctx); err != nil {
			return errUpstream("move base model to host", err)
		}
	}
	if m.design != nil {
		if err := m.design.MoveToHost(ctx); err != nil {
			return errUpstream("move voice design model to host", err)
		}
	}
	m.placement = PlacementHost
	m.publisher.Publish(Event{Name: "offload_done"})
	return nil
}

// CurrentPlacement reports where the TTS weights currently live.
func (m *Manager) CurrentPlacement() Placement {
	m.placementMu.Lock()
	defer m.placementMu.Unlock()
	return m.placement
}
