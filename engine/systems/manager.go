package systems

import (
	"github.com/Tinaynox/maze-sub011/engine/assets"
	"github.com/Tinaynox/maze-sub011/engine/core"
)

type SystemManagerConfig struct {
	JobWorkers      int    `toml:"job_workers"`
	JobQueueSize    int    `toml:"job_queue_size"`
	MaxPendingLoads int    `toml:"max_pending_loads"`
	MaxCameraCount  uint16 `toml:"max_camera_count"`
	HotReload       bool   `toml:"hot_reload"`
}

func DefaultSystemManagerConfig() SystemManagerConfig {
	return SystemManagerConfig{
		JobWorkers:      2,
		JobQueueSize:    64,
		MaxPendingLoads: 64,
		MaxCameraCount:  16,
		HotReload:       true,
	}
}

type SystemManager struct {
	cameraSystem          *CameraSystem
	jobSystem             *JobSystem
	particleSystemManager *ParticleSystemManager
}

func NewSystemManager(config SystemManagerConfig, am *assets.AssetManager, events *core.EventSystem, width, height int32) (*SystemManager, error) {
	js, err := NewJobSystem(config.JobWorkers, config.JobQueueSize)
	if err != nil {
		return nil, err
	}
	cs, err := NewCameraSystem(CameraSystemConfig{
		MaxCameraCount: config.MaxCameraCount,
	}, width, height)
	if err != nil {
		_ = js.Shutdown()
		return nil, err
	}
	psm, err := NewParticleSystemManager(ParticleSystemManagerConfig{
		MaxPendingLoads: config.MaxPendingLoads,
		HotReload:       config.HotReload,
	}, am, js, events)
	if err != nil {
		_ = js.Shutdown()
		return nil, err
	}
	return &SystemManager{
		cameraSystem:          cs,
		jobSystem:             js,
		particleSystemManager: psm,
	}, nil
}

func (sm *SystemManager) CameraSystem() *CameraSystem {
	return sm.cameraSystem
}

func (sm *SystemManager) JobSystem() *JobSystem {
	return sm.jobSystem
}

func (sm *SystemManager) ParticleSystemManager() *ParticleSystemManager {
	return sm.particleSystemManager
}

// Update advances the systems that run once per frame.
func (sm *SystemManager) Update(dt float32) {
	sm.particleSystemManager.Update(dt)
}

// Shutdown stops the systems in reverse creation order.
func (sm *SystemManager) Shutdown() error {
	if err := sm.particleSystemManager.Shutdown(); err != nil {
		return err
	}
	if err := sm.cameraSystem.Shutdown(); err != nil {
		return err
	}
	return sm.jobSystem.Shutdown()
}
