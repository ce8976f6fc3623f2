package systems

import (
	"fmt"
	"sort"
	"sync"

	"github.com/Tinaynox/maze-sub011/engine/assets"
	"github.com/Tinaynox/maze-sub011/engine/containers"
	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/particles"
	"github.com/Tinaynox/maze-sub011/engine/renderer"
	"github.com/fsnotify/fsnotify"
)

/** @brief The particle system manager configuration. */
type ParticleSystemManagerConfig struct {
	// Loads that may finish between two updates before new ones are dropped.
	MaxPendingLoads int
	// Reload configs from disk when their file changes.
	HotReload bool
}

type particleLoadResult struct {
	path   string
	config particles.SystemConfig
}

/**
 * @brief Owns the named particle systems of the running game. Configs are
 * read on the job system and applied on the next Update, so every system is
 * only touched from the thread driving the frame loop.
 */
type ParticleSystemManager struct {
	config ParticleSystemManagerConfig
	assets *assets.AssetManager
	jobs   *JobSystem
	events *core.EventSystem

	systems map[string]*particles.ParticleSystem3D
	// asset path -> system name
	sources map[string]string
	watched map[string]bool

	pendingMutex sync.Mutex
	pending      *containers.RingQueue[particleLoadResult]
	inFlight     sync.WaitGroup
	isClosed     bool
}

func NewParticleSystemManager(config ParticleSystemManagerConfig, am *assets.AssetManager, js *JobSystem, events *core.EventSystem) (*ParticleSystemManager, error) {
	if config.MaxPendingLoads <= 0 {
		err := fmt.Errorf("func NewParticleSystemManager - config.MaxPendingLoads must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	return &ParticleSystemManager{
		config:  config,
		assets:  am,
		jobs:    js,
		events:  events,
		systems: make(map[string]*particles.ParticleSystem3D),
		sources: make(map[string]string),
		watched: make(map[string]bool),
		pending: containers.NewRingQueue[particleLoadResult](config.MaxPendingLoads),
	}, nil
}

// Register adds system under its name, replacing any system with the same name.
func (m *ParticleSystemManager) Register(system *particles.ParticleSystem3D) {
	if old, ok := m.systems[system.Name()]; ok && old != system {
		core.LogWarn("particle system '%s' replaced", system.Name())
		old.StopRecursive()
	}
	m.systems[system.Name()] = system
}

// Create builds a system from config and registers it.
func (m *ParticleSystemManager) Create(config particles.SystemConfig) *particles.ParticleSystem3D {
	system := particles.NewParticleSystem3DFromConfig(config)
	m.Register(system)
	return system
}

func (m *ParticleSystemManager) Get(name string) (*particles.ParticleSystem3D, error) {
	system, ok := m.systems[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrParticleSystemUnknown, name)
	}
	return system, nil
}

// Remove stops and drops the named system. Hot reload of its source file stops as well.
func (m *ParticleSystemManager) Remove(name string) error {
	system, ok := m.systems[name]
	if !ok {
		return fmt.Errorf("%w: %s", core.ErrParticleSystemUnknown, name)
	}
	system.StopRecursive()
	delete(m.systems, name)
	for path, source := range m.sources {
		if source == name {
			delete(m.sources, path)
		}
	}
	return nil
}

// Names lists the registered systems, sorted.
func (m *ParticleSystemManager) Names() []string {
	names := make([]string, 0, len(m.systems))
	for name := range m.systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

/**
 * @brief Queues an asynchronous load of the particle config at path. The
 * system shows up in the registry on the first Update after the job finished.
 * A path that was loaded before updates its system in place.
 */
func (m *ParticleSystemManager) Load(path string) error {
	m.inFlight.Add(1)
	err := m.jobs.Submit(m.loadJob(path))
	if err != nil {
		m.inFlight.Done()
		return err
	}
	if m.config.HotReload {
		m.watch(path)
	}
	return nil
}

// Wait blocks until every queued load has finished.
func (m *ParticleSystemManager) Wait() {
	m.inFlight.Wait()
}

func (m *ParticleSystemManager) loadJob(path string) JobTask {
	return JobTask{
		Name:        "load particles " + path,
		InputParams: path,
		OnStart: func(params interface{}) (interface{}, error) {
			return m.assets.LoadParticleSystem(params.(string))
		},
		OnComplete: func(result interface{}) {
			m.pendingMutex.Lock()
			defer m.pendingMutex.Unlock()
			err := m.pending.Enqueue(particleLoadResult{path: path, config: result.(particles.SystemConfig)})
			if err != nil {
				core.LogWarn("particle config '%s' dropped: %s", path, err.Error())
			}
		},
		OnFailure: func(err error) {
			core.LogError("failed to load particle config '%s'", path)
		},
		OnCompletionCallback: m.inFlight.Done,
	}
}

func (m *ParticleSystemManager) watch(path string) {
	if m.watched[path] {
		return
	}
	m.watched[path] = true
	m.assets.Watch(path, func(changed string, op fsnotify.Op) {
		if op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		m.pendingMutex.Lock()
		defer m.pendingMutex.Unlock()
		if m.isClosed {
			return
		}
		core.LogDebug("particle config '%s' changed, reloading", changed)
		m.inFlight.Add(1)
		m.jobs.AddWorkNonBlocking(m.loadJob(path))
	})
}

func (m *ParticleSystemManager) applyPending() {
	for {
		m.pendingMutex.Lock()
		result, err := m.pending.Dequeue()
		m.pendingMutex.Unlock()
		if err != nil {
			return
		}

		if name, ok := m.sources[result.path]; ok {
			if system, ok := m.systems[name]; ok {
				system.ApplyConfig(result.config)
				core.LogInfo("particle system '%s' reloaded from %s", name, result.path)
				if m.events != nil {
					m.events.Fire(core.EventContext{Type: core.EVENT_CODE_ASSET_CHANGED, Sender: m, Data: result.path})
				}
				continue
			}
		}
		system := m.Create(result.config)
		m.sources[result.path] = system.Name()
		core.LogDebug("particle system '%s' loaded from %s", system.Name(), result.path)
	}
}

/**
 * @brief Applies finished loads, then advances every registered system and
 * its children by dt seconds.
 */
func (m *ParticleSystemManager) Update(dt float32) {
	m.applyPending()
	for _, system := range m.systems {
		system.UpdateRecursive(dt)
	}
}

// Render records every registered system and its children into queue, in name order.
func (m *ParticleSystemManager) Render(queue *renderer.RenderQueue, vao renderer.VertexArrayObject, camera particles.Viewer) {
	for _, name := range m.Names() {
		renderTree(m.systems[name], queue, vao, camera)
	}
}

func renderTree(system *particles.ParticleSystem3D, queue *renderer.RenderQueue, vao renderer.VertexArrayObject, camera particles.Viewer) {
	system.Render(queue, vao, camera)
	for _, child := range system.Children() {
		renderTree(child, queue, vao, camera)
	}
}

/**
 * @brief Shuts the manager down. Queued loads are awaited and discarded.
 */
func (m *ParticleSystemManager) Shutdown() error {
	for path := range m.watched {
		m.assets.Unwatch(path)
	}
	m.watched = make(map[string]bool)

	m.pendingMutex.Lock()
	m.isClosed = true
	m.pendingMutex.Unlock()
	m.Wait()

	for _, system := range m.systems {
		system.StopRecursive()
	}
	m.systems = make(map[string]*particles.ParticleSystem3D)
	m.sources = make(map[string]string)
	return nil
}
