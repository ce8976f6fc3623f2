package engine

import (
	"fmt"

	"github.com/Tinaynox/maze-sub011/engine/assets"
	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/platform"
	"github.com/Tinaynox/maze-sub011/engine/renderer"
	"github.com/Tinaynox/maze-sub011/engine/renderer/opengl"
	"github.com/Tinaynox/maze-sub011/engine/renderer/opengl/glcore"
	"github.com/Tinaynox/maze-sub011/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

// Seconds between two metrics log lines.
const metricsLogInterval = 5.0

type Engine struct {
	config        EngineConfig
	currentStage  Stage
	gameInstance  *Game
	isRunning     bool
	isSuspended   bool
	events        *core.EventSystem
	platform      *platform.Platform
	assetManager  *assets.AssetManager
	systemManager *systems.SystemManager
	renderSystem  *opengl.RenderSystem
	renderQueue   *renderer.RenderQueue
	camera        *renderer.Camera3D
	width         int32
	height        int32
	clock         *core.Clock
	metrics       *core.Metrics
	lastTime      float64

	recreateContextRequested bool
}

func New(g *Game, config EngineConfig) (*Engine, error) {
	if err := config.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}
	level, _ := core.ParseLogLevel(config.Application.LogLevel)
	core.LogSetLevel(level)

	events := core.NewEventSystem()
	p, err := platform.New(events)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	am, err := assets.NewAssetManager()
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	e := &Engine{
		config:       config,
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		events:       events,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		platform:     p,
		assetManager: am,
		isRunning:    true,
		isSuspended:  false,
		width:        config.Application.StartWidth,
		height:       config.Application.StartHeight,
	}
	g.Engine = e
	return e, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	// register some events
	e.events.Register(core.EVENT_CODE_APPLICATION_QUIT, e, e.onEvent)
	e.events.Register(core.EVENT_CODE_KEY_PRESSED, e, e.onKey)
	e.events.Register(core.EVENT_CODE_RESIZED, e, e.onResized)

	app := e.config.Application
	if err := e.platform.Startup(platform.WindowConfig{
		Name:   app.Name,
		PosX:   app.StartPosX,
		PosY:   app.StartPosY,
		Width:  app.StartWidth,
		Height: app.StartHeight,
		VSync:  app.VSync,
	}); err != nil {
		return err
	}
	e.width, e.height = e.platform.FramebufferSize()

	device, err := glcore.New()
	if err != nil {
		return err
	}
	e.renderSystem, err = opengl.NewRenderSystem(device, e.config.Renderer.RenderSystemConfig())
	if err != nil {
		return err
	}

	// initialize subsystems
	if err := e.assetManager.Initialize(e.config.Assets.Dir); err != nil {
		return err
	}
	e.systemManager, err = systems.NewSystemManager(e.config.Systems, e.assetManager, e.events, e.width, e.height)
	if err != nil {
		return err
	}
	e.camera = e.systemManager.CameraSystem().GetDefault()
	e.renderQueue, err = e.renderSystem.CreateRenderQueue(e.camera)
	if err != nil {
		return err
	}

	for _, path := range e.config.Assets.Particles {
		if err := e.systemManager.ParticleSystemManager().Load(path); err != nil {
			core.LogError("failed to queue particle config %s: %s", path, err.Error())
		}
	}

	if err := e.gameInstance.FnInitialize(); err != nil {
		return err
	}
	if err := e.gameInstance.FnOnResize(e.width, e.height); err != nil {
		return err
	}

	e.currentStage = EngineStageInitialized
	return nil
}

func (e *Engine) Config() EngineConfig {
	return e.config
}

func (e *Engine) Events() *core.EventSystem {
	return e.events
}

func (e *Engine) Platform() *platform.Platform {
	return e.platform
}

func (e *Engine) Assets() *assets.AssetManager {
	return e.assetManager
}

func (e *Engine) Systems() *systems.SystemManager {
	return e.systemManager
}

func (e *Engine) RenderSystem() *opengl.RenderSystem {
	return e.renderSystem
}

func (e *Engine) Camera() *renderer.Camera3D {
	return e.camera
}

func (e *Engine) Metrics() *core.Metrics {
	return e.metrics
}

// RequestContextRecreation rebuilds the window and GL context before the next frame.
func (e *Engine) RequestContextRecreation() {
	e.recreateContextRequested = true
}

func (e *Engine) Run() error {
	e.currentStage = EngineStageRunning
	e.clock.Start()
	e.clock.Update()

	e.lastTime = e.clock.Elapsed()

	var runningTime float64 = 0.0
	var lastMetricsLog float64 = 0.0

	for e.isRunning {
		if !e.platform.PumpMessages() {
			e.isRunning = false
			break
		}

		if e.recreateContextRequested {
			e.recreateContextRequested = false
			if err := e.recreateContext(); err != nil {
				core.LogError("context recreation failed: %s", err.Error())
				return err
			}
		}

		if e.isSuspended {
			e.platform.Sleep(10)
			continue
		}

		// Update clock and get delta time.
		e.clock.Update()

		var currentTime float64 = e.clock.Elapsed()
		var delta float64 = (currentTime - e.lastTime)
		var frameStartTime float64 = platform.GetAbsoluteTime()

		e.renderSystem.BeginFrame()

		if err := e.gameInstance.FnUpdate(delta); err != nil {
			core.LogError("Game update failed, shutting down: %s", err.Error())
			e.isRunning = false
			break
		}
		e.systemManager.Update(float32(delta))

		color := e.config.Renderer.ClearColor
		e.renderSystem.Context().GL().ClearColor(color[0], color[1], color[2], color[3])
		e.renderSystem.ClearCurrentRenderTarget(true, true)

		// Call the game's render routine.
		if err := e.gameInstance.FnRender(e.renderQueue, delta); err != nil {
			core.LogError("Game render failed, shutting down: %s", err.Error())
			e.isRunning = false
			break
		}
		e.renderQueue.Draw()
		e.platform.SwapBuffers()

		var frameEndTime float64 = platform.GetAbsoluteTime()
		var frameElapsedTime float64 = frameEndTime - frameStartTime
		runningTime += frameElapsedTime
		e.metrics.Update(frameElapsedTime, e.renderSystem.DrawCalls(), e.renderSystem.DrawCallsSkipped())

		if currentTime-lastMetricsLog >= metricsLogInterval {
			lastMetricsLog = currentTime
			fps, frameMS := e.metrics.Frame()
			core.LogDebug("fps %.1f, frame %.3f ms, draw calls %d (%d skipped)",
				fps, frameMS, e.metrics.DrawCalls, e.metrics.DrawCallsSkipped)
		}

		// Update last time
		e.lastTime = currentTime
	}

	core.LogInfo("frame loop finished after %.2f s of frame time", runningTime)
	return nil
}

/**
 * @brief Drops the GL context and builds a new one. Every GPU object
 * created through the render system restores itself from the setup event.
 */
func (e *Engine) recreateContext() error {
	context := e.renderSystem.Context()
	return e.platform.RecreateContext(
		func() error {
			context.NotifyWillBeDestroyed()
			return nil
		},
		func() error {
			context.NotifyDestroyed()
			return nil
		},
		func() error {
			device, err := glcore.New()
			if err != nil {
				return err
			}
			context.NotifyCreated(device)
			context.NotifySetup()
			e.width, e.height = e.platform.FramebufferSize()
			e.systemManager.CameraSystem().Resize(e.width, e.height)
			return nil
		},
	)
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	e.isRunning = false

	var errs []error
	if e.gameInstance.FnShutdown != nil {
		errs = append(errs, e.gameInstance.FnShutdown())
	}
	if e.systemManager != nil {
		errs = append(errs, e.systemManager.Shutdown())
	}
	errs = append(errs, e.assetManager.Shutdown())
	if e.renderSystem != nil {
		errs = append(errs, e.renderSystem.Shutdown())
	}
	errs = append(errs, e.platform.Shutdown())
	errs = append(errs, e.events.Shutdown())

	for _, err := range errs {
		if err != nil {
			return fmt.Errorf("engine shutdown: %w", err)
		}
	}
	return nil
}

// GetFramebufferSize returns the width and height (in this order)
// of the application Framebuffer
func (e *Engine) GetFramebufferSize() (int32, int32) {
	return e.width, e.height
}

func (e *Engine) onEvent(context core.EventContext) bool {
	switch context.Type {
	case core.EVENT_CODE_APPLICATION_QUIT:
		core.LogInfo("EVENT_CODE_APPLICATION_QUIT received, shutting down.")
		e.isRunning = false
		return true
	}
	return false
}

func (e *Engine) onKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	switch ke.KeyCode {
	case platform.KeyEscape:
		// NOTE: Technically firing an event to itself, but there may be other listeners.
		e.events.Fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT, Sender: e})
		// Block anything else from processing this.
		return true
	case platform.KeyF5:
		core.LogInfo("recreating the graphics context")
		e.RequestContextRecreation()
		return true
	}
	return false
}

func (e *Engine) onResized(context core.EventContext) bool {
	se, ok := context.Data.(*core.SystemEvent)
	if !ok {
		core.LogError("wrong event associated with the event type `%d`", context.Type)
		return false
	}

	width := int32(se.WindowWidth)
	height := int32(se.WindowHeight)

	// Check if different. If so, trigger a resize event.
	if width == e.width && height == e.height {
		return false
	}
	e.width = width
	e.height = height

	core.LogDebug("Window resize: %d, %d", width, height)

	// Handle minimization
	if width == 0 || height == 0 {
		core.LogInfo("Window minimized, suspending application.")
		e.isSuspended = true
		return true
	}
	if e.isSuspended {
		core.LogInfo("Window restored, resuming application.")
		e.isSuspended = false
	}
	e.systemManager.CameraSystem().Resize(width, height)
	if err := e.gameInstance.FnOnResize(width, height); err != nil {
		core.LogError(err.Error())
	}
	return true
}
