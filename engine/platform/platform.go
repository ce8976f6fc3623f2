package platform

import (
	"runtime"
	"time"

	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var startTime float64 = 0

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

// Keys forwarded through EVENT_CODE_KEY_PRESSED and EVENT_CODE_KEY_RELEASED.
const (
	KeyEscape = int(glfw.KeyEscape)
	KeySpace  = int(glfw.KeySpace)
	KeyW      = int(glfw.KeyW)
	KeyA      = int(glfw.KeyA)
	KeyS      = int(glfw.KeyS)
	KeyD      = int(glfw.KeyD)
	KeyQ      = int(glfw.KeyQ)
	KeyE      = int(glfw.KeyE)
	KeyP      = int(glfw.KeyP)
	KeyR      = int(glfw.KeyR)
	KeyLeft   = int(glfw.KeyLeft)
	KeyRight  = int(glfw.KeyRight)
	KeyUp     = int(glfw.KeyUp)
	KeyDown   = int(glfw.KeyDown)
	KeyF5     = int(glfw.KeyF5)
)

type WindowConfig struct {
	Name   string
	PosX   int32
	PosY   int32
	Width  int32
	Height int32
	VSync  bool
}

/**
 * @brief A glfw window owning an OpenGL 4.1 core context. Input and resize
 * notifications are fired on the event system passed to New.
 */
type Platform struct {
	Window *glfw.Window
	config WindowConfig
	events *core.EventSystem
}

func New(events *core.EventSystem) (*Platform, error) {
	return &Platform{
		Window: nil,
		events: events,
	}, nil
}

func (p *Platform) Startup(config WindowConfig) error {
	if err := glfw.Init(); err != nil {
		core.LogFatal("failed to initialize glfw: %s", err)
		return err
	}
	p.config = config

	if err := p.createWindow(); err != nil {
		glfw.Terminate()
		return err
	}

	startTime = glfw.GetTime()

	return nil
}

func (p *Platform) createWindow() error {
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(p.config.Width), int(p.config.Height), p.config.Name, nil, nil)
	if err != nil {
		core.LogFatal("failed to create window: %s", err)
		return err
	}
	window.MakeContextCurrent()
	if p.config.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	p.Window = window

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetFramebufferSizeCallback(p.framebufferSizeCallback)
	p.Window.SetCloseCallback(p.closeCallback)
	p.Window.SetPos(int(p.config.PosX), int(p.config.PosY))
	p.Window.Show()
	return nil
}

func (p *Platform) destroyWindow() {
	if p.Window == nil {
		return
	}
	p.Window.Destroy()
	p.Window = nil
}

func (p *Platform) Shutdown() error {
	p.destroyWindow()
	glfw.Terminate()
	return nil
}

// PumpMessages polls the OS events. It returns false once the window wants to close.
func (p *Platform) PumpMessages() bool {
	glfw.PollEvents()
	return p.Window != nil && !p.Window.ShouldClose()
}

func (p *Platform) SwapBuffers() {
	if p.Window != nil {
		p.Window.SwapBuffers()
	}
}

// FramebufferSize is the drawable size in pixels.
func (p *Platform) FramebufferSize() (int32, int32) {
	if p.Window == nil {
		return 0, 0
	}
	width, height := p.Window.GetFramebufferSize()
	return int32(width), int32(height)
}

func (p *Platform) IsKeyDown(key int) bool {
	return p.Window != nil && p.Window.GetKey(glfw.Key(key)) == glfw.Press
}

/**
 * @brief Tears the window and its GL context down and builds new ones.
 * willBeDestroyed runs while the old context is still current, destroyed
 * after it is gone and created once the new context is current.
 */
func (p *Platform) RecreateContext(willBeDestroyed, destroyed, created func() error) error {
	if p.Window != nil {
		x, y := p.Window.GetPos()
		p.config.PosX, p.config.PosY = int32(x), int32(y)
		width, height := p.Window.GetSize()
		p.config.Width, p.config.Height = int32(width), int32(height)
	}

	if err := willBeDestroyed(); err != nil {
		return err
	}
	p.destroyWindow()
	if err := destroyed(); err != nil {
		return err
	}

	if err := p.createWindow(); err != nil {
		return err
	}
	core.LogInfo("graphics context recreated")
	return created()
}

func (p *Platform) Sleep(ms float64) {
	time.Sleep(time.Duration(ms * float64(time.Millisecond)))
}

// GetAbsoluteTime returns the seconds since the platform started.
func GetAbsoluteTime() float64 {
	return glfw.GetTime() - startTime
}

func (p *Platform) fire(context core.EventContext) {
	if p.events != nil {
		p.events.Fire(context)
	}
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	var code core.SystemEventCode
	switch action {
	case glfw.Press:
		code = core.EVENT_CODE_KEY_PRESSED
	case glfw.Release:
		code = core.EVENT_CODE_KEY_RELEASED
	default:
		return
	}
	p.fire(core.EventContext{Type: code, Sender: p, Data: &core.KeyEvent{KeyCode: int(key)}})
}

func (p *Platform) framebufferSizeCallback(w *glfw.Window, width, height int) {
	p.fire(core.EventContext{
		Type:   core.EVENT_CODE_RESIZED,
		Sender: p,
		Data:   &core.SystemEvent{WindowWidth: uint32(width), WindowHeight: uint32(height)},
	})
}

func (p *Platform) closeCallback(w *glfw.Window) {
	p.fire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT, Sender: p})
}
