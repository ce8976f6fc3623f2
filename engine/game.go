package engine

import (
	"github.com/Tinaynox/maze-sub011/engine/renderer"
)

type Game struct {
	// Set by the engine before FnInitialize runs.
	Engine       *Engine
	State        interface{}
	FnInitialize Initialize
	FnUpdate     Update
	FnRender     Render
	FnOnResize   OnResize
	FnShutdown   Shutdown
}

type Initialize func() error
type Update func(deltaTime float64) error
type Render func(queue *renderer.RenderQueue, deltaTime float64) error
type OnResize func(width int32, height int32) error
type Shutdown func() error
