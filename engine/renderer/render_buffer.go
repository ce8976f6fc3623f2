package renderer

import (
	"fmt"
	"sync"

	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/math"
)

const RenderBufferColorTexturesMax = 4

type PixelFormat uint8

const (
	PixelFormatNone PixelFormat = iota
	PixelFormatRGBA_U8
	PixelFormatRGBA_F16
	PixelFormatRGBA_F32
	PixelFormatDepth_U24
	PixelFormatDepth_F32
)

type TextureFormat struct {
	PixelFormat PixelFormat
	Samples     int32
}

/**
 * @brief Describes an offscreen target. The struct is comparable and is
 * used as the key of the render buffer pool.
 */
type RenderBufferSpecification struct {
	Size                 math.Vec2I
	ColorTextureFormats  [RenderBufferColorTexturesMax]TextureFormat
	DepthTextureFormat   TextureFormat
	StencilTextureFormat TextureFormat
}

/** @brief An offscreen render target with its attachments. */
type RenderBuffer interface {
	RenderTarget
	Name() string
	Specification() RenderBufferSpecification
	ColorTexture(index int) Texture2D
	DepthTexture() Texture2D
	Destroy()
}

type RenderBufferFactory func(specification RenderBufferSpecification) (RenderBuffer, error)

/**
 * @brief Recycles render buffers by specification. Safe for concurrent use:
 * the lock only covers the free lists, GPU work happens outside it.
 */
type RenderBufferPool struct {
	mu      sync.Mutex
	factory RenderBufferFactory
	free    map[RenderBufferSpecification][]RenderBuffer
}

func NewRenderBufferPool(factory RenderBufferFactory) *RenderBufferPool {
	return &RenderBufferPool{
		factory: factory,
		free:    make(map[RenderBufferSpecification][]RenderBuffer),
	}
}

// CreateRenderBuffer returns a released buffer with the same specification or creates a new one.
func (p *RenderBufferPool) CreateRenderBuffer(specification RenderBufferSpecification) (RenderBuffer, error) {
	if specification.Size.X <= 0 || specification.Size.Y <= 0 {
		return nil, fmt.Errorf("render buffer size %v: %w", specification.Size, core.ErrInvalidSize)
	}

	p.mu.Lock()
	buffers := p.free[specification]
	if n := len(buffers); n > 0 {
		buffer := buffers[n-1]
		buffers[n-1] = nil
		p.free[specification] = buffers[:n-1]
		p.mu.Unlock()
		return buffer, nil
	}
	p.mu.Unlock()

	buffer, err := p.factory(specification)
	if err != nil {
		return nil, fmt.Errorf("failed to create render buffer: %w", err)
	}
	return buffer, nil
}

// ReleaseRenderBuffer gives a buffer back to the pool.
func (p *RenderBufferPool) ReleaseRenderBuffer(buffer RenderBuffer) {
	if buffer == nil {
		return
	}
	specification := buffer.Specification()
	p.mu.Lock()
	p.free[specification] = append(p.free[specification], buffer)
	p.mu.Unlock()
}

func (p *RenderBufferPool) FreeCount(specification RenderBufferSpecification) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free[specification])
}

// Clear destroys every pooled buffer.
func (p *RenderBufferPool) Clear() {
	p.mu.Lock()
	free := p.free
	p.free = make(map[RenderBufferSpecification][]RenderBuffer)
	p.mu.Unlock()

	for _, buffers := range free {
		for _, buffer := range buffers {
			buffer.Destroy()
		}
	}
}
