package opengl

import (
	"fmt"

	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/renderer"
	"github.com/google/uuid"
)

/**
 * @brief A framebuffer object with texture attachments. Drawing a queue
 * whose target is a RenderBuffer renders into it; the embedded camera
 * provides the view and projection.
 */
type RenderBuffer struct {
	*renderer.Camera3D

	context       *Context
	name          string
	specification renderer.RenderBufferSpecification
	fbo           uint32

	colorTextures [renderer.RenderBufferColorTexturesMax]*Texture2D
	depthTexture  *Texture2D
}

func NewRenderBuffer(context *Context, specification renderer.RenderBufferSpecification) (*RenderBuffer, error) {
	if context == nil || !context.IsValid() {
		return nil, fmt.Errorf("render buffer: %w", core.ErrContextInvalid)
	}
	if specification.Size.X <= 0 || specification.Size.Y <= 0 {
		return nil, fmt.Errorf("render buffer size %v: %w", specification.Size, core.ErrInvalidSize)
	}
	rb := &RenderBuffer{
		Camera3D:      renderer.NewCamera3D(specification.Size.X, specification.Size.Y),
		context:       context,
		name:          "render-buffer-" + uuid.NewString(),
		specification: specification,
	}

	for i, format := range specification.ColorTextureFormats {
		if format.PixelFormat == renderer.PixelFormatNone {
			continue
		}
		texture, err := rb.createAttachment(fmt.Sprintf("%s-color%d", rb.name, i), format.PixelFormat)
		if err != nil {
			rb.Destroy()
			return nil, err
		}
		rb.colorTextures[i] = texture
	}
	if format := specification.DepthTextureFormat.PixelFormat; format != renderer.PixelFormatNone {
		texture, err := rb.createAttachment(rb.name+"-depth", format)
		if err != nil {
			rb.Destroy()
			return nil, err
		}
		rb.depthTexture = texture
	}

	if err := rb.createFrameBuffer(); err != nil {
		rb.Destroy()
		return nil, err
	}

	events := context.Events()
	events.Register(core.EVENT_CODE_GL_CONTEXT_SETUP, rb, rb.onContextSetup)
	events.Register(core.EVENT_CODE_GL_CONTEXT_WILL_BE_DESTROYED, rb, rb.onContextLost)
	events.Register(core.EVENT_CODE_GL_CONTEXT_DESTROYED, rb, rb.onContextLost)
	return rb, nil
}

func (rb *RenderBuffer) createAttachment(name string, format renderer.PixelFormat) (*Texture2D, error) {
	texture, err := NewTexture2D(rb.context, name)
	if err != nil {
		return nil, err
	}
	if err := texture.LoadFromPixels(rb.specification.Size.X, rb.specification.Size.Y, format, nil); err != nil {
		texture.Destroy()
		return nil, err
	}
	return texture, nil
}

func (rb *RenderBuffer) createFrameBuffer() error {
	gl := rb.context.GL()
	sm := rb.context.StateMachine()
	rb.fbo = gl.GenFramebuffer()

	previous := sm.State().FrameBuffer
	sm.BindFrameBuffer(rb.fbo)
	defer sm.BindFrameBuffer(previous)

	for i, texture := range rb.colorTextures {
		if texture != nil {
			gl.FramebufferTexture2D(GL_FRAMEBUFFER, GL_COLOR_ATTACHMENT0+uint32(i), GL_TEXTURE_2D, texture.ID(), 0)
		}
	}
	if rb.depthTexture != nil {
		gl.FramebufferTexture2D(GL_FRAMEBUFFER, GL_DEPTH_ATTACHMENT, GL_TEXTURE_2D, rb.depthTexture.ID(), 0)
	}
	if status := gl.CheckFramebufferStatus(GL_FRAMEBUFFER); status != GL_FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("render buffer %s status 0x%x: %w", rb.name, status, core.ErrFramebufferIncomplete)
	}
	return nil
}

func (rb *RenderBuffer) Name() string {
	return rb.name
}

func (rb *RenderBuffer) Specification() renderer.RenderBufferSpecification {
	return rb.specification
}

func (rb *RenderBuffer) FrameBufferID() uint32 {
	return rb.fbo
}

func (rb *RenderBuffer) ColorTexture(index int) renderer.Texture2D {
	if index < 0 || index >= len(rb.colorTextures) || rb.colorTextures[index] == nil {
		return nil
	}
	return rb.colorTextures[index]
}

func (rb *RenderBuffer) DepthTexture() renderer.Texture2D {
	if rb.depthTexture == nil {
		return nil
	}
	return rb.depthTexture
}

// Attachments are re-created by their own listeners, registered before this one.
func (rb *RenderBuffer) onContextSetup(core.EventContext) bool {
	if err := rb.createFrameBuffer(); err != nil {
		core.LogError("%v", err)
	}
	return false
}

func (rb *RenderBuffer) onContextLost(core.EventContext) bool {
	rb.fbo = 0
	return false
}

func (rb *RenderBuffer) Destroy() {
	rb.context.Events().UnregisterAll(rb)
	if rb.context.IsValid() && rb.fbo != 0 {
		sm := rb.context.StateMachine()
		if sm.State().FrameBuffer == rb.fbo {
			sm.BindFrameBuffer(0)
		}
		rb.context.GL().DeleteFramebuffer(rb.fbo)
	}
	rb.fbo = 0
	for i, texture := range rb.colorTextures {
		if texture != nil {
			texture.Destroy()
			rb.colorTextures[i] = nil
		}
	}
	if rb.depthTexture != nil {
		rb.depthTexture.Destroy()
		rb.depthTexture = nil
	}
}
