package opengl

import (
	"fmt"

	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/renderer"
	"github.com/google/uuid"
)

type pixelFormatOpenGL struct {
	internalFormat int32
	format         uint32
	dataType       uint32
	bytesPerPixel  int
}

// Half float textures are uploaded from float32 data.
func getPixelFormatOpenGL(format renderer.PixelFormat) (pixelFormatOpenGL, bool) {
	switch format {
	case renderer.PixelFormatRGBA_U8:
		return pixelFormatOpenGL{GL_RGBA8, GL_RGBA, GL_UNSIGNED_BYTE, 4}, true
	case renderer.PixelFormatRGBA_F16:
		return pixelFormatOpenGL{GL_RGBA16F, GL_RGBA, GL_FLOAT, 16}, true
	case renderer.PixelFormatRGBA_F32:
		return pixelFormatOpenGL{GL_RGBA32F, GL_RGBA, GL_FLOAT, 16}, true
	case renderer.PixelFormatDepth_U24:
		return pixelFormatOpenGL{GL_DEPTH_COMPONENT24, GL_DEPTH_COMPONENT, GL_UNSIGNED_INT, 4}, true
	case renderer.PixelFormatDepth_F32:
		return pixelFormatOpenGL{GL_DEPTH_COMPONENT32F, GL_DEPTH_COMPONENT, GL_FLOAT, 4}, true
	}
	return pixelFormatOpenGL{}, false
}

/**
 * @brief A 2D texture. The last uploaded pixels are kept on the CPU so the
 * texture can be restored after a context loss.
 */
type Texture2D struct {
	context *Context
	name    string
	id      uint32

	width       int32
	height      int32
	pixelFormat renderer.PixelFormat
	pixels      []byte

	minFilter int32
	magFilter int32
	wrap      int32
}

func NewTexture2D(context *Context, name string) (*Texture2D, error) {
	if context == nil || !context.IsValid() {
		return nil, fmt.Errorf("texture %q: %w", name, core.ErrContextInvalid)
	}
	if name == "" {
		name = "texture-" + uuid.NewString()
	}
	t := &Texture2D{
		context:   context,
		name:      name,
		minFilter: GL_LINEAR,
		magFilter: GL_LINEAR,
		wrap:      GL_CLAMP_TO_EDGE,
	}
	t.id = context.GL().GenTexture()

	events := context.Events()
	events.Register(core.EVENT_CODE_GL_CONTEXT_SETUP, t, t.onContextSetup)
	events.Register(core.EVENT_CODE_GL_CONTEXT_WILL_BE_DESTROYED, t, t.onContextLost)
	events.Register(core.EVENT_CODE_GL_CONTEXT_DESTROYED, t, t.onContextLost)
	return t, nil
}

func (t *Texture2D) Name() string {
	return t.name
}

func (t *Texture2D) ID() uint32 {
	return t.id
}

func (t *Texture2D) Width() int32 {
	return t.width
}

func (t *Texture2D) Height() int32 {
	return t.height
}

func (t *Texture2D) PixelFormat() renderer.PixelFormat {
	return t.pixelFormat
}

// SetFilters takes GL_NEAREST or GL_LINEAR. Applied on the next upload.
func (t *Texture2D) SetFilters(minFilter, magFilter int32) {
	t.minFilter = minFilter
	t.magFilter = magFilter
}

func (t *Texture2D) SetWrap(wrap int32) {
	t.wrap = wrap
}

// ScopeBind binds the texture on the active unit and returns a func restoring the previous one.
func (t *Texture2D) ScopeBind() func() {
	sm := t.context.StateMachine()
	index := sm.ActiveTextureIndex()
	state := sm.State()
	previousID := state.TextureIDs[index]
	previousTarget := state.TextureTargets[index]
	sm.BindTexture(GL_TEXTURE_2D, t.id)
	return func() {
		if previousTarget == 0 {
			previousTarget = GL_TEXTURE_2D
		}
		sm.BindTexture(previousTarget, previousID)
	}
}

/**
 * @brief Allocates the texture storage. pixels may be nil for render
 * targets; otherwise it must hold width*height pixels of the format.
 */
func (t *Texture2D) LoadFromPixels(width, height int32, format renderer.PixelFormat, pixels []byte) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("texture %s %dx%d: %w", t.name, width, height, core.ErrInvalidSize)
	}
	glFormat, ok := getPixelFormatOpenGL(format)
	if !ok {
		return fmt.Errorf("texture %s pixel format %d: %w", t.name, format, core.ErrUnsupportedType)
	}
	expected := int(width) * int(height) * glFormat.bytesPerPixel
	if pixels != nil && len(pixels) < expected {
		return fmt.Errorf("texture %s expects %d bytes, got %d: %w", t.name, expected, len(pixels), core.ErrInvalidSize)
	}

	t.width = width
	t.height = height
	t.pixelFormat = format
	if pixels != nil {
		t.pixels = append(t.pixels[:0], pixels[:expected]...)
	} else {
		t.pixels = nil
	}

	if !t.context.IsValid() {
		return nil
	}
	t.upload()
	return nil
}

func (t *Texture2D) upload() {
	glFormat, _ := getPixelFormatOpenGL(t.pixelFormat)
	gl := t.context.GL()

	restore := t.ScopeBind()
	defer restore()

	gl.TexParameteri(GL_TEXTURE_2D, GL_TEXTURE_MIN_FILTER, t.minFilter)
	gl.TexParameteri(GL_TEXTURE_2D, GL_TEXTURE_MAG_FILTER, t.magFilter)
	gl.TexParameteri(GL_TEXTURE_2D, GL_TEXTURE_WRAP_S, t.wrap)
	gl.TexParameteri(GL_TEXTURE_2D, GL_TEXTURE_WRAP_T, t.wrap)
	gl.TexImage2D(GL_TEXTURE_2D, 0, glFormat.internalFormat, t.width, t.height, glFormat.format, glFormat.dataType, t.pixels)
}

/**
 * @brief Replaces a sub-rectangle. pixels holds width*height pixels in
 * the texture format, rows bottom to top.
 */
func (t *Texture2D) Update(x, y, width, height int32, pixels []byte) error {
	if x < 0 || y < 0 || width <= 0 || height <= 0 || x+width > t.width || y+height > t.height {
		return fmt.Errorf("texture %s update rect (%d,%d %dx%d): %w", t.name, x, y, width, height, core.ErrInvalidSize)
	}
	glFormat, _ := getPixelFormatOpenGL(t.pixelFormat)
	rowSize := int(width) * glFormat.bytesPerPixel
	if len(pixels) < rowSize*int(height) {
		return fmt.Errorf("texture %s update expects %d bytes, got %d: %w", t.name, rowSize*int(height), len(pixels), core.ErrInvalidSize)
	}

	if t.pixels == nil {
		t.pixels = make([]byte, int(t.width)*int(t.height)*glFormat.bytesPerPixel)
	}
	stride := int(t.width) * glFormat.bytesPerPixel
	for row := 0; row < int(height); row++ {
		dst := (int(y)+row)*stride + int(x)*glFormat.bytesPerPixel
		copy(t.pixels[dst:dst+rowSize], pixels[row*rowSize:(row+1)*rowSize])
	}

	if !t.context.IsValid() {
		return nil
	}
	restore := t.ScopeBind()
	defer restore()
	t.context.GL().TexSubImage2D(GL_TEXTURE_2D, 0, x, y, width, height, glFormat.format, glFormat.dataType, pixels[:rowSize*int(height)])
	return nil
}

func (t *Texture2D) onContextSetup(core.EventContext) bool {
	if t.id == 0 {
		t.id = t.context.GL().GenTexture()
	}
	if t.width > 0 && t.height > 0 {
		t.upload()
	}
	return false
}

func (t *Texture2D) onContextLost(core.EventContext) bool {
	t.id = 0
	return false
}

func (t *Texture2D) Destroy() {
	t.context.Events().UnregisterAll(t)
	if t.context.IsValid() && t.id != 0 {
		t.context.GL().DeleteTexture(t.id)
	}
	t.id = 0
	t.pixels = nil
}
