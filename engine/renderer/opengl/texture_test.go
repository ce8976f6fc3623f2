package opengl

import (
	"testing"

	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextureLoadFromPixels(t *testing.T) {
	rs, fake := newTestRenderSystem(t, ModelMatricesArchitectureUniformArray)
	texture, err := NewTexture2D(rs.Context(), "sprite")
	require.NoError(t, err)

	require.NoError(t, texture.LoadFromPixels(4, 2, renderer.PixelFormatRGBA_U8, make([]byte, 32)))

	assert.Equal(t, int32(4), texture.Width())
	assert.Equal(t, int32(2), texture.Height())
	assert.Equal(t, 1, fake.count(call("TexImage2D", GL_RGBA8, 4, 2, 32)))
	// The previous binding of unit 0 is restored.
	assert.Equal(t, uint32(0), rs.Context().StateMachine().BoundTexture(0))
}

func TestTextureRejectsBadInput(t *testing.T) {
	rs, _ := newTestRenderSystem(t, ModelMatricesArchitectureUniformArray)
	texture, err := NewTexture2D(rs.Context(), "sprite")
	require.NoError(t, err)

	assert.ErrorIs(t, texture.LoadFromPixels(0, 2, renderer.PixelFormatRGBA_U8, nil), core.ErrInvalidSize)
	assert.ErrorIs(t, texture.LoadFromPixels(2, 2, renderer.PixelFormatRGBA_U8, make([]byte, 3)), core.ErrInvalidSize)
	assert.ErrorIs(t, texture.LoadFromPixels(2, 2, renderer.PixelFormatNone, nil), core.ErrUnsupportedType)

	require.NoError(t, texture.LoadFromPixels(2, 2, renderer.PixelFormatRGBA_U8, nil))
	assert.ErrorIs(t, texture.Update(1, 1, 2, 2, make([]byte, 16)), core.ErrInvalidSize)
}

func TestTextureUpdateIsRestoredAfterContextLoss(t *testing.T) {
	rs, fake := newTestRenderSystem(t, ModelMatricesArchitectureUniformArray)
	context := rs.Context()
	texture, err := NewTexture2D(context, "sprite")
	require.NoError(t, err)
	require.NoError(t, texture.LoadFromPixels(2, 2, renderer.PixelFormatRGBA_U8, nil))

	require.NoError(t, texture.Update(1, 1, 1, 1, []byte{1, 2, 3, 4}))
	assert.Equal(t, 1, fake.count(call("TexSubImage2D", 1, 1, 1, 1, 4)))

	context.NotifyWillBeDestroyed()
	context.NotifyDestroyed()
	assert.Zero(t, texture.ID())

	fresh := newFakeGL()
	context.NotifyCreated(fresh)
	context.NotifySetup()

	assert.NotZero(t, texture.ID())
	assert.Equal(t, 1, fresh.count(call("TexImage2D", GL_RGBA8, 2, 2, 16)))
	assert.Equal(t, []byte{1, 2, 3, 4}, texture.pixels[12:16])
}
