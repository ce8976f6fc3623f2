package renderer

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderBuffer struct {
	*Camera3D
	specification RenderBufferSpecification
	destroyed     bool
}

func (b *stubRenderBuffer) Name() string { return "stub" }
func (b *stubRenderBuffer) Specification() RenderBufferSpecification { return b.specification }
func (b *stubRenderBuffer) ColorTexture(int) Texture2D { return nil }
func (b *stubRenderBuffer) DepthTexture() Texture2D { return nil }
func (b *stubRenderBuffer) Destroy() { b.destroyed = true }

func newCountingPool(created *int32) *RenderBufferPool {
	return NewRenderBufferPool(func(specification RenderBufferSpecification) (RenderBuffer, error) {
		atomic.AddInt32(created, 1)
		return &stubRenderBuffer{
			Camera3D:      NewCamera3D(specification.Size.X, specification.Size.Y),
			specification: specification,
		}, nil
	})
}

func shadowSpecification(size int32) RenderBufferSpecification {
	return RenderBufferSpecification{
		Size:               math.Vec2I{X: size, Y: size},
		DepthTextureFormat: TextureFormat{PixelFormat: PixelFormatDepth_F32},
	}
}

func TestRenderBufferPoolReuse(t *testing.T) {
	var created int32
	pool := newCountingPool(&created)

	first, err := pool.CreateRenderBuffer(shadowSpecification(512))
	require.NoError(t, err)
	pool.ReleaseRenderBuffer(first)
	assert.Equal(t, 1, pool.FreeCount(shadowSpecification(512)))

	second, err := pool.CreateRenderBuffer(shadowSpecification(512))
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), created)

	third, err := pool.CreateRenderBuffer(shadowSpecification(1024))
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, int32(2), created)
}

func TestRenderBufferPoolRejectsEmptySize(t *testing.T) {
	var created int32
	pool := newCountingPool(&created)
	_, err := pool.CreateRenderBuffer(shadowSpecification(0))
	assert.ErrorIs(t, err, core.ErrInvalidSize)
	assert.Zero(t, created)
}

func TestRenderBufferPoolClearDestroys(t *testing.T) {
	var created int32
	pool := newCountingPool(&created)
	buffer, err := pool.CreateRenderBuffer(shadowSpecification(256))
	require.NoError(t, err)
	pool.ReleaseRenderBuffer(buffer)

	pool.Clear()
	assert.True(t, buffer.(*stubRenderBuffer).destroyed)
	assert.Zero(t, pool.FreeCount(shadowSpecification(256)))
}

func TestRenderBufferPoolConcurrentAccess(t *testing.T) {
	var created int32
	pool := newCountingPool(&created)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				buffer, err := pool.CreateRenderBuffer(shadowSpecification(128))
				if err != nil {
					t.Error(err)
					return
				}
				pool.ReleaseRenderBuffer(buffer)
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&created), int32(16))
	assert.Equal(t, int(atomic.LoadInt32(&created)), pool.FreeCount(shadowSpecification(128)))
}
