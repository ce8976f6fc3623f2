package opengl

import (
	"testing"

	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckedGLReportsFailingCall(t *testing.T) {
	fake := newFakeGL()
	checked := NewCheckedGL(fake)

	fake.pendingErrors = []uint32{GL_INVALID_OPERATION}
	checked.BindTexture(GL_TEXTURE_2D, 7)

	assert.Equal(t, 1, fake.count(call("BindTexture", GL_TEXTURE_2D, 7)))
	assert.Equal(t, 1, checked.ErrorCount())
	err := checked.LastError()
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrGLCall)
	assert.Contains(t, err.Error(), "glBindTexture")
	assert.Contains(t, err.Error(), "GL_INVALID_OPERATION")
	assert.Contains(t, err.Error(), "checked_gl_test.go")

	checked.BindTexture(GL_TEXTURE_2D, 0)
	assert.Equal(t, 1, checked.ErrorCount())
}

func TestCheckedGLDrainsQueuedErrors(t *testing.T) {
	fake := newFakeGL()
	checked := NewCheckedGL(fake)

	fake.pendingErrors = []uint32{GL_INVALID_ENUM, GL_OUT_OF_MEMORY}
	id := checked.GenBuffer()

	assert.NotZero(t, id)
	assert.Equal(t, 2, checked.ErrorCount())
	assert.Contains(t, checked.LastError().Error(), "GL_OUT_OF_MEMORY")
	assert.Empty(t, fake.pendingErrors)
}

func TestGLErrorString(t *testing.T) {
	assert.Equal(t, "GL_INVALID_VALUE", GLErrorString(GL_INVALID_VALUE))
	assert.Equal(t, "GL_INVALID_FRAMEBUFFER_OPERATION", GLErrorString(GL_INVALID_FRAMEBUFFER_OPERATION))
	assert.Equal(t, "0x1234", GLErrorString(0x1234))
}

func TestRenderSystemDebugGLChecks(t *testing.T) {
	fake := newFakeGL()
	rs, err := NewRenderSystem(fake, RenderSystemConfig{DebugGLChecks: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = rs.Shutdown()
	})

	checked, ok := rs.Context().GL().(*CheckedGL)
	require.True(t, ok)
	assert.Same(t, fake, checked.Unwrap())

	fake.pendingErrors = []uint32{GL_INVALID_VALUE}
	rs.Context().StateMachine().SetClearDepth(1)
	require.Error(t, checked.LastError())
	assert.Contains(t, checked.LastError().Error(), "glClearDepth")
	assert.Contains(t, checked.LastError().Error(), "state_machine.go")

	// A recreated context keeps the checks.
	rs.Context().NotifyWillBeDestroyed()
	rs.Context().NotifyDestroyed()
	recreated := newFakeGL()
	rs.Context().NotifyCreated(recreated)
	checked, ok = rs.Context().GL().(*CheckedGL)
	require.True(t, ok)
	assert.Same(t, recreated, checked.Unwrap())
}

func TestRenderSystemWithoutDebugGLChecks(t *testing.T) {
	rs, fake := newTestRenderSystem(t, ModelMatricesArchitectureUniformArray)

	assert.Same(t, fake, rs.Context().GL())
	assert.False(t, rs.Context().DebugChecks())
}
