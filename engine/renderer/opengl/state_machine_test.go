package opengl

import (
	"fmt"
	"testing"

	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/Tinaynox/maze-sub011/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
)

func call(name string, args ...interface{}) string {
	parts := ""
	for i, arg := range args {
		if i > 0 {
			parts += ","
		}
		parts += fmt.Sprint(arg)
	}
	return name + "(" + parts + ")"
}

// callPrefix matches a call whose leading arguments are args.
func callPrefix(name string, args ...interface{}) string {
	c := call(name, args...)
	return c[:len(c)-1] + ","
}

func TestStateMachineSkipsRedundantCalls(t *testing.T) {
	fake := newFakeGL()
	sm := NewContext(fake, ModelMatricesArchitectureUniformArray).StateMachine()

	for i := 0; i < 3; i++ {
		sm.SetBlendEnabled(true)
		sm.SetBlendFactors(metadata.BlendFactorSrcAlpha, metadata.BlendFactorOneMinusSrcAlpha)
		sm.SetViewportRect(math.Rect2I{Width: 640, Height: 480})
		sm.UseProgram(3)
		sm.BindVertexArrayObject(2)
		sm.SetCullMode(metadata.CullModeFront)
		sm.SetClearColor(math.Vec4{X: 0.1, W: 1})
	}
	sm.SetDepthWriteEnabled(false)
	sm.SetScissorTestEnabled(false)

	assert.Equal(t, 1, fake.count(call("Enable", GL_BLEND)))
	assert.Equal(t, 1, fake.count("BlendFunc"))
	assert.Equal(t, 1, fake.count("Viewport"))
	assert.Equal(t, 1, fake.count("UseProgram"))
	assert.Equal(t, 1, fake.count("BindVertexArray"))
	assert.Equal(t, 1, fake.count(call("CullFace", GL_FRONT)))
	assert.Equal(t, 1, fake.count("ClearColor"))
	assert.Equal(t, 0, fake.count("DepthMask"))
	assert.Equal(t, 0, fake.count(call("Disable", GL_SCISSOR_TEST)))
}

func TestStateMachineClearDepthAlwaysIssues(t *testing.T) {
	fake := newFakeGL()
	sm := NewContext(fake, ModelMatricesArchitectureUniformArray).StateMachine()

	sm.SetClearDepth(1)
	sm.SetClearDepth(1)

	assert.Equal(t, 2, fake.count("ClearDepth"))
}

func TestStateMachineTracksTexturesPerUnit(t *testing.T) {
	fake := newFakeGL()
	sm := NewContext(fake, ModelMatricesArchitectureUniformArray).StateMachine()

	sm.ActiveTexture(GL_TEXTURE0 + 1)
	sm.BindTexture(GL_TEXTURE_2D, 5)
	sm.ActiveTexture(GL_TEXTURE0)
	sm.BindTexture(GL_TEXTURE_2D, 5)
	sm.BindTexture(GL_TEXTURE_2D, 5)
	sm.ActiveTexture(GL_TEXTURE0 + 1)
	sm.BindTexture(GL_TEXTURE_2D, 5)

	assert.Equal(t, 2, fake.count("BindTexture"))
	assert.Equal(t, uint32(5), sm.BoundTexture(0))
	assert.Equal(t, uint32(5), sm.BoundTexture(1))
	assert.Equal(t, 1, sm.ActiveTextureIndex())
}

func TestStateMachineDefaults(t *testing.T) {
	state := NewContext(newFakeGL(), ModelMatricesArchitectureUniformArray).StateMachine().State()

	assert.Equal(t, uint32(GL_TEXTURE0), state.ActiveTexture)
	assert.Equal(t, math.Vec4{X: 1, Y: 0, Z: 1, W: 1}, state.ClearColor)
	assert.Equal(t, float32(1), state.ClearDepth)
	assert.Equal(t, metadata.BlendFactorOne, state.BlendSrcFactor)
	assert.Equal(t, metadata.BlendFactorZero, state.BlendDestFactor)
	assert.Equal(t, metadata.CompareFunctionNone, state.DepthTestCompareFunction)
	assert.Equal(t, metadata.CullModeNone, state.CullMode)
	assert.False(t, state.Blend)
	assert.False(t, state.DepthTest)
	assert.False(t, state.DepthWrite)
	assert.False(t, state.ScissorTest)
}

func TestStateMachineSetupSyncsAndConfigures(t *testing.T) {
	fake := newFakeGL()
	context := NewContext(fake, ModelMatricesArchitectureUniformArray)
	sm := context.StateMachine()
	sm.SetBlendEnabled(true)
	sm.SetWireframeRender(true)
	fake.resetCalls()

	context.NotifySetup()

	assert.Equal(t, 1, fake.count(call("FrontFace", GL_CW)))
	assert.Equal(t, 1, fake.count(call("Enable", GL_BLEND)))
	assert.Equal(t, 1, fake.count(call("PolygonMode", GL_FRONT_AND_BACK, GL_LINE)))
	assert.True(t, fake.enabled[GL_CLIP_DISTANCE0])
	assert.Equal(t, 1, fake.count("Viewport"))
}

func TestStateMachineResetsOnContextLoss(t *testing.T) {
	fake := newFakeGL()
	context := NewContext(fake, ModelMatricesArchitectureUniformArray)
	sm := context.StateMachine()
	sm.SetDepthTestEnabled(true)
	sm.UseProgram(7)
	sm.SetScissorRect(math.Rect2I{X: 1, Y: 2, Width: 3, Height: 4})

	context.NotifyWillBeDestroyed()

	assert.Equal(t, DefaultState(), sm.State())
}

func TestStateMachineResyncsOnContextCreated(t *testing.T) {
	context := NewContext(newFakeGL(), ModelMatricesArchitectureUniformArray)
	context.StateMachine().SetCullEnabled(true)

	fresh := newFakeGL()
	context.NotifyCreated(fresh)

	assert.True(t, fresh.enabled[GL_CULL_FACE])
	assert.True(t, context.IsValid())
}
