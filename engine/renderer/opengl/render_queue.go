package opengl

import (
	"github.com/Tinaynox/maze-sub011/engine/containers"
	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/Tinaynox/maze-sub011/engine/renderer"
	"github.com/Tinaynox/maze-sub011/engine/renderer/metadata"
)

const modelMatrixVec4PerInstance = 4

/**
 * @brief Replays a renderer.RenderQueue on an OpenGL context. Owns the
 * instance streams the recorded instance data is fed through.
 */
type RenderQueue struct {
	renderSystem *RenderSystem
	context      *Context

	modelMatricesStream *InstanceStream
	colorStream         *InstanceStream
	uvStreams           [metadata.UVChannelsMax]*InstanceStream

	maxInstancesPerDrawCall int32
	maxInstancesPerDraw     int32

	queue        *renderer.RenderQueue
	viewport     math.Rect2I
	scissorStack []math.Rect2I
	clipPlanes   [MaxClipDistancesCount]math.Vec4
}

func NewRenderQueue(renderSystem *RenderSystem) (*RenderQueue, error) {
	context := renderSystem.Context()
	rq := &RenderQueue{
		renderSystem: renderSystem,
		context:      context,
	}

	var err error
	if rq.modelMatricesStream, err = NewInstanceStream(context, InstanceStreamModelMatricesName, modelMatrixVec4PerInstance); err != nil {
		return nil, err
	}
	if rq.colorStream, err = NewInstanceStream(context, InstanceStreamColorName, 1); err != nil {
		return nil, err
	}
	for i := range rq.uvStreams {
		if rq.uvStreams[i], err = NewInstanceStream(context, uvStreamName(i), 1); err != nil {
			return nil, err
		}
	}

	var limiters []instanceLimiter
	rq.forEachStream(func(stream *InstanceStream) {
		limiters = append(limiters, stream)
	})
	rq.maxInstancesPerDrawCall, rq.maxInstancesPerDraw = instanceLimits(limiters)
	return rq, nil
}

type instanceLimiter interface {
	MaxInstancesPerDrawCall() int32
	MaxInstancesPerDraw() int32
}

// instanceLimits returns the tightest per-call and per-frame limits of all streams.
func instanceLimits(limiters []instanceLimiter) (perDrawCall int32, perDraw int32) {
	if len(limiters) == 0 {
		return 0, 0
	}
	perDrawCall = limiters[0].MaxInstancesPerDrawCall()
	perDraw = limiters[0].MaxInstancesPerDraw()
	for _, limiter := range limiters[1:] {
		perDrawCall = math.Min(perDrawCall, limiter.MaxInstancesPerDrawCall())
		perDraw = math.Min(perDraw, limiter.MaxInstancesPerDraw())
	}
	return perDrawCall, perDraw
}

func (rq *RenderQueue) MaxInstancesPerDrawCall() int32 {
	return rq.maxInstancesPerDrawCall
}

func (rq *RenderQueue) MaxInstancesPerDraw() int32 {
	return rq.maxInstancesPerDraw
}

func (rq *RenderQueue) ModelMatricesStream() *InstanceStream {
	return rq.modelMatricesStream
}

func (rq *RenderQueue) ColorStream() *InstanceStream {
	return rq.colorStream
}

func (rq *RenderQueue) UVStream(channel int) *InstanceStream {
	return rq.uvStreams[channel]
}

// Viewport is the pixel viewport of the last replay.
func (rq *RenderQueue) Viewport() math.Rect2I {
	return rq.viewport
}

func (rq *RenderQueue) ScissorDepth() int {
	return len(rq.scissorStack)
}

func (rq *RenderQueue) forEachStream(fn func(stream *InstanceStream)) {
	fn(rq.modelMatricesStream)
	fn(rq.colorStream)
	for _, stream := range rq.uvStreams {
		fn(stream)
	}
}

func computeViewport(target renderer.RenderTarget) math.Rect2I {
	width := float32(target.RenderTargetWidth())
	height := float32(target.RenderTargetHeight())
	viewport := target.Viewport()
	return math.Rect2I{
		X:      int32(math.Round(viewport.Position.X * width)),
		Y:      int32(math.Round(viewport.Position.Y * height)),
		Width:  int32(math.Round(viewport.Size.X * width)),
		Height: int32(math.Round(viewport.Size.Y * height)),
	}
}

/**
 * @brief Replays every recorded command in order. The caller clears the
 * queue afterwards.
 */
func (rq *RenderQueue) Execute(queue *renderer.RenderQueue) {
	if !rq.context.IsValid() {
		core.LogError("render queue: %v", core.ErrContextInvalid)
		return
	}
	rq.queue = queue
	defer func() {
		rq.queue = nil
	}()

	sm := rq.context.StateMachine()
	target := queue.RenderTarget()
	if renderBuffer, ok := target.(*RenderBuffer); ok {
		sm.BindFrameBuffer(renderBuffer.FrameBufferID())
	} else {
		sm.BindFrameBuffer(0)
	}
	rq.viewport = computeViewport(target)
	sm.SetViewportRect(rq.viewport)

	queue.ClearDrawCalls()
	rq.scissorStack = rq.scissorStack[:0]
	rq.modelMatricesStream.ProcessDrawBegin(containers.CastSlice[math.Mat4, math.Vec4](queue.ModelMatrices()))
	rq.colorStream.ProcessDrawBegin(queue.Colors())
	for i, stream := range rq.uvStreams {
		stream.ProcessDrawBegin(queue.UVs(i))
	}

	for _, command := range queue.Commands() {
		switch c := command.(type) {
		case *renderer.ClearCurrentRenderTargetCommand:
			rq.renderSystem.ClearCurrentRenderTarget(c.ColorBuffer, c.DepthBuffer)
		case *renderer.SetRenderPassCommand:
			rq.BindRenderPass(c.RenderPass)
		case *renderer.DrawVAOInstancedCommand:
			rq.drawVAOInstanced(c)
		case *renderer.PushScissorRectCommand:
			rq.pushScissorRect(c.ScissorRect)
		case *renderer.PopScissorRectCommand:
			rq.popScissorRect()
		case *renderer.EnableClipPlaneCommand:
			rq.setClipPlane(c.Index, true, c.Plane)
		case *renderer.DisableClipPlaneCommand:
			rq.setClipPlane(c.Index, false, math.Vec4{})
		case *renderer.UploadShaderUniformCommand[math.Vec2]:
			if shader := rq.currentShader(); shader != nil {
				shader.EnsureUniform(c.Name).SetVec2(c.Values...)
			}
		case *renderer.UploadShaderUniformCommand[math.Vec3]:
			if shader := rq.currentShader(); shader != nil {
				shader.EnsureUniform(c.Name).SetVec3(c.Values...)
			}
		case *renderer.UploadShaderUniformCommand[math.Vec4]:
			if shader := rq.currentShader(); shader != nil {
				shader.EnsureUniform(c.Name).SetVec4(c.Values...)
			}
		case *renderer.UploadShaderUniformCommand[math.Mat3]:
			if shader := rq.currentShader(); shader != nil {
				shader.EnsureUniform(c.Name).SetMat3(c.Values...)
			}
		case *renderer.UploadShaderUniformCommand[math.Mat4]:
			if shader := rq.currentShader(); shader != nil {
				shader.EnsureUniform(c.Name).SetMat4(c.Values...)
			}
		case *renderer.UploadShaderUniformCommand[math.Affine]:
			if shader := rq.currentShader(); shader != nil {
				shader.EnsureUniform(c.Name).SetAffine(c.Values...)
			}
		default:
			core.LogError("render queue: unsupported command %T", command)
		}
	}

	if len(rq.scissorStack) > 0 {
		core.LogWarn("render queue: %d scissor rects left on the stack", len(rq.scissorStack))
		rq.scissorStack = rq.scissorStack[:0]
		sm.SetScissorTestEnabled(false)
	}
	sm.BindVertexArrayObject(0)
}

func (rq *RenderQueue) currentShader() *Shader {
	shader := rq.context.CurrentShader()
	if shader == nil {
		core.LogError("render queue: %v", core.ErrNoCurrentShader)
	}
	return shader
}

func (rq *RenderQueue) drawAllowed() bool {
	queue := rq.queue
	if limit := queue.DrawCallsLimit(); limit > 0 && queue.DrawCalls() >= limit {
		return false
	}
	if limit := rq.renderSystem.DrawCallsLimit(); limit > 0 && rq.renderSystem.DrawCalls() >= limit {
		return false
	}
	return true
}

func (rq *RenderQueue) advanceStreams(c *renderer.DrawVAOInstancedCommand) {
	rq.modelMatricesStream.Advance(c.Count)
	if c.UseColorStream {
		rq.colorStream.Advance(c.Count)
	}
	for i, stream := range rq.uvStreams {
		if c.UVMask&(1<<i) != 0 {
			stream.Advance(c.Count)
		}
	}
}

func (rq *RenderQueue) drawVAOInstanced(c *renderer.DrawVAOInstancedCommand) {
	defer rq.advanceStreams(c)

	shader := rq.currentShader()
	if shader == nil {
		return
	}
	vao, ok := c.VAO.(*VertexArrayObject)
	if !ok || vao == nil {
		core.LogError("render queue: vertex array object %T does not belong to OpenGL", c.VAO)
		return
	}

	rq.modelMatricesStream.PrepareForRender(c.Count)
	if c.UseColorStream {
		rq.colorStream.PrepareForRender(c.Count)
	}
	for i, stream := range rq.uvStreams {
		if c.UVMask&(1<<i) != 0 {
			stream.PrepareForRender(c.Count)
		}
	}
	shader.BindTextures()

	if vao.IndicesCount() <= 0 {
		return
	}
	if rq.drawAllowed() {
		vao.Bind()
		rq.context.GL().DrawElementsInstanced(
			GetRenderDrawTopologyOpenGL(vao.RenderDrawTopology()),
			int32(vao.IndicesCount()),
			GetVertexAttributeTypeOpenGL(vao.IndicesType()),
			0,
			c.Count)
	} else {
		rq.renderSystem.IncDrawCallsSkipped()
	}
	rq.queue.IncDrawCalls()
	rq.renderSystem.IncDrawCalls()
}

/**
 * @brief Converts a fraction rect to render target pixels. The size absorbs
 * the fractional part of the position so adjacent rects do not leave gaps.
 */
func scissorRectToPixels(rect math.Rect2F, targetWidth, targetHeight int32) math.Rect2I {
	width := float32(targetWidth)
	height := float32(targetHeight)
	posX := math.Round(width * rect.Position.X)
	posY := math.Round(height * rect.Position.Y)
	sizeX := math.Round(width*rect.Size.X) + math.Fract(posX)
	sizeY := math.Round(height*rect.Size.Y) + math.Fract(posY)
	return math.Rect2I{
		X:      int32(posX),
		Y:      int32(posY),
		Width:  int32(sizeX + 0.5),
		Height: int32(sizeY + 0.5),
	}
}

func (rq *RenderQueue) pushScissorRect(rect math.Rect2F) {
	target := rq.queue.RenderTarget()
	pixels := scissorRectToPixels(rect, target.RenderTargetWidth(), target.RenderTargetHeight())
	if n := len(rq.scissorStack); n > 0 {
		pixels = pixels.Intersect(rq.scissorStack[n-1])
	} else {
		pixels = pixels.Intersect(rq.viewport)
	}
	rq.scissorStack = append(rq.scissorStack, pixels)

	sm := rq.context.StateMachine()
	sm.SetScissorRect(pixels)
	sm.SetScissorTestEnabled(true)
}

func (rq *RenderQueue) popScissorRect() {
	n := len(rq.scissorStack)
	if n == 0 {
		core.LogError("render queue: scissor stack is empty")
		return
	}
	rq.scissorStack = rq.scissorStack[:n-1]

	sm := rq.context.StateMachine()
	if n == 1 {
		sm.SetScissorTestEnabled(false)
		return
	}
	sm.SetScissorRect(rq.scissorStack[n-2])
}

func (rq *RenderQueue) setClipPlane(index int32, enabled bool, plane math.Vec4) {
	if index < 0 || index >= MaxClipDistancesCount {
		core.LogError("render queue: clip plane index %d is out of range", index)
		return
	}
	rq.context.StateMachine().SetClipDistanceEnabled(int(index), enabled)
	rq.clipPlanes[index] = plane
	if shader := rq.context.CurrentShader(); shader != nil {
		rq.applyClipUniforms(shader)
	}
}

func (rq *RenderQueue) applyClipUniforms(shader *Shader) {
	enabled := func(i int) float32 {
		if rq.context.ClipDistanceEnabled(i) {
			return 1
		}
		return 0
	}
	shader.EnsureUniform(UniformClipDistanceEnable).SetVec4(math.Vec4{X: enabled(0), Y: enabled(1), Z: enabled(2), W: enabled(3)})
	if rq.context.ClipDistanceEnabled(0) {
		shader.EnsureUniform(UniformClipDistance0).SetVec4(rq.clipPlanes[0])
	}
}

/**
 * @brief Applies the fixed-function state of the pass, makes its shader
 * current and uploads the engine and pass uniforms. One/Zero blending,
 * CompareFunctionDisabled and CullModeOff switch the respective test off.
 */
func (rq *RenderQueue) BindRenderPass(pass *renderer.RenderPass) {
	if pass == nil {
		core.LogError("render queue: render pass is nil")
		return
	}
	sm := rq.context.StateMachine()

	blend := pass.IsBlendEnabled()
	sm.SetBlendEnabled(blend)
	if blend {
		sm.SetBlendFactors(pass.BlendSrcFactor, pass.BlendDestFactor)
	}

	depthTest := pass.IsDepthTestEnabled()
	sm.SetDepthTestEnabled(depthTest)
	if depthTest {
		sm.SetDepthTestCompareFunction(pass.DepthTestCompareFunction)
	}
	sm.SetDepthWriteEnabled(pass.DepthWriteEnabled)

	cull := pass.IsCullEnabled()
	sm.SetCullEnabled(cull)
	if cull {
		sm.SetCullMode(pass.CullMode)
	}

	shader, ok := pass.Shader.(*Shader)
	if !ok || shader == nil {
		core.LogError("render pass %s: %v", pass.Name, core.ErrNoCurrentShader)
		rq.context.SetCurrentShader(nil)
		return
	}
	rq.context.SetCurrentShader(shader)
	rq.applyRenderPassUniforms(shader)
	if err := pass.ApplyUniforms(); err != nil {
		core.LogError("render pass %s: %v", pass.Name, err)
	}
	rq.forEachStream(func(stream *InstanceStream) {
		stream.BindRenderPass(shader)
	})
}

func (rq *RenderQueue) applyRenderPassUniforms(shader *Shader) {
	var target renderer.RenderTarget
	if rq.queue != nil {
		target = rq.queue.RenderTarget()
	}
	if target != nil {
		shader.EnsureUniform(UniformViewMatrix).SetMat4(target.ViewMatrix())
		shader.EnsureUniform(UniformProjectionMatrix).SetMat4(target.ProjectionMatrix())
		shader.EnsureUniform(UniformProjectionParams).SetVec4(math.Vec4{X: target.Near(), Y: target.Far()})
		shader.EnsureUniform(UniformViewPosition).SetVec3(target.ViewPosition())
	}
	rq.applyClipUniforms(shader)
	shader.EnsureUniform(UniformTime).SetFloat(rq.renderSystem.Time())
}

func (rq *RenderQueue) Destroy() {
	rq.forEachStream(func(stream *InstanceStream) {
		stream.Destroy()
	})
}
