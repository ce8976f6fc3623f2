package renderer

import (
	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/Tinaynox/maze-sub011/engine/renderer/metadata"
)

/**
 * @brief The backend half of a render queue: replays the recorded commands
 * against a GPU context and reports how many instances fit in one draw call.
 */
type RenderQueueExecutor interface {
	MaxInstancesPerDrawCall() int32
	MaxInstancesPerDraw() int32
	Execute(queue *RenderQueue)
}

/**
 * @brief Records draw intents for one render target. Commands are replayed
 * in FIFO order by Draw and the queue is cleared afterwards. Consecutive
 * draws of the same VAO with the same instance streams are merged into one
 * instanced command, split at the executor's per-draw-call limit.
 */
type RenderQueue struct {
	target   RenderTarget
	executor RenderQueueExecutor

	commands        []RenderCommand
	lastDrawCommand *DrawVAOInstancedCommand

	modelMatrices []math.Mat4
	colors        []math.Vec4
	uvs           [metadata.UVChannelsMax][]math.Vec4

	drawCalls      int32
	drawCallsLimit int32
}

func NewRenderQueue(target RenderTarget, executor RenderQueueExecutor) *RenderQueue {
	return &RenderQueue{
		target:   target,
		executor: executor,
	}
}

func (q *RenderQueue) RenderTarget() RenderTarget {
	return q.target
}

func (q *RenderQueue) Executor() RenderQueueExecutor {
	return q.executor
}

func (q *RenderQueue) Commands() []RenderCommand {
	return q.commands
}

func (q *RenderQueue) IsEmpty() bool {
	return len(q.commands) == 0
}

func (q *RenderQueue) ModelMatrices() []math.Mat4 {
	return q.modelMatrices
}

func (q *RenderQueue) Colors() []math.Vec4 {
	return q.colors
}

func (q *RenderQueue) UVs(channel int) []math.Vec4 {
	return q.uvs[channel]
}

// Clear drops the recorded commands and instance data, keeping the allocations.
func (q *RenderQueue) Clear() {
	clear(q.commands)
	q.commands = q.commands[:0]
	q.lastDrawCommand = nil
	q.modelMatrices = q.modelMatrices[:0]
	q.colors = q.colors[:0]
	for i := range q.uvs {
		q.uvs[i] = q.uvs[i][:0]
	}
}

// Draw replays the queue on its executor and clears it.
func (q *RenderQueue) Draw() {
	if q.executor == nil {
		core.LogError("render queue has no executor")
		q.Clear()
		return
	}
	q.executor.Execute(q)
	q.Clear()
}

func (q *RenderQueue) DrawCalls() int32 {
	return q.drawCalls
}

func (q *RenderQueue) IncDrawCalls() {
	q.drawCalls++
}

func (q *RenderQueue) ClearDrawCalls() {
	q.drawCalls = 0
}

// DrawCallsLimit of 0 means unlimited.
func (q *RenderQueue) DrawCallsLimit() int32 {
	return q.drawCallsLimit
}

func (q *RenderQueue) SetDrawCallsLimit(limit int32) {
	q.drawCallsLimit = limit
}

func (q *RenderQueue) maxInstancesPerDrawCall() int32 {
	if q.executor == nil {
		return 1
	}
	return max(q.executor.MaxInstancesPerDrawCall(), 1)
}

func (q *RenderQueue) push(command RenderCommand) {
	q.lastDrawCommand = nil
	q.commands = append(q.commands, command)
}

func (q *RenderQueue) AddClearCurrentRenderTargetCommand(colorBuffer, depthBuffer bool) {
	q.push(&ClearCurrentRenderTargetCommand{ColorBuffer: colorBuffer, DepthBuffer: depthBuffer})
}

func (q *RenderQueue) AddSelectRenderPassCommand(renderPass *RenderPass) {
	if renderPass == nil {
		core.LogError("render pass is nil")
		return
	}
	q.push(&SetRenderPassCommand{RenderPass: renderPass})
}

// ConstructUVMask sets bit i for every non-nil uvs[i].
func ConstructUVMask(uvs []*math.Vec4) uint8 {
	mask := uint8(0)
	for i := 0; i < len(uvs) && i < metadata.UVChannelsMax; i++ {
		if uvs[i] != nil {
			mask |= 1 << i
		}
	}
	return mask
}

// ConstructUVStreamsMask sets bit i for every non-nil uvStreams[i].
func ConstructUVStreamsMask(uvStreams [][]math.Vec4) uint8 {
	mask := uint8(0)
	for i := 0; i < len(uvStreams) && i < metadata.UVChannelsMax; i++ {
		if uvStreams[i] != nil {
			mask |= 1 << i
		}
	}
	return mask
}

func (q *RenderQueue) canExtend(vao VertexArrayObject, count int32, useColorStream bool, uvMask uint8) bool {
	last := q.lastDrawCommand
	return last != nil &&
		last.VAO == vao &&
		last.Count+count <= q.maxInstancesPerDrawCall() &&
		last.UseColorStream == useColorStream &&
		last.UVMask == uvMask
}

func (q *RenderQueue) newDrawCommand(vao VertexArrayObject, count int32, useColorStream bool, uvMask uint8) {
	command := &DrawVAOInstancedCommand{
		VAO:            vao,
		Count:          count,
		UseColorStream: useColorStream,
		UVMask:         uvMask,
	}
	q.commands = append(q.commands, command)
	q.lastDrawCommand = command
}

/**
 * @brief Records one instance. color and the uvs entries are optional;
 * uvs is indexed by uv channel.
 */
func (q *RenderQueue) AddDrawVAOInstancedCommand(vao VertexArrayObject, modelMatrix math.Mat4, color *math.Vec4, uvs []*math.Vec4) {
	useColorStream := color != nil
	uvMask := ConstructUVMask(uvs)

	if q.canExtend(vao, 1, useColorStream, uvMask) {
		q.lastDrawCommand.Count++
	} else {
		q.newDrawCommand(vao, 1, useColorStream, uvMask)
	}

	q.modelMatrices = append(q.modelMatrices, modelMatrix)
	if useColorStream {
		q.colors = append(q.colors, *color)
	}
	for i := 0; i < metadata.UVChannelsMax; i++ {
		if uvMask&(1<<i) != 0 {
			q.uvs[i] = append(q.uvs[i], *uvs[i])
		}
	}
}

/**
 * @brief Records len(modelMatrices) instances. colors, when not nil, and
 * every non-nil uvStreams[i] must have the same length as modelMatrices.
 * The batch extends the previous draw when it fits, otherwise it is split
 * into commands of at most MaxInstancesPerDrawCall instances.
 */
func (q *RenderQueue) AddDrawVAOInstancedBatch(vao VertexArrayObject, modelMatrices []math.Mat4, colors []math.Vec4, uvStreams [][]math.Vec4) {
	count := int32(len(modelMatrices))
	if count == 0 {
		return
	}
	useColorStream := colors != nil
	uvMask := ConstructUVStreamsMask(uvStreams)

	if q.canExtend(vao, count, useColorStream, uvMask) {
		q.lastDrawCommand.Count += count
	} else {
		maxPerDrawCall := q.maxInstancesPerDrawCall()
		remaining := count
		for remaining > maxPerDrawCall {
			q.newDrawCommand(vao, maxPerDrawCall, useColorStream, uvMask)
			remaining -= maxPerDrawCall
		}
		q.newDrawCommand(vao, remaining, useColorStream, uvMask)
	}

	q.modelMatrices = append(q.modelMatrices, modelMatrices...)
	if useColorStream {
		q.colors = append(q.colors, colors[:count]...)
	}
	for i := 0; i < metadata.UVChannelsMax; i++ {
		if uvMask&(1<<i) != 0 {
			q.uvs[i] = append(q.uvs[i], uvStreams[i][:count]...)
		}
	}
}

// AddPushScissorRectCommand takes a rect in viewport fractions. Negative sizes are rejected.
func (q *RenderQueue) AddPushScissorRectCommand(scissorRect math.Rect2F) {
	if scissorRect.Size.X < 0 || scissorRect.Size.Y < 0 {
		core.LogError("scissor size cannot be negative: %v", scissorRect.Size)
		return
	}
	q.push(&PushScissorRectCommand{ScissorRect: scissorRect})
}

func (q *RenderQueue) AddPopScissorRectCommand() {
	q.push(&PopScissorRectCommand{})
}

func (q *RenderQueue) AddEnableClipPlaneCommand(index int32, plane math.Vec4) {
	q.push(&EnableClipPlaneCommand{Index: index, Plane: plane})
}

func (q *RenderQueue) AddDisableClipPlaneCommand(index int32) {
	q.push(&DisableClipPlaneCommand{Index: index})
}

func addUploadShaderUniform[T ShaderUniformData](q *RenderQueue, name string, values []T) {
	copied := make([]T, len(values))
	copy(copied, values)
	q.push(&UploadShaderUniformCommand[T]{Name: name, Values: copied})
}

func (q *RenderQueue) AddUploadShaderUniformVec2F(name string, values ...math.Vec2) {
	addUploadShaderUniform(q, name, values)
}

func (q *RenderQueue) AddUploadShaderUniformVec3F(name string, values ...math.Vec3) {
	addUploadShaderUniform(q, name, values)
}

func (q *RenderQueue) AddUploadShaderUniformVec4F(name string, values ...math.Vec4) {
	addUploadShaderUniform(q, name, values)
}

func (q *RenderQueue) AddUploadShaderUniformMat3F(name string, values ...math.Mat3) {
	addUploadShaderUniform(q, name, values)
}

func (q *RenderQueue) AddUploadShaderUniformMat4F(name string, values ...math.Mat4) {
	addUploadShaderUniform(q, name, values)
}

func (q *RenderQueue) AddUploadShaderUniformAffine(name string, values ...math.Affine) {
	addUploadShaderUniform(q, name, values)
}
