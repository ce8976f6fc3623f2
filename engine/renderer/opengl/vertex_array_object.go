package opengl

import (
	"fmt"

	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/renderer/metadata"
	"github.com/google/uuid"
)

/**
 * @brief A GL vertex array with one VBO per present semantic and an element
 * buffer. A CPU copy of the uploaded submesh is kept so the object can be
 * rebuilt after the context is lost.
 */
type VertexArrayObject struct {
	context *Context
	name    string

	vao uint32
	ebo uint32

	vbos          [metadata.VertexAttributeSemanticMax]uint32
	vboSizes      [metadata.VertexAttributeSemanticMax]int
	descriptions  [metadata.VertexAttributeSemanticMax]metadata.VertexAttributeDescription
	enabledArrays [metadata.VertexAttributeSemanticMax]bool
	indicesCount  int
	indicesType   metadata.VertexAttributeType
	indicesSize   int
	drawTopology  metadata.RenderDrawTopology
	subMeshCopy   *metadata.SubMesh
}

func NewVertexArrayObject(context *Context, name string) (*VertexArrayObject, error) {
	if context == nil || !context.IsValid() {
		return nil, fmt.Errorf("vertex array object %q: %w", name, core.ErrContextInvalid)
	}
	if name == "" {
		name = "vao-" + uuid.NewString()
	}
	v := &VertexArrayObject{
		context:      context,
		name:         name,
		drawTopology: metadata.RenderDrawTopologyTriangles,
	}
	v.generateGLObjects()

	events := context.Events()
	events.Register(core.EVENT_CODE_GL_CONTEXT_SETUP, v, v.onContextSetup)
	events.Register(core.EVENT_CODE_GL_CONTEXT_WILL_BE_DESTROYED, v, v.onContextLost)
	events.Register(core.EVENT_CODE_GL_CONTEXT_DESTROYED, v, v.onContextLost)
	return v, nil
}

func (v *VertexArrayObject) Name() string {
	return v.name
}

// ID is the GL vertex array name, 0 while the context is lost.
func (v *VertexArrayObject) ID() uint32 {
	return v.vao
}

func (v *VertexArrayObject) ElementBufferID() uint32 {
	return v.ebo
}

func (v *VertexArrayObject) VertexBufferID(semantic metadata.VertexAttributeSemantic) uint32 {
	return v.vbos[semantic]
}

func (v *VertexArrayObject) IndicesCount() int {
	return v.indicesCount
}

func (v *VertexArrayObject) IndicesType() metadata.VertexAttributeType {
	return v.indicesType
}

func (v *VertexArrayObject) RenderDrawTopology() metadata.RenderDrawTopology {
	return v.drawTopology
}

func (v *VertexArrayObject) SetRenderDrawTopology(topology metadata.RenderDrawTopology) {
	v.drawTopology = topology
	if v.subMeshCopy != nil {
		v.subMeshCopy.RenderDrawTopology = topology
	}
}

func (v *VertexArrayObject) generateGLObjects() {
	if v.vao != 0 {
		return
	}
	gl := v.context.GL()
	v.vao = gl.GenVertexArray()
	v.ebo = gl.GenBuffer()
}

func (v *VertexArrayObject) resetHandles() {
	v.vao = 0
	v.ebo = 0
	for i := range v.vbos {
		v.vbos[i] = 0
		v.vboSizes[i] = 0
		v.enabledArrays[i] = false
	}
	v.indicesSize = 0
}

func (v *VertexArrayObject) deleteGLObjects() {
	if !v.context.IsValid() {
		v.resetHandles()
		return
	}
	gl := v.context.GL()
	sm := v.context.StateMachine()
	if v.vao != 0 && sm.BoundVertexArrayObject() == v.vao {
		sm.BindVertexArrayObject(0)
	}
	for _, vbo := range v.vbos {
		if vbo != 0 {
			gl.DeleteBuffer(vbo)
		}
	}
	if v.ebo != 0 {
		gl.DeleteBuffer(v.ebo)
	}
	if v.vao != 0 {
		gl.DeleteVertexArray(v.vao)
	}
	v.resetHandles()
}

func (v *VertexArrayObject) ensureVBO(semantic metadata.VertexAttributeSemantic) uint32 {
	if v.vbos[semantic] == 0 {
		v.vbos[semantic] = v.context.GL().GenBuffer()
	}
	return v.vbos[semantic]
}

func (v *VertexArrayObject) Bind() {
	v.context.StateMachine().BindVertexArrayObject(v.vao)
}

// ScopeBind binds the VAO and returns a func restoring the previous binding.
func (v *VertexArrayObject) ScopeBind() func() {
	sm := v.context.StateMachine()
	previous := sm.BoundVertexArrayObject()
	sm.BindVertexArrayObject(v.vao)
	return func() {
		sm.BindVertexArrayObject(previous)
	}
}

func (v *VertexArrayObject) ensureSubMeshCopy() *metadata.SubMesh {
	if v.subMeshCopy == nil {
		v.subMeshCopy = metadata.NewSubMesh(v.name)
		v.subMeshCopy.RenderDrawTopology = v.drawTopology
	}
	return v.subMeshCopy
}

// SetMesh replaces every stream with the submesh contents.
func (v *VertexArrayObject) SetMesh(subMesh *metadata.SubMesh) {
	if subMesh == nil {
		core.LogError("vertex array object %s: submesh is nil", v.name)
		return
	}
	v.subMeshCopy = subMesh.CreateCopy()
	v.drawTopology = subMesh.RenderDrawTopology
	v.uploadSubMesh(v.subMeshCopy)
}

func (v *VertexArrayObject) uploadSubMesh(subMesh *metadata.SubMesh) {
	if !v.context.IsValid() {
		return
	}
	restore := v.ScopeBind()
	defer restore()

	gl := v.context.GL()
	for semantic := metadata.VertexAttributeSemantic(0); semantic < metadata.VertexAttributeSemanticMax; semantic++ {
		buffer := subMesh.VertexAttributes(semantic)
		if buffer == nil {
			if v.enabledArrays[semantic] {
				gl.DisableVertexAttribArray(uint32(semantic))
				v.enabledArrays[semantic] = false
			}
			v.descriptions[semantic] = metadata.VertexAttributeDescription{}
			v.vboSizes[semantic] = 0
			continue
		}
		v.uploadVertices(subMesh.VertexDescription(semantic), buffer.Bytes())
	}

	if subMesh.Indices() != nil {
		v.uploadIndices(subMesh.IndicesType(), subMesh.IndicesCount(), subMesh.Indices().Bytes())
	} else {
		v.uploadIndices(metadata.VertexAttributeTypeNone, 0, nil)
	}
}

func (v *VertexArrayObject) SetIndices(indicesType metadata.VertexAttributeType, count int, data []byte) {
	v.ensureSubMeshCopy().SetIndices(indicesType, count, data)
	if !v.context.IsValid() {
		return
	}
	restore := v.ScopeBind()
	defer restore()
	v.uploadIndices(indicesType, count, data)
}

// uploadIndices expects the VAO to be bound.
func (v *VertexArrayObject) uploadIndices(indicesType metadata.VertexAttributeType, count int, data []byte) {
	v.context.StateMachine().BindElementArrayBuffer(v.ebo)
	v.context.GL().BufferData(GL_ELEMENT_ARRAY_BUFFER, data, GL_DYNAMIC_DRAW)
	v.indicesType = indicesType
	v.indicesCount = count
	v.indicesSize = len(data)
}

func (v *VertexArrayObject) SetVerticesData(description metadata.VertexAttributeDescription, data []byte) {
	v.ensureSubMeshCopy().SetVertexAttributesWithDescription(description, data)
	if !v.context.IsValid() {
		return
	}
	restore := v.ScopeBind()
	defer restore()
	v.uploadVertices(description, data)
}

// uploadVertices expects the VAO to be bound. The attribute location is the semantic.
func (v *VertexArrayObject) uploadVertices(description metadata.VertexAttributeDescription, data []byte) {
	gl := v.context.GL()
	semantic := description.Semantic
	vbo := v.ensureVBO(semantic)
	v.context.StateMachine().BindArrayBuffer(vbo)
	gl.BufferData(GL_ARRAY_BUFFER, data, GL_DYNAMIC_DRAW)

	location := uint32(semantic)
	gl.VertexAttribPointer(
		location,
		description.Count,
		GetVertexAttributeTypeOpenGL(description.Type),
		description.Normalized,
		description.Stride,
		uintptr(description.Offset))
	if !v.enabledArrays[semantic] {
		gl.EnableVertexAttribArray(location)
		v.enabledArrays[semantic] = true
	}
	v.descriptions[semantic] = description
	v.vboSizes[semantic] = len(data)
}

/**
 * @brief Reads the GPU buffers back into a new submesh. With a lost
 * context the CPU copy is returned instead.
 */
func (v *VertexArrayObject) ReadAsSubMesh() *metadata.SubMesh {
	if !v.context.IsValid() || v.vao == 0 {
		if v.subMeshCopy == nil {
			return nil
		}
		return v.subMeshCopy.CreateCopy()
	}

	restore := v.ScopeBind()
	defer restore()

	gl := v.context.GL()
	sm := v.context.StateMachine()
	subMesh := metadata.NewSubMesh(v.name)
	subMesh.RenderDrawTopology = v.drawTopology
	for semantic := range v.vbos {
		if v.vbos[semantic] == 0 || v.vboSizes[semantic] == 0 {
			continue
		}
		data := make([]byte, v.vboSizes[semantic])
		sm.BindArrayBuffer(v.vbos[semantic])
		gl.GetBufferSubData(GL_ARRAY_BUFFER, 0, data)
		subMesh.SetVertexAttributesWithDescription(v.descriptions[semantic], data)
	}
	if v.indicesSize > 0 {
		data := make([]byte, v.indicesSize)
		sm.BindElementArrayBuffer(v.ebo)
		gl.GetBufferSubData(GL_ELEMENT_ARRAY_BUFFER, 0, data)
		subMesh.SetIndices(v.indicesType, v.indicesCount, data)
	}
	return subMesh
}

// CPU copy of the current contents. Nil before the first upload.
func (v *VertexArrayObject) SubMeshCopy() *metadata.SubMesh {
	return v.subMeshCopy
}

func (v *VertexArrayObject) onContextSetup(core.EventContext) bool {
	v.generateGLObjects()
	if v.subMeshCopy != nil {
		v.uploadSubMesh(v.subMeshCopy)
	}
	return false
}

func (v *VertexArrayObject) onContextLost(core.EventContext) bool {
	v.resetHandles()
	return false
}

// Destroy releases the GPU objects and stops listening to the context.
func (v *VertexArrayObject) Destroy() {
	v.context.Events().UnregisterAll(v)
	v.deleteGLObjects()
	v.subMeshCopy = nil
}
