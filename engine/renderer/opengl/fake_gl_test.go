package opengl

import (
	"fmt"
	"strings"
)

type fakeDraw struct {
	vao       uint32
	mode      uint32
	count     int32
	indexType uint32
	instances int32
}

// fakeGL records every call and emulates enough buffer state for readbacks.
type fakeGL struct {
	calls   []string
	nextID  uint32
	enabled map[uint32]bool

	buffers        map[uint32][]byte
	arrayBuffer    uint32
	vertexArray    uint32
	elementBuffers map[uint32]uint32

	uniformLocations map[string]int32
	missingUniforms  map[string]bool
	uniformFloats    map[int32][]float32
	uniformInts      map[int32]int32

	failCompile     bool
	failLink        bool
	framebufferBad  bool
	pendingErrors   []uint32
	draws           []fakeDraw
	scissors        [][4]int32
	deletedBuffers  int
	deletedTextures int
}

func newFakeGL() *fakeGL {
	return &fakeGL{
		enabled:          make(map[uint32]bool),
		buffers:          make(map[uint32][]byte),
		elementBuffers:   make(map[uint32]uint32),
		uniformLocations: make(map[string]int32),
		missingUniforms:  make(map[string]bool),
		uniformFloats:    make(map[int32][]float32),
		uniformInts:      make(map[int32]int32),
	}
}

func (f *fakeGL) record(name string, args ...interface{}) {
	if len(args) == 0 {
		f.calls = append(f.calls, name)
		return
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprint(arg)
	}
	f.calls = append(f.calls, name+"("+strings.Join(parts, ",")+")")
}

// count returns how many recorded calls start with prefix.
func (f *fakeGL) count(prefix string) int {
	n := 0
	for _, call := range f.calls {
		if strings.HasPrefix(call, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeGL) resetCalls() {
	f.calls = nil
	f.draws = nil
	f.scissors = nil
}

func (f *fakeGL) genID() uint32 {
	f.nextID++
	return f.nextID
}

func (f *fakeGL) uniformFloatsByName(name string) []float32 {
	location, ok := f.uniformLocations[name]
	if !ok {
		return nil
	}
	return f.uniformFloats[location]
}

func (f *fakeGL) uniformIntByName(name string) (int32, bool) {
	location, ok := f.uniformLocations[name]
	if !ok {
		return 0, false
	}
	value, ok := f.uniformInts[location]
	return value, ok
}

func (f *fakeGL) boundBuffer(target uint32) uint32 {
	if target == GL_ELEMENT_ARRAY_BUFFER {
		return f.elementBuffers[f.vertexArray]
	}
	return f.arrayBuffer
}

// GetError drains pendingErrors in order.
func (f *fakeGL) GetError() uint32 {
	if len(f.pendingErrors) == 0 {
		return GL_NO_ERROR
	}
	code := f.pendingErrors[0]
	f.pendingErrors = f.pendingErrors[1:]
	return code
}

func (f *fakeGL) GetIntegerv(pname uint32) int32 {
	if pname == GL_MAX_TEXTURE_SIZE {
		return 16384
	}
	return 0
}

func (f *fakeGL) Enable(capability uint32) {
	f.enabled[capability] = true
	f.record("Enable", capability)
}

func (f *fakeGL) Disable(capability uint32) {
	f.enabled[capability] = false
	f.record("Disable", capability)
}

func (f *fakeGL) ActiveTexture(texture uint32) { f.record("ActiveTexture", texture) }

func (f *fakeGL) BindTexture(target, texture uint32) { f.record("BindTexture", target, texture) }

func (f *fakeGL) BlendFunc(sfactor, dfactor uint32) { f.record("BlendFunc", sfactor, dfactor) }

func (f *fakeGL) DepthFunc(function uint32) { f.record("DepthFunc", function) }

func (f *fakeGL) DepthMask(flag bool) { f.record("DepthMask", flag) }

func (f *fakeGL) CullFace(mode uint32) { f.record("CullFace", mode) }

func (f *fakeGL) FrontFace(mode uint32) { f.record("FrontFace", mode) }

func (f *fakeGL) PolygonMode(face, mode uint32) { f.record("PolygonMode", face, mode) }

func (f *fakeGL) Viewport(x, y, width, height int32) { f.record("Viewport", x, y, width, height) }

func (f *fakeGL) Scissor(x, y, width, height int32) {
	f.scissors = append(f.scissors, [4]int32{x, y, width, height})
	f.record("Scissor", x, y, width, height)
}

func (f *fakeGL) ClearColor(red, green, blue, alpha float32) {
	f.record("ClearColor", red, green, blue, alpha)
}

func (f *fakeGL) ClearDepth(depth float64) { f.record("ClearDepth", depth) }

func (f *fakeGL) Clear(mask uint32) { f.record("Clear", mask) }

func (f *fakeGL) GenVertexArray() uint32 {
	f.record("GenVertexArray")
	return f.genID()
}

func (f *fakeGL) DeleteVertexArray(array uint32) { f.record("DeleteVertexArray", array) }

func (f *fakeGL) BindVertexArray(array uint32) {
	f.vertexArray = array
	f.record("BindVertexArray", array)
}

func (f *fakeGL) GenBuffer() uint32 {
	f.record("GenBuffer")
	return f.genID()
}

func (f *fakeGL) DeleteBuffer(buffer uint32) {
	f.deletedBuffers++
	delete(f.buffers, buffer)
	f.record("DeleteBuffer", buffer)
}

func (f *fakeGL) BindBuffer(target, buffer uint32) {
	if target == GL_ELEMENT_ARRAY_BUFFER {
		f.elementBuffers[f.vertexArray] = buffer
	} else {
		f.arrayBuffer = buffer
	}
	f.record("BindBuffer", target, buffer)
}

func (f *fakeGL) BufferData(target uint32, data []byte, usage uint32) {
	f.buffers[f.boundBuffer(target)] = append([]byte(nil), data...)
	f.record("BufferData", target, len(data))
}

func (f *fakeGL) GetBufferSubData(target uint32, offset int, data []byte) {
	copy(data, f.buffers[f.boundBuffer(target)][offset:])
	f.record("GetBufferSubData", target, offset, len(data))
}

func (f *fakeGL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	f.record("VertexAttribPointer", index, size, xtype, normalized, stride, offset)
}

func (f *fakeGL) EnableVertexAttribArray(index uint32) { f.record("EnableVertexAttribArray", index) }

func (f *fakeGL) DisableVertexAttribArray(index uint32) { f.record("DisableVertexAttribArray", index) }

func (f *fakeGL) DrawElementsInstanced(mode uint32, count int32, xtype uint32, offset uintptr, instanceCount int32) {
	f.draws = append(f.draws, fakeDraw{vao: f.vertexArray, mode: mode, count: count, indexType: xtype, instances: instanceCount})
	f.record("DrawElementsInstanced", mode, count, xtype, instanceCount)
}

func (f *fakeGL) CreateShader(xtype uint32) uint32 {
	f.record("CreateShader", xtype)
	return f.genID()
}

func (f *fakeGL) ShaderSource(shader uint32, source string) { f.record("ShaderSource", shader) }

func (f *fakeGL) CompileShader(shader uint32) { f.record("CompileShader", shader) }

func (f *fakeGL) GetShaderiv(shader uint32, pname uint32) int32 {
	if pname == GL_COMPILE_STATUS && f.failCompile {
		return GL_FALSE
	}
	return GL_TRUE
}

func (f *fakeGL) GetShaderInfoLog(shader uint32) string { return "0:1: syntax error" }

func (f *fakeGL) DeleteShader(shader uint32) { f.record("DeleteShader", shader) }

func (f *fakeGL) CreateProgram() uint32 {
	f.record("CreateProgram")
	return f.genID()
}

func (f *fakeGL) AttachShader(program, shader uint32) { f.record("AttachShader", program, shader) }

func (f *fakeGL) LinkProgram(program uint32) { f.record("LinkProgram", program) }

func (f *fakeGL) GetProgramiv(program uint32, pname uint32) int32 {
	if pname == GL_LINK_STATUS && f.failLink {
		return GL_FALSE
	}
	return GL_TRUE
}

func (f *fakeGL) GetProgramInfoLog(program uint32) string { return "link error" }

func (f *fakeGL) DeleteProgram(program uint32) { f.record("DeleteProgram", program) }

func (f *fakeGL) UseProgram(program uint32) { f.record("UseProgram", program) }

func (f *fakeGL) GetUniformLocation(program uint32, name string) int32 {
	if program == 0 || f.missingUniforms[name] {
		return -1
	}
	if location, ok := f.uniformLocations[name]; ok {
		return location
	}
	location := int32(len(f.uniformLocations))
	f.uniformLocations[name] = location
	return location
}

func (f *fakeGL) Uniform1i(location int32, value int32) {
	f.uniformInts[location] = value
	f.record("Uniform1i", location, value)
}

func (f *fakeGL) Uniform1f(location int32, value float32) {
	f.uniformFloats[location] = []float32{value}
	f.record("Uniform1f", location)
}

func (f *fakeGL) uniformv(name string, location int32, values []float32) {
	f.uniformFloats[location] = append([]float32(nil), values...)
	f.record(name, location, len(values))
}

func (f *fakeGL) Uniform2fv(location int32, values []float32) { f.uniformv("Uniform2fv", location, values) }

func (f *fakeGL) Uniform3fv(location int32, values []float32) { f.uniformv("Uniform3fv", location, values) }

func (f *fakeGL) Uniform4fv(location int32, values []float32) { f.uniformv("Uniform4fv", location, values) }

func (f *fakeGL) UniformMatrix3fv(location int32, values []float32) {
	f.uniformv("UniformMatrix3fv", location, values)
}

func (f *fakeGL) UniformMatrix4fv(location int32, values []float32) {
	f.uniformv("UniformMatrix4fv", location, values)
}

func (f *fakeGL) UniformMatrix4x3fv(location int32, values []float32) {
	f.uniformv("UniformMatrix4x3fv", location, values)
}

func (f *fakeGL) GenTexture() uint32 {
	f.record("GenTexture")
	return f.genID()
}

func (f *fakeGL) DeleteTexture(texture uint32) {
	f.deletedTextures++
	f.record("DeleteTexture", texture)
}

func (f *fakeGL) TexImage2D(target uint32, level int32, internalFormat int32, width, height int32, format, xtype uint32, pixels []byte) {
	f.record("TexImage2D", internalFormat, width, height, len(pixels))
}

func (f *fakeGL) TexSubImage2D(target uint32, level int32, xoffset, yoffset, width, height int32, format, xtype uint32, pixels []byte) {
	f.record("TexSubImage2D", xoffset, yoffset, width, height, len(pixels))
}

func (f *fakeGL) TexParameteri(target, pname uint32, param int32) { f.record("TexParameteri", pname, param) }

func (f *fakeGL) GenerateMipmap(target uint32) { f.record("GenerateMipmap", target) }

func (f *fakeGL) GenFramebuffer() uint32 {
	f.record("GenFramebuffer")
	return f.genID()
}

func (f *fakeGL) DeleteFramebuffer(framebuffer uint32) { f.record("DeleteFramebuffer", framebuffer) }

func (f *fakeGL) BindFramebuffer(target, framebuffer uint32) {
	f.record("BindFramebuffer", target, framebuffer)
}

func (f *fakeGL) FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
	f.record("FramebufferTexture2D", attachment, texture)
}

func (f *fakeGL) CheckFramebufferStatus(target uint32) uint32 {
	if f.framebufferBad {
		return 0x8CD6
	}
	return GL_FRAMEBUFFER_COMPLETE
}
