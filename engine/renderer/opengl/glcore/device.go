// Package glcore binds opengl.GL to the OpenGL 4.1 core profile through go-gl.
package glcore

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/renderer/opengl"
)

var _ opengl.GL = (*Device)(nil)

// Device forwards every call to the context current on the calling thread.
type Device struct{}

// New loads the GL entry points. A context must be current.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	core.LogInfo("OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION)))
	return &Device{}, nil
}

func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return gl.Ptr(data)
}

func (d *Device) GetError() uint32 { return gl.GetError() }

func (d *Device) GetIntegerv(pname uint32) int32 {
	var value int32
	gl.GetIntegerv(pname, &value)
	return value
}

func (d *Device) Enable(capability uint32) { gl.Enable(capability) }
func (d *Device) Disable(capability uint32) { gl.Disable(capability) }
func (d *Device) ActiveTexture(texture uint32) { gl.ActiveTexture(texture) }
func (d *Device) BindTexture(target, texture uint32) { gl.BindTexture(target, texture) }
func (d *Device) BlendFunc(sfactor, dfactor uint32) { gl.BlendFunc(sfactor, dfactor) }
func (d *Device) DepthFunc(function uint32) { gl.DepthFunc(function) }
func (d *Device) DepthMask(flag bool) { gl.DepthMask(flag) }
func (d *Device) CullFace(mode uint32) { gl.CullFace(mode) }
func (d *Device) FrontFace(mode uint32) { gl.FrontFace(mode) }
func (d *Device) PolygonMode(face, mode uint32) { gl.PolygonMode(face, mode) }
func (d *Device) Clear(mask uint32) { gl.Clear(mask) }
func (d *Device) ClearDepth(depth float64) { gl.ClearDepth(depth) }

func (d *Device) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }
func (d *Device) Scissor(x, y, width, height int32) { gl.Scissor(x, y, width, height) }

func (d *Device) ClearColor(red, green, blue, alpha float32) {
	gl.ClearColor(red, green, blue, alpha)
}

func (d *Device) GenVertexArray() uint32 {
	var array uint32
	gl.GenVertexArrays(1, &array)
	return array
}

func (d *Device) DeleteVertexArray(array uint32) { gl.DeleteVertexArrays(1, &array) }
func (d *Device) BindVertexArray(array uint32) { gl.BindVertexArray(array) }

func (d *Device) GenBuffer() uint32 {
	var buffer uint32
	gl.GenBuffers(1, &buffer)
	return buffer
}

func (d *Device) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }
func (d *Device) BindBuffer(target, buffer uint32) { gl.BindBuffer(target, buffer) }

func (d *Device) BufferData(target uint32, data []byte, usage uint32) {
	gl.BufferData(target, len(data), ptr(data), usage)
}

func (d *Device) GetBufferSubData(target uint32, offset int, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.GetBufferSubData(target, offset, len(data), gl.Ptr(data))
}

func (d *Device) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	gl.VertexAttribPointerWithOffset(index, size, xtype, normalized, stride, offset)
}

func (d *Device) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }
func (d *Device) DisableVertexAttribArray(index uint32) { gl.DisableVertexAttribArray(index) }

func (d *Device) DrawElementsInstanced(mode uint32, count int32, xtype uint32, offset uintptr, instanceCount int32) {
	gl.DrawElementsInstanced(mode, count, xtype, gl.PtrOffset(int(offset)), instanceCount)
}

func (d *Device) CreateShader(xtype uint32) uint32 { return gl.CreateShader(xtype) }

func (d *Device) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (d *Device) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (d *Device) GetShaderiv(shader uint32, pname uint32) int32 {
	var value int32
	gl.GetShaderiv(shader, pname, &value)
	return value
}

func (d *Device) GetShaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Device) DeleteShader(shader uint32) { gl.DeleteShader(shader) }
func (d *Device) CreateProgram() uint32 { return gl.CreateProgram() }
func (d *Device) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (d *Device) LinkProgram(program uint32) { gl.LinkProgram(program) }

func (d *Device) GetProgramiv(program uint32, pname uint32) int32 {
	var value int32
	gl.GetProgramiv(program, pname, &value)
	return value
}

func (d *Device) GetProgramInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (d *Device) DeleteProgram(program uint32) { gl.DeleteProgram(program) }
func (d *Device) UseProgram(program uint32) { gl.UseProgram(program) }

func (d *Device) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) Uniform1i(location int32, value int32) { gl.Uniform1i(location, value) }
func (d *Device) Uniform1f(location int32, value float32) { gl.Uniform1f(location, value) }

func (d *Device) Uniform2fv(location int32, values []float32) {
	gl.Uniform2fv(location, int32(len(values)/2), &values[0])
}

func (d *Device) Uniform3fv(location int32, values []float32) {
	gl.Uniform3fv(location, int32(len(values)/3), &values[0])
}

func (d *Device) Uniform4fv(location int32, values []float32) {
	gl.Uniform4fv(location, int32(len(values)/4), &values[0])
}

func (d *Device) UniformMatrix3fv(location int32, values []float32) {
	gl.UniformMatrix3fv(location, int32(len(values)/9), false, &values[0])
}

func (d *Device) UniformMatrix4fv(location int32, values []float32) {
	gl.UniformMatrix4fv(location, int32(len(values)/16), false, &values[0])
}

func (d *Device) UniformMatrix4x3fv(location int32, values []float32) {
	gl.UniformMatrix4x3fv(location, int32(len(values)/12), false, &values[0])
}

func (d *Device) GenTexture() uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	return texture
}

func (d *Device) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }

func (d *Device) TexImage2D(target uint32, level int32, internalFormat int32, width, height int32, format, xtype uint32, pixels []byte) {
	gl.TexImage2D(target, level, internalFormat, width, height, 0, format, xtype, ptr(pixels))
}

func (d *Device) TexSubImage2D(target uint32, level int32, xoffset, yoffset, width, height int32, format, xtype uint32, pixels []byte) {
	gl.TexSubImage2D(target, level, xoffset, yoffset, width, height, format, xtype, ptr(pixels))
}

func (d *Device) TexParameteri(target, pname uint32, param int32) { gl.TexParameteri(target, pname, param) }
func (d *Device) GenerateMipmap(target uint32) { gl.GenerateMipmap(target) }

func (d *Device) GenFramebuffer() uint32 {
	var framebuffer uint32
	gl.GenFramebuffers(1, &framebuffer)
	return framebuffer
}

func (d *Device) DeleteFramebuffer(framebuffer uint32) { gl.DeleteFramebuffers(1, &framebuffer) }

func (d *Device) BindFramebuffer(target, framebuffer uint32) { gl.BindFramebuffer(target, framebuffer) }

func (d *Device) FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
	gl.FramebufferTexture2D(target, attachment, textarget, texture, level)
}

func (d *Device) CheckFramebufferStatus(target uint32) uint32 {
	return gl.CheckFramebufferStatus(target)
}
