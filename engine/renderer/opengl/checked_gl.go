package opengl

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/Tinaynox/maze-sub011/engine/core"
)

// Upper bound of queued errors drained after a single call.
const maxDrainedGLErrors = 8

var _ GL = (*CheckedGL)(nil)

/**
 * @brief Wraps a GL and polls GetError after every call. Failures are logged
 * with the entry point and the engine call site that issued it.
 */
type CheckedGL struct {
	gl        GL
	errors    int
	lastError error
}

func NewCheckedGL(gl GL) *CheckedGL {
	return &CheckedGL{gl: gl}
}

// Unwrap returns the wrapped GL.
func (c *CheckedGL) Unwrap() GL {
	return c.gl
}

// ErrorCount is the number of GL errors seen since creation.
func (c *CheckedGL) ErrorCount() int {
	return c.errors
}

// LastError wraps core.ErrGLCall, or is nil when no call failed.
func (c *CheckedGL) LastError() error {
	return c.lastError
}

func (c *CheckedGL) check(entryPoint string) {
	for i := 0; i < maxDrainedGLErrors; i++ {
		code := c.gl.GetError()
		if code == GL_NO_ERROR {
			return
		}
		site := "unknown"
		if _, file, line, ok := runtime.Caller(2); ok {
			site = fmt.Sprintf("%s:%d", filepath.Base(file), line)
		}
		c.errors++
		c.lastError = fmt.Errorf("gl%s at %s: %s: %w", entryPoint, site, GLErrorString(code), core.ErrGLCall)
		core.LogError(c.lastError.Error())
	}
}

func GLErrorString(code uint32) string {
	switch code {
	case GL_NO_ERROR:
		return "GL_NO_ERROR"
	case GL_INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case GL_INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case GL_INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case GL_OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	case GL_INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	}
	return fmt.Sprintf("0x%04X", code)
}

func (c *CheckedGL) GetError() uint32 {
	return c.gl.GetError()
}

func (c *CheckedGL) GetIntegerv(pname uint32) int32 {
	result := c.gl.GetIntegerv(pname)
	c.check("GetIntegerv")
	return result
}

func (c *CheckedGL) Enable(capability uint32) {
	c.gl.Enable(capability)
	c.check("Enable")
}

func (c *CheckedGL) Disable(capability uint32) {
	c.gl.Disable(capability)
	c.check("Disable")
}

func (c *CheckedGL) ActiveTexture(texture uint32) {
	c.gl.ActiveTexture(texture)
	c.check("ActiveTexture")
}

func (c *CheckedGL) BindTexture(target, texture uint32) {
	c.gl.BindTexture(target, texture)
	c.check("BindTexture")
}

func (c *CheckedGL) BlendFunc(sfactor, dfactor uint32) {
	c.gl.BlendFunc(sfactor, dfactor)
	c.check("BlendFunc")
}

func (c *CheckedGL) DepthFunc(function uint32) {
	c.gl.DepthFunc(function)
	c.check("DepthFunc")
}

func (c *CheckedGL) DepthMask(flag bool) {
	c.gl.DepthMask(flag)
	c.check("DepthMask")
}

func (c *CheckedGL) CullFace(mode uint32) {
	c.gl.CullFace(mode)
	c.check("CullFace")
}

func (c *CheckedGL) FrontFace(mode uint32) {
	c.gl.FrontFace(mode)
	c.check("FrontFace")
}

func (c *CheckedGL) PolygonMode(face, mode uint32) {
	c.gl.PolygonMode(face, mode)
	c.check("PolygonMode")
}

func (c *CheckedGL) Viewport(x, y, width, height int32) {
	c.gl.Viewport(x, y, width, height)
	c.check("Viewport")
}

func (c *CheckedGL) Scissor(x, y, width, height int32) {
	c.gl.Scissor(x, y, width, height)
	c.check("Scissor")
}

func (c *CheckedGL) ClearColor(red, green, blue, alpha float32) {
	c.gl.ClearColor(red, green, blue, alpha)
	c.check("ClearColor")
}

func (c *CheckedGL) ClearDepth(depth float64) {
	c.gl.ClearDepth(depth)
	c.check("ClearDepth")
}

func (c *CheckedGL) Clear(mask uint32) {
	c.gl.Clear(mask)
	c.check("Clear")
}

func (c *CheckedGL) GenVertexArray() uint32 {
	result := c.gl.GenVertexArray()
	c.check("GenVertexArray")
	return result
}

func (c *CheckedGL) DeleteVertexArray(array uint32) {
	c.gl.DeleteVertexArray(array)
	c.check("DeleteVertexArray")
}

func (c *CheckedGL) BindVertexArray(array uint32) {
	c.gl.BindVertexArray(array)
	c.check("BindVertexArray")
}

func (c *CheckedGL) GenBuffer() uint32 {
	result := c.gl.GenBuffer()
	c.check("GenBuffer")
	return result
}

func (c *CheckedGL) DeleteBuffer(buffer uint32) {
	c.gl.DeleteBuffer(buffer)
	c.check("DeleteBuffer")
}

func (c *CheckedGL) BindBuffer(target, buffer uint32) {
	c.gl.BindBuffer(target, buffer)
	c.check("BindBuffer")
}

func (c *CheckedGL) BufferData(target uint32, data []byte, usage uint32) {
	c.gl.BufferData(target, data, usage)
	c.check("BufferData")
}

func (c *CheckedGL) GetBufferSubData(target uint32, offset int, data []byte) {
	c.gl.GetBufferSubData(target, offset, data)
	c.check("GetBufferSubData")
}

func (c *CheckedGL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	c.gl.VertexAttribPointer(index, size, xtype, normalized, stride, offset)
	c.check("VertexAttribPointer")
}

func (c *CheckedGL) EnableVertexAttribArray(index uint32) {
	c.gl.EnableVertexAttribArray(index)
	c.check("EnableVertexAttribArray")
}

func (c *CheckedGL) DisableVertexAttribArray(index uint32) {
	c.gl.DisableVertexAttribArray(index)
	c.check("DisableVertexAttribArray")
}

func (c *CheckedGL) DrawElementsInstanced(mode uint32, count int32, xtype uint32, offset uintptr, instanceCount int32) {
	c.gl.DrawElementsInstanced(mode, count, xtype, offset, instanceCount)
	c.check("DrawElementsInstanced")
}

func (c *CheckedGL) CreateShader(xtype uint32) uint32 {
	result := c.gl.CreateShader(xtype)
	c.check("CreateShader")
	return result
}

func (c *CheckedGL) ShaderSource(shader uint32, source string) {
	c.gl.ShaderSource(shader, source)
	c.check("ShaderSource")
}

func (c *CheckedGL) CompileShader(shader uint32) {
	c.gl.CompileShader(shader)
	c.check("CompileShader")
}

func (c *CheckedGL) GetShaderiv(shader uint32, pname uint32) int32 {
	result := c.gl.GetShaderiv(shader, pname)
	c.check("GetShaderiv")
	return result
}

func (c *CheckedGL) GetShaderInfoLog(shader uint32) string {
	result := c.gl.GetShaderInfoLog(shader)
	c.check("GetShaderInfoLog")
	return result
}

func (c *CheckedGL) DeleteShader(shader uint32) {
	c.gl.DeleteShader(shader)
	c.check("DeleteShader")
}

func (c *CheckedGL) CreateProgram() uint32 {
	result := c.gl.CreateProgram()
	c.check("CreateProgram")
	return result
}

func (c *CheckedGL) AttachShader(program, shader uint32) {
	c.gl.AttachShader(program, shader)
	c.check("AttachShader")
}

func (c *CheckedGL) LinkProgram(program uint32) {
	c.gl.LinkProgram(program)
	c.check("LinkProgram")
}

func (c *CheckedGL) GetProgramiv(program uint32, pname uint32) int32 {
	result := c.gl.GetProgramiv(program, pname)
	c.check("GetProgramiv")
	return result
}

func (c *CheckedGL) GetProgramInfoLog(program uint32) string {
	result := c.gl.GetProgramInfoLog(program)
	c.check("GetProgramInfoLog")
	return result
}

func (c *CheckedGL) DeleteProgram(program uint32) {
	c.gl.DeleteProgram(program)
	c.check("DeleteProgram")
}

func (c *CheckedGL) UseProgram(program uint32) {
	c.gl.UseProgram(program)
	c.check("UseProgram")
}

func (c *CheckedGL) GetUniformLocation(program uint32, name string) int32 {
	result := c.gl.GetUniformLocation(program, name)
	c.check("GetUniformLocation")
	return result
}

func (c *CheckedGL) Uniform1i(location int32, value int32) {
	c.gl.Uniform1i(location, value)
	c.check("Uniform1i")
}

func (c *CheckedGL) Uniform1f(location int32, value float32) {
	c.gl.Uniform1f(location, value)
	c.check("Uniform1f")
}

func (c *CheckedGL) Uniform2fv(location int32, values []float32) {
	c.gl.Uniform2fv(location, values)
	c.check("Uniform2fv")
}

func (c *CheckedGL) Uniform3fv(location int32, values []float32) {
	c.gl.Uniform3fv(location, values)
	c.check("Uniform3fv")
}

func (c *CheckedGL) Uniform4fv(location int32, values []float32) {
	c.gl.Uniform4fv(location, values)
	c.check("Uniform4fv")
}

func (c *CheckedGL) UniformMatrix3fv(location int32, values []float32) {
	c.gl.UniformMatrix3fv(location, values)
	c.check("UniformMatrix3fv")
}

func (c *CheckedGL) UniformMatrix4fv(location int32, values []float32) {
	c.gl.UniformMatrix4fv(location, values)
	c.check("UniformMatrix4fv")
}

func (c *CheckedGL) UniformMatrix4x3fv(location int32, values []float32) {
	c.gl.UniformMatrix4x3fv(location, values)
	c.check("UniformMatrix4x3fv")
}

func (c *CheckedGL) GenTexture() uint32 {
	result := c.gl.GenTexture()
	c.check("GenTexture")
	return result
}

func (c *CheckedGL) DeleteTexture(texture uint32) {
	c.gl.DeleteTexture(texture)
	c.check("DeleteTexture")
}

func (c *CheckedGL) TexImage2D(target uint32, level int32, internalFormat int32, width, height int32, format, xtype uint32, pixels []byte) {
	c.gl.TexImage2D(target, level, internalFormat, width, height, format, xtype, pixels)
	c.check("TexImage2D")
}

func (c *CheckedGL) TexSubImage2D(target uint32, level int32, xoffset, yoffset, width, height int32, format, xtype uint32, pixels []byte) {
	c.gl.TexSubImage2D(target, level, xoffset, yoffset, width, height, format, xtype, pixels)
	c.check("TexSubImage2D")
}

func (c *CheckedGL) TexParameteri(target, pname uint32, param int32) {
	c.gl.TexParameteri(target, pname, param)
	c.check("TexParameteri")
}

func (c *CheckedGL) GenerateMipmap(target uint32) {
	c.gl.GenerateMipmap(target)
	c.check("GenerateMipmap")
}

func (c *CheckedGL) GenFramebuffer() uint32 {
	result := c.gl.GenFramebuffer()
	c.check("GenFramebuffer")
	return result
}

func (c *CheckedGL) DeleteFramebuffer(framebuffer uint32) {
	c.gl.DeleteFramebuffer(framebuffer)
	c.check("DeleteFramebuffer")
}

func (c *CheckedGL) BindFramebuffer(target, framebuffer uint32) {
	c.gl.BindFramebuffer(target, framebuffer)
	c.check("BindFramebuffer")
}

func (c *CheckedGL) FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32) {
	c.gl.FramebufferTexture2D(target, attachment, textarget, texture, level)
	c.check("FramebufferTexture2D")
}

func (c *CheckedGL) CheckFramebufferStatus(target uint32) uint32 {
	result := c.gl.CheckFramebufferStatus(target)
	c.check("CheckFramebufferStatus")
	return result
}
