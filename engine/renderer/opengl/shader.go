package opengl

import (
	"fmt"

	"github.com/Tinaynox/maze-sub011/engine/containers"
	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/Tinaynox/maze-sub011/engine/renderer"
	"github.com/google/uuid"
)

// Uniforms the render queue uploads on every render pass bind.
const (
	UniformViewMatrix         = "u_viewMatrix"
	UniformProjectionMatrix   = "u_projectionMatrix"
	UniformProjectionParams   = "u_projectionParams"
	UniformViewPosition       = "u_viewPosition"
	UniformClipDistanceEnable = "u_clipDistanceEnable"
	UniformClipDistance0      = "u_clipDistance0"
	UniformTime               = "u_time"
)

/** @brief A cached uniform location of one shader. */
type ShaderUniform struct {
	shader   *Shader
	name     string
	location int32
}

func (u *ShaderUniform) Name() string {
	return u.name
}

func (u *ShaderUniform) Location() int32 {
	return u.location
}

// IsValid is false for uniforms the linker optimized out.
func (u *ShaderUniform) IsValid() bool {
	return u.location >= 0
}

// bind makes the owning program current for the upload.
func (u *ShaderUniform) bind() (GL, func(), bool) {
	if !u.IsValid() || !u.shader.context.IsValid() {
		return nil, nil, false
	}
	return u.shader.context.GL(), u.shader.ScopeBind(), true
}

func (u *ShaderUniform) SetInt(value int32) {
	if gl, restore, ok := u.bind(); ok {
		defer restore()
		gl.Uniform1i(u.location, value)
	}
}

func (u *ShaderUniform) SetFloat(value float32) {
	if gl, restore, ok := u.bind(); ok {
		defer restore()
		gl.Uniform1f(u.location, value)
	}
}

func (u *ShaderUniform) SetVec2(values ...math.Vec2) {
	if gl, restore, ok := u.bind(); ok && len(values) > 0 {
		defer restore()
		gl.Uniform2fv(u.location, containers.CastSlice[math.Vec2, float32](values))
	}
}

func (u *ShaderUniform) SetVec3(values ...math.Vec3) {
	if gl, restore, ok := u.bind(); ok && len(values) > 0 {
		defer restore()
		gl.Uniform3fv(u.location, containers.CastSlice[math.Vec3, float32](values))
	}
}

func (u *ShaderUniform) SetVec4(values ...math.Vec4) {
	if gl, restore, ok := u.bind(); ok && len(values) > 0 {
		defer restore()
		gl.Uniform4fv(u.location, containers.CastSlice[math.Vec4, float32](values))
	}
}

// SetMat3 uploads row-major data as is; GLSL sees the transpose.
func (u *ShaderUniform) SetMat3(values ...math.Mat3) {
	if gl, restore, ok := u.bind(); ok && len(values) > 0 {
		defer restore()
		gl.UniformMatrix3fv(u.location, containers.CastSlice[math.Mat3, float32](values))
	}
}

// SetMat4 uploads row-major data as is; GLSL sees the transpose.
func (u *ShaderUniform) SetMat4(values ...math.Mat4) {
	if gl, restore, ok := u.bind(); ok && len(values) > 0 {
		defer restore()
		gl.UniformMatrix4fv(u.location, containers.CastSlice[math.Mat4, float32](values))
	}
}

// SetAffine maps to a GLSL mat4x3.
func (u *ShaderUniform) SetAffine(values ...math.Affine) {
	if gl, restore, ok := u.bind(); ok && len(values) > 0 {
		defer restore()
		gl.UniformMatrix4x3fv(u.location, containers.CastSlice[math.Affine, float32](values))
	}
}

type samplerBinding struct {
	uniform *ShaderUniform
	texture *Texture2D
	unit    int32
}

/**
 * @brief A linked GL program plus its uniform cache and sampler bindings.
 * The sources are kept so the program can be rebuilt on context setup.
 */
type Shader struct {
	context        *Context
	name           string
	vertexSource   string
	fragmentSource string
	program        uint32

	uniforms map[string]*ShaderUniform
	samplers []samplerBinding
}

func NewShader(context *Context, name, vertexSource, fragmentSource string) (*Shader, error) {
	if context == nil || !context.IsValid() {
		return nil, fmt.Errorf("shader %q: %w", name, core.ErrContextInvalid)
	}
	if name == "" {
		name = "shader-" + uuid.NewString()
	}
	s := &Shader{
		context:        context,
		name:           name,
		vertexSource:   vertexSource,
		fragmentSource: fragmentSource,
		uniforms:       make(map[string]*ShaderUniform),
	}
	program, err := newProgram(context.GL(), vertexSource, fragmentSource)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}
	s.program = program

	events := context.Events()
	events.Register(core.EVENT_CODE_GL_CONTEXT_SETUP, s, s.onContextSetup)
	events.Register(core.EVENT_CODE_GL_CONTEXT_WILL_BE_DESTROYED, s, s.onContextLost)
	events.Register(core.EVENT_CODE_GL_CONTEXT_DESTROYED, s, s.onContextLost)
	return s, nil
}

func newProgram(gl GL, vertexSource, fragmentSource string) (uint32, error) {
	vertex, err := compileShader(gl, vertexSource, GL_VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	fragment, err := compileShader(gl, fragmentSource, GL_FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertex)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertex)
	gl.AttachShader(program, fragment)
	gl.LinkProgram(program)
	gl.DeleteShader(vertex)
	gl.DeleteShader(fragment)

	if gl.GetProgramiv(program, GL_LINK_STATUS) == GL_FALSE {
		log := gl.GetProgramInfoLog(program)
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%w: %s", core.ErrShaderLink, log)
	}
	return program, nil
}

func compileShader(gl GL, source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	gl.ShaderSource(shader, source)
	gl.CompileShader(shader)

	if gl.GetShaderiv(shader, GL_COMPILE_STATUS) == GL_FALSE {
		log := gl.GetShaderInfoLog(shader)
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%w: %s", core.ErrShaderCompile, log)
	}
	return shader, nil
}

func (s *Shader) Name() string {
	return s.name
}

func (s *Shader) Program() uint32 {
	return s.program
}

// ScopeBind makes the program current and returns a func restoring the previous one.
func (s *Shader) ScopeBind() func() {
	sm := s.context.StateMachine()
	previous := sm.State().Program
	sm.UseProgram(s.program)
	return func() {
		sm.UseProgram(previous)
	}
}

// EnsureUniform returns the cached uniform, looking its location up on first use.
func (s *Shader) EnsureUniform(name string) *ShaderUniform {
	if uniform, ok := s.uniforms[name]; ok {
		return uniform
	}
	uniform := &ShaderUniform{shader: s, name: name, location: -1}
	if s.context.IsValid() && s.program != 0 {
		uniform.location = s.context.GL().GetUniformLocation(s.program, name)
	}
	s.uniforms[name] = uniform
	return uniform
}

/**
 * @brief Assigns a texture to a sampler uniform. Each sampler keeps the
 * texture unit it got on first assignment.
 */
func (s *Shader) SetTexture(name string, texture *Texture2D) {
	for i := range s.samplers {
		if s.samplers[i].uniform.name == name {
			s.samplers[i].texture = texture
			return
		}
	}
	unit := int32(len(s.samplers))
	if unit >= MaxTexturesCount {
		core.LogError("shader %s: no texture unit left for sampler %s", s.name, name)
		return
	}
	uniform := s.EnsureUniform(name)
	s.samplers = append(s.samplers, samplerBinding{uniform: uniform, texture: texture, unit: unit})
	uniform.SetInt(unit)
}

func (s *Shader) Texture(name string) *Texture2D {
	for _, sampler := range s.samplers {
		if sampler.uniform.name == name {
			return sampler.texture
		}
	}
	return nil
}

// BindTextures binds every assigned texture to its unit.
func (s *Shader) BindTextures() {
	sm := s.context.StateMachine()
	for _, sampler := range s.samplers {
		if sampler.texture == nil {
			continue
		}
		sm.ActiveTexture(GL_TEXTURE0 + uint32(sampler.unit))
		sm.BindTexture(GL_TEXTURE_2D, sampler.texture.ID())
	}
	sm.ActiveTexture(GL_TEXTURE0)
}

// SetUniform implements renderer.Shader.
func (s *Shader) SetUniform(name string, value interface{}) error {
	switch v := value.(type) {
	case *Texture2D:
		s.SetTexture(name, v)
		return nil
	case renderer.Texture2D:
		texture, ok := v.(*Texture2D)
		if !ok {
			return fmt.Errorf("uniform %s: texture %T: %w", name, v, core.ErrUnsupportedUniform)
		}
		s.SetTexture(name, texture)
		return nil
	}

	uniform := s.EnsureUniform(name)
	switch v := value.(type) {
	case int32:
		uniform.SetInt(v)
	case int:
		uniform.SetInt(int32(v))
	case bool:
		if v {
			uniform.SetInt(1)
		} else {
			uniform.SetInt(0)
		}
	case float32:
		uniform.SetFloat(v)
	case float64:
		uniform.SetFloat(float32(v))
	case math.Vec2:
		uniform.SetVec2(v)
	case math.Vec3:
		uniform.SetVec3(v)
	case math.Vec4:
		uniform.SetVec4(v)
	case math.Color:
		uniform.SetVec4(v.ToVec4())
	case math.Mat3:
		uniform.SetMat3(v)
	case math.Mat4:
		uniform.SetMat4(v)
	case math.Affine:
		uniform.SetAffine(v)
	case []math.Vec4:
		uniform.SetVec4(v...)
	case []math.Mat4:
		uniform.SetMat4(v...)
	default:
		return fmt.Errorf("uniform %s: %T: %w", name, value, core.ErrUnsupportedUniform)
	}
	return nil
}

func (s *Shader) onContextSetup(core.EventContext) bool {
	program, err := newProgram(s.context.GL(), s.vertexSource, s.fragmentSource)
	if err != nil {
		core.LogError("shader %s: %v", s.name, err)
		return false
	}
	s.program = program
	for _, uniform := range s.uniforms {
		uniform.location = s.context.GL().GetUniformLocation(program, uniform.name)
	}
	for _, sampler := range s.samplers {
		sampler.uniform.SetInt(sampler.unit)
	}
	return false
}

func (s *Shader) onContextLost(core.EventContext) bool {
	s.program = 0
	for _, uniform := range s.uniforms {
		uniform.location = -1
	}
	return false
}

func (s *Shader) Destroy() {
	s.context.Events().UnregisterAll(s)
	if s.context.IsValid() && s.program != 0 {
		if s.context.StateMachine().State().Program == s.program {
			s.context.StateMachine().UseProgram(0)
		}
		s.context.GL().DeleteProgram(s.program)
	}
	if s.context.CurrentShader() == s {
		s.context.SetCurrentShader(nil)
	}
	s.program = 0
}
