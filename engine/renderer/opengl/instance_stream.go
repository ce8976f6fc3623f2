package opengl

import (
	"fmt"

	"github.com/Tinaynox/maze-sub011/engine/containers"
	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/Tinaynox/maze-sub011/engine/renderer"
)

const (
	// Texels per row of an instance data texture.
	InstanceStreamTextureWidth = 1024

	UniformArrayMaxInstancesPerDrawCall   = 32
	UniformArrayMaxInstancesPerDraw       = 4096
	UniformTextureMaxInstancesPerDrawCall = 1024
	UniformTextureMaxInstancesPerDraw     = 65536
)

// Sampler or array uniform names of the built-in instance streams.
const (
	InstanceStreamModelMatricesName = "u_modelMatrices"
	InstanceStreamColorName         = "u_colorStream"
	InstanceStreamUVName            = "u_uvStream"
)

func uvStreamName(channel int) string {
	return fmt.Sprintf("%s%d", InstanceStreamUVName, channel)
}

/**
 * @brief Per-instance data of one kind for a whole frame. Every instance
 * takes Vec4PerInstance vec4 slots. In UniformTexture mode the frame data
 * is uploaded once to an RGBA32F texture and each draw only sets an
 * instance offset; in UniformArray mode each draw uploads its slice to a
 * uniform vec4 array.
 */
type InstanceStream struct {
	context         *Context
	name            string
	vec4PerInstance int32
	architecture    ModelMatricesArchitecture

	offset int32
	data   []math.Vec4

	texture       *Texture2D
	textureHeight int32

	dataUniform   *ShaderUniform
	offsetUniform *ShaderUniform
}

func NewInstanceStream(context *Context, name string, vec4PerInstance int32) (*InstanceStream, error) {
	s := &InstanceStream{
		context:         context,
		name:            name,
		vec4PerInstance: vec4PerInstance,
		architecture:    context.ModelMatricesArchitecture(),
	}
	if s.architecture == ModelMatricesArchitectureUniformTexture {
		texture, err := NewTexture2D(context, name+"Texture")
		if err != nil {
			return nil, err
		}
		texture.SetFilters(GL_NEAREST, GL_NEAREST)
		s.texture = texture
	}
	return s, nil
}

func (s *InstanceStream) Name() string {
	return s.name
}

func (s *InstanceStream) Vec4PerInstance() int32 {
	return s.vec4PerInstance
}

func (s *InstanceStream) Texture() *Texture2D {
	return s.texture
}

func (s *InstanceStream) MaxInstancesPerDrawCall() int32 {
	if s.architecture == ModelMatricesArchitectureUniformArray {
		return UniformArrayMaxInstancesPerDrawCall
	}
	return UniformTextureMaxInstancesPerDrawCall
}

func (s *InstanceStream) MaxInstancesPerDraw() int32 {
	if s.architecture == ModelMatricesArchitectureUniformArray {
		return UniformArrayMaxInstancesPerDraw
	}
	return UniformTextureMaxInstancesPerDraw
}

// Offset is the first instance of the next draw call, in instances.
func (s *InstanceStream) Offset() int32 {
	return s.offset
}

func (s *InstanceStream) SetOffset(offset int32) {
	s.offset = offset
}

func (s *InstanceStream) Data() []math.Vec4 {
	return s.data
}

/**
 * @brief Takes the frame data. The slice is referenced, not copied, and
 * must stay untouched until the queue has been drawn.
 */
func (s *InstanceStream) ProcessDrawBegin(data []math.Vec4) {
	s.data = data
	s.offset = 0
	if s.architecture != ModelMatricesArchitectureUniformTexture || len(data) == 0 {
		return
	}

	texels := int32(len(data))
	rows := (texels + InstanceStreamTextureWidth - 1) / InstanceStreamTextureWidth
	height := math.NextPowerOfTwo(rows)
	if height != s.textureHeight {
		if err := s.texture.LoadFromPixels(InstanceStreamTextureWidth, height, renderer.PixelFormatRGBA_F32, nil); err != nil {
			core.LogError("instance stream %s: %v", s.name, err)
			return
		}
		s.textureHeight = height
	}

	fullRows := texels / InstanceStreamTextureWidth
	if fullRows > 0 {
		full := data[:fullRows*InstanceStreamTextureWidth]
		if err := s.texture.Update(0, 0, InstanceStreamTextureWidth, fullRows, containers.SliceBytes(full)); err != nil {
			core.LogError("instance stream %s: %v", s.name, err)
		}
	}
	if rest := texels - fullRows*InstanceStreamTextureWidth; rest > 0 {
		tail := data[fullRows*InstanceStreamTextureWidth:]
		if err := s.texture.Update(0, fullRows, rest, 1, containers.SliceBytes(tail)); err != nil {
			core.LogError("instance stream %s: %v", s.name, err)
		}
	}
}

// BindRenderPass resolves the stream uniforms of the pass shader.
func (s *InstanceStream) BindRenderPass(shader *Shader) {
	if s.architecture == ModelMatricesArchitectureUniformTexture {
		if shader.EnsureUniform(s.name + "Texture").IsValid() {
			shader.SetTexture(s.name+"Texture", s.texture)
		}
		s.offsetUniform = shader.EnsureUniform(s.name + "Offset")
		s.dataUniform = nil
		return
	}
	s.dataUniform = shader.EnsureUniform(s.name)
	s.offsetUniform = nil
}

// PrepareForRender makes count instances starting at Offset visible to the next draw call.
func (s *InstanceStream) PrepareForRender(count int32) {
	if s.architecture == ModelMatricesArchitectureUniformTexture {
		if s.offsetUniform != nil {
			s.offsetUniform.SetInt(s.offset)
		}
		return
	}
	if s.dataUniform == nil {
		return
	}
	from := s.offset * s.vec4PerInstance
	to := (s.offset + count) * s.vec4PerInstance
	if from < 0 || int(to) > len(s.data) {
		core.LogError("instance stream %s: instances [%d, %d) out of %d", s.name, s.offset, s.offset+count, int32(len(s.data))/s.vec4PerInstance)
		return
	}
	s.dataUniform.SetVec4(s.data[from:to]...)
}

// Advance moves the offset past a finished draw call.
func (s *InstanceStream) Advance(count int32) {
	s.offset += count
}

func (s *InstanceStream) Destroy() {
	if s.texture != nil {
		s.texture.Destroy()
	}
}
