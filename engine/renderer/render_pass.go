package renderer

import (
	"github.com/Tinaynox/maze-sub011/engine/renderer/metadata"
	"github.com/google/uuid"
)

type RenderQueueIndex int32

const (
	RenderQueueIndexOpaque      RenderQueueIndex = 2000
	RenderQueueIndexTransparent RenderQueueIndex = 3000
)

type ShaderUniformValue struct {
	Name  string
	Value interface{}
}

/**
 * @brief One shader plus the fixed-function state used to draw with it.
 * Blend is off when the factors are One/Zero, depth test is off with
 * CompareFunctionDisabled and culling is off with CullModeOff.
 */
type RenderPass struct {
	Name                     string
	Shader                   Shader
	BlendSrcFactor           metadata.BlendFactor
	BlendDestFactor          metadata.BlendFactor
	DepthTestCompareFunction metadata.CompareFunction
	DepthWriteEnabled        bool
	CullMode                 metadata.CullMode
	RenderQueueIndex         RenderQueueIndex

	uniforms []ShaderUniformValue
}

// NewRenderPass returns an opaque pass: no blending, LessEqual depth test, back face culling.
func NewRenderPass(name string, shader Shader) *RenderPass {
	if name == "" {
		name = "pass-" + uuid.NewString()
	}
	return &RenderPass{
		Name:                     name,
		Shader:                   shader,
		BlendSrcFactor:           metadata.BlendFactorOne,
		BlendDestFactor:          metadata.BlendFactorZero,
		DepthTestCompareFunction: metadata.CompareFunctionLessEqual,
		DepthWriteEnabled:        true,
		CullMode:                 metadata.CullModeBack,
		RenderQueueIndex:         RenderQueueIndexOpaque,
	}
}

func (rp *RenderPass) IsBlendEnabled() bool {
	return !(rp.BlendSrcFactor == metadata.BlendFactorOne && rp.BlendDestFactor == metadata.BlendFactorZero)
}

func (rp *RenderPass) IsDepthTestEnabled() bool {
	return rp.DepthTestCompareFunction != metadata.CompareFunctionDisabled
}

func (rp *RenderPass) IsCullEnabled() bool {
	return rp.CullMode != metadata.CullModeOff
}

// SetUniform stores a value uploaded every time the pass is bound. Setting a name twice replaces it.
func (rp *RenderPass) SetUniform(name string, value interface{}) {
	for i := range rp.uniforms {
		if rp.uniforms[i].Name == name {
			rp.uniforms[i].Value = value
			return
		}
	}
	rp.uniforms = append(rp.uniforms, ShaderUniformValue{Name: name, Value: value})
}

func (rp *RenderPass) Uniforms() []ShaderUniformValue {
	return rp.uniforms
}

// ApplyUniforms uploads the pass uniforms to its shader and returns the first failure.
func (rp *RenderPass) ApplyUniforms() error {
	if rp.Shader == nil {
		return nil
	}
	for _, uniform := range rp.uniforms {
		if err := rp.Shader.SetUniform(uniform.Name, uniform.Value); err != nil {
			return err
		}
	}
	return nil
}
