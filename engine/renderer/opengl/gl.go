package opengl

import (
	"github.com/Tinaynox/maze-sub011/engine/renderer/metadata"
)

/**
 * @brief The subset of the OpenGL 4.1 core API the backend calls. Object
 * names and enums are plain integers with the values of the GL headers.
 * glcore.Device is the production implementation.
 */
type GL interface {
	GetError() uint32
	GetIntegerv(pname uint32) int32

	Enable(capability uint32)
	Disable(capability uint32)
	ActiveTexture(texture uint32)
	BindTexture(target, texture uint32)
	BlendFunc(sfactor, dfactor uint32)
	DepthFunc(function uint32)
	DepthMask(flag bool)
	CullFace(mode uint32)
	FrontFace(mode uint32)
	PolygonMode(face, mode uint32)
	Viewport(x, y, width, height int32)
	Scissor(x, y, width, height int32)
	ClearColor(red, green, blue, alpha float32)
	ClearDepth(depth float64)
	Clear(mask uint32)

	GenVertexArray() uint32
	DeleteVertexArray(array uint32)
	BindVertexArray(array uint32)
	GenBuffer() uint32
	DeleteBuffer(buffer uint32)
	BindBuffer(target, buffer uint32)
	BufferData(target uint32, data []byte, usage uint32)
	GetBufferSubData(target uint32, offset int, data []byte)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	EnableVertexAttribArray(index uint32)
	DisableVertexAttribArray(index uint32)
	DrawElementsInstanced(mode uint32, count int32, xtype uint32, offset uintptr, instanceCount int32)

	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname uint32) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program uint32, pname uint32) int32
	GetProgramInfoLog(program uint32) string
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	GetUniformLocation(program uint32, name string) int32
	Uniform1i(location int32, value int32)
	Uniform1f(location int32, value float32)
	Uniform2fv(location int32, values []float32)
	Uniform3fv(location int32, values []float32)
	Uniform4fv(location int32, values []float32)
	UniformMatrix3fv(location int32, values []float32)
	UniformMatrix4fv(location int32, values []float32)
	UniformMatrix4x3fv(location int32, values []float32)

	GenTexture() uint32
	DeleteTexture(texture uint32)
	TexImage2D(target uint32, level int32, internalFormat int32, width, height int32, format, xtype uint32, pixels []byte)
	TexSubImage2D(target uint32, level int32, xoffset, yoffset, width, height int32, format, xtype uint32, pixels []byte)
	TexParameteri(target, pname uint32, param int32)
	GenerateMipmap(target uint32)

	GenFramebuffer() uint32
	DeleteFramebuffer(framebuffer uint32)
	BindFramebuffer(target, framebuffer uint32)
	FramebufferTexture2D(target, attachment, textarget, texture uint32, level int32)
	CheckFramebufferStatus(target uint32) uint32
}

const (
	GL_NO_ERROR = 0
	GL_FALSE    = 0
	GL_TRUE     = 1

	GL_INVALID_ENUM                  = 0x0500
	GL_INVALID_VALUE                 = 0x0501
	GL_INVALID_OPERATION             = 0x0502
	GL_OUT_OF_MEMORY                 = 0x0505
	GL_INVALID_FRAMEBUFFER_OPERATION = 0x0506

	GL_POINTS         = 0x0000
	GL_LINES          = 0x0001
	GL_LINE_STRIP     = 0x0003
	GL_TRIANGLES      = 0x0004
	GL_TRIANGLE_STRIP = 0x0005

	GL_NEVER    = 0x0200
	GL_LESS     = 0x0201
	GL_EQUAL    = 0x0202
	GL_LEQUAL   = 0x0203
	GL_GREATER  = 0x0204
	GL_NOTEQUAL = 0x0205
	GL_GEQUAL   = 0x0206
	GL_ALWAYS   = 0x0207

	GL_ZERO                = 0
	GL_ONE                 = 1
	GL_SRC_COLOR           = 0x0300
	GL_ONE_MINUS_SRC_COLOR = 0x0301
	GL_SRC_ALPHA           = 0x0302
	GL_ONE_MINUS_SRC_ALPHA = 0x0303
	GL_DST_ALPHA           = 0x0304
	GL_ONE_MINUS_DST_ALPHA = 0x0305
	GL_DST_COLOR           = 0x0306
	GL_ONE_MINUS_DST_COLOR = 0x0307
	GL_SRC_ALPHA_SATURATE  = 0x0308

	GL_FRONT          = 0x0404
	GL_BACK           = 0x0405
	GL_FRONT_AND_BACK = 0x0408
	GL_CW             = 0x0900
	GL_CCW            = 0x0901
	GL_LINE           = 0x1B01
	GL_FILL           = 0x1B02

	GL_CULL_FACE        = 0x0B44
	GL_DEPTH_TEST       = 0x0B71
	GL_BLEND            = 0x0BE2
	GL_SCISSOR_TEST     = 0x0C11
	GL_MULTISAMPLE      = 0x809D
	GL_CLIP_DISTANCE0   = 0x3000
	GL_MAX_TEXTURE_SIZE = 0x0D33

	GL_MAX_VERTEX_UNIFORM_VECTORS = 0x8DFB

	GL_BYTE           = 0x1400
	GL_UNSIGNED_BYTE  = 0x1401
	GL_SHORT          = 0x1402
	GL_UNSIGNED_SHORT = 0x1403
	GL_INT            = 0x1404
	GL_UNSIGNED_INT   = 0x1405
	GL_FLOAT          = 0x1406
	GL_DOUBLE         = 0x140A
	GL_HALF_FLOAT     = 0x140B

	GL_ARRAY_BUFFER         = 0x8892
	GL_ELEMENT_ARRAY_BUFFER = 0x8893
	GL_STREAM_DRAW          = 0x88E0
	GL_STATIC_DRAW          = 0x88E4
	GL_DYNAMIC_DRAW         = 0x88E8

	GL_FRAGMENT_SHADER = 0x8B30
	GL_VERTEX_SHADER   = 0x8B31
	GL_COMPILE_STATUS  = 0x8B81
	GL_LINK_STATUS     = 0x8B82
	GL_INFO_LOG_LENGTH = 0x8B84

	GL_TEXTURE_2D           = 0x0DE1
	GL_TEXTURE0             = 0x84C0
	GL_TEXTURE_MAG_FILTER   = 0x2800
	GL_TEXTURE_MIN_FILTER   = 0x2801
	GL_TEXTURE_WRAP_S       = 0x2802
	GL_TEXTURE_WRAP_T       = 0x2803
	GL_NEAREST              = 0x2600
	GL_LINEAR               = 0x2601
	GL_LINEAR_MIPMAP_LINEAR = 0x2703
	GL_REPEAT               = 0x2901
	GL_CLAMP_TO_EDGE        = 0x812F

	GL_DEPTH_COMPONENT    = 0x1902
	GL_RGBA               = 0x1908
	GL_RGBA8              = 0x8058
	GL_RGBA32F            = 0x8814
	GL_RGBA16F            = 0x881A
	GL_DEPTH_COMPONENT24  = 0x81A6
	GL_DEPTH_COMPONENT32F = 0x8CAC

	GL_FRAMEBUFFER          = 0x8D40
	GL_FRAMEBUFFER_COMPLETE = 0x8CD5
	GL_COLOR_ATTACHMENT0    = 0x8CE0
	GL_DEPTH_ATTACHMENT     = 0x8D00

	GL_DEPTH_BUFFER_BIT = 0x00000100
	GL_COLOR_BUFFER_BIT = 0x00004000
)

const (
	// Texture units tracked by the state machine.
	MaxTexturesCount = 16
	// Clip distances tracked by the state machine.
	MaxClipDistancesCount = 8
)

func GetOpenGLBlendFactor(factor metadata.BlendFactor) uint32 {
	switch factor {
	case metadata.BlendFactorZero:
		return GL_ZERO
	case metadata.BlendFactorOne:
		return GL_ONE
	case metadata.BlendFactorSrcColor:
		return GL_SRC_COLOR
	case metadata.BlendFactorOneMinusSrcColor:
		return GL_ONE_MINUS_SRC_COLOR
	case metadata.BlendFactorDstColor:
		return GL_DST_COLOR
	case metadata.BlendFactorOneMinusDstColor:
		return GL_ONE_MINUS_DST_COLOR
	case metadata.BlendFactorSrcAlpha:
		return GL_SRC_ALPHA
	case metadata.BlendFactorOneMinusSrcAlpha:
		return GL_ONE_MINUS_SRC_ALPHA
	case metadata.BlendFactorDstAlpha:
		return GL_DST_ALPHA
	case metadata.BlendFactorOneMinusDstAlpha:
		return GL_ONE_MINUS_DST_ALPHA
	case metadata.BlendFactorSrcAlphaSaturate:
		return GL_SRC_ALPHA_SATURATE
	default:
		return GL_ONE
	}
}

func GetOpenGLCompareFunction(function metadata.CompareFunction) uint32 {
	switch function {
	case metadata.CompareFunctionLess:
		return GL_LESS
	case metadata.CompareFunctionLessEqual:
		return GL_LEQUAL
	case metadata.CompareFunctionEqual:
		return GL_EQUAL
	case metadata.CompareFunctionNotEqual:
		return GL_NOTEQUAL
	case metadata.CompareFunctionGreaterEqual:
		return GL_GEQUAL
	case metadata.CompareFunctionGreater:
		return GL_GREATER
	case metadata.CompareFunctionNever:
		return GL_NEVER
	default:
		return GL_ALWAYS
	}
}

func GetOpenGLCullMode(mode metadata.CullMode) uint32 {
	switch mode {
	case metadata.CullModeFront:
		return GL_FRONT
	case metadata.CullModeFrontAndBack:
		return GL_FRONT_AND_BACK
	default:
		return GL_BACK
	}
}

func GetRenderDrawTopologyOpenGL(topology metadata.RenderDrawTopology) uint32 {
	switch topology {
	case metadata.RenderDrawTopologyPoints:
		return GL_POINTS
	case metadata.RenderDrawTopologyLines:
		return GL_LINES
	case metadata.RenderDrawTopologyLineStrip:
		return GL_LINE_STRIP
	case metadata.RenderDrawTopologyTriangleStrip:
		return GL_TRIANGLE_STRIP
	default:
		return GL_TRIANGLES
	}
}

func GetVertexAttributeTypeOpenGL(attributeType metadata.VertexAttributeType) uint32 {
	switch attributeType {
	case metadata.VertexAttributeTypeS8:
		return GL_BYTE
	case metadata.VertexAttributeTypeU8:
		return GL_UNSIGNED_BYTE
	case metadata.VertexAttributeTypeS16:
		return GL_SHORT
	case metadata.VertexAttributeTypeU16:
		return GL_UNSIGNED_SHORT
	case metadata.VertexAttributeTypeS32:
		return GL_INT
	case metadata.VertexAttributeTypeU32:
		return GL_UNSIGNED_INT
	case metadata.VertexAttributeTypeF64:
		return GL_DOUBLE
	default:
		return GL_FLOAT
	}
}
