package opengl

import (
	"fmt"
	"strings"
)

/** @brief Compile-time switches of the built-in shader sources. */
type ShaderFeatures struct {
	// Per-instance color from the color stream.
	ColorStream bool
	// Per-instance uv scale/offset from uv stream 0.
	UVStream bool
	// Per-vertex color attribute.
	VertexColor bool
	// Samples u_baseMap in the fragment stage.
	BaseMap bool
}

func boolDefine(name string, enabled bool) string {
	if enabled {
		return fmt.Sprintf("#define %s 1\n", name)
	}
	return fmt.Sprintf("#define %s 0\n", name)
}

func shaderHeader(architecture ModelMatricesArchitecture, features ShaderFeatures) string {
	var sb strings.Builder
	sb.WriteString("#version 410 core\n")
	sb.WriteString(boolDefine("MAZE_UNIFORM_TEXTURE", architecture == ModelMatricesArchitectureUniformTexture))
	sb.WriteString(boolDefine("MAZE_COLOR_STREAM", features.ColorStream))
	sb.WriteString(boolDefine("MAZE_UV_STREAM", features.UVStream))
	sb.WriteString(boolDefine("MAZE_VERTEX_COLOR", features.VertexColor))
	sb.WriteString(boolDefine("MAZE_BASE_MAP", features.BaseMap))
	fmt.Fprintf(&sb, "#define MAZE_INSTANCE_TEXTURE_WIDTH %d\n", InstanceStreamTextureWidth)
	fmt.Fprintf(&sb, "#define MAZE_UNIFORM_ARRAY_INSTANCES %d\n", UniformArrayMaxInstancesPerDrawCall)
	return sb.String()
}

/**
 * @brief Declarations shared by every vertex shader: vertex inputs at
 * their semantic locations, engine uniforms and the instance stream
 * accessors getModelMatrix, getInstanceColor and getInstanceUV.
 * Matrices are uploaded row-major, so they are applied right to left.
 */
const vertexShaderPrelude = `
layout(location = 0) in vec3 a_position;
layout(location = 1) in vec3 a_normal;
layout(location = 4) in vec4 a_color;
layout(location = 5) in vec2 a_texCoords0;

uniform mat4 u_viewMatrix;
uniform mat4 u_projectionMatrix;
uniform vec4 u_projectionParams;
uniform vec3 u_viewPosition;
uniform vec4 u_clipDistanceEnable;
uniform vec4 u_clipDistance0;
uniform float u_time;

#if MAZE_UNIFORM_TEXTURE
vec4 fetchInstanceData(sampler2D streamTexture, int index)
{
    return texelFetch(streamTexture, ivec2(index % MAZE_INSTANCE_TEXTURE_WIDTH, index / MAZE_INSTANCE_TEXTURE_WIDTH), 0);
}

uniform sampler2D u_modelMatricesTexture;
uniform int u_modelMatricesOffset;

mat4 getModelMatrix()
{
    int base = (u_modelMatricesOffset + gl_InstanceID) * 4;
    return mat4(
        fetchInstanceData(u_modelMatricesTexture, base),
        fetchInstanceData(u_modelMatricesTexture, base + 1),
        fetchInstanceData(u_modelMatricesTexture, base + 2),
        fetchInstanceData(u_modelMatricesTexture, base + 3));
}

#if MAZE_COLOR_STREAM
uniform sampler2D u_colorStreamTexture;
uniform int u_colorStreamOffset;

vec4 getInstanceColor()
{
    return fetchInstanceData(u_colorStreamTexture, u_colorStreamOffset + gl_InstanceID);
}
#endif

#if MAZE_UV_STREAM
uniform sampler2D u_uvStream0Texture;
uniform int u_uvStream0Offset;

vec4 getInstanceUV()
{
    return fetchInstanceData(u_uvStream0Texture, u_uvStream0Offset + gl_InstanceID);
}
#endif

#else
uniform vec4 u_modelMatrices[MAZE_UNIFORM_ARRAY_INSTANCES * 4];

mat4 getModelMatrix()
{
    int base = gl_InstanceID * 4;
    return mat4(u_modelMatrices[base], u_modelMatrices[base + 1], u_modelMatrices[base + 2], u_modelMatrices[base + 3]);
}

#if MAZE_COLOR_STREAM
uniform vec4 u_colorStream[MAZE_UNIFORM_ARRAY_INSTANCES];

vec4 getInstanceColor()
{
    return u_colorStream[gl_InstanceID];
}
#endif

#if MAZE_UV_STREAM
uniform vec4 u_uvStream0[MAZE_UNIFORM_ARRAY_INSTANCES];

vec4 getInstanceUV()
{
    return u_uvStream0[gl_InstanceID];
}
#endif
#endif

float computeClipDistance0(vec4 worldPosition)
{
    return u_clipDistanceEnable.x > 0.5 ? dot(worldPosition, u_clipDistance0) : 1.0;
}
`

const defaultVertexShaderBody = `
out vec4 v_color;
out vec2 v_uv;

void main()
{
    vec4 worldPosition = getModelMatrix() * vec4(a_position, 1.0);
    gl_Position = u_projectionMatrix * u_viewMatrix * worldPosition;
    gl_ClipDistance[0] = computeClipDistance0(worldPosition);

    v_color = vec4(1.0);
#if MAZE_VERTEX_COLOR
    v_color *= a_color;
#endif
#if MAZE_COLOR_STREAM
    v_color *= getInstanceColor();
#endif

    v_uv = a_texCoords0;
#if MAZE_UV_STREAM
    vec4 uvScaleOffset = getInstanceUV();
    v_uv = a_texCoords0 * uvScaleOffset.xy + uvScaleOffset.zw;
#endif
}
`

const defaultFragmentShaderBody = `
in vec4 v_color;
in vec2 v_uv;

uniform vec4 u_color;
#if MAZE_BASE_MAP
uniform sampler2D u_baseMap;
#endif

out vec4 fragColor;

void main()
{
    vec4 color = v_color * u_color;
#if MAZE_BASE_MAP
    color *= texture(u_baseMap, v_uv);
#endif
    fragColor = color;
}
`

// BuildVertexShaderSource prepends the version, feature defines and the instance stream prelude.
func BuildVertexShaderSource(architecture ModelMatricesArchitecture, features ShaderFeatures, body string) string {
	return shaderHeader(architecture, features) + vertexShaderPrelude + body
}

func BuildFragmentShaderSource(architecture ModelMatricesArchitecture, features ShaderFeatures, body string) string {
	return shaderHeader(architecture, features) + body
}

/**
 * @brief Unlit shader: vertex color, instance color, base map and the
 * u_color tint multiplied together.
 */
func DefaultShaderSources(architecture ModelMatricesArchitecture, features ShaderFeatures) (string, string) {
	return BuildVertexShaderSource(architecture, features, defaultVertexShaderBody),
		BuildFragmentShaderSource(architecture, features, defaultFragmentShaderBody)
}
