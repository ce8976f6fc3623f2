package loaders

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/particles"
	"github.com/Tinaynox/maze-sub011/engine/renderer/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

const fireToml = `
seed = 9

[main]
looped = false
prewarm = false
play_on_awake = true
transform_policy = "world"

[main.duration]
mode = "constant"
const0 = 2.0

[main.lifetime]
mode = "random-between-constants"
const0 = 0.5
const1 = 1.5

[main.emission]
enabled = true

[main.emission.per_second]
mode = "constant"
const0 = 25.0

[[main.emission.bursts]]
time = 1.0
min_count = 4
max_count = 8

[[main.emission.bursts]]
time = 0.25
min_count = 2
max_count = 2

[shape]
enabled = true

[shape.zone]
type = "sphere"
radius = 0.5
shell = true

[renderer]
max_particles = 250
alignment = "world"

[renderer.texture_sheet_animation]
enabled = true
tiles = { x = 4, y = 2 }
`

const smokeYaml = `
name: smoke
main:
  looped: true
  color_over_lifetime:
    enabled: true
    parameter:
      mode: gradient
      gradient0:
        keys:
          - time: 0
            color: {x: 1, y: 1, z: 1, w: 1}
          - time: 1
            color: {x: 1, y: 1, z: 1, w: 0}
renderer:
  max_particles: 64
`

func TestParseParticleSystemConfigToml(t *testing.T) {
	config, err := ParseParticleSystemConfig("effects/fire.toml", []byte(fireToml))
	require.NoError(t, err)

	assert.Equal(t, "fire", config.Name)
	assert.Equal(t, uint64(9), config.Seed)
	assert.False(t, config.Main.Looped)
	assert.Equal(t, particles.TransformPolicyWorld, config.Main.TransformPolicy)
	assert.Equal(t, float32(2), config.Main.Duration.Const0)
	assert.Equal(t, particles.ParameterF32ModeRandomBetweenConstants, config.Main.Lifetime.Mode)
	assert.Equal(t, float32(25), config.Main.Emission.EmissionPerSecond.Const0)
	require.Len(t, config.Main.Emission.Bursts, 2)
	assert.Equal(t, float32(0.25), config.Main.Emission.Bursts[0].Time, "bursts are sorted")
	assert.Equal(t, particles.ShapeTypeSphere, config.Shape.Zone.Type)
	assert.True(t, config.Shape.Zone.Shell)
	assert.Equal(t, int32(250), config.Renderer.MaxParticles)
	assert.Equal(t, particles.RenderAlignmentWorld, config.Renderer.Alignment)
	assert.Equal(t, int32(4), config.Renderer.TextureSheetAnimation.Tiles.X)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, float32(-9.8), config.Main.Gravity.Const0)
	assert.Equal(t, particles.ParameterF32ModeConstant, config.Main.Size.Mode)
}

func TestParseParticleSystemConfigYaml(t *testing.T) {
	config, err := ParseParticleSystemConfig("smoke.yml", []byte(smokeYaml))
	require.NoError(t, err)

	assert.Equal(t, "smoke", config.Name)
	assert.Equal(t, int32(64), config.Renderer.MaxParticles)
	assert.True(t, config.Main.ColorOverLifetime.Enabled)
	gradient := config.Main.ColorOverLifetime.Parameter
	assert.Equal(t, particles.ParameterColorModeGradient, gradient.Mode)
	assert.InDelta(t, 0.5, gradient.Sample(0, 0.5).W, 1e-6)
}

func TestParseParticleSystemConfigErrors(t *testing.T) {
	_, err := ParseParticleSystemConfig("fire.json", []byte("{}"))
	assert.ErrorIs(t, err, core.ErrUnknownConfigFormat)

	_, err = ParseParticleSystemConfig("fire.toml", []byte("[main\nlooped = "))
	assert.Error(t, err)

	_, err = ParseParticleSystemConfig("fire.toml", []byte("[shape.zone]\ntype = \"blob\"\n"))
	assert.Error(t, err)
}

func TestParticleSystemConfigSurvivesEncoding(t *testing.T) {
	config, err := ParseParticleSystemConfig("fire.toml", []byte(fireToml))
	require.NoError(t, err)

	for _, name := range []string{"fire.toml", "fire.yaml"} {
		data, err := EncodeParticleSystemConfig(name, config)
		require.NoError(t, err)
		decoded, err := ParseParticleSystemConfig(name, data)
		require.NoError(t, err, name)
		assert.Equal(t, config.Main.Emission.Bursts, decoded.Main.Emission.Bursts, name)
		assert.Equal(t, config.Shape.Zone, decoded.Shape.Zone, name)
	}

	_, err = EncodeParticleSystemConfig("fire.ini", config)
	assert.ErrorIs(t, err, core.ErrUnknownConfigFormat)
}

func TestParticleSystemLoaderReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fire.toml")
	require.NoError(t, os.WriteFile(path, []byte(fireToml), 0o644))

	resource, err := (&ParticleSystemLoader{}).Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "fire", resource.Name)
	assert.Equal(t, uint64(len(fireToml)), resource.DataSize)
	assert.IsType(t, particles.SystemConfig{}, resource.Data)
}

func TestBuildSubMesh(t *testing.T) {
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	normals := [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}}
	uvs := [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	subMesh := BuildSubMesh("quad", positions, normals, uvs, []uint32{0, 1, 2, 0, 2, 3})

	assert.Equal(t, 4, subMesh.VertexCount())
	assert.Equal(t, 6, subMesh.IndicesCount())
	assert.Equal(t, metadata.VertexAttributeTypeU16, subMesh.IndicesType())
	assert.True(t, subMesh.HasVertexAttributes(metadata.VertexAttributeSemanticNormal))
	assert.True(t, subMesh.HasVertexAttributes(metadata.TexCoordsSemantic(0)))
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, subMesh.IndicesU32())
}

func TestBuildSubMeshWithoutIndicesOrOptionalStreams(t *testing.T) {
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

	subMesh := BuildSubMesh("tri", positions, nil, [][2]float32{{0, 0}}, nil)

	assert.Equal(t, []uint32{0, 1, 2}, subMesh.IndicesU32())
	assert.False(t, subMesh.HasVertexAttributes(metadata.VertexAttributeSemanticNormal))
	assert.False(t, subMesh.HasVertexAttributes(metadata.TexCoordsSemantic(0)), "mismatched uv count is dropped")
}

func TestBuildSubMeshUsesU32ForLargeIndices(t *testing.T) {
	positions := make([][3]float32, 70000)
	subMesh := BuildSubMesh("big", positions, nil, nil, []uint32{0, 1, 69999})

	assert.Equal(t, metadata.VertexAttributeTypeU32, subMesh.IndicesType())
}

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	img.Set(1, 0, color.NRGBA{G: 255, A: 255})
	img.Set(0, 1, color.NRGBA{B: 255, A: 255})
	img.Set(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return img
}

func TestConvertImage(t *testing.T) {
	texture := ConvertImage(testImage(), TextureLoaderParams{})
	assert.Equal(t, int32(2), texture.Width)
	assert.Equal(t, []byte{255, 0, 0, 255}, texture.Pixels[0:4])
	assert.Equal(t, []byte{0, 0, 255, 255}, texture.Pixels[8:12])

	flipped := ConvertImage(testImage(), TextureLoaderParams{FlipY: true})
	assert.Equal(t, []byte{0, 0, 255, 255}, flipped.Pixels[0:4])
	assert.Equal(t, []byte{255, 0, 0, 255}, flipped.Pixels[8:12])

	scaled := ConvertImage(image.NewNRGBA(image.Rect(0, 0, 64, 32)), TextureLoaderParams{MaxSize: 16})
	assert.Equal(t, int32(16), scaled.Width)
	assert.Equal(t, int32(8), scaled.Height)
	assert.Len(t, scaled.Pixels, 16*8*4)
}

func TestTextureLoaderDecodesPngAndBmp(t *testing.T) {
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "sheet.png")
	pngFile, err := os.Create(pngPath)
	require.NoError(t, err)
	require.NoError(t, png.Encode(pngFile, testImage()))
	require.NoError(t, pngFile.Close())

	bmpPath := filepath.Join(dir, "sheet.bmp")
	bmpFile, err := os.Create(bmpPath)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(bmpFile, testImage()))
	require.NoError(t, bmpFile.Close())

	for _, path := range []string{pngPath, bmpPath} {
		resource, err := (&TextureLoader{}).Load(path, nil)
		require.NoError(t, err, path)
		texture, ok := resource.Data.(*TextureData)
		require.True(t, ok)
		assert.Equal(t, int32(2), texture.Height)
		assert.Equal(t, []byte{0, 255, 0, 255}, texture.Pixels[4:8], path)
	}

	_, err = (&TextureLoader{}).Load(filepath.Join(dir, "missing.png"), nil)
	assert.Error(t, err)
}

func TestShaderLoaderReadsBodies(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "particle.frag"), []byte("void main() {}\n"), 0o644))
	config := "name = \"particle\"\ncolor_stream = true\nuv_stream = true\nfragment = \"particle.frag\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "particle.shadercfg"), []byte(config), 0o644))

	resource, err := (&ShaderLoader{}).Load(filepath.Join(dir, "particle.shadercfg"), nil)
	require.NoError(t, err)

	shader := resource.Data.(*ShaderConfig)
	assert.Equal(t, "particle", shader.Name)
	assert.True(t, shader.ColorStream)
	assert.True(t, shader.UVStream)
	assert.Equal(t, "void main() {}\n", shader.FragmentBody)
	assert.Empty(t, shader.VertexBody)
}

func TestShippedParticleConfigsParse(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "..", "assets", "particles", "*"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		resource, err := (&ParticleSystemLoader{}).Load(path, nil)
		require.NoError(t, err, path)
		config := resource.Data.(particles.SystemConfig)
		assert.Greater(t, config.Renderer.MaxParticles, int32(0), path)
		assert.True(t, config.Main.ColorOverLifetime.Enabled, path)
	}
}
