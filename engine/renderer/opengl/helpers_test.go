package opengl

import (
	"testing"

	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/Tinaynox/maze-sub011/engine/renderer/metadata"
	"github.com/stretchr/testify/require"
)

func newTestRenderSystem(t *testing.T, architecture ModelMatricesArchitecture) (*RenderSystem, *fakeGL) {
	t.Helper()
	fake := newFakeGL()
	rs, err := NewRenderSystem(fake, RenderSystemConfig{ModelMatricesArchitecture: architecture})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = rs.Shutdown()
	})
	return rs, fake
}

func newQuadSubMesh() *metadata.SubMesh {
	subMesh := metadata.NewSubMesh("quad")
	subMesh.SetPositions([]math.Vec3{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}})
	subMesh.SetTexCoords(0, []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}})
	subMesh.SetIndicesU16([]uint16{0, 1, 2, 0, 2, 3})
	return subMesh
}

func newTestVAO(t *testing.T, rs *RenderSystem, name string) *VertexArrayObject {
	t.Helper()
	vao, err := NewVertexArrayObject(rs.Context(), name)
	require.NoError(t, err)
	vao.SetMesh(newQuadSubMesh())
	return vao
}

func newTestShader(t *testing.T, rs *RenderSystem, features ShaderFeatures) *Shader {
	t.Helper()
	vertexSource, fragmentSource := DefaultShaderSources(rs.Context().ModelMatricesArchitecture(), features)
	shader, err := NewShader(rs.Context(), "unlit", vertexSource, fragmentSource)
	require.NoError(t, err)
	return shader
}
