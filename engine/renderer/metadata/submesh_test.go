package metadata

import (
	"errors"
	"testing"

	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuad(name string, offset float32) *SubMesh {
	sm := NewSubMesh(name)
	sm.SetPositions([]math.Vec3{
		{X: offset, Y: 0, Z: 0},
		{X: offset + 1, Y: 0, Z: 0},
		{X: offset + 1, Y: 1, Z: 0},
		{X: offset, Y: 1, Z: 0},
	})
	sm.SetNormals([]math.Vec3{{Z: 1}, {Z: 1}, {Z: 1}, {Z: 1}})
	sm.SetTexCoords(0, []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}})
	sm.SetIndicesU16([]uint16{0, 1, 2, 0, 2, 3})
	return sm
}

func newTriangle(name string) *SubMesh {
	sm := NewSubMesh(name)
	sm.SetPositions([]math.Vec3{{X: 0}, {X: 1}, {Y: 1}})
	sm.SetIndicesU16([]uint16{0, 1, 2})
	return sm
}

func TestSubMeshVertexCount(t *testing.T) {
	sm := newQuad("quad", 0)
	assert.Equal(t, 4, sm.VertexCount())
	assert.Equal(t, 6, sm.IndicesCount())
	assert.Equal(t, VertexAttributeTypeU16, sm.IndicesType())
	assert.Equal(t, int32(12), sm.VertexDescription(VertexAttributeSemanticPosition).Stride)
	assert.Equal(t, 0, NewSubMesh("").VertexCount())
	assert.NotEmpty(t, NewSubMesh("").Name)
}

func TestSubMeshAllocateReplaces(t *testing.T) {
	sm := newQuad("quad", 0)
	buffer := sm.AllocateVertexAttributes(VertexAttributeSemanticPosition, VertexAttributeTypeF32, 3, 2, false)
	assert.Equal(t, 24, buffer.Size())
	assert.Same(t, buffer, sm.VertexAttributes(VertexAttributeSemanticPosition))
	assert.Equal(t, []math.Vec3{{}, {}}, sm.Positions())
}

func TestSubMeshMergeWith(t *testing.T) {
	a := newQuad("a", 0)
	b := newQuad("b", 5)
	bIndices := b.IndicesU32()

	require.True(t, a.MergeWith(b))
	assert.Equal(t, 8, a.VertexCount())
	assert.Equal(t, 12, a.IndicesCount())

	indices := a.IndicesU32()
	for i, index := range bIndices {
		assert.Equal(t, index+4, indices[6+i])
	}
	assert.Equal(t, float32(5), a.Positions()[4].X)
	require.NoError(t, a.ValidateIndices())
}

func TestSubMeshMergeIncompatibleLeavesInputsUnchanged(t *testing.T) {
	cases := map[string]func(other *SubMesh){
		"topology": func(other *SubMesh) {
			other.RenderDrawTopology = RenderDrawTopologyLines
		},
		"index type": func(other *SubMesh) {
			other.SetIndicesU32([]uint32{0, 1, 2, 0, 2, 3})
		},
		"attribute presence": func(other *SubMesh) {
			other.RemoveVertexAttributes(VertexAttributeSemanticNormal)
		},
		"attribute layout": func(other *SubMesh) {
			other.SetTexCoordsVec4(0, []math.Vec4{{}, {}, {}, {}})
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			a := newQuad("a", 0)
			b := newQuad("b", 2)
			mutate(b)
			aBefore := a.CreateCopy()
			bBefore := b.CreateCopy()

			assert.False(t, a.MergeWith(b))
			assert.True(t, a.IsEqual(aBefore))
			assert.True(t, b.IsEqual(bBefore))
		})
	}
}

func TestSubMeshMergeRejectsIndexOverflow(t *testing.T) {
	a := NewSubMesh("a")
	a.AllocateVertexAttributes(VertexAttributeSemanticPosition, VertexAttributeTypeF32, 3, 250, false)
	a.SetIndicesU8([]uint8{0, 1, 2})
	b := NewSubMesh("b")
	b.AllocateVertexAttributes(VertexAttributeSemanticPosition, VertexAttributeTypeF32, 3, 10, false)
	b.SetIndicesU8([]uint8{7, 8, 9})

	assert.False(t, a.MergeWith(b))
	assert.Equal(t, 250, a.VertexCount())
}

func TestSubMeshScale(t *testing.T) {
	sm := newQuad("quad", 1)
	require.NoError(t, sm.Scale(2))
	positions := sm.Positions()
	assert.Equal(t, math.Vec3{X: 2, Y: 0, Z: 0}, positions[0])
	assert.Equal(t, math.Vec3{X: 4, Y: 2, Z: 0}, positions[2])

	empty := NewSubMesh("empty")
	assert.NoError(t, empty.Scale(3))

	packed := NewSubMesh("packed")
	packed.SetVertexAttributes(VertexAttributeSemanticPosition, VertexAttributeTypeS16, 3, make([]byte, 12), false)
	err := packed.Scale(2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrUnsupportedType))
}

func TestSubMeshIndicesDecoding(t *testing.T) {
	sm := NewSubMesh("indices")
	sm.SetIndicesU8([]uint8{3, 2, 1})
	assert.Equal(t, []uint32{3, 2, 1}, sm.IndicesU32())

	buffer := sm.AllocateIndices(VertexAttributeTypeU32, 2)
	assert.Equal(t, 8, buffer.Size())
	assert.Equal(t, []uint32{0, 0}, sm.IndicesU32())
}

func TestSubMeshValidateIndices(t *testing.T) {
	sm := newTriangle("tri")
	require.NoError(t, sm.ValidateIndices())
	sm.SetIndicesU16([]uint16{0, 1, 3})
	assert.ErrorIs(t, sm.ValidateIndices(), core.ErrIndexOutOfRange)
}

func TestSubMeshCreateCopyIsDeep(t *testing.T) {
	sm := newQuad("quad", 0)
	clone := sm.CreateCopy()
	require.True(t, clone.IsEqual(sm))

	require.NoError(t, clone.Scale(10))
	assert.False(t, clone.IsEqual(sm))
	assert.Equal(t, float32(0), sm.Positions()[1].Y)
	assert.Equal(t, float32(1), sm.Positions()[1].X)
}

func TestMeshMergeSubMeshes(t *testing.T) {
	mesh := NewMesh("scene")
	first := newTriangle("first")
	lines := newTriangle("lines")
	lines.RenderDrawTopology = RenderDrawTopologyLines
	third := newTriangle("third")

	mesh.AddSubMesh(first)
	mesh.AddSubMesh(lines)
	mesh.AddSubMesh(third)

	mesh.MergeSubMeshes()

	require.Equal(t, 2, mesh.SubMeshesCount())
	assert.Same(t, first, mesh.SubMesh(0))
	assert.Same(t, lines, mesh.SubMesh(1))
	assert.Equal(t, 6, first.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, first.IndicesU32())
	assert.Nil(t, mesh.SubMesh(2))
}

func TestMeshForwardsToFirstSubMesh(t *testing.T) {
	mesh := NewMesh("")
	mesh.SetPositions([]math.Vec3{{}, {X: 1}, {Y: 1}})
	mesh.SetIndicesU32([]uint32{0, 1, 2})
	mesh.SetRenderDrawTopology(RenderDrawTopologyPoints)

	require.Equal(t, 1, mesh.SubMeshesCount())
	assert.Equal(t, 3, mesh.SubMesh(0).VertexCount())
	assert.Equal(t, RenderDrawTopologyPoints, mesh.SubMesh(0).RenderDrawTopology)

	clone := mesh.CreateCopy()
	require.NoError(t, clone.Scale(2))
	assert.Equal(t, float32(1), mesh.SubMesh(0).Positions()[1].X)
	assert.Equal(t, float32(2), clone.SubMesh(0).Positions()[1].X)
}
