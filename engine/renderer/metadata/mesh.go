package metadata

import (
	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/google/uuid"
)

/**
 * @brief An ordered list of submeshes. The order is the draw order.
 * Setters on the mesh itself forward to the first submesh, creating it
 * on demand.
 */
type Mesh struct {
	Name      string
	subMeshes []*SubMesh
}

func NewMesh(name string) *Mesh {
	if name == "" {
		name = "mesh-" + uuid.NewString()
	}
	return &Mesh{Name: name}
}

// NewMeshFromSubMesh wraps a single submesh.
func NewMeshFromSubMesh(subMesh *SubMesh) *Mesh {
	mesh := NewMesh(subMesh.Name)
	mesh.AddSubMesh(subMesh)
	return mesh
}

func (m *Mesh) AddSubMesh(subMesh *SubMesh) {
	m.subMeshes = append(m.subMeshes, subMesh)
}

func (m *Mesh) SubMesh(index int) *SubMesh {
	if index < 0 || index >= len(m.subMeshes) {
		return nil
	}
	return m.subMeshes[index]
}

func (m *Mesh) SubMeshes() []*SubMesh {
	return m.subMeshes
}

func (m *Mesh) SubMeshesCount() int {
	return len(m.subMeshes)
}

func (m *Mesh) Clear() {
	m.subMeshes = nil
}

func (m *Mesh) ensureSubMesh() *SubMesh {
	if len(m.subMeshes) == 0 {
		m.AddSubMesh(NewSubMesh(m.Name))
	}
	return m.subMeshes[0]
}

func (m *Mesh) SetRenderDrawTopology(topology RenderDrawTopology) {
	m.ensureSubMesh().RenderDrawTopology = topology
}

func (m *Mesh) SetPositions(positions []math.Vec3) {
	m.ensureSubMesh().SetPositions(positions)
}

func (m *Mesh) SetNormals(normals []math.Vec3) {
	m.ensureSubMesh().SetNormals(normals)
}

func (m *Mesh) SetTangents(tangents []math.Vec3) {
	m.ensureSubMesh().SetTangents(tangents)
}

func (m *Mesh) SetBitangents(bitangents []math.Vec3) {
	m.ensureSubMesh().SetBitangents(bitangents)
}

func (m *Mesh) SetColors(colors []math.Vec4) {
	m.ensureSubMesh().SetColors(colors)
}

func (m *Mesh) SetTexCoords(channel int, uvs []math.Vec2) {
	m.ensureSubMesh().SetTexCoords(channel, uvs)
}

func (m *Mesh) SetIndicesU16(indices []uint16) {
	m.ensureSubMesh().SetIndicesU16(indices)
}

func (m *Mesh) SetIndicesU32(indices []uint32) {
	m.ensureSubMesh().SetIndicesU32(indices)
}

/**
 * @brief Greedily merges compatible submeshes, scanning left to right.
 * Each submesh absorbs every later compatible one; unmerged submeshes keep
 * their relative order.
 */
func (m *Mesh) MergeSubMeshes() {
	for i := 0; i < len(m.subMeshes); i++ {
		for j := i + 1; j < len(m.subMeshes); {
			if m.subMeshes[i].MergeWith(m.subMeshes[j]) {
				m.subMeshes = append(m.subMeshes[:j], m.subMeshes[j+1:]...)
			} else {
				j++
			}
		}
	}
}

// Scale scales every submesh, stopping at the first failure.
func (m *Mesh) Scale(factor float32) error {
	for _, subMesh := range m.subMeshes {
		if err := subMesh.Scale(factor); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mesh) CreateCopy() *Mesh {
	result := &Mesh{Name: m.Name, subMeshes: make([]*SubMesh, 0, len(m.subMeshes))}
	for _, subMesh := range m.subMeshes {
		result.subMeshes = append(result.subMeshes, subMesh.CreateCopy())
	}
	return result
}
