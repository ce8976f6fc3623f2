package metadata

import (
	"fmt"
	stdmath "math"

	"github.com/Tinaynox/maze-sub011/engine/containers"
	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/google/uuid"
)

/**
 * @brief One contiguous, single-topology set of vertex and index data.
 * Attribute streams are sparse: a semantic without a buffer is simply not
 * uploaded. All present streams share the same vertex count.
 */
type SubMesh struct {
	Name               string
	RenderDrawTopology RenderDrawTopology

	vertexAttributes   [VertexAttributeSemanticMax]*containers.ByteBuffer
	vertexDescriptions [VertexAttributeSemanticMax]VertexAttributeDescription

	indicesType  VertexAttributeType
	indicesCount int
	indices      *containers.ByteBuffer
}

// NewSubMesh creates an empty triangle submesh. An empty name gets a generated one.
func NewSubMesh(name string) *SubMesh {
	if name == "" {
		name = "submesh-" + uuid.NewString()
	}
	return &SubMesh{
		Name:               name,
		RenderDrawTopology: RenderDrawTopologyTriangles,
	}
}

// Clear drops every attribute and index buffer.
func (sm *SubMesh) Clear() {
	for i := range sm.vertexAttributes {
		sm.vertexAttributes[i] = nil
		sm.vertexDescriptions[i] = VertexAttributeDescription{}
	}
	sm.indices = nil
	sm.indicesType = VertexAttributeTypeNone
	sm.indicesCount = 0
}

/**
 * @brief Allocates a zeroed buffer for vertexCount vertices of the given
 * semantic, replacing any previous buffer for that semantic.
 * @return The new buffer, to be filled by the caller.
 */
func (sm *SubMesh) AllocateVertexAttributes(semantic VertexAttributeSemantic, attributeType VertexAttributeType, componentCount int32, vertexCount int, normalized bool) *containers.ByteBuffer {
	description := NewVertexAttributeDescription(semantic, attributeType, componentCount, normalized)
	buffer := containers.NewByteBuffer(int(description.Stride) * vertexCount)
	sm.vertexAttributes[semantic] = buffer
	sm.vertexDescriptions[semantic] = description
	return buffer
}

// SetVertexAttributes replaces the semantic's buffer with a copy of data.
func (sm *SubMesh) SetVertexAttributes(semantic VertexAttributeSemantic, attributeType VertexAttributeType, componentCount int32, data []byte, normalized bool) {
	description := NewVertexAttributeDescription(semantic, attributeType, componentCount, normalized)
	sm.vertexAttributes[semantic] = containers.NewByteBufferFrom(data)
	sm.vertexDescriptions[semantic] = description
}

// SetVertexAttributesWithDescription stores a buffer copy under an explicit, possibly packed, layout.
func (sm *SubMesh) SetVertexAttributesWithDescription(description VertexAttributeDescription, data []byte) {
	sm.vertexAttributes[description.Semantic] = containers.NewByteBufferFrom(data)
	sm.vertexDescriptions[description.Semantic] = description
}

// RemoveVertexAttributes drops the buffer of one semantic.
func (sm *SubMesh) RemoveVertexAttributes(semantic VertexAttributeSemantic) {
	sm.vertexAttributes[semantic] = nil
	sm.vertexDescriptions[semantic] = VertexAttributeDescription{}
}

func (sm *SubMesh) SetPositions(positions []math.Vec3) {
	sm.SetVertexAttributes(VertexAttributeSemanticPosition, VertexAttributeTypeF32, 3, containers.SliceBytes(positions), false)
}

func (sm *SubMesh) SetNormals(normals []math.Vec3) {
	sm.SetVertexAttributes(VertexAttributeSemanticNormal, VertexAttributeTypeF32, 3, containers.SliceBytes(normals), false)
}

func (sm *SubMesh) SetTangents(tangents []math.Vec3) {
	sm.SetVertexAttributes(VertexAttributeSemanticTangent, VertexAttributeTypeF32, 3, containers.SliceBytes(tangents), false)
}

func (sm *SubMesh) SetBitangents(bitangents []math.Vec3) {
	sm.SetVertexAttributes(VertexAttributeSemanticBitangent, VertexAttributeTypeF32, 3, containers.SliceBytes(bitangents), false)
}

func (sm *SubMesh) SetColors(colors []math.Vec4) {
	sm.SetVertexAttributes(VertexAttributeSemanticColor, VertexAttributeTypeF32, 4, containers.SliceBytes(colors), false)
}

// SetTexCoords stores two-component uvs for channel 0..UVChannelsMax-1.
func (sm *SubMesh) SetTexCoords(channel int, uvs []math.Vec2) {
	if channel < 0 || channel >= UVChannelsMax {
		core.LogError("uv channel %d is out of range", channel)
		return
	}
	sm.SetVertexAttributes(TexCoordsSemantic(channel), VertexAttributeTypeF32, 2, containers.SliceBytes(uvs), false)
}

// SetTexCoordsVec4 stores four-component uvs for channel 0..UVChannelsMax-1.
func (sm *SubMesh) SetTexCoordsVec4(channel int, uvs []math.Vec4) {
	if channel < 0 || channel >= UVChannelsMax {
		core.LogError("uv channel %d is out of range", channel)
		return
	}
	sm.SetVertexAttributes(TexCoordsSemantic(channel), VertexAttributeTypeF32, 4, containers.SliceBytes(uvs), false)
}

func (sm *SubMesh) SetBlendWeights(weights []math.Vec4) {
	sm.SetVertexAttributes(VertexAttributeSemanticBlendWeights, VertexAttributeTypeF32, 4, containers.SliceBytes(weights), false)
}

func (sm *SubMesh) SetBlendIndices(indices []math.Vec4) {
	sm.SetVertexAttributes(VertexAttributeSemanticBlendIndices, VertexAttributeTypeF32, 4, containers.SliceBytes(indices), false)
}

func (sm *SubMesh) VertexAttributes(semantic VertexAttributeSemantic) *containers.ByteBuffer {
	return sm.vertexAttributes[semantic]
}

func (sm *SubMesh) VertexDescription(semantic VertexAttributeSemantic) VertexAttributeDescription {
	return sm.vertexDescriptions[semantic]
}

func (sm *SubMesh) HasVertexAttributes(semantic VertexAttributeSemantic) bool {
	return sm.vertexAttributes[semantic] != nil
}

// VertexCount is taken from the first present attribute stream.
func (sm *SubMesh) VertexCount() int {
	for i, buffer := range sm.vertexAttributes {
		if buffer == nil {
			continue
		}
		stride := int(sm.vertexDescriptions[i].Stride)
		if stride == 0 {
			return 0
		}
		return buffer.Size() / stride
	}
	return 0
}

// Positions returns a copy of the F32 position stream, or nil.
func (sm *SubMesh) Positions() []math.Vec3 {
	buffer := sm.vertexAttributes[VertexAttributeSemanticPosition]
	description := sm.vertexDescriptions[VertexAttributeSemanticPosition]
	if buffer == nil || description.Type != VertexAttributeTypeF32 || description.Count != 3 {
		return nil
	}
	view := containers.ViewAs[math.Vec3](buffer, 0)
	positions := make([]math.Vec3, len(view))
	copy(positions, view)
	return positions
}

/**
 * @brief Allocates a zeroed index buffer. The index type is never promoted:
 * the caller picks a type wide enough for the vertex count.
 */
func (sm *SubMesh) AllocateIndices(indicesType VertexAttributeType, count int) *containers.ByteBuffer {
	sm.indicesType = indicesType
	sm.indicesCount = count
	sm.indices = containers.NewByteBuffer(indicesType.Size() * count)
	return sm.indices
}

func (sm *SubMesh) SetIndicesU8(indices []uint8) {
	sm.setIndices(VertexAttributeTypeU8, len(indices), containers.SliceBytes(indices))
}

func (sm *SubMesh) SetIndicesU16(indices []uint16) {
	sm.setIndices(VertexAttributeTypeU16, len(indices), containers.SliceBytes(indices))
}

func (sm *SubMesh) SetIndicesU32(indices []uint32) {
	sm.setIndices(VertexAttributeTypeU32, len(indices), containers.SliceBytes(indices))
}

// SetIndices stores raw index bytes of the given type.
func (sm *SubMesh) SetIndices(indicesType VertexAttributeType, count int, data []byte) {
	sm.setIndices(indicesType, count, data)
}

func (sm *SubMesh) setIndices(indicesType VertexAttributeType, count int, data []byte) {
	sm.indicesType = indicesType
	sm.indicesCount = count
	sm.indices = containers.NewByteBufferFrom(data)
}

func (sm *SubMesh) IndicesType() VertexAttributeType {
	return sm.indicesType
}

func (sm *SubMesh) IndicesCount() int {
	return sm.indicesCount
}

func (sm *SubMesh) Indices() *containers.ByteBuffer {
	return sm.indices
}

// IndicesU32 decodes the index buffer, whatever its type, into uint32 values.
func (sm *SubMesh) IndicesU32() []uint32 {
	if sm.indices == nil {
		return nil
	}
	result := make([]uint32, 0, sm.indicesCount)
	switch sm.indicesType {
	case VertexAttributeTypeU8:
		for _, v := range sm.indices.Bytes()[:sm.indicesCount] {
			result = append(result, uint32(v))
		}
	case VertexAttributeTypeU16:
		for _, v := range containers.ViewAs[uint16](sm.indices, 0)[:sm.indicesCount] {
			result = append(result, uint32(v))
		}
	case VertexAttributeTypeU32:
		result = append(result, containers.ViewAs[uint32](sm.indices, 0)[:sm.indicesCount]...)
	default:
		core.LogError("unsupported indices type %d", sm.indicesType)
		return nil
	}
	return result
}

/**
 * @brief Multiplies every position component by factor. A submesh without
 * positions is left untouched; only F32 storage is supported.
 */
func (sm *SubMesh) Scale(factor float32) error {
	buffer := sm.vertexAttributes[VertexAttributeSemanticPosition]
	if buffer == nil {
		return nil
	}
	description := sm.vertexDescriptions[VertexAttributeSemanticPosition]
	if description.Type != VertexAttributeTypeF32 {
		err := fmt.Errorf("scale %s positions of type %d: %w", sm.Name, description.Type, core.ErrUnsupportedType)
		core.LogError("%v", err)
		return err
	}
	containers.IterateAs(buffer, 0, func(_ int, value *float32) {
		*value *= factor
	})
	return nil
}

func (sm *SubMesh) isLayoutCompatible(other *SubMesh) bool {
	if sm.RenderDrawTopology != other.RenderDrawTopology {
		return false
	}
	if sm.indicesType != other.indicesType {
		return false
	}
	if (sm.indices == nil) != (other.indices == nil) {
		return false
	}
	for i := range sm.vertexAttributes {
		if (sm.vertexAttributes[i] == nil) != (other.vertexAttributes[i] == nil) {
			return false
		}
		if sm.vertexAttributes[i] != nil && sm.vertexDescriptions[i] != other.vertexDescriptions[i] {
			return false
		}
	}
	return true
}

func maxIndexValue(indicesType VertexAttributeType) uint64 {
	switch indicesType {
	case VertexAttributeTypeU8:
		return stdmath.MaxUint8
	case VertexAttributeTypeU16:
		return stdmath.MaxUint16
	case VertexAttributeTypeU32:
		return stdmath.MaxUint32
	default:
		return 0
	}
}

/**
 * @brief Appends other's geometry to this submesh. Both sides must share
 * topology, index type and attribute layout. Appended indices are offset by
 * the prior vertex count.
 * @return false, with neither side modified, when the submeshes are incompatible.
 */
func (sm *SubMesh) MergeWith(other *SubMesh) bool {
	if other == nil || other == sm {
		return false
	}
	if !sm.isLayoutCompatible(other) {
		return false
	}

	vertexOffset := sm.VertexCount()
	otherIndices := other.IndicesU32()
	if sm.indices != nil {
		if otherIndices == nil && other.indicesCount > 0 {
			return false
		}
		limit := maxIndexValue(sm.indicesType)
		for _, index := range otherIndices {
			if uint64(index)+uint64(vertexOffset) > limit {
				return false
			}
		}
	}

	for i, buffer := range sm.vertexAttributes {
		if buffer != nil {
			buffer.AppendBuffer(other.vertexAttributes[i])
		}
	}

	if sm.indices != nil {
		offset := uint32(vertexOffset)
		switch sm.indicesType {
		case VertexAttributeTypeU8:
			for _, index := range otherIndices {
				containers.AppendAs(sm.indices, uint8(index+offset))
			}
		case VertexAttributeTypeU16:
			for _, index := range otherIndices {
				containers.AppendAs(sm.indices, uint16(index+offset))
			}
		case VertexAttributeTypeU32:
			for _, index := range otherIndices {
				containers.AppendAs(sm.indices, index+offset)
			}
		}
		sm.indicesCount += other.indicesCount
	}
	return true
}

// CreateCopy returns a deep copy.
func (sm *SubMesh) CreateCopy() *SubMesh {
	result := &SubMesh{}
	result.LoadFromSubMesh(sm)
	return result
}

// LoadFromSubMesh replaces this submesh's content with a deep copy of other's.
func (sm *SubMesh) LoadFromSubMesh(other *SubMesh) {
	if other == sm {
		return
	}
	sm.Name = other.Name
	sm.RenderDrawTopology = other.RenderDrawTopology
	for i, buffer := range other.vertexAttributes {
		if buffer != nil {
			sm.vertexAttributes[i] = buffer.CreateCopy()
		} else {
			sm.vertexAttributes[i] = nil
		}
		sm.vertexDescriptions[i] = other.vertexDescriptions[i]
	}
	sm.indicesType = other.indicesType
	sm.indicesCount = other.indicesCount
	if other.indices != nil {
		sm.indices = other.indices.CreateCopy()
	} else {
		sm.indices = nil
	}
}

// IsEqual compares topology, layouts and every byte of data. Names are ignored.
func (sm *SubMesh) IsEqual(other *SubMesh) bool {
	if other == nil {
		return false
	}
	if !sm.isLayoutCompatible(other) || sm.indicesCount != other.indicesCount {
		return false
	}
	for i, buffer := range sm.vertexAttributes {
		if buffer != nil && !buffer.IsEqual(other.vertexAttributes[i]) {
			return false
		}
	}
	if sm.indices != nil && !sm.indices.IsEqual(other.indices) {
		return false
	}
	return true
}

/**
 * @brief Debug helper: checks that every index references an existing vertex.
 * Rendering never calls it.
 */
func (sm *SubMesh) ValidateIndices() error {
	vertexCount := sm.VertexCount()
	for i, index := range sm.IndicesU32() {
		if int(index) >= vertexCount {
			return fmt.Errorf("submesh %s index %d = %d, vertex count %d: %w", sm.Name, i, index, vertexCount, core.ErrIndexOutOfRange)
		}
	}
	return nil
}
