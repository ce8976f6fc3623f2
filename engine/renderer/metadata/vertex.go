package metadata

import "fmt"

// The number of texture coordinate channels a submesh can carry.
const UVChannelsMax = 8

/** @brief Meaning of a vertex attribute stream. Also used as its shader location. */
type VertexAttributeSemantic int

const (
	VertexAttributeSemanticPosition VertexAttributeSemantic = iota
	VertexAttributeSemanticNormal
	VertexAttributeSemanticTangent
	VertexAttributeSemanticBitangent
	VertexAttributeSemanticColor
	VertexAttributeSemanticTexCoords0
	VertexAttributeSemanticTexCoords1
	VertexAttributeSemanticTexCoords2
	VertexAttributeSemanticTexCoords3
	VertexAttributeSemanticTexCoords4
	VertexAttributeSemanticTexCoords5
	VertexAttributeSemanticTexCoords6
	VertexAttributeSemanticTexCoords7
	VertexAttributeSemanticBlendWeights
	VertexAttributeSemanticBlendIndices

	VertexAttributeSemanticMax
)

var semanticNames = [VertexAttributeSemanticMax]string{
	"Position", "Normal", "Tangent", "Bitangent", "Color",
	"TexCoords0", "TexCoords1", "TexCoords2", "TexCoords3",
	"TexCoords4", "TexCoords5", "TexCoords6", "TexCoords7",
	"BlendWeights", "BlendIndices",
}

func (s VertexAttributeSemantic) String() string {
	if s < 0 || s >= VertexAttributeSemanticMax {
		return fmt.Sprintf("VertexAttributeSemantic(%d)", int(s))
	}
	return semanticNames[s]
}

// TexCoordsSemantic returns the semantic of the given uv channel.
func TexCoordsSemantic(channel int) VertexAttributeSemantic {
	return VertexAttributeSemanticTexCoords0 + VertexAttributeSemantic(channel)
}

/** @brief Storage type of one attribute component or one index. */
type VertexAttributeType int

const (
	VertexAttributeTypeNone VertexAttributeType = iota
	VertexAttributeTypeS8
	VertexAttributeTypeU8
	VertexAttributeTypeS16
	VertexAttributeTypeU16
	VertexAttributeTypeS32
	VertexAttributeTypeU32
	VertexAttributeTypeF32
	VertexAttributeTypeF64
)

// Size returns the byte size of one component.
func (t VertexAttributeType) Size() int {
	switch t {
	case VertexAttributeTypeS8, VertexAttributeTypeU8:
		return 1
	case VertexAttributeTypeS16, VertexAttributeTypeU16:
		return 2
	case VertexAttributeTypeS32, VertexAttributeTypeU32, VertexAttributeTypeF32:
		return 4
	case VertexAttributeTypeF64:
		return 8
	default:
		return 0
	}
}

/**
 * @brief Layout of one attribute stream. Stride is Count * Type.Size()
 * unless the data is explicitly packed.
 */
type VertexAttributeDescription struct {
	Semantic   VertexAttributeSemantic
	Count      int32
	Type       VertexAttributeType
	Normalized bool
	Stride     int32
	Offset     int32
}

func NewVertexAttributeDescription(semantic VertexAttributeSemantic, attributeType VertexAttributeType, count int32, normalized bool) VertexAttributeDescription {
	return VertexAttributeDescription{
		Semantic:   semantic,
		Count:      count,
		Type:       attributeType,
		Normalized: normalized,
		Stride:     count * int32(attributeType.Size()),
		Offset:     0,
	}
}
