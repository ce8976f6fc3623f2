package loaders

import (
	"fmt"

	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/Tinaynox/maze-sub011/engine/renderer/metadata"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type ModelLoader struct{}

// Load reads a .gltf or .glb file. Data is a *metadata.Mesh with one sub mesh per triangle primitive.
func (ml *ModelLoader) Load(path string, params interface{}) (*Resource, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	mesh, err := ml.parseModelData(doc)
	if err != nil {
		return nil, fmt.Errorf("gltf %q: %w", path, err)
	}

	size := uint64(0)
	for _, buffer := range doc.Buffers {
		size += uint64(buffer.ByteLength)
	}

	return &Resource{
		Name:     mesh.Name,
		FullPath: path,
		DataSize: size,
		Data:     mesh,
	}, nil
}

func (ml *ModelLoader) Unload(*Resource) error {
	return nil
}

func (ml *ModelLoader) parseModelData(doc *gltf.Document) (*metadata.Mesh, error) {
	name := ""
	if len(doc.Meshes) > 0 {
		name = doc.Meshes[0].Name
	}
	mesh := metadata.NewMesh(name)

	for meshIndex, gltfMesh := range doc.Meshes {
		for primitiveIndex, primitive := range gltfMesh.Primitives {
			if primitive.Mode != gltf.PrimitiveTriangles {
				continue
			}
			subMesh, err := readPrimitive(doc, fmt.Sprintf("%s_%d_%d", gltfMesh.Name, meshIndex, primitiveIndex), primitive)
			if err != nil {
				return nil, err
			}
			mesh.AddSubMesh(subMesh)
		}
	}

	if mesh.SubMeshesCount() == 0 {
		return nil, fmt.Errorf("no triangle primitives")
	}
	return mesh, nil
}

func readPrimitive(doc *gltf.Document, name string, primitive *gltf.Primitive) (*metadata.SubMesh, error) {
	positionIndex, ok := primitive.Attributes[gltf.POSITION]
	if !ok {
		return nil, fmt.Errorf("%s: no POSITION attribute", name)
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[positionIndex], nil)
	if err != nil {
		return nil, fmt.Errorf("%s positions: %w", name, err)
	}

	var normals [][3]float32
	if index, ok := primitive.Attributes[gltf.NORMAL]; ok {
		if normals, err = modeler.ReadNormal(doc, doc.Accessors[index], nil); err != nil {
			return nil, fmt.Errorf("%s normals: %w", name, err)
		}
	}

	var uvs [][2]float32
	if index, ok := primitive.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[index], nil); err != nil {
			return nil, fmt.Errorf("%s uvs: %w", name, err)
		}
	}

	var indices []uint32
	if primitive.Indices != nil {
		if indices, err = modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], nil); err != nil {
			return nil, fmt.Errorf("%s indices: %w", name, err)
		}
	}

	return BuildSubMesh(name, positions, normals, uvs, indices), nil
}

/**
 * @brief Converts flat glTF style arrays into a sub mesh. Normals and uvs
 * are optional. Without indices the vertices are drawn in order. Indices
 * are stored as U16 when every index fits.
 */
func BuildSubMesh(name string, positions [][3]float32, normals [][3]float32, uvs [][2]float32, indices []uint32) *metadata.SubMesh {
	subMesh := metadata.NewSubMesh(name)
	subMesh.RenderDrawTopology = metadata.RenderDrawTopologyTriangles

	converted := make([]math.Vec3, len(positions))
	for i, p := range positions {
		converted[i] = math.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}
	subMesh.SetPositions(converted)

	if len(normals) == len(positions) && len(normals) > 0 {
		converted := make([]math.Vec3, len(normals))
		for i, n := range normals {
			converted[i] = math.Vec3{X: n[0], Y: n[1], Z: n[2]}
		}
		subMesh.SetNormals(converted)
	}

	if len(uvs) == len(positions) && len(uvs) > 0 {
		converted := make([]math.Vec2, len(uvs))
		for i, uv := range uvs {
			converted[i] = math.Vec2{X: uv[0], Y: uv[1]}
		}
		subMesh.SetTexCoords(0, converted)
	}

	if indices == nil {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	maxIndex := uint32(0)
	for _, index := range indices {
		maxIndex = math.Max(maxIndex, index)
	}
	if maxIndex <= 0xFFFF {
		short := make([]uint16, len(indices))
		for i, index := range indices {
			short[i] = uint16(index)
		}
		subMesh.SetIndicesU16(short)
	} else {
		subMesh.SetIndicesU32(indices)
	}

	return subMesh
}
