package testbed

import (
	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/Tinaynox/maze-sub011/engine/renderer/metadata"
)

// quadSubMesh is a unit quad facing +Z, used as the particle billboard.
func quadSubMesh() *metadata.SubMesh {
	subMesh := metadata.NewSubMesh("particle-quad")
	subMesh.SetPositions([]math.Vec3{
		{X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5}, {X: 0.5, Y: 0.5}, {X: -0.5, Y: 0.5},
	})
	subMesh.SetNormals([]math.Vec3{{Z: 1}, {Z: 1}, {Z: 1}, {Z: 1}})
	subMesh.SetTexCoords(0, []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}})
	subMesh.SetIndicesU16([]uint16{0, 1, 2, 0, 2, 3})
	return subMesh
}

// cubeSubMesh is an axis aligned cube with per-face normals.
func cubeSubMesh(size float32) *metadata.SubMesh {
	h := size * 0.5
	faces := []struct {
		normal, u, v math.Vec3
	}{
		{math.Vec3{Z: 1}, math.Vec3{X: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Z: -1}, math.Vec3{X: -1}, math.Vec3{Y: 1}},
		{math.Vec3{X: 1}, math.Vec3{Z: -1}, math.Vec3{Y: 1}},
		{math.Vec3{X: -1}, math.Vec3{Z: 1}, math.Vec3{Y: 1}},
		{math.Vec3{Y: 1}, math.Vec3{X: 1}, math.Vec3{Z: -1}},
		{math.Vec3{Y: -1}, math.Vec3{X: 1}, math.Vec3{Z: 1}},
	}

	positions := make([]math.Vec3, 0, 24)
	normals := make([]math.Vec3, 0, 24)
	uvs := make([]math.Vec2, 0, 24)
	indices := make([]uint16, 0, 36)
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	for _, face := range faces {
		base := uint16(len(positions))
		for _, c := range corners {
			p := face.normal.Add(face.u.MulScalar(c[0])).Add(face.v.MulScalar(c[1])).MulScalar(h)
			positions = append(positions, p)
			normals = append(normals, face.normal)
			uvs = append(uvs, math.NewVec2((c[0]+1)*0.5, (c[1]+1)*0.5))
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}

	subMesh := metadata.NewSubMesh("cube")
	subMesh.SetPositions(positions)
	subMesh.SetNormals(normals)
	subMesh.SetTexCoords(0, uvs)
	subMesh.SetIndicesU16(indices)
	return subMesh
}
