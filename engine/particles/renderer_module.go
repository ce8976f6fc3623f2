package particles

import (
	"fmt"
	"sort"

	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/Tinaynox/maze-sub011/engine/renderer"
)

type RenderAlignment int

const (
	// Billboards face the camera.
	RenderAlignmentView RenderAlignment = iota
	// Billboards follow the system's world rotation.
	RenderAlignmentLocal
	// Billboards stay axis aligned in world space.
	RenderAlignmentWorld
)

func (a RenderAlignment) String() string {
	switch a {
	case RenderAlignmentView:
		return "view"
	case RenderAlignmentLocal:
		return "local"
	case RenderAlignmentWorld:
		return "world"
	default:
		return fmt.Sprintf("RenderAlignment(%d)", int(a))
	}
}

func (a RenderAlignment) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *RenderAlignment) UnmarshalText(text []byte) error {
	switch string(text) {
	case "view":
		*a = RenderAlignmentView
	case "local":
		*a = RenderAlignmentLocal
	case "world":
		*a = RenderAlignmentWorld
	default:
		return fmt.Errorf("unknown render alignment %q", text)
	}
	return nil
}

/**
 * @brief Flipbook animation over a Tiles.X by Tiles.Y sheet. Frame 0 is
 * the top left tile, frames run left to right then top to bottom.
 * FrameOverTime is sampled at the particle life scalar and added to the
 * start frame.
 */
type TextureSheetAnimation struct {
	Enabled       bool         `toml:"enabled" yaml:"enabled"`
	Tiles         math.Vec2I   `toml:"tiles" yaml:"tiles"`
	StartFrame    ParameterF32 `toml:"start_frame" yaml:"start_frame"`
	FrameOverTime ParameterF32 `toml:"frame_over_time" yaml:"frame_over_time"`
}

type RendererModule struct {
	MaxParticles          int32                 `toml:"max_particles" yaml:"max_particles"`
	Alignment             RenderAlignment       `toml:"alignment" yaml:"alignment"`
	TextureSheetAnimation TextureSheetAnimation `toml:"texture_sheet_animation" yaml:"texture_sheet_animation"`

	sortedIndices []int32
}

func DefaultRendererModule() RendererModule {
	return RendererModule{
		MaxParticles: 1000,
		Alignment:    RenderAlignmentView,
		TextureSheetAnimation: TextureSheetAnimation{
			Tiles:         math.Vec2I{X: 1, Y: 1},
			StartFrame:    NewParameterF32Constant(0),
			FrameOverTime: NewParameterF32Constant(0),
		},
	}
}

/** @brief What PrepareToRender needs from a camera. */
type Viewer interface {
	ViewPosition() math.Vec3
	Forward() math.Vec3
	Up() math.Vec3
}

func (r *RendererModule) UpdateInitial(particles *Particles3D, first, last int32, emitterTimePercent float32) {
	sheet := &r.TextureSheetAnimation
	if !sheet.Enabled {
		return
	}
	for i := first; i < last; i++ {
		frame := sheet.StartFrame.Sample(*particles.Seed(i), emitterTimePercent)
		*particles.AnimationFrame(i) = ParticleAnimationFrame{Initial: frame, Current: frame}
	}
}

func (r *RendererModule) UpdateLifetime(particles *Particles3D, first, last int32, dt float32) {
	sheet := &r.TextureSheetAnimation
	if !sheet.Enabled {
		return
	}
	for i := first; i < last; i++ {
		frame := particles.AnimationFrame(i)
		frame.Current = frame.Initial + sheet.FrameOverTime.Sample(*particles.Seed(i), particles.Life(i).Scalar)
	}
}

/**
 * @brief Sorts the alive particles back to front as seen from viewer and
 * fills the render transforms, colors and uvs in that order. Particles
 * simulated in local space are placed with worldTransform first.
 */
func (r *RendererModule) PrepareToRender(particles *Particles3D, policy TransformPolicy, worldTransform math.Mat4, viewer Viewer) {
	alive := particles.AliveCount()
	if alive == 0 {
		return
	}

	viewPosition := viewer.ViewPosition()
	worldPositions := make([]math.Vec3, alive)
	for i := int32(0); i < alive; i++ {
		position := *particles.Position(i)
		if policy == TransformPolicyLocal {
			position = position.Transform(worldTransform)
		}
		worldPositions[i] = position
		*particles.SqrDistanceToCamera(i) = position.SquaredDistance(viewPosition)
	}

	r.sortedIndices = r.sortedIndices[:0]
	for i := int32(0); i < alive; i++ {
		r.sortedIndices = append(r.sortedIndices, i)
	}
	sort.SliceStable(r.sortedIndices, func(a, b int) bool {
		return *particles.SqrDistanceToCamera(r.sortedIndices[a]) > *particles.SqrDistanceToCamera(r.sortedIndices[b])
	})

	alignment := r.alignmentMatrix(worldTransform, viewer)
	transforms := particles.RenderTransforms()
	colors := particles.RenderColors()
	uvs := particles.RenderUVs()
	for slot, index := range r.sortedIndices {
		size := particles.Size(index).Current
		transform := math.NewMat4Scale(math.Vec3{X: size, Y: size, Z: size}).
			Mul(math.NewMat4EulerZ(particles.Rotation(index).Current)).
			Mul(alignment).
			Mul(math.NewMat4Translation(worldPositions[index]))
		transforms[slot] = transform
		colors[slot] = *particles.ColorCurrent(index)
		uvs[slot] = r.frameUV(particles.AnimationFrame(index).Current)
	}
}

func (r *RendererModule) alignmentMatrix(worldTransform math.Mat4, viewer Viewer) math.Mat4 {
	switch r.Alignment {
	case RenderAlignmentView:
		return math.NewMat4Basis(viewer.Forward().MulScalar(-1), viewer.Up())
	case RenderAlignmentLocal:
		return worldTransform.Rotation()
	default:
		return math.NewMat4Identity()
	}
}

// frameUV returns scale in xy and offset in zw of the sheet tile for frame.
func (r *RendererModule) frameUV(frame float32) math.Vec4 {
	sheet := &r.TextureSheetAnimation
	if !sheet.Enabled || sheet.Tiles.X <= 0 || sheet.Tiles.Y <= 0 {
		return math.Vec4{X: 1, Y: 1}
	}

	tilesX := sheet.Tiles.X
	tilesY := sheet.Tiles.Y
	frames := tilesX * tilesY
	index := int32(frame) % frames
	if index < 0 {
		index += frames
	}
	column := index % tilesX
	row := tilesY - index/tilesX - 1

	return math.Vec4{
		X: 1 / float32(tilesX),
		Y: 1 / float32(tilesY),
		Z: float32(column) / float32(tilesX),
		W: float32(row) / float32(tilesY),
	}
}

// Submit records one instanced batch of the prepared particles.
func (r *RendererModule) Submit(particles *Particles3D, queue *renderer.RenderQueue, vao renderer.VertexArrayObject) {
	if particles.AliveCount() == 0 {
		return
	}
	queue.AddDrawVAOInstancedBatch(vao, particles.RenderTransforms(), particles.RenderColors(), [][]math.Vec4{particles.RenderUVs()})
}
