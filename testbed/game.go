package testbed

import (
	"github.com/Tinaynox/maze-sub011/engine"
	"github.com/Tinaynox/maze-sub011/engine/assets/loaders"
	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/math"
	"github.com/Tinaynox/maze-sub011/engine/particles"
	"github.com/Tinaynox/maze-sub011/engine/platform"
	"github.com/Tinaynox/maze-sub011/engine/renderer"
	"github.com/Tinaynox/maze-sub011/engine/renderer/metadata"
	"github.com/Tinaynox/maze-sub011/engine/renderer/opengl"
)

const (
	particleShaderPath  = "shaders/particle.shadercfg"
	particleTexturePath = "textures/particle.png"

	cameraMoveSpeed   float32 = 5.0
	cameraTurnSpeed   float32 = 1.5
	trailOrbitRadius  float32 = 3.0
	trailOrbitSpeed   float32 = 1.2
	meshRotationSpeed float32 = 0.5
)

type TestGame struct {
	*engine.Game
}

type gameState struct {
	meshVAO      renderer.VertexArrayObject
	particleVAO  renderer.VertexArrayObject
	meshPass     *renderer.RenderPass
	particlePass *renderer.RenderPass

	meshTransform *math.Transform
	trail         *particles.ParticleSystem3D
	trailAngle    float32
	paused        bool
}

func NewTestGame() (*TestGame, error) {
	tg := &TestGame{
		Game: &engine.Game{
			State: &gameState{meshTransform: math.TransformFromPosition(math.NewVec3Zero())},
		},
	}

	tg.FnInitialize = tg.Initialize
	tg.FnUpdate = tg.Update
	tg.FnRender = tg.Render
	tg.FnOnResize = tg.OnResize
	tg.FnShutdown = tg.Shutdown

	return tg, nil
}

func (g *TestGame) state() *gameState {
	return g.State.(*gameState)
}

func (g *TestGame) Initialize() error {
	core.LogInfo("initializing testbed...")
	state := g.state()
	rs := g.Engine.RenderSystem()

	var err error
	state.meshVAO, err = rs.CreateVertexArrayObject("testbed-mesh")
	if err != nil {
		return err
	}
	state.meshVAO.SetMesh(g.loadMesh())

	state.particleVAO, err = rs.CreateVertexArrayObject("testbed-particle-quad")
	if err != nil {
		return err
	}
	state.particleVAO.SetMesh(quadSubMesh())

	architecture := rs.Context().ModelMatricesArchitecture()
	vs, fs := opengl.DefaultShaderSources(architecture, opengl.ShaderFeatures{})
	meshShader, err := rs.CreateShader("testbed-mesh", vs, fs)
	if err != nil {
		return err
	}
	state.meshPass = renderer.NewRenderPass("testbed-mesh", meshShader)
	state.meshPass.SetUniform("u_color", math.NewVec4(0.8, 0.8, 0.85, 1))

	particleShader, err := g.loadParticleShader(architecture)
	if err != nil {
		return err
	}
	state.particlePass = renderer.NewRenderPass("testbed-particles", particleShader)
	state.particlePass.BlendSrcFactor = metadata.BlendFactorSrcAlpha
	state.particlePass.BlendDestFactor = metadata.BlendFactorOneMinusSrcAlpha
	state.particlePass.DepthWriteEnabled = false
	state.particlePass.CullMode = metadata.CullModeOff
	state.particlePass.RenderQueueIndex = renderer.RenderQueueIndexTransparent
	state.particlePass.SetUniform("u_color", math.NewVec4(1, 1, 1, 1))
	if texture := g.loadParticleTexture(); texture != nil {
		state.particlePass.SetUniform("u_baseMap", texture)
	}

	state.trail = g.Engine.Systems().ParticleSystemManager().Create(trailConfig())

	camera := g.Engine.Camera()
	camera.SetPosition(math.NewVec3(0, 2, 10))
	camera.LookAt(math.NewVec3Zero())

	g.Engine.Events().Register(core.EVENT_CODE_KEY_PRESSED, g, g.gameOnKey)
	g.Engine.Events().Register(core.EVENT_CODE_ASSET_CHANGED, g, g.gameOnAssetChanged)
	return nil
}

// loadMesh uses the configured glTF model and falls back to a cube.
func (g *TestGame) loadMesh() *metadata.SubMesh {
	path := g.Engine.Config().Assets.Model
	if path != "" {
		mesh, err := g.Engine.Assets().LoadModel(path)
		if err == nil && mesh.SubMeshesCount() > 0 {
			mesh.MergeSubMeshes()
			return mesh.SubMesh(0)
		}
		core.LogWarn("model %s unavailable, using a cube: %v", path, err)
	}
	return cubeSubMesh(2)
}

func (g *TestGame) loadParticleShader(architecture opengl.ModelMatricesArchitecture) (renderer.Shader, error) {
	features := opengl.ShaderFeatures{ColorStream: true, UVStream: true, BaseMap: true}
	vs, fs := opengl.DefaultShaderSources(architecture, features)

	config, err := g.Engine.Assets().LoadShader(particleShaderPath)
	if err != nil {
		core.LogWarn("particle shader config unavailable, using the built-in one: %v", err)
	} else {
		features = opengl.ShaderFeatures{
			ColorStream: config.ColorStream,
			UVStream:    config.UVStream,
			VertexColor: config.VertexColor,
			BaseMap:     config.BaseMap,
		}
		vs, fs = opengl.DefaultShaderSources(architecture, features)
		if config.VertexBody != "" {
			vs = opengl.BuildVertexShaderSource(architecture, features, config.VertexBody)
		}
		if config.FragmentBody != "" {
			fs = opengl.BuildFragmentShaderSource(architecture, features, config.FragmentBody)
		}
	}
	return g.Engine.RenderSystem().CreateShader("testbed-particles", vs, fs)
}

func (g *TestGame) loadParticleTexture() renderer.Texture2D {
	data, err := g.Engine.Assets().LoadTexture(particleTexturePath, &loaders.TextureLoaderParams{FlipY: true, MaxSize: 512})
	if err != nil {
		core.LogWarn("particle texture unavailable: %v", err)
		return nil
	}
	texture, err := g.Engine.RenderSystem().CreateTexture2D("testbed-particle", data.Width, data.Height, data.Pixels)
	if err != nil {
		core.LogError(err.Error())
		return nil
	}
	return texture
}

// trailConfig emits along the path of a moving emitter.
func trailConfig() particles.SystemConfig {
	config := particles.DefaultSystemConfig()
	config.Name = "trail"
	config.Main.TransformPolicy = particles.TransformPolicyWorld
	config.Main.Gravity = particles.NewParameterF32Constant(0)
	config.Main.Speed = particles.NewParameterF32Constant(0.2)
	config.Main.Lifetime = particles.NewParameterF32Constant(1.5)
	config.Main.Size = particles.NewParameterF32Constant(0.15)
	config.Main.Emission.EmissionPerSecond = particles.NewParameterF32Constant(0)
	config.Main.Emission.EmissionPerDistance = particles.NewParameterF32Constant(0.1)
	config.Main.ColorOverLifetime.Enabled = true
	config.Main.ColorOverLifetime.Parameter = particles.NewParameterColorGradient(particles.NewColorGradient(
		particles.GradientKey{Time: 0, Color: math.NewVec4(1, 0.7, 0.2, 1)},
		particles.GradientKey{Time: 1, Color: math.NewVec4(1, 0.2, 0.1, 0)},
	))
	config.Shape.Enabled = false
	config.Renderer.MaxParticles = 500
	return config
}

func (g *TestGame) Update(deltaTime float64) error {
	state := g.state()
	dt := float32(deltaTime)
	camera := g.Engine.Camera()
	p := g.Engine.Platform()

	if p.IsKeyDown(platform.KeyA) || p.IsKeyDown(platform.KeyLeft) {
		camera.Yaw(cameraTurnSpeed * dt)
	}
	if p.IsKeyDown(platform.KeyD) || p.IsKeyDown(platform.KeyRight) {
		camera.Yaw(-cameraTurnSpeed * dt)
	}
	if p.IsKeyDown(platform.KeyUp) {
		camera.Pitch(cameraTurnSpeed * dt)
	}
	if p.IsKeyDown(platform.KeyDown) {
		camera.Pitch(-cameraTurnSpeed * dt)
	}
	if p.IsKeyDown(platform.KeyW) {
		camera.MoveForward(cameraMoveSpeed * dt)
	}
	if p.IsKeyDown(platform.KeyS) {
		camera.MoveBackward(cameraMoveSpeed * dt)
	}
	if p.IsKeyDown(platform.KeyQ) {
		camera.MoveLeft(cameraMoveSpeed * dt)
	}
	if p.IsKeyDown(platform.KeyE) {
		camera.MoveRight(cameraMoveSpeed * dt)
	}
	if p.IsKeyDown(platform.KeySpace) {
		camera.MoveUp(cameraMoveSpeed * dt)
	}

	state.meshTransform.Rotate(math.NewQuatFromAxisAngle(math.NewVec3Up(), meshRotationSpeed*dt, true))
	if !state.paused {
		state.trailAngle += trailOrbitSpeed * dt
	}
	position := math.NewVec3(
		math.Cos(state.trailAngle)*trailOrbitRadius,
		1.5,
		math.Sin(state.trailAngle)*trailOrbitRadius,
	)
	state.trail.Transform().SetPosition(position)
	return nil
}

func (g *TestGame) Render(queue *renderer.RenderQueue, deltaTime float64) error {
	state := g.state()

	queue.AddSelectRenderPassCommand(state.meshPass)
	model := state.meshTransform.GetLocal()
	queue.AddDrawVAOInstancedCommand(state.meshVAO, model, nil, nil)

	queue.AddSelectRenderPassCommand(state.particlePass)
	g.Engine.Systems().ParticleSystemManager().Render(queue, state.particleVAO, g.Engine.Camera())
	return nil
}

func (g *TestGame) OnResize(width int32, height int32) error {
	core.LogDebug("testbed resized to %dx%d", width, height)
	return nil
}

func (g *TestGame) Shutdown() error {
	core.LogInfo("shutting down testbed...")
	g.Engine.Events().UnregisterAll(g)
	return nil
}

func (g *TestGame) setPaused(paused bool) {
	state := g.state()
	state.paused = paused
	psm := g.Engine.Systems().ParticleSystemManager()
	for _, name := range psm.Names() {
		system, err := psm.Get(name)
		if err != nil {
			continue
		}
		if paused {
			system.PauseRecursive()
		} else {
			system.PlayRecursive()
		}
	}
}

func (g *TestGame) gameOnKey(context core.EventContext) bool {
	ke, ok := context.Data.(*core.KeyEvent)
	if !ok {
		return false
	}
	switch ke.KeyCode {
	case platform.KeyP:
		g.setPaused(!g.state().paused)
		core.LogInfo("particles paused: %t", g.state().paused)
		return true
	case platform.KeyR:
		psm := g.Engine.Systems().ParticleSystemManager()
		for _, name := range psm.Names() {
			if system, err := psm.Get(name); err == nil {
				system.RestartRecursive()
			}
		}
		g.state().paused = false
		g.state().meshTransform.SetRotation(math.NewQuatIdentity())
		return true
	}
	return false
}

func (g *TestGame) gameOnAssetChanged(context core.EventContext) bool {
	core.LogInfo("reloaded %v", context.Data)
	return false
}
