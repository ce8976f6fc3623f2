package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/renderer/opengl"
	"github.com/Tinaynox/maze-sub011/engine/systems"
	"github.com/pelletier/go-toml/v2"
)

type RendererConfig struct {
	// uniform-texture or uniform-array.
	ModelMatricesArchitecture string `toml:"model_matrices_architecture"`
	// 0 means unlimited.
	DrawCallsLimit int32      `toml:"draw_calls_limit"`
	ClearColor     [4]float32 `toml:"clear_color"`
	DebugGLChecks  bool       `toml:"debug_gl_checks"`
}

type AssetsConfig struct {
	Dir string `toml:"dir"`
	// Particle configs loaded at startup, relative to Dir.
	Particles []string `toml:"particles"`
	Model     string   `toml:"model"`
}

/** @brief Everything the engine reads from its TOML config file. */
type EngineConfig struct {
	Application ApplicationConfig           `toml:"application"`
	Renderer    RendererConfig              `toml:"renderer"`
	Assets      AssetsConfig                `toml:"assets"`
	Systems     systems.SystemManagerConfig `toml:"systems"`
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Application: ApplicationConfig{
			Name:        "Maze Particles",
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
			LogLevel:    "info",
			VSync:       true,
		},
		Renderer: RendererConfig{
			ModelMatricesArchitecture: opengl.ModelMatricesArchitectureUniformTexture.String(),
			ClearColor:                [4]float32{0.1, 0.1, 0.12, 1},
		},
		Assets: AssetsConfig{
			Dir: "assets",
		},
		Systems: systems.DefaultSystemManagerConfig(),
	}
}

// ParseEngineConfig decodes data over the defaults and validates the result.
func ParseEngineConfig(data []byte) (EngineConfig, error) {
	config := DefaultEngineConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return EngineConfig{}, fmt.Errorf("parsing engine config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return EngineConfig{}, err
	}
	return config, nil
}

// LoadEngineConfig reads the config file at path. A missing file yields the defaults.
func LoadEngineConfig(path string) (EngineConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogWarn("engine config %s not found, using defaults", path)
		return DefaultEngineConfig(), nil
	}
	if err != nil {
		return EngineConfig{}, err
	}
	return ParseEngineConfig(data)
}

func (c EngineConfig) Validate() error {
	if c.Application.StartWidth <= 0 || c.Application.StartHeight <= 0 {
		return fmt.Errorf("window %dx%d: %w", c.Application.StartWidth, c.Application.StartHeight, core.ErrInvalidSize)
	}
	if _, err := core.ParseLogLevel(c.Application.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if _, err := c.Renderer.architecture(); err != nil {
		return err
	}
	if c.Renderer.DrawCallsLimit < 0 {
		return fmt.Errorf("draw_calls_limit must not be negative")
	}
	if c.Systems.JobWorkers <= 0 {
		return core.ErrNoWorkers
	}
	if c.Systems.JobQueueSize < 0 {
		return core.ErrNegativeChannelSize
	}
	return nil
}

func (c RendererConfig) architecture() (opengl.ModelMatricesArchitecture, error) {
	switch c.ModelMatricesArchitecture {
	case opengl.ModelMatricesArchitectureUniformTexture.String(), "":
		return opengl.ModelMatricesArchitectureUniformTexture, nil
	case opengl.ModelMatricesArchitectureUniformArray.String():
		return opengl.ModelMatricesArchitectureUniformArray, nil
	}
	return 0, fmt.Errorf("model_matrices_architecture %q: %w", c.ModelMatricesArchitecture, core.ErrUnknownConfigFormat)
}

// RenderSystemConfig converts the renderer section for opengl.NewRenderSystem.
func (c RendererConfig) RenderSystemConfig() opengl.RenderSystemConfig {
	architecture, err := c.architecture()
	if err != nil {
		core.LogWarn("%s, falling back to %s", err.Error(), architecture)
	}
	return opengl.RenderSystemConfig{
		ModelMatricesArchitecture: architecture,
		DrawCallsLimit:            c.DrawCallsLimit,
		DebugGLChecks:             c.DebugGLChecks,
	}
}
