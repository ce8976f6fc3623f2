package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/renderer/opengl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const engineToml = `
[application]
name = "sandbox"
start_width = 800
start_height = 600
log_level = "debug"

[renderer]
model_matrices_architecture = "uniform-array"
draw_calls_limit = 12
debug_gl_checks = true

[assets]
dir = "content"
particles = ["particles/fire.toml", "particles/smoke.yaml"]

[systems]
job_workers = 4
hot_reload = false
`

func TestParseEngineConfig(t *testing.T) {
	config, err := ParseEngineConfig([]byte(engineToml))
	require.NoError(t, err)

	assert.Equal(t, "sandbox", config.Application.Name)
	assert.Equal(t, int32(800), config.Application.StartWidth)
	assert.Equal(t, int32(100), config.Application.StartPosX, "unset fields keep defaults")
	assert.Equal(t, "content", config.Assets.Dir)
	assert.Len(t, config.Assets.Particles, 2)
	assert.Equal(t, 4, config.Systems.JobWorkers)
	assert.False(t, config.Systems.HotReload)
	assert.Equal(t, 64, config.Systems.JobQueueSize)

	rsConfig := config.Renderer.RenderSystemConfig()
	assert.Equal(t, opengl.ModelMatricesArchitectureUniformArray, rsConfig.ModelMatricesArchitecture)
	assert.Equal(t, int32(12), rsConfig.DrawCallsLimit)
	assert.True(t, rsConfig.DebugGLChecks)
	assert.False(t, DefaultEngineConfig().Renderer.DebugGLChecks)
}

func TestParseEngineConfigRejectsInvalidValues(t *testing.T) {
	_, err := ParseEngineConfig([]byte("[application]\nstart_width = 0\n"))
	assert.ErrorIs(t, err, core.ErrInvalidSize)

	_, err = ParseEngineConfig([]byte("[renderer]\nmodel_matrices_architecture = \"ssbo\"\n"))
	assert.ErrorIs(t, err, core.ErrUnknownConfigFormat)

	_, err = ParseEngineConfig([]byte("[application]\nlog_level = \"chatty\"\n"))
	assert.Error(t, err)

	_, err = ParseEngineConfig([]byte("[systems]\njob_workers = 0\n"))
	assert.ErrorIs(t, err, core.ErrNoWorkers)

	_, err = ParseEngineConfig([]byte("[application\n"))
	assert.Error(t, err)
}

func TestLoadEngineConfig(t *testing.T) {
	dir := t.TempDir()

	config, err := LoadEngineConfig(filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultEngineConfig(), config)

	path := filepath.Join(dir, "engine.toml")
	require.NoError(t, os.WriteFile(path, []byte(engineToml), 0o644))
	config, err = LoadEngineConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "sandbox", config.Application.Name)
}
