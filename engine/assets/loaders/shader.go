package loaders

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

/**
 * @brief A .shadercfg file: the feature switches of the built-in instanced
 * shader plus optional GLSL bodies replacing its main functions. Vertex and
 * Fragment are paths relative to the config file.
 */
type ShaderConfig struct {
	Name        string `toml:"name"`
	ColorStream bool   `toml:"color_stream"`
	UVStream    bool   `toml:"uv_stream"`
	VertexColor bool   `toml:"vertex_color"`
	BaseMap     bool   `toml:"base_map"`
	Vertex      string `toml:"vertex"`
	Fragment    string `toml:"fragment"`

	VertexBody   string `toml:"-"`
	FragmentBody string `toml:"-"`
}

type ShaderLoader struct{}

// Load reads a shader config and the bodies it references. Data is a *ShaderConfig.
func (sl *ShaderLoader) Load(path string, params interface{}) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &ShaderConfig{}
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing shader config %s: %w", path, err)
	}
	if config.Name == "" {
		config.Name = filepath.Base(path)
	}

	dir := filepath.Dir(path)
	if config.Vertex != "" {
		body, err := os.ReadFile(filepath.Join(dir, config.Vertex))
		if err != nil {
			return nil, err
		}
		config.VertexBody = string(body)
	}
	if config.Fragment != "" {
		body, err := os.ReadFile(filepath.Join(dir, config.Fragment))
		if err != nil {
			return nil, err
		}
		config.FragmentBody = string(body)
	}

	return &Resource{
		Name:     config.Name,
		FullPath: path,
		DataSize: uint64(len(data) + len(config.VertexBody) + len(config.FragmentBody)),
		Data:     config,
	}, nil
}

func (sl *ShaderLoader) Unload(*Resource) error {
	return nil
}
