package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tinaynox/maze-sub011/engine/core"
	"github.com/Tinaynox/maze-sub011/engine/particles"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

type ParticleSystemLoader struct{}

// Load reads a particle system description. Data is a particles.SystemConfig.
func (pl *ParticleSystemLoader) Load(path string, params interface{}) (*Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config, err := ParseParticleSystemConfig(path, data)
	if err != nil {
		return nil, err
	}

	return &Resource{
		Name:     config.Name,
		FullPath: path,
		DataSize: uint64(len(data)),
		Data:     config,
	}, nil
}

func (pl *ParticleSystemLoader) Unload(*Resource) error {
	return nil
}

/**
 * @brief Decodes a description by file extension: .toml, .yaml or .yml.
 * Missing fields keep their defaults and an empty name becomes the file
 * name without extension.
 */
func ParseParticleSystemConfig(path string, data []byte) (particles.SystemConfig, error) {
	config := particles.DefaultSystemConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		if err := toml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("parsing particle system %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return config, fmt.Errorf("parsing particle system %s: %w", path, err)
		}
	default:
		return config, fmt.Errorf("particle system %s: %w", path, core.ErrUnknownConfigFormat)
	}

	if config.Name == "" {
		config.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	config.Normalize()
	return config, nil
}

// EncodeParticleSystemConfig is the inverse of ParseParticleSystemConfig.
func EncodeParticleSystemConfig(path string, config particles.SystemConfig) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Marshal(config)
	case ".yaml", ".yml":
		return yaml.Marshal(config)
	default:
		return nil, fmt.Errorf("particle system %s: %w", path, core.ErrUnknownConfigFormat)
	}
}
