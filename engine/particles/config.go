package particles

/** @brief Serializable description of one particle system. */
type SystemConfig struct {
	Name     string         `toml:"name" yaml:"name"`
	Seed     uint64         `toml:"seed" yaml:"seed"`
	Main     MainModule     `toml:"main" yaml:"main"`
	Shape    ShapeModule    `toml:"shape" yaml:"shape"`
	Renderer RendererModule `toml:"renderer" yaml:"renderer"`
}

func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		Main:     DefaultMainModule(),
		Shape:    DefaultShapeModule(),
		Renderer: DefaultRendererModule(),
	}
}

// Normalize sorts the bursts and fixes values the simulation cannot run with.
func (c *SystemConfig) Normalize() {
	SortBursts(c.Main.Emission.Bursts)
	if c.Renderer.MaxParticles < 0 {
		c.Renderer.MaxParticles = 0
	}
}
