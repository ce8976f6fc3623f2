package engine

type ApplicationConfig struct {
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`
	// Window starting position x axis, if applicable.
	StartPosX int32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY int32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth int32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight int32 `toml:"start_height"`
	// One of debug, info, warn, error, fatal.
	LogLevel string `toml:"log_level"`
	VSync    bool   `toml:"vsync"`
}
