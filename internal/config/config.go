// Package config handles server configuration loading and management.
package config

// Config holds all eramorph server settings.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Transition TransitionConfig `yaml:"transition"`
	Buildings  BuildingsConfig  `yaml:"buildings"`
	Models     []ModelPair      `yaml:"models"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds the HTTP/websocket host settings.
type ServerConfig struct {
	Listen   string `yaml:"listen"`
	TickRate int    `yaml:"tick_rate"` // simulation frames per second
	WebRoot  string `yaml:"web_root"`  // static files for the WebGL client; empty disables
}

// TransitionConfig holds the era transition settings applied to every
// entity.
type TransitionConfig struct {
	InitialEra      string  `yaml:"initial_era"`
	Speed           float64 `yaml:"speed"` // progress units per second
	UseMorphTargets bool    `yaml:"use_morph_targets"`
	UseShaderEffect bool    `yaml:"use_shader_effect"`
	Easing          string  `yaml:"easing"`
}

// BuildingsConfig holds the procedural building generator settings.
type BuildingsConfig struct {
	Definitions string `yaml:"definitions"` // JSON definition file; empty generates randomly
	Count       int    `yaml:"count"`       // random buildings when no definition file
	Seed        int64  `yaml:"seed"`
}

// ModelPair names a pair of era model files loaded through the model
// cache instead of being generated.
type ModelPair struct {
	ID         string `yaml:"id"`
	Historical string `yaml:"historical"`
	Futuristic string `yaml:"futuristic"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:   "127.0.0.1:8460",
			TickRate: 60,
			WebRoot:  "",
		},
		Transition: TransitionConfig{
			InitialEra:      "historical",
			Speed:           2.0,
			UseMorphTargets: true,
			UseShaderEffect: false,
			Easing:          "linear",
		},
		Buildings: BuildingsConfig{
			Definitions: "",
			Count:       6,
			Seed:        1,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
