package config

import "flag"

var (
	flagConfig = flag.String("config", "", "Path to config file")
	flagDebug  = flag.Bool("debug", false, "Enable debug logging")
	flagListen = flag.String("listen", "", "HTTP listen address")
	flagSpeed  = flag.Float64("speed", 0, "Transition speed (progress/second)")
	flagEra    = flag.String("era", "", "Initial era (historical or futuristic)")
	flagSeed   = flag.Int64("seed", 0, "Building generator seed")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagListen != "" {
		cfg.Server.Listen = *flagListen
	}
	if *flagSpeed > 0 {
		cfg.Transition.Speed = *flagSpeed
	}
	if *flagEra != "" {
		cfg.Transition.InitialEra = *flagEra
	}
	if *flagSeed != 0 {
		cfg.Buildings.Seed = *flagSeed
	}
}
