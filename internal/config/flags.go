package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagWorkers = flag.Int("workers", -1, "Worker pool size (0 = all CPUs, 1 = inline)")
	flagGrain   = flag.Int("grain", 0, "Vertices per dispatched task")
	flagOBJ     = flag.String("obj", "", "Write the refined level to an OBJ file")
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
	if *flagWorkers >= 0 {
		cfg.Compute.Workers = *flagWorkers
	}
	if *flagGrain > 0 {
		cfg.Compute.Grain = *flagGrain
	}
	if *flagOBJ != "" {
		cfg.Output.OBJPath = *flagOBJ
	}
}
