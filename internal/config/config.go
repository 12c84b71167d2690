// Package config handles tool configuration loading and management.
package config

// Config holds all subdivision tool settings.
type Config struct {
	Compute Compute `yaml:"compute"`
	Buffer  Buffer  `yaml:"buffer"`
	Output  Output  `yaml:"output"`
	Logging Logging `yaml:"logging"`
}

// Compute holds kernel dispatch settings.
type Compute struct {
	// Workers is the worker pool size; 0 uses all CPUs, 1 runs inline.
	Workers int `yaml:"workers"`
	// Grain is the number of destination vertices per dispatched task.
	Grain int `yaml:"grain"`
}

// Buffer holds vertex buffer layout settings.
type Buffer struct {
	// VertexWidth is the number of primary attribute floats per vertex.
	VertexWidth int `yaml:"vertex_width"`
	// VaryingWidth is the number of varying floats per vertex (0 = none).
	VaryingWidth int `yaml:"varying_width"`
}

// Output holds result output settings.
type Output struct {
	// OBJPath, when set, receives the refined level as a Wavefront OBJ.
	OBJPath string `yaml:"obj_path"`
}

// Logging holds logging settings.
type Logging struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Compute: Compute{
			Workers: 0,
			Grain:   64,
		},
		Buffer: Buffer{
			VertexWidth:  3,
			VaryingWidth: 0,
		},
		Output: Output{
			OBJPath: "",
		},
		Logging: Logging{
			Level:   "info",
			LogFile: "",
		},
	}
}
