// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConverterBackend identifies how pandoc is invoked.
type ConverterBackend string

const (
	// BackendAuto uses a local pandoc when present, else a container.
	BackendAuto ConverterBackend = "auto"
	// BackendPandoc runs the pandoc binary from PATH or PandocPath.
	BackendPandoc ConverterBackend = "pandoc"
	// BackendContainer runs pandoc inside Image via docker or podman.
	BackendContainer ConverterBackend = "container"
)

// ConverterConfig holds settings for the conversion gateway.
type ConverterConfig struct {
	// Backend selects the pandoc invocation strategy: auto, pandoc, or container.
	Backend ConverterBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// PandocPath is the pandoc executable name or path (default "pandoc").
	PandocPath string `json:"pandoc_path" yaml:"pandoc_path" mapstructure:"pandoc_path"`

	// Image is the container image used by the container backend
	// (default "pandoc/core:latest").
	Image string `json:"image" yaml:"image" mapstructure:"image"`

	// Runtime pins the container runtime ("docker" or "podman"); empty
	// tries docker, then podman.
	Runtime string `json:"runtime,omitempty" yaml:"runtime,omitempty" mapstructure:"runtime"`
}

// BatchConfig holds defaults for the batch command. Flags override them.
type BatchConfig struct {
	// Workers is the number of parallel conversions (default 1).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// Recursive searches input folders recursively.
	Recursive bool `json:"recursive" yaml:"recursive" mapstructure:"recursive"`

	// Progress shows a progress bar on interactive terminals.
	Progress bool `json:"progress" yaml:"progress" mapstructure:"progress"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Verbose enables debug output.
	Verbose bool `json:"verbose" yaml:"verbose" mapstructure:"verbose"`

	// File is an optional path that receives a JSON copy of every log line.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
}

// Config groups all docconv settings loaded from docconv.yaml and the
// DOCCONV_ environment.
type Config struct {
	Converter ConverterConfig `json:"converter" yaml:"converter" mapstructure:"converter"`
	Batch     BatchConfig     `json:"batch" yaml:"batch" mapstructure:"batch"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() Config {
	return Config{
		Converter: ConverterConfig{
			Backend:    BackendAuto,
			PandocPath: "pandoc",
			Image:      "pandoc/core:latest",
		},
		Batch: BatchConfig{
			Workers:  1,
			Progress: true,
		},
	}
}
