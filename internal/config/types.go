package config

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .cmdtree.yaml configuration file.
type Config struct {
	Version   int           `yaml:"version" mapstructure:"version"`
	Verbosity string        `yaml:"verbosity" mapstructure:"verbosity"`
	Output    OutputConfig  `yaml:"output" mapstructure:"output"`
	Tracker   TrackerConfig `yaml:"tracker" mapstructure:"tracker"`
}

// OutputConfig controls terminal output formatting.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	// "auto" disables color when output is piped.
	Color string `yaml:"color" mapstructure:"color"`
}

// TrackerConfig locates the processed-items file used by the tracker commands.
type TrackerConfig struct {
	// File is the tracking file. Supports ~ and ${HOME}, ${USER}, ${PROJECT}.
	File string `yaml:"file" mapstructure:"file"`

	// CaseSensitive controls how tracked keys are compared.
	CaseSensitive bool `yaml:"case_sensitive" mapstructure:"case_sensitive"`
}

// DefaultTrackerFile is the tracker file used when none is configured.
const DefaultTrackerFile = "~/.config/cmdtree/processed.txt"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:   CurrentConfigVersion,
		Verbosity: "Error",
		Output: OutputConfig{
			Color: "auto",
		},
		Tracker: TrackerConfig{
			File:          DefaultTrackerFile,
			CaseSensitive: true,
		},
	}
}
