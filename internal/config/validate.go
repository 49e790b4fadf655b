package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/cmdtree/internal/errors"
	"github.com/rileyhilliard/cmdtree/internal/logger"
)

// validColors are the accepted output.color values.
var validColors = []string{"auto", "always", "never"}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig, "No config to validate", "")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but cmdtree only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade cmdtree or lower the version in .cmdtree.yaml")
	}

	if _, err := logger.ParseLevel(cfg.Verbosity); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid verbosity '%s'", cfg.Verbosity),
			"Use one of: "+strings.Join(logger.LevelNames(), ", "))
	}

	if err := validateOutput(cfg.Output); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'output' section in your .cmdtree.yaml.")
	}

	if strings.TrimSpace(cfg.Tracker.File) == "" {
		return errors.New(errors.ErrConfig,
			"tracker.file is empty",
			fmt.Sprintf("Remove the setting to use %s, or set a path", DefaultTrackerFile))
	}

	return nil
}

func validateOutput(out OutputConfig) error {
	if out.Color == "" {
		return nil
	}
	for _, c := range validColors {
		if out.Color == c {
			return nil
		}
	}
	return fmt.Errorf("output.color '%s' isn't valid - use %s", out.Color, strings.Join(validColors, ", "))
}
