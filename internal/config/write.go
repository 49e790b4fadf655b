package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rileyhilliard/cmdtree/internal/errors"
	"gopkg.in/yaml.v3"
)

// Write serialises cfg to path. An existing file is only replaced when
// force is set.
func Write(path string, cfg *Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("%s already exists", path),
			"Pass --force to overwrite it")
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Cannot create directory %s", dir),
				"Check directory permissions")
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Cannot write %s", path),
			"Check file permissions")
	}
	return nil
}

// Marshal renders cfg as YAML with a short header comment.
func Marshal(cfg *Config) ([]byte, error) {
	var doc yaml.Node
	if err := doc.Encode(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Cannot encode config", "")
	}
	doc.HeadComment = "# cmdtree configuration\n# verbosity: Verbose, Debug, Info, Warning, Error, Critical or None"

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Cannot encode config", "")
	}
	return data, nil
}
