package config

import (
	"testing"

	"github.com/rileyhilliard/cmdtree/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"verbosity prefix", func(c *Config) { c.Verbosity = "warn" }, ""},
		{"bad verbosity", func(c *Config) { c.Verbosity = "loud" }, "Invalid verbosity"},
		{"empty verbosity", func(c *Config) { c.Verbosity = "" }, "Invalid verbosity"},
		{"color always", func(c *Config) { c.Output.Color = "always" }, ""},
		{"bad color", func(c *Config) { c.Output.Color = "rainbow" }, "output.color"},
		{"future version", func(c *Config) { c.Version = CurrentConfigVersion + 1 }, "from the future"},
		{"empty tracker file", func(c *Config) { c.Tracker.File = " " }, "tracker.file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
			}
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	assert.Error(t, Validate(nil))
}
