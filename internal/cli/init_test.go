package cli

import (
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/cmdtree/internal/config"
	"github.com/rileyhilliard/cmdtree/pkg/cmdtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", config.ConfigFileName)

	res := runApp(t, nil, "init", "--path", path, "--non-interactive")
	require.Equal(t, cmdtree.ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Created "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.CurrentConfigVersion, cfg.Version)
	assert.Equal(t, "Error", cfg.Verbosity)
}

func TestInitCommand_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	require.Equal(t, cmdtree.ExitSuccess, runApp(t, nil, "init", "--path", path, "--non-interactive").code)

	res := runApp(t, nil, "init", "--path", path, "--non-interactive")
	assert.Equal(t, cmdtree.ExitError, res.code)
	assert.Contains(t, res.stderr, "already exists")
	assert.Contains(t, res.stderr, "--force")

	res = runApp(t, nil, "init", "--path", path, "--non-interactive", "-f")
	assert.Equal(t, cmdtree.ExitSuccess, res.code)
}
