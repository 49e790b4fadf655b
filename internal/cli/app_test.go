package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/cmdtree/internal/config"
	"github.com/rileyhilliard/cmdtree/pkg/cmdtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// runApp runs args against a fresh app. A nil cfg uses the defaults with
// the tracker pointed at a temp file.
func runApp(t *testing.T, cfg *config.Config, args ...string) result {
	t.Helper()
	return runAppContext(t, context.Background(), cfg, args...)
}

func runAppContext(t *testing.T, ctx context.Context, cfg *config.Config, args ...string) result {
	t.Helper()
	if cfg == nil {
		cfg = testConfig(t)
	}
	var out, errOut bytes.Buffer
	host := NewApp(&Settings{Config: cfg}, cmdtree.WithOutput(&out, &errOut))
	code := host.Run(ctx, args)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Tracker.File = filepath.Join(t.TempDir(), "processed.txt")
	return cfg
}

func TestNewApp_Builds(t *testing.T) {
	host := NewApp(nil)
	_, err := host.Build()
	require.NoError(t, err)

	keys := host.Registry().Keys()
	for _, key := range []string{
		"init", "config show", "tree", "version",
		"project echo", "project template new",
		"greet", "greet hello", "greet goodbye",
		"tracker", "tracker add", "tracker list", "wait",
	} {
		assert.Contains(t, keys, key)
	}

	// Groups that were never declared are created implicitly.
	for _, key := range []string{"config", "project", "project template"} {
		assert.NotContains(t, keys, key)
		node, ok := host.Registry().Lookup(key)
		require.True(t, ok, key)
		assert.True(t, node.IsImplicit(), key)
	}
}

func TestConfigFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"absent", []string{"greet", "hello"}, ""},
		{"separate value", []string{"--config", "a.yaml", "tree"}, "a.yaml"},
		{"equals form", []string{"tree", "--config=b.yaml"}, "b.yaml"},
		{"missing value", []string{"tree", "--config"}, ""},
		{"after terminator", []string{"project", "echo", "--", "--config", "c.yaml"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, configFlag(tt.args))
		})
	}
}

func TestRootWithoutCommandPrintsHelp(t *testing.T) {
	res := runApp(t, nil)
	assert.Equal(t, cmdtree.ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "greet")
	assert.Contains(t, res.stdout, "tracker")
}

func TestUnknownCommandSuggests(t *testing.T) {
	res := runApp(t, nil, "greet", "helo")
	assert.Equal(t, cmdtree.ExitError, res.code)
	assert.Contains(t, res.stderr, "Did you mean: hello?")
}

func TestVerbosityOption(t *testing.T) {
	res := runApp(t, nil, "--verbosity", "debug", "greet", "hello")
	assert.Equal(t, cmdtree.ExitSuccess, res.code)
	assert.Contains(t, res.stderr, "dispatch")

	res = runApp(t, nil, "greet", "hello", "--verbosity", "loud")
	assert.Equal(t, cmdtree.ExitError, res.code)
}

func TestConfigVerbosityIsDefault(t *testing.T) {
	cfg := testConfig(t)
	cfg.Verbosity = "Debug"
	res := runApp(t, cfg, "greet", "hello")
	assert.Equal(t, cmdtree.ExitSuccess, res.code)
	assert.Contains(t, res.stderr, "dispatch")
}

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	t.Setenv("HOME", t.TempDir())
	t.Chdir(dir)

	origArgs := os.Args
	defer func() { os.Args = origArgs }()

	os.Args = []string{"cmdtree", "greet", "hello", "--name", "test"}
	assert.Equal(t, cmdtree.ExitSuccess, Execute())

	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ConfigFileName), []byte("verbosity: loud\n"), 0o644))
	assert.Equal(t, cmdtree.ExitError, Execute())

	os.Args = []string{"cmdtree", "--config", filepath.Join(dir, "missing.yaml"), "tree"}
	assert.Equal(t, cmdtree.ExitError, Execute())
}
