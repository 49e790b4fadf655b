package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rileyhilliard/cmdtree/internal/config"
	"github.com/rileyhilliard/cmdtree/pkg/cmdtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectEcho(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "prefix.txt")
	require.NoError(t, os.WriteFile(prefix, []byte("  >>  \nignored\n"), 0o644))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"plain", []string{"hello"}, "hello\n"},
		{"repeat", []string{"hi", "--repeat", "3"}, "hi\nhi\nhi\n"},
		{"short repeat and upper", []string{"-n", "2", "--upper", "hey"}, "HEY\nHEY\n"},
		{"prefix file", []string{"world", "--prefix-file", prefix}, ">> world\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runApp(t, nil, append([]string{"project", "echo"}, tt.args...)...)
			require.Equal(t, cmdtree.ExitSuccess, res.code, res.stderr)
			assert.Equal(t, tt.want, res.stdout)
		})
	}
}

func TestProjectEcho_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		err  string
	}{
		{"missing message", nil, cmdtree.ExitError, "<message> is required"},
		{"repeat below one", []string{"hi", "--repeat", "0"}, cmdtree.ExitError, "--repeat"},
		{"extra argument", []string{"hi", "there"}, cmdtree.ExitError, "Unexpected argument"},
		{"missing prefix file", []string{"hi", "--prefix-file", "/does/not/exist"}, cmdtree.ExitInputActionError, "prefix-file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runApp(t, nil, append([]string{"project", "echo"}, tt.args...)...)
			assert.Equal(t, tt.code, res.code)
			assert.Empty(t, res.stdout)
			assert.Contains(t, res.stderr, tt.err)
		})
	}
}

func TestProjectGroupPrintsHelp(t *testing.T) {
	res := runApp(t, nil, "project")
	assert.Equal(t, cmdtree.ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "echo")
	assert.Contains(t, res.stdout, "template")
}

func TestProjectTemplateNew(t *testing.T) {
	dir := t.TempDir()

	res := runApp(t, nil, "project", "template", "new", "demo", "--dir", dir)
	require.Equal(t, cmdtree.ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, filepath.Join(dir, "demo"))

	cfg, err := config.Load(filepath.Join(dir, "demo", config.ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, "demo.txt", filepath.Base(cfg.Tracker.File))
	assert.True(t, filepath.IsAbs(cfg.Tracker.File))

	res = runApp(t, nil, "project", "template", "new", "demo", "-d", dir)
	assert.Equal(t, cmdtree.ExitError, res.code)
	assert.Contains(t, res.stderr, "already exists")
}

func TestProjectTemplateNew_InvalidName(t *testing.T) {
	res := runApp(t, nil, "project", "template", "new", "a/b", "--dir", t.TempDir())
	assert.Equal(t, cmdtree.ExitError, res.code)
	assert.Contains(t, res.stderr, "not a valid project name")
}
