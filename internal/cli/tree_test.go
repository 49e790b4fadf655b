package cli

import (
	"encoding/json"
	"testing"

	"github.com/rileyhilliard/cmdtree/pkg/cmdtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func commandNames(d *cmdtree.Description) []string {
	var names []string
	for _, c := range d.Commands {
		names = append(names, c.Name)
	}
	return names
}

func findCommand(d *cmdtree.Description, name string) *cmdtree.Description {
	for _, c := range d.Commands {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestTreeCommand_Text(t *testing.T) {
	res := runApp(t, nil, "tree")
	require.Equal(t, cmdtree.ExitSuccess, res.code, res.stderr)

	for _, want := range []string{"project", "  ▸ template", "    • new", "greet", "  • hello", "tracker", "wait"} {
		assert.Contains(t, res.stdout, want)
	}
}

func TestTreeCommand_YAML(t *testing.T) {
	res := runApp(t, nil, "tree", "--format", "yaml")
	require.Equal(t, cmdtree.ExitSuccess, res.code, res.stderr)

	var desc cmdtree.Description
	require.NoError(t, yaml.Unmarshal([]byte(res.stdout), &desc))
	assert.Equal(t, "cmdtree", desc.Name)
	assert.Contains(t, commandNames(&desc), "project")

	project := findCommand(&desc, "project")
	require.NotNil(t, project)
	assert.True(t, project.Implicit)

	echo := findCommand(project, "echo")
	require.NotNil(t, echo)
	assert.Equal(t, "project echo", echo.Key)
	require.Len(t, echo.Arguments, 1)
	assert.Equal(t, "message", echo.Arguments[0].Name)
	assert.True(t, echo.Arguments[0].Required)
}

func TestTreeCommand_JSON(t *testing.T) {
	res := runApp(t, nil, "tree", "--format", "json")
	require.Equal(t, cmdtree.ExitSuccess, res.code, res.stderr)

	var desc cmdtree.Description
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &desc))

	greet := findCommand(&desc, "greet")
	require.NotNil(t, greet)
	assert.ElementsMatch(t, []string{"hello", "goodbye"}, commandNames(greet))

	goodbye := findCommand(greet, "goodbye")
	require.NotNil(t, goodbye)
	assert.Equal(t, []string{"bye"}, goodbye.Aliases)
}

func TestTreeCommand_InvalidFormat(t *testing.T) {
	res := runApp(t, nil, "tree", "--format", "xml")
	assert.Equal(t, cmdtree.ExitError, res.code)
	assert.Contains(t, res.stderr, "--format")
}
