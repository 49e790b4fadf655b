package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/rileyhilliard/cmdtree/internal/ui"
	"github.com/rileyhilliard/cmdtree/pkg/cmdtree"
	"gopkg.in/yaml.v3"
)

var treeFormats = []string{"text", "yaml", "json"}

func registerTree(host *cmdtree.Host) {
	host.Command("tree", "List the command tree").
		Option(&cmdtree.Option{
			Name:        "format",
			Description: "Output format: text, yaml or json",
			Type:        cmdtree.TypeString,
			Default:     "text",
			Validate: func(v any) error {
				if !slices.Contains(treeFormats, v.(string)) {
					return fmt.Errorf("unknown format %q", v)
				}
				return nil
			},
		}).
		Option(&cmdtree.Option{
			Name:        "all",
			Description: "Include hidden commands",
			Type:        cmdtree.TypeBool,
		}).
		HandleFunc(func(_ context.Context, inv *cmdtree.Invocation) (int, error) {
			return runTree(inv, host)
		})
}

func runTree(inv *cmdtree.Invocation, host *cmdtree.Host) (int, error) {
	format, err := cmdtree.ValueOf[string](inv.Parse, "format")
	if err != nil {
		return cmdtree.ExitError, err
	}
	all, err := cmdtree.ValueOf[bool](inv.Parse, "all")
	if err != nil {
		return cmdtree.ExitError, err
	}

	desc, err := cmdtree.Describe(host.Registry().Root())
	if err != nil {
		return cmdtree.ExitError, err
	}
	if !all {
		desc = pruneHidden(desc)
	}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(inv.Out)
		enc.SetIndent(2)
		if err := enc.Encode(desc); err != nil {
			return cmdtree.ExitError, err
		}
		return cmdtree.ExitSuccess, enc.Close()
	case "json":
		enc := json.NewEncoder(inv.Out)
		enc.SetIndent("", "  ")
		return cmdtree.ExitSuccess, enc.Encode(desc)
	}

	var entries []ui.TreeEntry
	for _, c := range desc.Commands {
		entries = appendEntries(entries, c, 0, host.Services())
	}
	ui.RenderTree(inv.Out, entries)
	return cmdtree.ExitSuccess, nil
}

func appendEntries(entries []ui.TreeEntry, d *cmdtree.Description, depth int, services *cmdtree.Services) []ui.TreeEntry {
	entries = append(entries, ui.TreeEntry{
		Depth:       depth,
		Name:        d.Name,
		Description: d.Description,
		Group:       len(d.Commands) > 0,
		Runnable:    services.HasHandler(d.Key),
	})
	for _, c := range d.Commands {
		entries = appendEntries(entries, c, depth+1, services)
	}
	return entries
}

func pruneHidden(d *cmdtree.Description) *cmdtree.Description {
	out := *d
	out.Commands = nil
	for _, c := range d.Commands {
		if c.Hidden {
			continue
		}
		out.Commands = append(out.Commands, pruneHidden(c))
	}
	return &out
}
