package cli

import (
	"context"
	"fmt"

	"github.com/rileyhilliard/cmdtree/internal/config"
	"github.com/rileyhilliard/cmdtree/internal/ui"
	"github.com/rileyhilliard/cmdtree/pkg/cmdtree"
)

func registerConfig(host *cmdtree.Host) {
	host.Command("config show", "Print the effective configuration").
		Handler(func(p cmdtree.Provider) (cmdtree.Handler, error) {
			settings, err := cmdtree.Require[*Settings](p)
			if err != nil {
				return nil, err
			}
			return cmdtree.HandlerFunc(func(_ context.Context, inv *cmdtree.Invocation) (int, error) {
				return showConfig(inv, settings)
			}), nil
		})
}

func showConfig(inv *cmdtree.Invocation, settings *Settings) (int, error) {
	data, err := config.Marshal(settings.Config)
	if err != nil {
		return cmdtree.ExitError, err
	}
	source := settings.Path
	if source == "" {
		source = "defaults (no " + config.ConfigFileName + " found)"
	}
	fmt.Fprintln(inv.Err, ui.MutedStyle().Render("# source: "+source))
	fmt.Fprint(inv.Out, string(data))
	return cmdtree.ExitSuccess, nil
}
