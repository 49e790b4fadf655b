package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rileyhilliard/cmdtree/internal/config"
	"github.com/rileyhilliard/cmdtree/internal/ui"
	"github.com/rileyhilliard/cmdtree/internal/util"
	"github.com/rileyhilliard/cmdtree/pkg/cmdtree"
	"github.com/rileyhilliard/cmdtree/pkg/tracker"
)

// Option names of the tracker group.
const (
	trackerFileOption       = "file"
	trackerIgnoreCaseOption = "ignore-case"
)

func registerTracker(host *cmdtree.Host, cfg *config.Config) {
	host.Command("tracker", "Record processed items in a line-per-item file").
		Option(&cmdtree.Option{
			Name:        trackerFileOption,
			Description: "Tracker file",
			Type:        cmdtree.TypeString,
			Default:     cfg.Tracker.File,
			Recursive:   true,
			Action:      openTracker,
		}).
		Option(&cmdtree.Option{
			Name:        trackerIgnoreCaseOption,
			Shorthand:   "i",
			Description: "Compare items case-insensitively",
			Type:        cmdtree.TypeBool,
			Default:     !cfg.Tracker.CaseSensitive,
			Recursive:   true,
		})

	host.Command("tracker add", "Add items that have not been seen before").
		Argument(&cmdtree.Argument{
			Name:        "items",
			Description: "Items to record",
			Type:        cmdtree.TypeString,
			Variadic:    true,
			Requirement: cmdtree.RequiredAlways,
		}).
		HandleFunc(runTrackerAdd)

	host.Command("tracker list", "Show tracked items").
		Alias("ls").
		HandleFunc(runTrackerList)
}

// openTracker opens the tracker file for the rest of the invocation. The
// scope closes it when the command finishes. The bare group only prints
// help, so it leaves the file alone.
func openTracker(ctx context.Context, inv *cmdtree.Invocation, value any) (any, error) {
	if inv.Node().HasChildren() {
		return nil, nil
	}
	path := config.ExpandTilde(config.Expand(value.(string)))
	ignoreCase, err := cmdtree.ValueOf[bool](inv.Parse, trackerIgnoreCaseOption)
	if err != nil {
		return nil, err
	}

	t, err := tracker.Open(ctx, path, !ignoreCase)
	if err != nil {
		return nil, err
	}
	if inv.Provider != nil {
		inv.Provider.OnClose(t.Close)
	}
	inv.Logger.Debug("tracker %s: %d item(s) loaded", t.Path(), t.Len())
	return t, nil
}

func runTrackerAdd(ctx context.Context, inv *cmdtree.Invocation) (int, error) {
	t, err := cmdtree.GetRequiredValue[*tracker.Tracker](inv.Context, trackerFileOption)
	if err != nil {
		return cmdtree.ExitError, err
	}
	items, err := cmdtree.ValueOf[[]string](inv.Parse, "items")
	if err != nil {
		return cmdtree.ExitError, err
	}

	added := 0
	for _, item := range items {
		ok, err := t.Add(ctx, item)
		if err != nil {
			return cmdtree.ExitError, err
		}
		if !ok {
			fmt.Fprintln(inv.Out, ui.MutedStyle().Render("= "+item+" (already tracked)"))
			continue
		}
		added++
		fmt.Fprintln(inv.Out, ui.SuccessStyle().Render("+ "+item))
	}

	inv.Logger.Info("added %d of %d %s to %s",
		added, len(items), util.Pluralize(len(items), "item", "items"), t.Path())
	return cmdtree.ExitSuccess, nil
}

func runTrackerList(_ context.Context, inv *cmdtree.Invocation) (int, error) {
	t, err := cmdtree.GetRequiredValue[*tracker.Tracker](inv.Context, trackerFileOption)
	if err != nil {
		return cmdtree.ExitError, err
	}

	items := t.Items()
	if len(items) == 0 {
		fmt.Fprintln(inv.Err, ui.MutedStyle().Render("No items tracked in "+t.Path()))
		return cmdtree.ExitSuccess, nil
	}

	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = []string{strconv.Itoa(i + 1), item}
	}
	cols := []ui.TableColumn{
		{Title: "#", Width: ui.ColumnWidth("#", rows, 0, 3)},
		{Title: "ITEM", Width: ui.ColumnWidth("ITEM", rows, 1, 10)},
	}
	fmt.Fprintln(inv.Out, ui.RenderSimpleTable(cols, rows))
	return cmdtree.ExitSuccess, nil
}
