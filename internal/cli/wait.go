package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/cmdtree/internal/ui"
	"github.com/rileyhilliard/cmdtree/pkg/cmdtree"
)

func registerWait(host *cmdtree.Host) {
	host.Command("wait", "Wait for a duration or until interrupted").
		Long(`Wait for the given duration. Ctrl-C cancels the wait and exits
with code 254.

Examples:
  cmdtree wait --for 5s
  cmdtree wait --for 1m30s --quiet`).
		Option(&cmdtree.Option{
			Name:        "for",
			Description: "How long to wait",
			Type:        cmdtree.TypeDuration,
			Default:     time.Second,
			Validate: func(v any) error {
				if v.(time.Duration) < 0 {
					return fmt.Errorf("duration must not be negative")
				}
				return nil
			},
		}).
		Option(&cmdtree.Option{
			Name:        "quiet",
			Shorthand:   "q",
			Description: "Do not show a spinner",
			Type:        cmdtree.TypeBool,
		}).
		HandleFunc(runWait)
}

func runWait(ctx context.Context, inv *cmdtree.Invocation) (int, error) {
	d, err := cmdtree.ValueOf[time.Duration](inv.Parse, "for")
	if err != nil {
		return cmdtree.ExitError, err
	}
	quiet, err := cmdtree.ValueOf[bool](inv.Parse, "quiet")
	if err != nil {
		return cmdtree.ExitError, err
	}

	spinner := ui.NewSpinner(inv.Err, fmt.Sprintf("Waiting %s", d))
	if !quiet {
		spinner.Start()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		if !quiet {
			spinner.Success()
		}
		return cmdtree.ExitSuccess, nil
	case <-ctx.Done():
		if !quiet {
			spinner.SetLabel("Wait cancelled")
			spinner.Skip()
		}
		return cmdtree.ExitCancelled, ctx.Err()
	}
}
