package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/cmdtree/internal/config"
	"github.com/rileyhilliard/cmdtree/internal/errors"
	"github.com/rileyhilliard/cmdtree/internal/logger"
	"github.com/rileyhilliard/cmdtree/internal/ui"
	"github.com/rileyhilliard/cmdtree/pkg/cmdtree"
	"golang.org/x/term"
)

// InitOptions holds options for the init command.
type InitOptions struct {
	Path           string // Where to write the config
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults
}

func registerInit(host *cmdtree.Host) {
	host.Command("init", "Create "+config.ConfigFileName+" configuration").
		Long(`Create a config file with sensible defaults.

Prompts for the verbosity and tracker file when run in a terminal.

Examples:
  cmdtree init
  cmdtree init --force
  cmdtree init --path ~/.config/cmdtree/config.yaml`).
		Option(&cmdtree.Option{
			Name:        "path",
			Description: "Config file to create",
			Type:        cmdtree.TypeString,
			Default:     filepath.Join(".", config.ConfigFileName),
		}).
		Option(&cmdtree.Option{
			Name:        "force",
			Shorthand:   "f",
			Description: "Overwrite an existing config file",
			Type:        cmdtree.TypeBool,
		}).
		Option(&cmdtree.Option{
			Name:        "non-interactive",
			Description: "Skip prompts and write the defaults",
			Type:        cmdtree.TypeBool,
		}).
		Bind(func(p *cmdtree.ParseResult) (any, error) {
			path, err := cmdtree.ValueOf[string](p, "path")
			if err != nil {
				return nil, err
			}
			force, err := cmdtree.ValueOf[bool](p, "force")
			if err != nil {
				return nil, err
			}
			nonInteractive, err := cmdtree.ValueOf[bool](p, "non-interactive")
			if err != nil {
				return nil, err
			}
			return InitOptions{
				Path:           config.ExpandTilde(path),
				Overwrite:      force,
				NonInteractive: nonInteractive || !term.IsTerminal(int(os.Stdin.Fd())),
			}, nil
		}).
		HandleFunc(func(_ context.Context, inv *cmdtree.Invocation) (int, error) {
			opts, err := cmdtree.ParamsAs[InitOptions](inv)
			if err != nil {
				return cmdtree.ExitError, err
			}
			if err := Init(inv, opts); err != nil {
				fmt.Fprint(inv.Err, err.Error())
				return cmdtree.ExitError, nil
			}
			return cmdtree.ExitSuccess, nil
		})
}

// Init writes a new config file.
func Init(inv *cmdtree.Invocation, opts InitOptions) error {
	cfg := config.DefaultConfig()

	if _, err := os.Stat(opts.Path); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", opts.Path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", opts.Path)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(inv.Out, "Cancelled.")
			return nil
		}
	}

	if !opts.NonInteractive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Write(opts.Path, cfg, true); err != nil {
		return err
	}

	fmt.Fprintln(inv.Out, ui.SuccessStyle().Render(fmt.Sprintf("%s Created %s", ui.SymbolSuccess, opts.Path)))
	return nil
}

// promptConfig asks for the settings most people change.
func promptConfig(cfg *config.Config) error {
	levels := make([]huh.Option[string], 0, len(logger.LevelNames()))
	for _, name := range logger.LevelNames() {
		levels = append(levels, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default verbosity").
				Options(levels...).
				Value(&cfg.Verbosity),
			huh.NewInput().
				Title("Tracker file").
				Description("Supports ~, ${HOME}, ${USER} and ${PROJECT}").
				Value(&cfg.Tracker.File),
			huh.NewConfirm().
				Title("Compare tracked items case-sensitively?").
				Value(&cfg.Tracker.CaseSensitive),
		),
	)
	if err := form.Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Run with --non-interactive to write the defaults")
	}
	return nil
}
