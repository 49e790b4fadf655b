package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/cmdtree/internal/config"
	"github.com/rileyhilliard/cmdtree/internal/errors"
	"github.com/rileyhilliard/cmdtree/internal/ui"
	"github.com/rileyhilliard/cmdtree/pkg/cmdtree"
)

// EchoParams are the bound parameters of "project echo".
type EchoParams struct {
	Message string
	Repeat  int
	Upper   bool
}

func registerProject(host *cmdtree.Host) {
	host.Command("project echo", "Print a message").
		Long(`Print a message, optionally prefixed with the contents of a file.

The prefix file is read by an option handler before the command runs; a
missing file fails the command with exit code 253.

Examples:
  cmdtree project echo hello
  cmdtree project echo hello --repeat 3 --upper
  cmdtree project echo world --prefix-file greeting.txt`).
		Argument(&cmdtree.Argument{
			Name:        "message",
			Description: "Text to print",
			Type:        cmdtree.TypeString,
		}).
		Option(&cmdtree.Option{
			Name:        "repeat",
			Shorthand:   "n",
			Description: "Print the message this many times",
			Type:        cmdtree.TypeInt,
			Default:     1,
			Validate: func(v any) error {
				if v.(int) < 1 {
					return fmt.Errorf("must be at least 1, got %d", v)
				}
				return nil
			},
		}).
		Option(&cmdtree.Option{
			Name:        "upper",
			Description: "Upper-case the message",
			Type:        cmdtree.TypeBool,
		}).
		Option(&cmdtree.Option{
			Name:        "prefix-file",
			Description: "File whose first line prefixes every message",
			Type:        cmdtree.TypeString,
			Requirement: cmdtree.RequiredNever,
			Action:      readPrefixFile,
		}).
		Bind(bindEcho).
		HandleFunc(runEcho)

	host.Command("project template new", "Scaffold a project directory").
		Argument(&cmdtree.Argument{
			Name:        "name",
			Description: "Project name",
			Type:        cmdtree.TypeString,
			Validate: func(v any) error {
				name := v.(string)
				if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
					return fmt.Errorf("%q is not a valid project name", name)
				}
				return nil
			},
		}).
		Option(&cmdtree.Option{
			Name:        "dir",
			Shorthand:   "d",
			Description: "Parent directory",
			Type:        cmdtree.TypeString,
			Default:     ".",
		}).
		HandleFunc(runTemplateNew)
}

func readPrefixFile(_ context.Context, _ *cmdtree.Invocation, value any) (any, error) {
	path, _ := value.(string)
	data, err := os.ReadFile(config.ExpandTilde(path))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrFileSystem,
			fmt.Sprintf("Cannot read prefix file %s", path), "")
	}
	line, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSpace(line), nil
}

func bindEcho(p *cmdtree.ParseResult) (any, error) {
	message, err := cmdtree.ValueOf[string](p, "message")
	if err != nil {
		return nil, err
	}
	repeat, err := cmdtree.ValueOf[int](p, "repeat")
	if err != nil {
		return nil, err
	}
	upper, err := cmdtree.ValueOf[bool](p, "upper")
	if err != nil {
		return nil, err
	}
	return EchoParams{Message: message, Repeat: repeat, Upper: upper}, nil
}

func runEcho(_ context.Context, inv *cmdtree.Invocation) (int, error) {
	params, err := cmdtree.ParamsAs[EchoParams](inv)
	if err != nil {
		return cmdtree.ExitError, err
	}

	msg := params.Message
	if params.Upper {
		msg = strings.ToUpper(msg)
	}
	if inv.Context.HasValue("prefix-file") {
		prefix, err := cmdtree.GetValue[string](inv.Context, "prefix-file")
		if err != nil {
			return cmdtree.ExitError, err
		}
		if prefix != "" {
			msg = prefix + " " + msg
		}
	}

	for range params.Repeat {
		fmt.Fprintln(inv.Out, msg)
	}
	return cmdtree.ExitSuccess, nil
}

func runTemplateNew(_ context.Context, inv *cmdtree.Invocation) (int, error) {
	name, err := cmdtree.ValueOf[string](inv.Parse, "name")
	if err != nil {
		return cmdtree.ExitError, err
	}
	dir, err := cmdtree.ValueOf[string](inv.Parse, "dir")
	if err != nil {
		return cmdtree.ExitError, err
	}

	root := filepath.Join(config.ExpandTilde(dir), name)
	if _, err := os.Stat(root); err == nil {
		fmt.Fprint(inv.Err, errors.New(errors.ErrFileSystem,
			fmt.Sprintf("%s already exists", root),
			"Pick another name or remove the directory").Error())
		return cmdtree.ExitError, nil
	}

	cfg := config.DefaultConfig()
	cfg.Tracker.File = filepath.Join("${HOME}", config.GlobalConfigDir, name+".txt")
	if err := config.Write(filepath.Join(root, config.ConfigFileName), cfg, false); err != nil {
		fmt.Fprint(inv.Err, err.Error())
		return cmdtree.ExitError, nil
	}

	inv.Logger.Info("scaffolded project %q in %s", name, root)
	fmt.Fprintln(inv.Out, ui.SuccessStyle().Render(fmt.Sprintf("%s Created %s", ui.SymbolSuccess, root)))
	return cmdtree.ExitSuccess, nil
}
