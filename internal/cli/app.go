package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rileyhilliard/cmdtree/internal/config"
	"github.com/rileyhilliard/cmdtree/internal/logger"
	"github.com/rileyhilliard/cmdtree/internal/ui"
	"github.com/rileyhilliard/cmdtree/pkg/cmdtree"
)

// ConfigOption names the root option selecting the config file.
const ConfigOption = "config"

// appName is the root command name.
const appName = "cmdtree"

// Settings is the loaded configuration and where it came from. It is
// registered as a service so handlers can resolve it.
type Settings struct {
	Config *config.Config
	Path   string
}

// Execute runs the application with os.Args and returns the exit code.
func Execute() int {
	explicit := configFlag(os.Args[1:])
	cfg, path, err := config.LoadOrDefault(explicit)
	if err == nil {
		err = config.Validate(cfg)
	}
	if err != nil {
		fmt.Fprint(os.Stderr, err.Error())
		return cmdtree.ExitError
	}

	ui.ConfigureColor(cfg.Output.Color, os.Stdout)

	host := NewApp(&Settings{Config: cfg, Path: path})
	return host.Run(context.Background(), os.Args[1:])
}

// NewApp declares every command on a new host. Options are applied after
// the ones derived from settings.
func NewApp(settings *Settings, opts ...cmdtree.HostOption) *cmdtree.Host {
	if settings == nil || settings.Config == nil {
		settings = &Settings{Config: config.DefaultConfig()}
	}

	level, err := logger.ParseLevel(settings.Config.Verbosity)
	if err != nil {
		level = logger.LevelError
	}
	base := []cmdtree.HostOption{
		cmdtree.WithVersion(formatVersion(version)),
		cmdtree.WithVerbosity(level),
	}
	host := cmdtree.NewHost(appName, "Hierarchical command runner demo", append(base, opts...)...)

	root := host.Registry().Root()
	root.Options = append(root.Options, &cmdtree.Option{
		Name:        ConfigOption,
		Description: "Config file (default: search for " + config.ConfigFileName + ")",
		Type:        cmdtree.TypeString,
		Default:     settings.Path,
		Recursive:   true,
	})

	cmdtree.ProvideValue(host.Services(), settings)

	registerInit(host)
	registerConfig(host)
	registerTree(host)
	registerVersion(host)
	registerProject(host)
	registerGreet(host)
	registerTracker(host, settings.Config)
	registerWait(host)

	return host
}

// configFlag pre-scans args for --config. Cobra has not run yet, so this
// only understands the long forms.
func configFlag(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			return ""
		}
		if arg == "--"+ConfigOption && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, "--"+ConfigOption+"="); ok {
			return v
		}
	}
	return ""
}
