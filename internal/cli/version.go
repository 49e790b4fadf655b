package cli

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rileyhilliard/cmdtree/pkg/cmdtree"
)

// Version information set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func registerVersion(host *cmdtree.Host) {
	host.Command("version", "Print version information").
		Long("Print the version, commit hash, and build date of cmdtree.").
		Option(&cmdtree.Option{
			Name:        "short",
			Description: "Print only the version number",
			Type:        cmdtree.TypeBool,
		}).
		HandleFunc(runVersion)
}

func runVersion(_ context.Context, inv *cmdtree.Invocation) (int, error) {
	short, err := cmdtree.ValueOf[bool](inv.Parse, "short")
	if err != nil {
		return cmdtree.ExitError, err
	}
	if short {
		fmt.Fprintln(inv.Out, version)
		return cmdtree.ExitSuccess, nil
	}

	fmt.Fprintf(inv.Out, "%s %s\n", appName, formatVersion(version))
	fmt.Fprintf(inv.Out, "commit: %s\n", commit)
	fmt.Fprintf(inv.Out, "built: %s\n", date)
	fmt.Fprintf(inv.Out, "go: %s\n", runtime.Version())
	fmt.Fprintf(inv.Out, "os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return cmdtree.ExitSuccess, nil
}

// formatVersion ensures version has a 'v' prefix for display
func formatVersion(v string) string {
	if v == "" || v == "dev" {
		return v
	}
	if v[0] != 'v' {
		return "v" + v
	}
	return v
}

// SetVersionInfo sets the version information (called from main).
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// GetVersion returns the current version string.
func GetVersion() string {
	return version
}
