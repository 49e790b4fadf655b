package cmdtree

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	cterrors "github.com/rileyhilliard/cmdtree/internal/errors"
	"github.com/rileyhilliard/cmdtree/internal/logger"
	"github.com/rileyhilliard/cmdtree/internal/ui"
	"github.com/spf13/cobra"
)

// Names of the options the host adds to the root command.
const (
	VerbosityOption = "verbosity"
	VersionOption   = "version"
)

// Host owns a command tree and runs invocations against it: parse, build a
// service scope, run option pre-actions, then dispatch.
type Host struct {
	name        string
	description string
	version     string

	out       io.Writer
	errOut    io.Writer
	log       logger.Logger
	leveled   *logger.LeveledLogger
	verbosity logger.Level
	levelSet  bool

	registry   *Registry
	services   *Services
	pipeline   *Pipeline
	dispatcher *Dispatcher

	builders []*CommandBuilder
	errs     []error
	root     *Node
	buildErr error
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithLogger replaces the host's leveled stderr logger. A *logger.LeveledLogger
// still follows --verbosity and its current level becomes the default;
// other loggers are used as-is.
func WithLogger(l logger.Logger) HostOption {
	return func(h *Host) {
		h.log = l
		h.leveled, _ = l.(*logger.LeveledLogger)
	}
}

// WithOutput sets the writers handed to every invocation.
func WithOutput(out, errOut io.Writer) HostOption {
	return func(h *Host) {
		h.out = out
		h.errOut = errOut
	}
}

// WithVersion adds a terminating --version option to the root command.
func WithVersion(version string) HostOption {
	return func(h *Host) {
		h.version = version
	}
}

// WithVerbosity sets the default --verbosity level.
func WithVerbosity(level logger.Level) HostOption {
	return func(h *Host) {
		h.verbosity = level
		h.levelSet = true
	}
}

// WithServices uses an existing service collection.
func WithServices(s *Services) HostOption {
	return func(h *Host) {
		h.services = s
	}
}

// NewHost creates a host whose root command is named name.
func NewHost(name, description string, opts ...HostOption) *Host {
	h := &Host{
		name:        name,
		description: description,
		out:         os.Stdout,
		errOut:      os.Stderr,
		verbosity:   logger.LevelError,
		registry:    NewRegistry(name, description),
	}
	for _, opt := range opts {
		opt(h)
	}
	switch {
	case h.log == nil:
		h.leveled = logger.New(h.errOut, "", h.verbosity)
		h.log = h.leveled
	case h.leveled != nil && !h.levelSet:
		h.verbosity = h.leveled.Level()
	}
	if h.services == nil {
		h.services = NewServices()
	}
	h.pipeline = NewPipeline(h.log)
	h.dispatcher = NewDispatcher(h.log)
	return h
}

// Registry returns the host's command registry.
func (h *Host) Registry() *Registry {
	return h.registry
}

// Services returns the host's service collection.
func (h *Host) Services() *Services {
	return h.services
}

// Logger returns the host logger.
func (h *Host) Logger() logger.Logger {
	return h.log
}

// Command registers a command at key and returns its builder. Registration
// errors are reported by Build.
func (h *Host) Command(key, description string) *CommandBuilder {
	b := &CommandBuilder{key: key, node: NewNode("", description)}
	if err := h.registry.Add(key, b.node); err != nil {
		h.errs = append(h.errs, err)
	}
	h.builders = append(h.builders, b)
	return b
}

// Register adds a prepared node at key.
func (h *Host) Register(key string, node *Node) error {
	return h.registry.Add(key, node)
}

// Build binds handlers and builds the command tree. It runs once; later
// calls return the first result.
func (h *Host) Build() (*Node, error) {
	if h.root != nil || h.buildErr != nil {
		return h.root, h.buildErr
	}
	h.root, h.buildErr = h.build()
	return h.root, h.buildErr
}

func (h *Host) build() (*Node, error) {
	if len(h.errs) > 0 {
		return nil, errors.Join(h.errs...)
	}
	for _, b := range h.builders {
		if b.handler == nil {
			continue
		}
		if err := h.services.AddHandler(b.key, b.handler); err != nil {
			return nil, err
		}
	}

	root := h.registry.Root()
	root.Options = append(root.Options, h.rootOptions()...)
	return h.registry.BuildTree(h.dispatcher.Action())
}

func (h *Host) rootOptions() []*Option {
	opts := []*Option{{
		Name:        VerbosityOption,
		Description: "Log verbosity: " + strings.Join(logger.LevelNames(), ", "),
		Type:        TypeString,
		Default:     h.verbosity.String(),
		Recursive:   true,
		Validate: func(v any) error {
			_, err := logger.ParseLevel(v.(string))
			return err
		},
	}}
	if h.version != "" {
		opts = append(opts, &Option{
			Name:        VersionOption,
			Description: "Print the version and exit",
			Type:        TypeBool,
			Terminating: true,
			OnTrigger: func(_ context.Context, inv *Invocation) int {
				fmt.Fprintf(inv.Out, "%s %s\n", h.name, h.version)
				return ExitSuccess
			},
		})
	}
	return opts
}

// Run executes one invocation with args (without the program name) and
// returns the process exit code. SIGINT and SIGTERM cancel ctx.
func (h *Host) Run(ctx context.Context, args []string) int {
	root, err := h.Build()
	if err != nil {
		h.log.Debug("cannot build command tree: %s", cterrors.Summary(err))
		h.report(err)
		return ExitError
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case sig := <-sigChan:
			h.log.Warn("received %s, cancelling", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	code := ExitSuccess
	cmd, err := h.materialize(root, &code)
	if err != nil {
		h.log.Debug("cannot prepare command line: %s", cterrors.Summary(err))
		h.report(err)
		return ExitError
	}
	if args == nil {
		// Cobra falls back to os.Args for nil.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(h.out)
	cmd.SetErr(h.errOut)

	if _, err := cmd.ExecuteContextC(ctx); err != nil {
		h.log.Debug("command line rejected: %s", err)
		h.report(err)
		return ExitError
	}
	return code
}

// materialize builds a fresh cobra command tree for one run. Cobra only
// tokenizes: every command runs through execute.
func (h *Host) materialize(node *Node, code *int) (*cobra.Command, error) {
	use := node.Name
	for _, a := range node.Arguments {
		use += " " + a.usage()
	}
	cmd := &cobra.Command{
		Use:           use,
		Short:         node.Description,
		Long:          node.Long,
		Aliases:       node.Aliases,
		Hidden:        node.Hidden,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			*code = h.execute(cmd.Context(), node, cmd, args)
			return nil
		},
	}
	if node.parent == nil {
		cmd.CompletionOptions.DisableDefaultCmd = true
	}

	for _, o := range node.Options {
		fs := cmd.Flags()
		if o.Recursive {
			fs = cmd.PersistentFlags()
		}
		if err := o.register(fs); err != nil {
			return nil, err
		}
	}
	for _, c := range node.children {
		sub, err := h.materialize(c, code)
		if err != nil {
			return nil, err
		}
		cmd.AddCommand(sub)
	}
	return cmd, nil
}

// execute runs the resolved command. Nothing raised by pre-actions,
// triggers or actions escapes as a panic.
func (h *Host) execute(ctx context.Context, node *Node, cmd *cobra.Command, args []string) (code int) {
	parse := parseCommand(node, cmd, args)
	h.applyVerbosity(parse)

	scope := h.services.NewScope()
	defer func() {
		if err := scope.Close(); err != nil {
			h.log.Warn("closing scope for %q: %s", parse.CommandKey(), cterrors.Summary(err))
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("command %q panicked: %v", parse.CommandKey(), r)
			h.log.Debug("panic stack:\n%s", debug.Stack())
			code = ExitError
		}
	}()

	inv := NewInvocation(parse, scope)
	inv.Out, inv.Err, inv.Logger = h.out, h.errOut, h.log

	if opt := parse.ShortCircuit(); opt != nil {
		h.log.Debug("--%s short-circuits %q", opt.Name, parse.CommandKey())
		if opt.OnTrigger == nil {
			return ExitSuccess
		}
		return opt.OnTrigger(ctx, inv)
	}

	h.pipeline.Run(ctx, inv)

	if errs := parse.Errors(); len(errs) > 0 {
		for _, err := range errs {
			h.log.Debug("parse error: %s", cterrors.Summary(err))
			h.report(err)
		}
		return ExitError
	}

	if node.Action == nil {
		return h.dispatcher.Dispatch(ctx, inv)
	}
	return node.Action(ctx, inv)
}

func (h *Host) applyVerbosity(parse *ParseResult) {
	if h.leveled == nil {
		return
	}
	v, ok := parse.Value(VerbosityOption)
	if !ok {
		return
	}
	s, _ := v.(string)
	level, err := logger.ParseLevel(s)
	if err != nil {
		return
	}
	h.leveled.SetLevel(level)
}

// report writes err for the user. Structured errors carry their own symbol
// and suggestion. Errors reported here are logged at debug level only.
func (h *Host) report(err error) {
	var ctErr *cterrors.Error
	if errors.As(err, &ctErr) {
		fmt.Fprint(h.errOut, err.Error())
		return
	}
	ui.RenderError(h.errOut, err.Error())
}
