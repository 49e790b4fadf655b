package cmdtree

// CommandBuilder declares one command fluently. Builders are created by
// Host.Command and take effect when the host is built.
type CommandBuilder struct {
	key     string
	node    *Node
	handler HandlerFactory
}

// Node returns the node being declared.
func (b *CommandBuilder) Node() *Node {
	return b.node
}

// Key returns the command key.
func (b *CommandBuilder) Key() string {
	return b.key
}

// Long sets the help text shown by --help.
func (b *CommandBuilder) Long(text string) *CommandBuilder {
	b.node.Long = text
	return b
}

// Alias adds alternative names.
func (b *CommandBuilder) Alias(names ...string) *CommandBuilder {
	b.node.Aliases = append(b.node.Aliases, names...)
	return b
}

// Hidden hides the command from help and tree listings.
func (b *CommandBuilder) Hidden() *CommandBuilder {
	b.node.Hidden = true
	return b
}

// Option adds a flag.
func (b *CommandBuilder) Option(o *Option) *CommandBuilder {
	b.node.Options = append(b.node.Options, o)
	return b
}

// Argument adds a positional argument. Arguments bind in declaration order.
func (b *CommandBuilder) Argument(a *Argument) *CommandBuilder {
	b.node.Arguments = append(b.node.Arguments, a)
	return b
}

// Bind sets the parameter binder.
func (b *CommandBuilder) Bind(fn Binder) *CommandBuilder {
	b.node.Bind = fn
	return b
}

// Handler registers factory as the command's handler, keyed by the command key.
func (b *CommandBuilder) Handler(factory HandlerFactory) *CommandBuilder {
	b.handler = factory
	return b
}

// HandleFunc registers fn as a stateless handler.
func (b *CommandBuilder) HandleFunc(fn HandlerFunc) *CommandBuilder {
	return b.Handler(func(Provider) (Handler, error) { return fn, nil })
}

// Action replaces the default dispatcher for this command.
func (b *CommandBuilder) Action(a Action) *CommandBuilder {
	b.node.Action = a
	return b
}

// Configure registers a callback that runs once while the tree is built.
func (b *CommandBuilder) Configure(fn func(n *Node)) *CommandBuilder {
	b.node.Configure = fn
	return b
}
