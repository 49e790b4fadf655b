package cmdtree

import (
	"context"
	"fmt"
	"slices"
	"strings"

	cterrors "github.com/rileyhilliard/cmdtree/internal/errors"
)

// Action is what runs for a resolved command once the option pipeline has
// finished. It returns the process exit code. Nodes without an explicit
// Action get the dispatcher installed by BuildTree.
type Action func(ctx context.Context, inv *Invocation) int

// Binder turns a parse result into the command's parameter payload.
// Several nodes may share one Binder when their payloads share a base.
type Binder func(p *ParseResult) (any, error)

// Node is one command in the tree. Exported fields are declarations set
// before BuildTree; the tree must not be changed afterwards.
type Node struct {
	Name        string
	Description string
	Long        string
	Aliases     []string
	Hidden      bool

	Options   []*Option
	Arguments []*Argument

	// Action overrides the default dispatcher for this node.
	Action Action

	// Bind produces the parameter payload handed to handlers via Invocation.Params.
	Bind Binder

	// Configure runs once during BuildTree, after options and arguments are attached.
	Configure func(n *Node)

	implicit bool
	parent   *Node
	children []*Node
}

// NewNode creates a node with a name and one-line description.
func NewNode(name, description string) *Node {
	return &Node{Name: name, Description: description}
}

// newImplicitNode creates a group node for a key segment nobody declared.
func newImplicitNode(name string) *Node {
	return &Node{
		Name:        name,
		Description: fmt.Sprintf("Commands under %q", name),
		implicit:    true,
	}
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// HasChildren reports whether the node is a group command.
func (n *Node) HasChildren() bool {
	return len(n.children) > 0
}

// IsImplicit reports whether the node was created to fill a gap in a key path.
func (n *Node) IsImplicit() bool {
	return n.implicit
}

// Child returns the direct child with the given name or alias.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if c.Name == name {
			return c
		}
		for _, a := range c.Aliases {
			if a == name {
				return c
			}
		}
	}
	return nil
}

// AddChild attaches child under n. A child belongs to one parent, and its
// name and aliases must not collide with a sibling's. Attachments that would
// make a node its own ancestor are refused.
func (n *Node) AddChild(child *Node) error {
	if child == nil {
		return cterrors.New(cterrors.ErrRegistry, "Cannot attach a nil command", "")
	}
	chain, err := n.ancestors()
	if err != nil {
		return err
	}
	for _, a := range append(chain, n) {
		if a == child {
			return circular(child.Name)
		}
	}
	if child.parent != nil && child.parent != n {
		return cterrors.WrapWithCode(ErrAlreadyAttached, cterrors.ErrRegistry,
			fmt.Sprintf("Command %q is already a child of %q", child.Name, child.parent.Name),
			"Register a separate node for each parent")
	}
	for _, c := range n.children {
		if c == child {
			continue
		}
		if name, ok := sharedName(c, child); ok {
			return cterrors.WrapWithCode(ErrDuplicateKey, cterrors.ErrRegistry,
				fmt.Sprintf("Command %q already has a child named or aliased %q", n.Name, name),
				"Give each sub-command a unique name and aliases")
		}
	}
	if child.parent == n {
		return nil
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// sharedName returns the first name or alias a and b have in common.
func sharedName(a, b *Node) (string, bool) {
	names := append([]string{a.Name}, a.Aliases...)
	for _, name := range append([]string{b.Name}, b.Aliases...) {
		if slices.Contains(names, name) {
			return name, true
		}
	}
	return "", false
}

// ancestors returns the parent chain from the root down to n's parent.
func (n *Node) ancestors() ([]*Node, error) {
	var chain []*Node
	seen := map[*Node]bool{n: true}
	for p := n.parent; p != nil; p = p.parent {
		if seen[p] {
			return nil, circular(n.Name)
		}
		seen[p] = true
		chain = append(chain, p)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Key computes the node's full command key by walking to the root.
// The root's own name is not part of any key.
func (n *Node) Key() (string, error) {
	chain, err := n.ancestors()
	if err != nil {
		return "", err
	}
	if len(chain) == 0 {
		return "", nil
	}
	segments := make([]string, 0, len(chain))
	for _, a := range chain[1:] {
		segments = append(segments, a.Name)
	}
	segments = append(segments, n.Name)
	return strings.Join(segments, " "), nil
}

// Walk visits n and its descendants depth-first, pre-order. A node reached
// twice means the tree has a cycle.
func (n *Node) Walk(fn func(*Node) error) error {
	seen := make(map[*Node]bool)
	var visit func(*Node) error
	visit = func(node *Node) error {
		if seen[node] {
			return circular(node.Name)
		}
		seen[node] = true
		if err := fn(node); err != nil {
			return err
		}
		for _, c := range node.children {
			if err := visit(c); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(n)
}

// EffectiveOptions returns the node's own options followed by recursive
// options inherited from ancestors. The nearest declaration of a name wins.
func (n *Node) EffectiveOptions() []*Option {
	out := make([]*Option, 0, len(n.Options))
	names := make(map[string]bool)
	for _, o := range n.Options {
		out = append(out, o)
		names[o.Name] = true
	}
	chain, err := n.ancestors()
	if err != nil {
		return out
	}
	for i := len(chain) - 1; i >= 0; i-- {
		for _, o := range chain[i].Options {
			if o.Recursive && !names[o.Name] {
				out = append(out, o)
				names[o.Name] = true
			}
		}
	}
	return out
}

func circular(name string) error {
	return cterrors.WrapWithCode(ErrCircularReference, cterrors.ErrRegistry,
		fmt.Sprintf("Circular reference detected at command %q", name),
		"A command cannot be registered beneath itself")
}
