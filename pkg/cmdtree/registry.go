package cmdtree

import (
	"fmt"
	"sort"

	cterrors "github.com/rileyhilliard/cmdtree/internal/errors"
)

// Registry maps command keys to nodes and assembles them into a tree.
// Registration and BuildTree happen once at startup from a single goroutine;
// the tree is read-only afterwards.
type Registry struct {
	root     *Node
	nodes    map[string]*Node
	explicit map[string]bool
	built    bool
	buildErr error
}

// NewRegistry creates a registry whose root node (key "") carries the
// program name and description.
func NewRegistry(rootName, description string) *Registry {
	root := NewNode(rootName, description)
	return &Registry{
		root:     root,
		nodes:    map[string]*Node{"": root},
		explicit: map[string]bool{"": true},
	}
}

// Root returns the root node.
func (r *Registry) Root() *Node {
	return r.root
}

// Built reports whether BuildTree has completed.
func (r *Registry) Built() bool {
	return r.built
}

// Add registers node at key. The node's Name defaults to the key's last
// segment. A key that GetOrCreate filled in implicitly can still be claimed
// once; the explicit node takes over the placeholder's children.
func (r *Registry) Add(key string, node *Node) error {
	if r.built {
		return alreadyBuilt(key)
	}
	if err := ValidateCommandKey(key); err != nil {
		return err
	}
	if node == nil {
		return cterrors.New(cterrors.ErrRegistry,
			fmt.Sprintf("Cannot register a nil command at %q", key), "")
	}
	if r.explicit[key] {
		return cterrors.WrapWithCode(ErrDuplicateKey, cterrors.ErrRegistry,
			fmt.Sprintf("Command key %q is already registered", key),
			"Register each command key once")
	}

	_, name := ParseCommandKey(key)
	if node.Name == "" {
		node.Name = name
	} else if node.Name != name {
		return invalidKey(key, fmt.Sprintf("the command is named %q", node.Name))
	}

	if placeholder, ok := r.nodes[key]; ok {
		adopt(placeholder, node)
	}
	r.nodes[key] = node
	r.explicit[key] = true
	return nil
}

// adopt moves an implicit placeholder's position and children onto node.
func adopt(placeholder, node *Node) {
	for _, c := range placeholder.children {
		c.parent = node
		node.children = append(node.children, c)
	}
	placeholder.children = nil
	if p := placeholder.parent; p != nil {
		for i, c := range p.children {
			if c == placeholder {
				p.children[i] = node
			}
		}
		node.parent = p
		placeholder.parent = nil
	}
}

// GetOrCreate returns the node at key, creating implicit group nodes for it
// and any missing ancestors. Repeated calls return the same node.
func (r *Registry) GetOrCreate(key string) (*Node, error) {
	if n, ok := r.nodes[key]; ok {
		return n, nil
	}
	if r.built {
		return nil, alreadyBuilt(key)
	}
	if err := ValidateCommandKey(key); err != nil {
		return nil, err
	}

	parentKey, name := ParseCommandKey(key)
	parent, err := r.GetOrCreate(parentKey)
	if err != nil {
		return nil, err
	}
	node := newImplicitNode(name)
	if err := parent.AddChild(node); err != nil {
		return nil, err
	}
	r.nodes[key] = node
	return node, nil
}

// AddToParent attaches node beneath the node resolved from key's parent
// path, creating missing ancestors.
func (r *Registry) AddToParent(key string, node *Node) error {
	parentKey, _ := ParseCommandKey(key)
	if key == "" {
		return circular(node.Name)
	}
	parent, err := r.GetOrCreate(parentKey)
	if err != nil {
		return err
	}
	return parent.AddChild(node)
}

// Lookup returns the node registered or created at key.
func (r *Registry) Lookup(key string) (*Node, bool) {
	n, ok := r.nodes[key]
	return n, ok
}

// Keys returns the explicitly registered keys in sorted order, excluding the root.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.explicit))
	for k := range r.explicit {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// BuildTree wires every registered node under its parent and installs
// defaultAction on nodes without their own. Keys are processed in sorted
// order: a parent key is a strict prefix of its children's keys, so parents
// are always wired first. A failed build is final: later calls return the
// same error without running Configure callbacks again.
func (r *Registry) BuildTree(defaultAction Action) (*Node, error) {
	if r.built {
		return nil, alreadyBuilt("")
	}
	if r.buildErr != nil {
		return nil, r.buildErr
	}
	if err := r.buildTree(defaultAction); err != nil {
		r.buildErr = err
		return nil, err
	}
	r.built = true
	return r.root, nil
}

func (r *Registry) buildTree(defaultAction Action) error {
	for _, key := range r.Keys() {
		if err := r.AddToParent(key, r.nodes[key]); err != nil {
			return err
		}
	}
	return r.root.Walk(func(n *Node) error {
		if n.Configure != nil {
			n.Configure(n)
		}
		if err := n.validateDeclarations(); err != nil {
			return err
		}
		if n.Action == nil {
			n.Action = defaultAction
		}
		return nil
	})
}

func alreadyBuilt(key string) error {
	return cterrors.WrapWithCode(ErrAlreadyBuilt, cterrors.ErrRegistry,
		fmt.Sprintf("Cannot change command %q: the command tree is already built", key),
		"Register all commands before building the tree")
}
