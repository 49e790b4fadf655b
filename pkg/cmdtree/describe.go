package cmdtree

import "fmt"

// Description is a serialisable snapshot of a command and its sub-commands.
type Description struct {
	Name        string                `yaml:"name" json:"name"`
	Key         string                `yaml:"key,omitempty" json:"key,omitempty"`
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Aliases     []string              `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Implicit    bool                  `yaml:"implicit,omitempty" json:"implicit,omitempty"`
	Hidden      bool                  `yaml:"hidden,omitempty" json:"hidden,omitempty"`
	Options     []OptionDescription   `yaml:"options,omitempty" json:"options,omitempty"`
	Arguments   []ArgumentDescription `yaml:"arguments,omitempty" json:"arguments,omitempty"`
	Commands    []*Description        `yaml:"commands,omitempty" json:"commands,omitempty"`
}

// OptionDescription describes one option.
type OptionDescription struct {
	Name        string `yaml:"name" json:"name"`
	Shorthand   string `yaml:"shorthand,omitempty" json:"shorthand,omitempty"`
	Type        string `yaml:"type" json:"type"`
	Default     string `yaml:"default,omitempty" json:"default,omitempty"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Recursive   bool   `yaml:"recursive,omitempty" json:"recursive,omitempty"`
	Terminating bool   `yaml:"terminating,omitempty" json:"terminating,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// ArgumentDescription describes one positional argument.
type ArgumentDescription struct {
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Variadic    bool   `yaml:"variadic,omitempty" json:"variadic,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Describe snapshots node and its descendants. It fails on a cyclic tree.
func Describe(node *Node) (*Description, error) {
	return describe(node, make(map[*Node]bool))
}

func describe(n *Node, seen map[*Node]bool) (*Description, error) {
	if seen[n] {
		return nil, circular(n.Name)
	}
	seen[n] = true

	key, err := n.Key()
	if err != nil {
		return nil, err
	}
	d := &Description{
		Name:        n.Name,
		Key:         key,
		Description: n.Description,
		Aliases:     n.Aliases,
		Implicit:    n.implicit,
		Hidden:      n.Hidden,
	}
	for _, o := range n.Options {
		od := OptionDescription{
			Name:        o.Name,
			Shorthand:   o.Shorthand,
			Type:        o.Type.String(),
			Required:    o.IsRequired(),
			Recursive:   o.Recursive,
			Terminating: o.Terminating,
			Description: o.Description,
		}
		if o.Default != nil {
			od.Default = fmt.Sprint(o.Default)
		}
		d.Options = append(d.Options, od)
	}
	for _, a := range n.Arguments {
		d.Arguments = append(d.Arguments, ArgumentDescription{
			Name:        a.Name,
			Type:        a.Type.String(),
			Required:    a.IsRequired(),
			Variadic:    a.Variadic,
			Description: a.Description,
		})
	}
	for _, c := range n.children {
		cd, err := describe(c, seen)
		if err != nil {
			return nil, err
		}
		d.Commands = append(d.Commands, cd)
	}
	return d, nil
}
