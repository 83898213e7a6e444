package namedtree

import (
	"fmt"
	"io"
	"strings"
)

// Formatter renders the value of leaf key held by the member at pos.
type Formatter func(key string, pos int, v any) string

// RowSuffix returns text appended to a report row, or "". path is the
// row's directory path; nodes holds each member's mapping at it.
type RowSuffix func(path []string, leaves *Spec, nodes []Tree) string

// Group is a fixed, ordered set of named trees sharing one spec. It applies
// registered operators across its members and renders them side by side.
type Group struct {
	members  []*NamedTree
	spec     *Spec
	widths   *Widths
	registry *Registry
	opts     Options

	separator string
	format    Formatter
	suffix    RowSuffix
	order     []string
}

// GroupOption configures a Group.
type GroupOption func(*Group)

// WithOptions sets the Options used for every traversal the group runs.
func WithOptions(opts Options) GroupOption {
	return func(g *Group) { g.opts = opts }
}

// WithRegistry replaces the built-in operator registry.
func WithRegistry(r *Registry) GroupOption {
	return func(g *Group) { g.registry = r }
}

// WithSeparator sets the string joining path keys in row labels (default "/").
func WithSeparator(sep string) GroupOption {
	return func(g *Group) { g.separator = sep }
}

// WithFormatter sets how leaf values are rendered in reports.
func WithFormatter(f Formatter) GroupOption {
	return func(g *Group) { g.format = f }
}

// WithRowSuffix sets a function whose result ends every report row.
func WithRowSuffix(f RowSuffix) GroupOption {
	return func(g *Group) { g.suffix = f }
}

// WithColumnOrder makes report rows print the named leaf keys first, in
// the given order. Other keys follow in spec order.
func WithColumnOrder(keys ...string) GroupOption {
	return func(g *Group) { g.order = append([]string(nil), keys...) }
}

// NewGroup derives the members' shared spec once and attaches it to every
// member.
func NewGroup(members []*NamedTree, opts ...GroupOption) (*Group, error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("new group: %w: no members", ErrArity)
	}
	g := &Group{
		members:   append([]*NamedTree(nil), members...),
		widths:    newWidths(),
		separator: "/",
		format:    func(_ string, _ int, v any) string { return FormatScalar(v) },
	}
	for _, o := range opts {
		o(g)
	}
	if g.registry == nil {
		g.registry = DefaultRegistry()
	}
	g.opts = resolveOptions([]Options{g.opts})

	spec, err := ExtractSpec(g.members, g.opts)
	if err != nil {
		return nil, fmt.Errorf("new group: %w", err)
	}
	g.spec = spec
	for _, m := range g.members {
		m.AttachSpec(spec)
	}
	return g, nil
}

// Members returns the members in order.
func (g *Group) Members() []*NamedTree {
	return append([]*NamedTree(nil), g.members...)
}

// Len returns the number of members.
func (g *Group) Len() int {
	return len(g.members)
}

// Spec returns the shared spec.
func (g *Group) Spec() *Spec {
	return g.spec
}

// Op resolves a registered operator to a call over the whole member list,
// with the members as diagnostic identities.
func (g *Group) Op(name string) (func() (*NamedTree, error), error) {
	d, err := g.registry.Lookup(name)
	if err != nil {
		return nil, err
	}
	return func() (*NamedTree, error) {
		opt := g.opts
		opt.Identities = g.identities()
		return d.Apply(g.members, opt)
	}, nil
}

// Apply runs the operator registered under name across the members.
func (g *Group) Apply(name string) (*NamedTree, error) {
	fn, err := g.Op(name)
	if err != nil {
		return nil, err
	}
	return fn()
}

// PaintDefault writes every member's leaves, see PaintDefault.
func (g *Group) PaintDefault(w io.Writer) error {
	opt := g.opts
	opt.Identities = g.identities()
	return PaintDefault(w, g.members, opt)
}

// Widths returns a copy of the accumulated width table.
func (g *Group) Widths() Widths {
	return g.widths.clone()
}

// PresetWidth raises the minimum widths of column key, one per position.
func (g *Group) PresetWidth(key string, widths ...int) {
	for pos, w := range widths {
		g.widths.widen(key, pos, w)
	}
}

// ObserveWidth widens column key at pos to fit text, e.g. a header cell.
func (g *Group) ObserveWidth(key string, pos int, text string) {
	g.widths.ObserveCell(key, pos, text)
}

// ObserveLabelWidth widens the label column to fit text.
func (g *Group) ObserveLabelWidth(text string) {
	g.widths.ObserveLabel(text)
}

// AccumWidth walks every leaf and widens the width table to fit the row
// labels and the rendered values, per key and member position.
func (g *Group) AccumWidth() error {
	_, err := Traverse(g.spec, treesOf(g.members), g.identities(), Op{
		Mode: ModeLeaf,
		Leaf: func(path []string, key string, values []any, _ []Identity) (any, error) {
			g.widths.ObserveLabel(g.label(path))
			for pos, v := range values {
				g.widths.ObserveCell(key, pos, g.format(key, pos, v))
			}
			return nil, nil
		},
	}, g.opts)
	return err
}

// Render writes one row per directory holding leaves: the directory path,
// then every member's value for each leaf key, aligned to the accumulated
// widths and separated by tabs.
func (g *Group) Render(w io.Writer) error {
	return g.rows(w, true)
}

// PaintMono writes the same rows as Render without padding.
func (g *Group) PaintMono(w io.Writer) error {
	return g.rows(w, false)
}

func (g *Group) rows(w io.Writer, aligned bool) error {
	_, err := Traverse(g.spec, treesOf(g.members), g.identities(), Op{
		Mode: ModeDir,
		Dir: func(path []string, key string, leaves *Spec, nodes []Tree, _ []Identity) (any, error) {
			var b strings.Builder
			label := g.label(childPath(path, key))
			if aligned {
				label = padRight(label, g.widths.Label)
			}
			b.WriteString(label)
			for _, k := range g.Columns(leaves.Keys()) {
				for pos, n := range nodes {
					cell := g.format(k, pos, n[k])
					if aligned {
						cell = padLeft(cell, g.widths.Column(k, pos))
					}
					b.WriteByte('\t')
					b.WriteString(cell)
				}
			}
			if g.suffix != nil {
				if s := g.suffix(childPath(path, key), leaves, nodes); s != "" {
					b.WriteByte('\t')
					b.WriteString(s)
				}
			}
			b.WriteByte('\n')
			_, err := io.WriteString(w, b.String())
			return nil, err
		},
	}, g.opts)
	return err
}

// Columns orders a row's leaf keys for rendering.
func (g *Group) Columns(keys []string) []string {
	if len(g.order) == 0 {
		return keys
	}
	present := make(map[string]bool, len(keys))
	for _, k := range keys {
		present[k] = true
	}
	out := make([]string, 0, len(keys))
	for _, k := range g.order {
		if present[k] {
			out = append(out, k)
			delete(present, k)
		}
	}
	for _, k := range keys {
		if present[k] {
			out = append(out, k)
		}
	}
	return out
}

func (g *Group) label(path []string) string {
	return strings.Join(path, g.separator)
}

func (g *Group) identities() []Identity {
	return identitiesOf(g.members)
}
