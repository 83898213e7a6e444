package namedtree

import (
	"fmt"
	"strings"
)

// Tree is a nested mapping. A value is either another Tree or a scalar.
type Tree = map[string]any

// Identity is the per-tree descriptor used in diagnostics and report rows.
type Identity interface {
	Name() string
}

// NamedTree pairs a tree with a display name. It may carry the spec that
// was derived for it as part of a group; once attached the spec is reused
// by reference and never recomputed for this value.
type NamedTree struct {
	name string
	tree Tree
	spec *Spec
}

// New returns a NamedTree wrapping tree.
func New(name string, tree Tree) *NamedTree {
	return &NamedTree{name: name, tree: tree}
}

// Name returns the display name.
func (t *NamedTree) Name() string {
	return t.name
}

// SetName renames the tree.
func (t *NamedTree) SetName(name string) {
	t.name = name
}

// Tree returns the wrapped tree. A nil tree reads as empty.
func (t *NamedTree) Tree() Tree {
	if t.tree == nil {
		return Tree{}
	}
	return t.tree
}

// SetTree replaces the wrapped tree. An attached spec is kept.
func (t *NamedTree) SetTree(tree Tree) {
	t.tree = tree
}

// Spec returns the attached spec, or nil.
func (t *NamedTree) Spec() *Spec {
	return t.spec
}

// AttachSpec records spec as this value's shared spec. Only the first
// attachment takes effect; it reports whether spec was attached.
func (t *NamedTree) AttachSpec(spec *Spec) bool {
	if t.spec != nil || spec == nil {
		return false
	}
	t.spec = spec
	return true
}

// Branch returns the sub-tree at path as a new NamedTree named after the path.
func (t *NamedTree) Branch(path ...string) (*NamedTree, error) {
	node := t.Tree()
	for i, key := range path {
		v, ok := node[key]
		if !ok {
			return nil, fmt.Errorf("%s: %w: %s", t.name, ErrNotFound, FormatPath(path[:i+1]))
		}
		sub, ok := asTree(v)
		if !ok {
			return nil, fmt.Errorf("%s: %w: %s is not a directory", t.name, ErrTypeMismatch, FormatPath(path[:i+1]))
		}
		node = sub
	}
	return New(strings.Join(path, "/"), node), nil
}

func (t *NamedTree) String() string {
	return fmt.Sprintf("NamedTree{%s}", t.name)
}

func asTree(v any) (Tree, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func treesOf(values []*NamedTree) []Tree {
	trees := make([]Tree, len(values))
	for i, v := range values {
		trees[i] = v.Tree()
	}
	return trees
}

func identitiesOf(values []*NamedTree) []Identity {
	ids := make([]Identity, len(values))
	for i, v := range values {
		ids[i] = v
	}
	return ids
}

func namesOf(ids []Identity) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Name()
	}
	return names
}
