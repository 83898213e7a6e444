package namedtree

import (
	"fmt"
)

// Mode selects the granularity at which an Op is applied.
type Mode int

const (
	// ModeLeaf applies the operation once per leaf key.
	ModeLeaf Mode = iota
	// ModeDir applies the operation once per directory, over all of its
	// leaf keys at once.
	ModeDir
)

func (m Mode) String() string {
	switch m {
	case ModeLeaf:
		return "leaf"
	case ModeDir:
		return "directory"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// LeafFunc is applied to one leaf key. path is the directory holding key and
// values holds each tree's value at key, in tree order.
type LeafFunc func(path []string, key string, values []any, ids []Identity) (any, error)

// DirFunc is applied to one directory. path is the directory's parent, key
// the directory itself, leaves the directory's leaf keys that are present
// in every tree, and nodes each tree's mapping at key.
type DirFunc func(path []string, key string, leaves *Spec, nodes []Tree, ids []Identity) (any, error)

// Op is an operation the traversal engine applies across aligned trees.
type Op struct {
	Mode Mode
	Leaf LeafFunc
	Dir  DirFunc
}

func (op Op) validate() error {
	switch op.Mode {
	case ModeLeaf:
		if op.Leaf == nil {
			return fmt.Errorf("leaf mode operation without a leaf function")
		}
	case ModeDir:
		if op.Dir == nil {
			return fmt.Errorf("directory mode operation without a directory function")
		}
	default:
		return fmt.Errorf("unknown operation mode %v", op.Mode)
	}
	return nil
}

// Traverse walks spec over trees and applies op, returning a result tree
// with the spec's shape.
//
// Keys missing from some trees are logged per tree and skipped. A key whose
// kind in some tree differs from the spec aborts the walk with a
// *MismatchError. Errors returned by op are returned unchanged.
func Traverse(spec *Spec, trees []Tree, ids []Identity, op Op, opts ...Options) (Tree, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("traverse: %w: no trees", ErrArity)
	}
	if len(trees) != len(ids) {
		return nil, fmt.Errorf("traverse: %w: %d trees, %d identities", ErrArity, len(trees), len(ids))
	}
	if err := op.validate(); err != nil {
		return nil, fmt.Errorf("traverse: %w", err)
	}
	opt := resolveOptions(opts)

	w := &walker{op: op, ids: ids, log: opt.Logger}
	result, leaves, err := w.walk(spec, trees, nil)
	if err != nil {
		return nil, err
	}
	if op.Mode == ModeDir {
		for _, k := range leaves {
			w.log.With(map[string]any{"path": FormatPath(nil, k)}).
				Warnf("%s has no enclosing directory, skipped", FormatPath(nil, k))
		}
	}
	return result, nil
}

type walker struct {
	op  Op
	ids []Identity
	log Logger
}

// walk visits one spec level. In directory mode it returns the matched leaf
// keys instead of applying op to them; the caller applies op once it knows
// the directory's key.
func (w *walker) walk(spec *Spec, nodes []Tree, path []string) (Tree, []string, error) {
	result := Tree{}
	var leaves []string

	for _, k := range spec.Keys() {
		if w.missing(k, nodes, path) {
			continue
		}

		if child, ok := spec.Child(k); ok {
			subs, err := w.subtrees(k, nodes, path)
			if err != nil {
				return nil, nil, err
			}
			sub, subLeaves, err := w.walk(child, subs, childPath(path, k))
			if err != nil {
				return nil, nil, err
			}
			if w.op.Mode == ModeDir && len(subLeaves) > 0 {
				v, err := w.op.Dir(clonePath(path), k, leavesOnly(subLeaves), subs, w.ids)
				if err != nil {
					return nil, nil, err
				}
				result[k] = v
				continue
			}
			result[k] = sub
			continue
		}

		values, err := w.values(k, nodes, path)
		if err != nil {
			return nil, nil, err
		}
		if w.op.Mode == ModeDir {
			leaves = append(leaves, k)
			continue
		}
		v, err := w.op.Leaf(clonePath(path), k, values, w.ids)
		if err != nil {
			return nil, nil, err
		}
		result[k] = v
	}
	return result, leaves, nil
}

// missing logs every tree lacking key and reports whether any did.
func (w *walker) missing(key string, nodes []Tree, path []string) bool {
	found := false
	for i, n := range nodes {
		if _, ok := n[key]; ok {
			continue
		}
		found = true
		p := FormatPath(path, key)
		w.log.With(map[string]any{"path": p, "tree": w.ids[i].Name()}).
			Warnf("%s has no data at %s", w.ids[i].Name(), p)
	}
	return found
}

func (w *walker) subtrees(key string, nodes []Tree, path []string) ([]Tree, error) {
	subs := make([]Tree, len(nodes))
	var bad []string
	for i, n := range nodes {
		sub, ok := asTree(n[key])
		if !ok {
			bad = append(bad, w.ids[i].Name())
			continue
		}
		subs[i] = sub
	}
	if len(bad) > 0 {
		return nil, &MismatchError{Path: clonePath(path), Key: key, Want: KindDir, Offenders: bad}
	}
	return subs, nil
}

func (w *walker) values(key string, nodes []Tree, path []string) ([]any, error) {
	values := make([]any, len(nodes))
	var bad []string
	for i, n := range nodes {
		if _, ok := asTree(n[key]); ok {
			bad = append(bad, w.ids[i].Name())
			continue
		}
		values[i] = n[key]
	}
	if len(bad) > 0 {
		return nil, &MismatchError{Path: clonePath(path), Key: key, Want: KindLeaf, Offenders: bad}
	}
	return values, nil
}

func clonePath(path []string) []string {
	return append([]string(nil), path...)
}
