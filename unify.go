package namedtree

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Unify derives the spec shared by trees. ids supplies one diagnostic
// identity per tree, in the same order.
//
// Keys present in every tree are classified: a key holding a mapping in all
// trees becomes a directory and is unified recursively, a key holding a
// scalar in all trees becomes a leaf. A key holding a mapping in some trees
// only is logged once per disagreeing tree and kept as a leaf. Keys missing
// from some trees are recorded as unexpanded leaves without a diagnostic;
// traversal reports them per tree.
func Unify(trees []Tree, ids []Identity, opts ...Options) (*Spec, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("unify: %w: no trees", ErrArity)
	}
	if len(trees) != len(ids) {
		return nil, fmt.Errorf("unify: %w: %d trees, %d identities", ErrArity, len(trees), len(ids))
	}
	opt := resolveOptions(opts)
	u := &unifier{ids: ids, log: opt.Logger}
	return u.unify(trees, nil), nil
}

type unifier struct {
	ids []Identity
	log Logger
}

func (u *unifier) unify(trees []Tree, path []string) *Spec {
	union, common := keySets(trees)

	spec := NewSpec()
	for _, k := range union {
		spec.SetLeaf(k)
	}

	for _, k := range common {
		subs := make([]Tree, len(trees))
		isDir := make([]bool, len(trees))
		dirs := 0
		for i, t := range trees {
			if sub, ok := asTree(t[k]); ok {
				subs[i] = sub
				isDir[i] = true
				dirs++
			}
		}

		switch dirs {
		case len(trees):
			spec.SetDir(k, u.unify(subs, childPath(path, k)))
		case 0:
			u.log.Debugf("%s is a value", FormatPath(path, k))
		default:
			u.reportMixed(path, k, isDir, dirs)
		}
	}
	return spec
}

// reportMixed logs every tree whose classification of key differs from the
// majority. On a tie the first tree's classification wins.
func (u *unifier) reportMixed(path []string, key string, isDir []bool, dirs int) {
	majority := dirs*2 > len(isDir)
	if dirs*2 == len(isDir) {
		majority = isDir[0]
	}
	p := FormatPath(path, key)
	for i, d := range isDir {
		if d == majority {
			continue
		}
		l := u.log.With(map[string]any{"path": p, "tree": u.ids[i].Name()})
		if d {
			l.Warnf("unmatched data type: %s of %s is a dict", p, u.ids[i].Name())
		} else {
			l.Warnf("unmatched data type: %s of %s is NOT a dict", p, u.ids[i].Name())
		}
	}
}

// keySets returns the sorted union of the trees' keys and the sorted subset
// present in every tree.
func keySets(trees []Tree) (union, common []string) {
	set := treeset.NewWithStringComparator()
	for _, t := range trees {
		for k := range t {
			set.Add(k)
		}
	}

	union = make([]string, 0, set.Size())
	for _, v := range set.Values() {
		k := v.(string)
		union = append(union, k)
		if inAll(k, trees) {
			common = append(common, k)
		}
	}
	return union, common
}

func inAll(key string, trees []Tree) bool {
	for _, t := range trees {
		if _, ok := t[key]; !ok {
			return false
		}
	}
	return true
}

// ExtractSpec returns the spec to drive an operation over values.
//
// When the first value already carries a spec it is returned as is, without
// looking at the other values. Otherwise the optional cache is consulted and
// finally the values are unified.
func ExtractSpec(values []*NamedTree, opts ...Options) (*Spec, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("extract spec: %w: no trees", ErrArity)
	}
	opt := resolveOptions(opts)

	if cached := values[0].Spec(); cached != nil {
		if opt.VerifyCachedSpec {
			verifyCachedSpec(cached, values, opt.Logger)
		}
		return cached, nil
	}

	if opt.Cache != nil {
		if spec, ok := opt.Cache.Lookup(values); ok {
			opt.Logger.Debugf("spec cache hit for %s", truncateList(namesOf(identitiesOf(values)), 5))
			return spec, nil
		}
	}

	spec, err := Unify(treesOf(values), identitiesOf(values), opt)
	if err != nil {
		return nil, err
	}
	if opt.Cache != nil {
		opt.Cache.Store(values, spec)
	}
	return spec, nil
}

// verifyCachedSpec recomputes the spec of values and logs a line diff when
// it no longer matches the cached one.
func verifyCachedSpec(cached *Spec, values []*NamedTree, log Logger) {
	u := &unifier{ids: identitiesOf(values), log: NopLogger()}
	fresh := u.unify(treesOf(values), nil)
	if fresh.Equal(cached) {
		return
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(cached.String()+"\n", fresh.String()+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	log.With(map[string]any{"tree": values[0].Name()}).
		Warnf("cached spec of %s differs from its members:\n%s", values[0].Name(), dmp.DiffPrettyText(diffs))
}
