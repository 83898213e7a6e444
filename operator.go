package namedtree

import (
	"fmt"
	"sort"
	"strings"
)

// Descriptor describes a value-returning operator: how many trees it takes,
// the traversal mode it runs in and the function applied at each step.
type Descriptor struct {
	Name   string
	Prefix string // result name prefix, e.g. "the sum of"
	Arity  int    // exact number of trees; 0 means one or more
	Mode   Mode
	Leaf   LeafFunc
	Dir    DirFunc
}

// Apply runs the operator across values and wraps the result tree in a new
// NamedTree named "<prefix> <name1> <name2> ...".
func (d Descriptor) Apply(values []*NamedTree, opts ...Options) (*NamedTree, error) {
	if err := d.checkArity(len(values)); err != nil {
		return nil, err
	}
	opt := resolveOptions(opts)

	ids := opt.Identities
	if ids == nil {
		ids = identitiesOf(values)
	}
	if len(ids) != len(values) {
		return nil, &OperatorError{Op: d.Name, Err: fmt.Errorf("%w: %d trees, %d identities", ErrArity, len(values), len(ids))}
	}

	spec, err := ExtractSpec(values, opt)
	if err != nil {
		return nil, err
	}
	result, err := Traverse(spec, treesOf(values), ids, Op{Mode: d.Mode, Leaf: d.Leaf, Dir: d.Dir}, opt)
	if err != nil {
		return nil, err
	}
	return New(fmt.Sprintf("%s %s", d.Prefix, strings.Join(namesOf(ids), " ")), result), nil
}

func (d Descriptor) checkArity(n int) error {
	switch {
	case n == 0:
		return &OperatorError{Op: d.Name, Err: fmt.Errorf("%w: no trees", ErrArity)}
	case d.Arity > 0 && n != d.Arity:
		return &OperatorError{Op: d.Name, Err: fmt.Errorf("%w: want %d, got %d", ErrArity, d.Arity, n)}
	}
	return nil
}

// Registry maps operator names to descriptors.
type Registry struct {
	ops map[string]Descriptor
}

// NewRegistry returns a registry holding descs.
func NewRegistry(descs ...Descriptor) (*Registry, error) {
	r := &Registry{ops: make(map[string]Descriptor, len(descs))}
	for _, d := range descs {
		if err := r.Register(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds d. Names are unique.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("register operator: empty name")
	}
	if _, ok := r.ops[d.Name]; ok {
		return fmt.Errorf("register operator %q: already registered", d.Name)
	}
	if err := (Op{Mode: d.Mode, Leaf: d.Leaf, Dir: d.Dir}).validate(); err != nil {
		return fmt.Errorf("register operator %q: %w", d.Name, err)
	}
	r.ops[d.Name] = d
	return nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, error) {
	d, ok := r.ops[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownOperator, name, strings.Join(r.Names(), ", "))
	}
	return d, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	SumOp = Descriptor{
		Name:   "sum",
		Prefix: "the sum of",
		Mode:   ModeLeaf,
		Leaf:   sumLeaf,
	}
	AverageOp = Descriptor{
		Name:   "average",
		Prefix: "the average of",
		Mode:   ModeLeaf,
		Leaf:   averageLeaf,
	}
	DiffRatioOp = Descriptor{
		Name:   "diff_ratio",
		Prefix: "the diff ratio of",
		Arity:  2,
		Mode:   ModeLeaf,
		Leaf:   diffRatioLeaf,
	}
	UnionOp = Descriptor{
		Name:   "union",
		Prefix: "the union list of",
		Mode:   ModeLeaf,
		Leaf:   unionLeaf,
	}
)

// DefaultRegistry returns a new registry holding the built-in operators.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(SumOp, AverageOp, DiffRatioOp, UnionOp)
	if err != nil {
		panic(err)
	}
	return r
}

// Sum adds the trees leaf by leaf.
func Sum(values ...*NamedTree) (*NamedTree, error) {
	return SumOp.Apply(values)
}

// Average is Sum divided by the number of trees.
func Average(values ...*NamedTree) (*NamedTree, error) {
	return AverageOp.Apply(values)
}

// DiffRatio computes (b - a) / a leaf by leaf.
func DiffRatio(a, b *NamedTree) (*NamedTree, error) {
	return DiffRatioOp.Apply([]*NamedTree{a, b})
}

// Union lists every tree's value at each leaf, in argument order.
func Union(values ...*NamedTree) (*NamedTree, error) {
	return UnionOp.Apply(values)
}

func numbers(op string, path []string, key string, values []any, ids []Identity) ([]number, error) {
	ns := make([]number, len(values))
	for i, v := range values {
		n, ok := toNumber(v)
		if !ok {
			return nil, &OperatorError{Op: op, Path: path, Key: key,
				Err: fmt.Errorf("%w: %s holds %T", ErrNotNumber, ids[i].Name(), v)}
		}
		ns[i] = n
	}
	return ns, nil
}

func sumLeaf(path []string, key string, values []any, ids []Identity) (any, error) {
	ns, err := numbers("sum", path, key, values, ids)
	if err != nil {
		return nil, err
	}
	return addNumbers(ns).value(), nil
}

func averageLeaf(path []string, key string, values []any, ids []Identity) (any, error) {
	ns, err := numbers("average", path, key, values, ids)
	if err != nil {
		return nil, err
	}
	return addNumbers(ns).float() / float64(len(ns)), nil
}

func diffRatioLeaf(path []string, key string, values []any, ids []Identity) (any, error) {
	if len(values) != 2 {
		return nil, &OperatorError{Op: "diff_ratio", Path: path, Key: key,
			Err: fmt.Errorf("%w: want 2, got %d", ErrArity, len(values))}
	}
	ns, err := numbers("diff_ratio", path, key, values, ids)
	if err != nil {
		return nil, err
	}
	base := ns[0].float()
	if base == 0 {
		return nil, &OperatorError{Op: "diff_ratio", Path: path, Key: key,
			Err: fmt.Errorf("%w: %s is 0", ErrDivisionByZero, ids[0].Name())}
	}
	return (ns[1].float() - base) / base, nil
}

func unionLeaf(path []string, key string, values []any, ids []Identity) (any, error) {
	return append([]any(nil), values...), nil
}
