package namedtree

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// PaintDefault writes every leaf of values, one line per tree:
//
//	/a/b/x of T1 is 1
//	          T2 is 3
func PaintDefault(w io.Writer, values []*NamedTree, opts ...Options) error {
	return paint(w, values, func(path []string, key string, vals []any, ids []Identity) (any, error) {
		prefix := FormatPath(path, key)
		if _, err := fmt.Fprintf(w, "%s of %s is %s\n", prefix, ids[0].Name(), FormatScalar(vals[0])); err != nil {
			return nil, err
		}
		pad := strings.Repeat(" ", runewidth.StringWidth(prefix))
		for i := 1; i < len(vals); i++ {
			if _, err := fmt.Fprintf(w, "%s    %s is %s\n", pad, ids[i].Name(), FormatScalar(vals[i])); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}, opts)
}

// PaintSpec writes the path of every leaf shared by values, one per line.
func PaintSpec(w io.Writer, values []*NamedTree, opts ...Options) error {
	return paint(w, values, func(path []string, key string, _ []any, _ []Identity) (any, error) {
		_, err := fmt.Fprintln(w, FormatPath(path, key))
		return nil, err
	}, opts)
}

func paint(w io.Writer, values []*NamedTree, fn LeafFunc, opts []Options) error {
	if len(values) == 0 {
		return fmt.Errorf("paint: %w: no trees", ErrArity)
	}
	opt := resolveOptions(opts)
	ids := opt.Identities
	if ids == nil {
		ids = identitiesOf(values)
	}
	spec, err := ExtractSpec(values, opt)
	if err != nil {
		return err
	}
	_, err = Traverse(spec, treesOf(values), ids, Op{Mode: ModeLeaf, Leaf: fn}, opt)
	return err
}
