// Package treeio reads and writes named trees as YAML or JSON documents.
package treeio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/speakeasy-api/namedtree"
	"gopkg.in/yaml.v3"
)

// LoadFile decodes the tree stored in path. The tree is named after the
// file's base name without its extension.
func LoadFile(path string) (*namedtree.NamedTree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	t, err := Decode(f, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Decode reads one YAML (or JSON) mapping from r.
func Decode(r io.Reader, name string) (*namedtree.NamedTree, error) {
	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return namedtree.New(name, namedtree.Tree{}), nil
		}
		return nil, fmt.Errorf("failed to decode tree: %w", err)
	}
	if doc == nil {
		return namedtree.New(name, namedtree.Tree{}), nil
	}
	tree, ok := Normalize(doc).(namedtree.Tree)
	if !ok {
		return nil, fmt.Errorf("failed to decode tree: top level is %T, not a mapping", doc)
	}
	return namedtree.New(name, tree), nil
}

// Normalize converts decoded YAML into tree form: mappings with non-string
// keys (e.g. the integer file sizes of a benchmark) get their keys
// stringified, and nested mappings become namedtree.Tree.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(namedtree.Tree, len(t))
		for k, e := range t {
			out[k] = Normalize(e)
		}
		return out
	case map[any]any:
		out := make(namedtree.Tree, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = Normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Normalize(e)
		}
		return out
	default:
		return v
	}
}

// Encode writes tree as a YAML document with sorted keys.
func Encode(w io.Writer, tree namedtree.Tree) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tree); err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}
	return enc.Close()
}
