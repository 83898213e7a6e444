package namedtree

import (
	"strings"

	"github.com/speakeasy-api/openapi/sequencedmap"
)

// Spec describes the structure shared by a family of trees. Each key maps
// to a child Spec (a directory) or to a leaf marker (a nil child). Keys keep
// the order in which unification inserted them.
type Spec struct {
	children *sequencedmap.Map[string, *Spec]
}

// NewSpec returns an empty spec.
func NewSpec() *Spec {
	return &Spec{children: sequencedmap.New[string, *Spec]()}
}

// SetLeaf records key as a leaf.
func (s *Spec) SetLeaf(key string) {
	s.children.Set(key, nil)
}

// SetDir records key as a directory described by child.
func (s *Spec) SetDir(key string, child *Spec) {
	if child == nil {
		child = NewSpec()
	}
	s.children.Set(key, child)
}

// Len returns the number of keys at this level.
func (s *Spec) Len() int {
	if s == nil {
		return 0
	}
	return s.children.Len()
}

// Keys returns the keys at this level in order.
func (s *Spec) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, s.children.Len())
	for k := range s.children.All() {
		keys = append(keys, k)
	}
	return keys
}

// Has reports whether key exists at this level.
func (s *Spec) Has(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.children.Get(key)
	return ok
}

// IsDir reports whether key is a directory at this level.
func (s *Spec) IsDir(key string) bool {
	_, ok := s.Child(key)
	return ok
}

// Child returns the spec of directory key.
func (s *Spec) Child(key string) (*Spec, bool) {
	if s == nil {
		return nil, false
	}
	child, ok := s.children.Get(key)
	if !ok || child == nil {
		return nil, false
	}
	return child, true
}

// LeafKeys returns the leaf keys at this level in order.
func (s *Spec) LeafKeys() []string {
	if s == nil {
		return nil
	}
	var keys []string
	for k, child := range s.children.All() {
		if child == nil {
			keys = append(keys, k)
		}
	}
	return keys
}

// Paths lists one line per key in depth-first order: leaves as "/a/b",
// directories as "/a/".
func (s *Spec) Paths() []string {
	var out []string
	s.collectPaths(nil, &out)
	return out
}

func (s *Spec) collectPaths(path []string, out *[]string) {
	if s == nil {
		return
	}
	for k, child := range s.children.All() {
		if child == nil {
			*out = append(*out, FormatPath(path, k))
			continue
		}
		*out = append(*out, FormatPath(path, k)+"/")
		child.collectPaths(childPath(path, k), out)
	}
}

func (s *Spec) String() string {
	return strings.Join(s.Paths(), "\n")
}

// Equal reports whether two specs have the same keys, order and kinds.
func (s *Spec) Equal(o *Spec) bool {
	if s.Len() != o.Len() {
		return false
	}
	if s == nil || o == nil {
		return s.Len() == 0 && o.Len() == 0
	}
	okeys := o.Keys()
	i := 0
	for k, child := range s.children.All() {
		if okeys[i] != k {
			return false
		}
		ochild, _ := o.children.Get(k)
		if (child == nil) != (ochild == nil) {
			return false
		}
		if child != nil && !child.Equal(ochild) {
			return false
		}
		i++
	}
	return true
}

// leavesOnly builds a spec holding only the given leaf keys.
func leavesOnly(keys []string) *Spec {
	s := NewSpec()
	for _, k := range keys {
		s.SetLeaf(k)
	}
	return s
}

func childPath(path []string, key string) []string {
	p := make([]string, len(path), len(path)+1)
	copy(p, path)
	return append(p, key)
}
