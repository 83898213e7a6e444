package namedtree

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/golang/groupcache/lru"
)

// SpecCache keeps derived specs out of band, keyed by the ordered member
// set they were derived for. Members are identified by pointer and name,
// so two calls over the same values in the same order share a spec, while
// a reordered or different member list does not.
type SpecCache struct {
	mu    sync.Mutex
	cache *lru.Cache
}

// NewSpecCache creates a cache holding at most maxEntries specs.
// Zero means no limit.
func NewSpecCache(maxEntries int) *SpecCache {
	return &SpecCache{cache: lru.New(maxEntries)}
}

// Lookup returns the spec stored for values.
func (c *SpecCache) Lookup(values []*NamedTree) (*Spec, bool) {
	key := memberKey(values)

	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	return v.(*Spec), true
}

// Store records spec for values.
func (c *SpecCache) Store(values []*NamedTree, spec *Spec) {
	key := memberKey(values)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(key, spec)
}

// Len returns the number of cached specs.
func (c *SpecCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

// memberKey fingerprints the ordered member set. Each entry is written as a
// length-prefixed record so that ("ab","c") and ("a","bc") differ.
func memberKey(values []*NamedTree) string {
	h := sha256.New()
	var n [8]byte
	for _, v := range values {
		rec := fmt.Sprintf("%p|%s", v, v.Name())
		binary.BigEndian.PutUint64(n[:], uint64(len(rec)))
		h.Write(n[:])
		h.Write([]byte(rec))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
