package descriptors

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of resolutions kept by a Cache
const DefaultCacheSize = 32

// ErrInvalidCacheSize is returned for a non-positive cache size
var ErrInvalidCacheSize = errors.New("cache size must be positive")

// Cache memoizes rendered descriptors by the fingerprint of their request.
// Rendering is a pure function of the request, so a hit is always valid.
type Cache struct {
	entries *lru.Cache[string, []File]
	hits    atomic.Int64
	misses  atomic.Int64
}

// NewCache creates a cache holding up to size resolutions
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidCacheSize
	}
	entries, err := lru.New[string, []File](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Generate returns the cached files for req or renders them with r
func (c *Cache) Generate(r *Registry, req *Request) ([]File, bool, error) {
	if req == nil || req.Resolution == nil {
		return nil, false, NewMissingRequiredFieldError("resolution")
	}

	key := Fingerprint(r, req)
	if files, ok := c.entries.Get(key); ok {
		c.hits.Add(1)
		return files, true, nil
	}
	c.misses.Add(1)

	files, err := r.Generate(req)
	if err != nil {
		return nil, false, err
	}
	c.entries.Add(key, files)
	return files, false, nil
}

// Stats returns the hit and miss counts
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of cached resolutions
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Fingerprint hashes everything a render depends on. Maps are written in
// sorted key order; requirements keep their resolved order since it is
// visible in the output.
func Fingerprint(r *Registry, req *Request) string {
	h := sha256.New()
	field := func(parts ...string) {
		for _, p := range parts {
			io.WriteString(h, p)
			h.Write([]byte{0})
		}
	}

	res := req.Resolution
	field("v1", res.Recipe, string(res.Role), res.Config.Version)
	s := res.Config.Settings
	field(s.OS, s.Compiler, s.BuildType, s.Arch)
	field(res.Config.Options.String())

	for _, rq := range res.Requirements {
		field(rq.Ref.String())
		for _, k := range rq.OptionKeys() {
			v, _ := rq.Option(k)
			field(k, v)
		}
	}

	keys := make([]string, 0, len(req.Variables))
	for k := range req.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		field(k, req.Variables[k])
	}

	if r != nil {
		field(r.Names()...)
	}

	return hex.EncodeToString(h.Sum(nil))
}
