package runtime

import (
	"sync"
	"sync/atomic"

	"github.com/hashicorp/golang-lru/arc/v2"
	deepkit "github.com/wilcoxmd/deepkit-framework"
	"github.com/wilcoxmd/deepkit-framework/bytecode"
	"golang.org/x/sync/singleflight"
)

// A Cache holds resolved types keyed by declaration identity and generic
// arguments.  Arguments are keyed structurally so two resolutions of the
// same program with structurally equal arguments share one entry.  Entries
// are never modified once stored.  A Cache is safe for concurrent use and
// computes each key at most once at a time.
type Cache struct {
	mu    sync.RWMutex
	types map[string]deepkit.Type
	// bounded replaces types when the cache has a size limit.
	bounded *arc.ARCCache[string, deepkit.Type]
	group   singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache returns a cache holding at most size entries or an unbounded
// cache if size is zero.
func NewCache(size int) (*Cache, error) {
	c := &Cache{}
	if size > 0 {
		bounded, err := arc.NewARC[string, deepkit.Type](size)
		if err != nil {
			return nil, err
		}
		c.bounded = bounded
	}
	return c, nil
}

func (c *Cache) Reset() {
	if c.bounded != nil {
		c.bounded.Purge()
	} else {
		c.mu.Lock()
		c.types = nil
		c.mu.Unlock()
	}
	c.hits.Store(0)
	c.misses.Store(0)
}

func (c *Cache) Len() int {
	if c.bounded != nil {
		return c.bounded.Len()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.types)
}

// Stats returns the number of lookups that found and did not find an entry.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// Lookup returns the type stored for p instantiated with args.
func (c *Cache) Lookup(p *bytecode.Program, args []deepkit.Type) (deepkit.Type, bool) {
	key := keyPool.Get().(*[]byte)
	*key = appendCacheKey((*key)[:0], p, args)
	typ, ok := c.lookup(string(*key))
	keyPool.Put(key)
	return typ, ok
}

func (c *Cache) lookup(key string) (deepkit.Type, bool) {
	typ, ok := c.peek(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return typ, ok
}

func (c *Cache) peek(key string) (deepkit.Type, bool) {
	if c.bounded != nil {
		return c.bounded.Get(key)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	typ, ok := c.types[key]
	return typ, ok
}

// publish stores entries computed by one successful resolution.  An
// entry already present wins so every consumer of a key sees one type.
func (c *Cache) publish(entries map[string]deepkit.Type) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bounded != nil {
		for key, typ := range entries {
			if !c.bounded.Contains(key) {
				c.bounded.Add(key, typ)
			}
		}
		return
	}
	if c.types == nil {
		c.types = make(map[string]deepkit.Type)
	}
	for key, typ := range entries {
		if _, ok := c.types[key]; !ok {
			c.types[key] = typ
		}
	}
}

// do calls fn once for all concurrent callers with the same key.
func (c *Cache) do(key string, fn func() (deepkit.Type, error)) (deepkit.Type, error) {
	v, err, _ := c.group.Do(key, func() (any, error) {
		if typ, ok := c.peek(key); ok {
			return typ, nil
		}
		return fn()
	})
	if err != nil {
		return nil, err
	}
	return v.(deepkit.Type), nil
}

var keyPool = sync.Pool{
	New: func() interface{} {
		// Return a pointer to avoid allocation on conversion to
		// interface.
		buf := make([]byte, 64)
		return &buf
	},
}

func appendCacheKey(b []byte, p *bytecode.Program, args []deepkit.Type) []byte {
	b = append(b, p.ID.Bytes()...)
	b = append(b, byte(len(args)))
	for _, arg := range args {
		b = deepkit.AppendKey(b, arg)
	}
	return b
}

func cacheKey(p *bytecode.Program, args []deepkit.Type) string {
	return string(appendCacheKey(nil, p, args))
}
