package jobcontext

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/jonathan/form-autofill/internal/dom"
	"github.com/jonathan/form-autofill/internal/types"
)

// Fingerprint identifies a page by its URL, document title and first heading.
func Fingerprint(doc dom.Document, pageURL string) string {
	h := sha256.New()
	h.Write([]byte(pageURL))
	h.Write([]byte{0})
	for _, selector := range []string{"title", "h1"} {
		if doc != nil {
			if el, err := doc.Query(selector); err == nil && el != nil {
				h.Write([]byte(el.Text()))
			}
		}
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Cache defaults used when no cache is supplied.
const (
	DefaultCacheSize = 1024
	DefaultCacheTTL  = time.Hour
)

// Cache holds extracted job contexts keyed by page fingerprint.
// It keeps at most size entries, each for at most ttl, and is safe for concurrent use.
type Cache struct {
	entries *expirable.LRU[string, types.JobContext]
}

// NewCache creates an empty Cache.
func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{entries: expirable.NewLRU[string, types.JobContext](size, nil, ttl)}
}

// Get returns the cached context for key.
func (c *Cache) Get(key string) (types.JobContext, bool) {
	return c.entries.Get(key)
}

// Put stores job under key, evicting the least recently used entry when full.
func (c *Cache) Put(key string, job types.JobContext) {
	c.entries.Add(key, job)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// CachedSource wraps a Source so that repeated fills of the same page
// reuse the first extraction.
type CachedSource struct {
	Source Source
	Cache  *Cache
}

// NewCachedSource wraps src with cache.
func NewCachedSource(src Source, cache *Cache) *CachedSource {
	if cache == nil {
		cache = NewCache(DefaultCacheSize, DefaultCacheTTL)
	}
	return &CachedSource{Source: src, Cache: cache}
}

// Extract returns the cached context for the page, extracting it on a miss.
// Empty contexts are not cached so a later render can still provide one.
func (s *CachedSource) Extract(doc dom.Document, pageURL string) types.JobContext {
	key := Fingerprint(doc, pageURL)
	if job, ok := s.Cache.Get(key); ok {
		return job
	}
	job := s.Source.Extract(doc, pageURL)
	if job.Title != "" || job.Company != "" {
		s.Cache.Put(key, job)
	}
	return job
}
