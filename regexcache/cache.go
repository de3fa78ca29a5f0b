// Package regexcache keeps compiled regular expressions keyed by their pattern text.
package regexcache

import (
	"regexp"
	"sync"

	"github.com/code19m/errx"
)

// CodeInvalidPattern is returned when a pattern does not compile.
const CodeInvalidPattern = "INVALID_PATTERN"

// Cache is a concurrency-safe pattern -> *regexp.Regexp map. It never evicts.
type Cache struct {
	mu       sync.RWMutex
	compiled map[string]*regexp.Regexp
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{compiled: make(map[string]*regexp.Regexp)}
}

// Get returns the compiled form of pattern, compiling it on first use.
// Patterns that fail to compile are not cached.
func (c *Cache) Get(pattern string) (*regexp.Regexp, error) {
	c.mu.RLock()
	re, ok := c.compiled[pattern]
	c.mu.RUnlock()
	if ok {
		return re, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// another goroutine may have compiled it in the meantime
	if re, ok = c.compiled[pattern]; ok {
		return re, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errx.New(
			"[regexcache]: invalid regex pattern",
			errx.WithCode(CodeInvalidPattern),
			errx.WithType(errx.T_Validation),
			errx.WithDetails(errx.D{
				"pattern": pattern,
				"error":   err.Error(),
			}),
		)
	}

	c.compiled[pattern] = re
	return re, nil
}

// Len returns the number of cached patterns.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.compiled)
}
