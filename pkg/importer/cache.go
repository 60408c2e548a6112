package importer

import (
	"fmt"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jiapeiLu/menubuilder/pkg/errors"
	"github.com/jiapeiLu/menubuilder/pkg/menu"
)

// DefaultCacheSize bounds the number of scanned files kept in memory.
const DefaultCacheSize = 128

type scanResult struct {
	callables []Callable
	language  menu.Language
}

// Cache memoizes ListFile results keyed by path, size, and modification
// time, so browsing back to an unchanged script skips the rescan.
type Cache struct {
	entries *lru.Cache[string, scanResult]
}

// NewCache returns a cache holding up to size scans. Sizes below one fall
// back to DefaultCacheSize.
func NewCache(size int) (*Cache, error) {
	if size < 1 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, scanResult](size)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create scan cache")
	}
	return &Cache{entries: entries}, nil
}

// ListFile behaves like the package-level ListFile but reuses a prior
// scan while the file's size and mtime are unchanged.
func (c *Cache) ListFile(path string) ([]Callable, menu.Language, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidSource, err, "stat %s", path)
	}
	key := fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())
	if r, ok := c.entries.Get(key); ok {
		return r.callables, r.language, nil
	}
	calls, lang, err := ListFile(path)
	if err != nil {
		return nil, "", err
	}
	c.entries.Add(key, scanResult{callables: calls, language: lang})
	return calls, lang, nil
}

// Len reports how many scans are currently cached.
func (c *Cache) Len() int { return c.entries.Len() }
