package inspector

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/viant/umlgraph/inspector/info"
)

// cache keeps extracted file skeletons keyed by path and content hash
type cache struct {
	entries *lru.Cache[string, *info.FileResult]
}

func newCache(size int) (*cache, error) {
	if size <= 0 {
		return &cache{}, nil
	}
	entries, err := lru.New[string, *info.FileResult](size)
	if err != nil {
		return nil, err
	}
	return &cache{entries: entries}, nil
}

func cacheKey(relPath, hash string) string {
	return relPath + ":" + hash
}

// get returns a copy of the cached result
func (c *cache) get(key string) (*info.FileResult, bool) {
	if c.entries == nil {
		return nil, false
	}
	result, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	return result.Clone(), true
}

func (c *cache) put(key string, result *info.FileResult) {
	if c.entries == nil {
		return
	}
	c.entries.Add(key, result.Clone())
}
