package pipeline

import (
	"slices"

	"github.com/dgallion1/docoutline/internal/doctree"
	lru "github.com/hashicorp/golang-lru/v2"
)

// ResultCache remembers outlines by content hash and file extension so a
// re-uploaded file is answered without parsing. A nil cache never hits.
type ResultCache struct {
	lru *lru.Cache[string, doctree.Result]
}

// NewResultCache returns a cache of the given size, or nil when size <= 0.
func NewResultCache(size int) (*ResultCache, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[string, doctree.Result](size)
	if err != nil {
		return nil, err
	}
	return &ResultCache{lru: c}, nil
}

func (c *ResultCache) Get(key string) (doctree.Result, bool) {
	if c == nil {
		return doctree.Result{}, false
	}
	res, ok := c.lru.Get(key)
	if !ok {
		return doctree.Result{}, false
	}
	res.Outline = slices.Clone(res.Outline)
	return res, true
}

func (c *ResultCache) Add(key string, res doctree.Result) {
	if c == nil {
		return
	}
	res.Outline = slices.Clone(res.Outline)
	c.lru.Add(key, res)
}

func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
