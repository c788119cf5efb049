package engine

import (
	"os"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheKey identifies one version of a label file on disk.
type cacheKey struct {
	path    string
	modTime int64 // UnixNano
	size    int64
}

// reportCache remembers reports for unchanged files. The dictionary and
// options are fixed for an engine's lifetime, so a report only goes stale
// when the file itself changes.
type reportCache struct {
	lru *lru.Cache[cacheKey, FileReport]
}

func newReportCache(size int) (*reportCache, error) {
	c, err := lru.New[cacheKey, FileReport](size)
	if err != nil {
		return nil, err
	}
	return &reportCache{lru: c}, nil
}

func keyFor(path string) (cacheKey, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return cacheKey{}, false
	}
	return cacheKey{path: path, modTime: info.ModTime().UnixNano(), size: info.Size()}, true
}

// get returns a copy of the cached report; its diagnostics do not alias the
// cached slice.
func (c *reportCache) get(key cacheKey) (FileReport, bool) {
	report, ok := c.lru.Get(key)
	if ok {
		report.Diagnostics = slices.Clone(report.Diagnostics)
	}
	return report, ok
}

func (c *reportCache) add(key cacheKey, report FileReport) {
	report.Diagnostics = slices.Clone(report.Diagnostics)
	c.lru.Add(key, report)
}

func (c *reportCache) len() int {
	return c.lru.Len()
}
