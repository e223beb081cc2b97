// Package tiled supplies precomputed tileable noise volumes, such as blue
// noise, loaded from slice images and cached per resolution.
package tiled

import (
	"strconv"
	"sync"

	"volnoise/internal/core"

	"golang.org/x/sync/singleflight"
)

// Loader reads the volume for a cubic resolution.
type Loader func(resolution int) (*core.Volume, error)

// Cache loads each resolution at most once and shares the result. Cached
// volumes are read-only; concurrent Load calls for the same resolution wait
// for a single load.
type Cache struct {
	load  Loader
	group singleflight.Group

	mu   sync.RWMutex
	vols map[int]*core.Volume
}

// NewCache wraps a loader with load-once caching.
func NewCache(load Loader) *Cache {
	return &Cache{load: load, vols: make(map[int]*core.Volume)}
}

// NewDirCache caches volumes read from PNG slices under dir.
func NewDirCache(dir string) *Cache {
	return NewCache(func(res int) (*core.Volume, error) {
		return LoadSlices(SlicePattern(dir, res), res, core.MaxChannels)
	})
}

// Load returns the volume for resolution, loading it on first use. Failed
// loads are not cached.
func (c *Cache) Load(resolution int) (*core.Volume, error) {
	c.mu.RLock()
	v, ok := c.vols[resolution]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	res, err, _ := c.group.Do(strconv.Itoa(resolution), func() (any, error) {
		c.mu.RLock()
		v, ok := c.vols[resolution]
		c.mu.RUnlock()
		if ok {
			return v, nil
		}
		v, err := c.load(resolution)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.vols[resolution] = v
		c.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*core.Volume), nil
}

// Resolutions reports the resolutions currently cached.
func (c *Cache) Resolutions() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]int, 0, len(c.vols))
	for r := range c.vols {
		out = append(out, r)
	}
	return out
}
