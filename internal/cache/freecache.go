package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coocood/freecache"
)

var _ Cache = (*Freecache)(nil)

// Freecache is an in-process cache with a fixed memory budget.
type Freecache struct {
	cache *freecache.Cache
}

func NewFreecache(sizeMB int) *Freecache {
	megabyte := 1024 * 1024
	if sizeMB <= 0 {
		sizeMB = 1
	}
	return &Freecache{
		cache: freecache.NewCache(sizeMB * megabyte),
	}
}

func (c *Freecache) Get(_ context.Context, key string) ([]byte, error) {
	value, err := c.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("freecache get [%s]: %w", key, err)
	}
	return value, nil
}

// Set stores the value; ttl is rounded down to whole seconds, zero means no expiry.
func (c *Freecache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.cache.Set([]byte(key), value, int(ttl/time.Second)); err != nil {
		return fmt.Errorf("freecache set [%s]: %w", key, err)
	}
	return nil
}
