// Package imagecache keeps decoded product images in memory for the life of
// the process.
package imagecache

import (
	"context"
	"fmt"
	"image"

	"github.com/dmitrijs2005/swipecatalog/internal/imagex"
	"github.com/dmitrijs2005/swipecatalog/internal/logging"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"
)

const DefaultSize = 128

// Cache maps an image URL to its decoded image. It holds at most size
// entries and evicts the least recently used one. Safe for concurrent use.
type Cache struct {
	lru *lru.Cache
}

func New(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: c}, nil
}

func (c *Cache) Get(key string) (image.Image, bool) {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return v.(image.Image), true
}

func (c *Cache) Set(key string, img image.Image) {
	c.lru.Add(key, img)
}

func (c *Cache) Len() int {
	return c.lru.Len()
}

// Fetcher downloads raw image bytes.
type Fetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// Loader resolves images through the cache, downloading and decoding on a
// miss. Concurrent loads of the same URL share one download, which is not
// tied to any single caller: a caller that gives up returns at once while
// the download finishes for the others.
type Loader struct {
	cache   *Cache
	fetcher Fetcher
	logger  logging.Logger
	group   singleflight.Group
}

func NewLoader(cache *Cache, fetcher Fetcher, logger logging.Logger) *Loader {
	return &Loader{cache: cache, fetcher: fetcher, logger: logger.With("component", "imagecache")}
}

func (l *Loader) Load(ctx context.Context, url string) (image.Image, error) {
	if url == "" {
		return nil, fmt.Errorf("empty image url")
	}
	if img, ok := l.cache.Get(url); ok {
		return img, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(url, func() (any, error) {
		return l.download(fetchCtx, url)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			l.logger.Warn(ctx, "image load failed", "url", url, "error", res.Err)
			return nil, res.Err
		}
		return res.Val.(image.Image), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Loader) download(ctx context.Context, url string) (image.Image, error) {
	if img, ok := l.cache.Get(url); ok {
		return img, nil
	}

	data, err := l.fetcher.FetchImage(ctx, url)
	if err != nil {
		return nil, err
	}
	img, err := imagex.Decode(data)
	if err != nil {
		return nil, err
	}

	l.cache.Set(url, img)
	l.logger.Debug(ctx, "image cached", "url", url)
	return img, nil
}
