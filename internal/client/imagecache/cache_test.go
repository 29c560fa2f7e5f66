package imagecache

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/swipecatalog/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestCache_GetSet(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	_, ok := c.Get("https://img/a.jpg")
	assert.False(t, ok)

	img := image.NewGray(image.Rect(0, 0, 1, 1))
	c.Set("https://img/a.jpg", img)

	got, ok := c.Get("https://img/a.jpg")
	require.True(t, ok)
	assert.Same(t, img, got)
}

func TestCache_OverwriteAndEviction(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	first := image.NewGray(image.Rect(0, 0, 1, 1))
	fresher := image.NewGray(image.Rect(0, 0, 2, 2))
	c.Set("a", first)
	c.Set("a", fresher)
	got, _ := c.Get("a")
	assert.Same(t, fresher, got)

	c.Set("b", first)
	c.Set("c", first)
	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok, "least recently used entry is evicted")
}

func TestCache_DefaultSize(t *testing.T) {
	c, err := New(0)
	require.NoError(t, err)
	for i := 0; i < DefaultSize+10; i++ {
		c.Set(string(rune('a'+i%26))+string(rune(i)), image.NewGray(image.Rect(0, 0, 1, 1)))
	}
	assert.Equal(t, DefaultSize, c.Len())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c, err := New(16)
	require.NoError(t, err)
	img := image.NewGray(image.Rect(0, 0, 1, 1))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i%20))
			c.Set(key, img)
			c.Get(key)
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
}

type fakeFetcher struct {
	data  []byte
	err   error
	calls atomic.Int32
	delay time.Duration
}

func (f *fakeFetcher) FetchImage(ctx context.Context, url string) ([]byte, error) {
	f.calls.Add(1)
	time.Sleep(f.delay)
	return f.data, f.err
}

func TestLoader_CachesAfterFirstLoad(t *testing.T) {
	c, _ := New(4)
	f := &fakeFetcher{data: pngBytes(t, 3, 2)}
	l := NewLoader(c, f, logging.Discard())

	img, err := l.Load(context.Background(), "https://img/a.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())

	_, err = l.Load(context.Background(), "https://img/a.png")
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestLoader_CollapsesConcurrentLoads(t *testing.T) {
	c, _ := New(4)
	f := &fakeFetcher{data: pngBytes(t, 1, 1), delay: 50 * time.Millisecond}
	l := NewLoader(c, f, logging.Discard())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Load(context.Background(), "https://img/same.png")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), f.calls.Load())
}

func TestLoader_FailuresAreNotCached(t *testing.T) {
	c, _ := New(4)
	f := &fakeFetcher{err: errors.New("timeout")}
	l := NewLoader(c, f, logging.Discard())

	_, err := l.Load(context.Background(), "https://img/a.png")
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	f.err = nil
	f.data = []byte("garbage")
	_, err = l.Load(context.Background(), "https://img/a.png")
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	_, err = l.Load(context.Background(), "")
	require.Error(t, err)
}

type gatedFetcher struct {
	data     []byte
	started  chan struct{}
	release  chan struct{}
	calls    atomic.Int32
	canceled atomic.Bool
}

func (f *gatedFetcher) FetchImage(ctx context.Context, url string) ([]byte, error) {
	f.calls.Add(1)
	f.started <- struct{}{}
	<-f.release
	if ctx.Err() != nil {
		f.canceled.Store(true)
		return nil, ctx.Err()
	}
	return f.data, nil
}

func TestLoader_CallerCancelDoesNotFailOthers(t *testing.T) {
	c, _ := New(4)
	f := &gatedFetcher{data: pngBytes(t, 2, 2), started: make(chan struct{}, 1), release: make(chan struct{})}
	l := NewLoader(c, f, logging.Discard())

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := l.Load(firstCtx, "https://img/shared.png")
		firstErr <- err
	}()
	<-f.started

	secondDone := make(chan error, 1)
	go func() {
		img, err := l.Load(context.Background(), "https://img/shared.png")
		if err == nil {
			assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
		}
		secondDone <- err
	}()

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(f.release)
	require.NoError(t, <-secondDone)
	assert.False(t, f.canceled.Load(), "download must not see the first caller's cancel")
	assert.Equal(t, int32(1), f.calls.Load())
	assert.Equal(t, 1, c.Len())
}
