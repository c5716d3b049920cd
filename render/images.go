package render

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/flip-match/catalog"
	"github.com/lixenwraith/flip-match/core"
	"github.com/lixenwraith/flip-match/log"
	"github.com/lixenwraith/flip-match/status"
)

// Loader decodes the image at an asset path
type Loader func(path string) (image.Image, error)

type loadState uint8

const (
	loadPending loadState = iota
	loadReady
	loadFailed
)

type imageEntry struct {
	img   image.Image
	state loadState
}

// ImageCache fetches item images and the logo at most once per session.
// Lookups never block: a miss starts a background load and returns nil, and
// each successful load calls the invalidation callback.
type ImageCache struct {
	mu      sync.Mutex
	entries map[string]*imageEntry
	load    Loader
	onLoad  func()
	wg      sync.WaitGroup

	loads  *atomic.Int64
	faults *atomic.Int64
}

// NewImageCache resolves asset paths under dir. onLoad may be nil.
func NewImageCache(dir string, onLoad func()) *ImageCache {
	return NewImageCacheWithLoader(FileLoader(dir), onLoad)
}

// NewImageCacheWithLoader uses a custom decoder
func NewImageCacheWithLoader(load Loader, onLoad func()) *ImageCache {
	if onLoad == nil {
		onLoad = func() {}
	}
	return &ImageCache{
		entries: make(map[string]*imageEntry),
		load:    load,
		onLoad:  onLoad,
		loads:   status.Default.Counter("render.image_loads"),
		faults:  status.Default.Counter("render.image_faults"),
	}
}

// FileLoader decodes PNG or JPEG files; asset paths are rooted at dir
func FileLoader(dir string) Loader {
	return func(path string) (image.Image, error) {
		full := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(path, "/")))
		f, err := os.Open(full)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", full, err)
		}
		return img, nil
	}
}

// Item returns the image for an item, or nil while it is loading or if it
// failed
func (c *ImageCache) Item(it catalog.Item) image.Image {
	path := it.Image
	if path == "" {
		path = catalog.ImagePath(it.ID)
	}
	return c.get(path)
}

// Logo returns the face-down image, or nil
func (c *ImageCache) Logo() image.Image {
	return c.get(catalog.LogoPath)
}

// Preload starts loads for the logo and every item
func (c *ImageCache) Preload(items []catalog.Item) {
	c.Logo()
	for _, it := range items {
		c.Item(it)
	}
}

// Wait blocks until in-flight loads finish
func (c *ImageCache) Wait() {
	c.wg.Wait()
}

func (c *ImageCache) get(path string) image.Image {
	c.mu.Lock()
	e, ok := c.entries[path]
	if ok {
		img := e.img
		c.mu.Unlock()
		return img
	}
	e = &imageEntry{state: loadPending}
	c.entries[path] = e
	c.wg.Add(1)
	c.mu.Unlock()

	core.Go(func() {
		defer c.wg.Done()
		c.fetch(path, e)
	})
	return nil
}

func (c *ImageCache) fetch(path string, e *imageEntry) {
	img, err := c.load(path)

	c.mu.Lock()
	if err != nil {
		e.state = loadFailed
	} else {
		e.img = img
		e.state = loadReady
	}
	c.mu.Unlock()

	if err != nil {
		c.faults.Add(1)
		log.WithError(err).Warnf("image %s unavailable", path)
		return
	}
	c.loads.Add(1)
	c.onLoad()
}
