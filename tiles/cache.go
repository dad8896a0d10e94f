// Package tiles provides the shared tile-image cache. Images are loaded
// from per-category directories, rescaled to the scene tile size, and kept
// for the lifetime of the process; entries are only ever added, never
// evicted, so readers can hold results without invalidation concerns.
package tiles

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	xdraw "golang.org/x/image/draw"
)

type cacheKey struct {
	category string
	index    int
}

// LoadFunc is notified after an image becomes available in the cache.
// Callbacks may fire from a loader goroutine, so they must be cheap and
// thread-safe; the canvas controller uses one to flip an atomic dirty bit.
type LoadFunc func(category string, index int)

// Cache maps (category, index) to a ready-to-draw tile image. A lookup for
// an image that is missing or still loading returns nil; that is the normal
// not-yet-loaded case, not an error.
type Cache struct {
	tileSize int

	mu       sync.Mutex
	images   map[cacheKey]*ebiten.Image
	onLoad   map[int]LoadFunc
	nextLoad int
	loading  map[string]bool
}

// NewCache creates a cache that rescales every loaded image to
// tileSize x tileSize pixels.
func NewCache(tileSize int) *Cache {
	return &Cache{
		tileSize: tileSize,
		images:   make(map[cacheKey]*ebiten.Image),
		onLoad:   make(map[int]LoadFunc),
		loading:  make(map[string]bool),
	}
}

// Get returns the cached image for (category, index), or nil when it has
// not been loaded. Index 0 is the empty cell and always resolves to nil.
func (c *Cache) Get(category string, index int) *ebiten.Image {
	if category == "" || index <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.images[cacheKey{category, index}]
}

// Count returns how many images the given category currently holds.
func (c *Cache) Count(category string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.images {
		if k.category == category {
			n++
		}
	}
	return n
}

// OnLoad registers a callback fired for every image that finishes loading.
// The returned func removes the registration; a canvas being torn down uses
// it so a shared cache does not accumulate dead listeners across mounts.
func (c *Cache) OnLoad(fn LoadFunc) func() {
	if fn == nil {
		return func() {}
	}
	c.mu.Lock()
	id := c.nextLoad
	c.nextLoad++
	c.onLoad[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.onLoad, id)
		c.mu.Unlock()
	}
}

// put registers an image and notifies listeners. Replacing an existing
// entry is allowed; the hot-reload watcher uses that to refresh edited
// tiles in place.
func (c *Cache) put(category string, index int, img *ebiten.Image) {
	if category == "" || index <= 0 || img == nil {
		return
	}
	c.mu.Lock()
	c.images[cacheKey{category, index}] = img
	c.mu.Unlock()
	c.notify(category, index)
}

// notify fans a load event out to the registered listeners, outside the
// cache lock.
func (c *Cache) notify(category string, index int) {
	c.mu.Lock()
	listeners := make([]LoadFunc, 0, len(c.onLoad))
	for _, fn := range c.onLoad {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(category, index)
	}
}

// PreloadCategory loads every tile image under basePath/category in the
// background. Files are named by their 1-based tile index ("1.png",
// "2.png", ...); files that fail to decode are skipped. The returned
// channel receives exactly one value: nil, or the directory-level error.
func (c *Cache) PreloadCategory(category, basePath string) <-chan error {
	done := make(chan error, 1)

	c.mu.Lock()
	if c.loading[category] {
		c.mu.Unlock()
		done <- nil
		return done
	}
	c.loading[category] = true
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			delete(c.loading, category)
			c.mu.Unlock()
		}()
		done <- c.loadCategory(category, basePath)
	}()
	return done
}

func (c *Cache) loadCategory(category, basePath string) error {
	dir := filepath.Join(basePath, category)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("tiles: read category %s: %w", category, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		index, ok := tileIndexFromName(name)
		if !ok {
			continue
		}
		img, err := c.loadTileFile(filepath.Join(dir, name))
		if err != nil {
			continue
		}
		c.put(category, index, img)
	}
	return nil
}

// Reload re-reads a single tile file in place, used by the directory
// watcher when an asset changes on disk.
func (c *Cache) Reload(category string, index int, path string) error {
	img, err := c.loadTileFile(path)
	if err != nil {
		return err
	}
	c.put(category, index, img)
	return nil
}

func (c *Cache) loadTileFile(path string) (*ebiten.Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tiles: read %s: %w", path, err)
	}
	src, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("tiles: decode %s: %w", path, err)
	}
	return ebiten.NewImageFromImage(c.rescale(src)), nil
}

// rescale resamples the decoded image to the tile size with nearest
// neighbour, keeping pixel art crisp.
func (c *Cache) rescale(src image.Image) image.Image {
	b := src.Bounds()
	if b.Dx() == c.tileSize && b.Dy() == c.tileSize {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, c.tileSize, c.tileSize))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// tileIndexFromName parses the 1-based tile index from a file name like
// "7.png". Names that are not a positive integer are ignored.
func tileIndexFromName(name string) (int, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	n, err := strconv.Atoi(base)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
