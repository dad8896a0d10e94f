package tiles

import (
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads tile images when their files change on disk, so editing
// a tile PNG in an external paint program refreshes the open canvas without
// a restart. Events are debounced because editors typically emit several
// writes per save.
type Watcher struct {
	cache    *Cache
	basePath string

	watcher *fsnotify.Watcher
	closeCh chan struct{}
	once    sync.Once
}

// NewWatcher watches basePath/<category> for each given category.
func NewWatcher(cache *Cache, basePath string, categories ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, cat := range categories {
		if err := fw.Add(filepath.Join(basePath, cat)); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	w := &Watcher{
		cache:    cache,
		basePath: basePath,
		watcher:  fw,
		closeCh:  make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher. Closing twice is a no-op.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".png") {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < 100*time.Millisecond {
				continue
			}
			last[event.Name] = now
			w.reload(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("tiles: watch error: %v", err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload(path string) {
	index, ok := tileIndexFromName(filepath.Base(path))
	if !ok {
		return
	}
	category := filepath.Base(filepath.Dir(path))
	if err := w.cache.Reload(category, index, path); err != nil {
		log.Printf("tiles: reload %s: %v", path, err)
	}
}
