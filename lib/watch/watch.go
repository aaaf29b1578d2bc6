package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/jhenstridge/go-inotify"
)

// settle is how long to wait after a write before asking for a reload,
// so editors that write in several steps are done.
var settle = 100 * time.Millisecond

// Watcher turns inotify close-after-write events on shader sources into
// reload requests carrying the shader name.
type Watcher struct {
	log     *slog.Logger
	watcher *inotify.Watcher

	mu      sync.Mutex
	shaders map[string][]string

	reloads chan string
}

func New(logger *slog.Logger) (*Watcher, error) {
	iw, err := inotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not start inotify watcher: %w", err)
	}
	w := &Watcher{
		log:     logger.With("module", "watch"),
		watcher: iw,
		shaders: make(map[string][]string),
		reloads: make(chan string, 16),
	}
	go w.run()
	return w, nil
}

// Add watches the source files of a shader. Empty paths are ignored.
func (w *Watcher) Add(shader string, paths ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, path := range paths {
		if path == "" {
			continue
		}
		path = filepath.Clean(path)
		if _, watched := w.shaders[path]; !watched {
			if _, err := w.watcher.Watch(path); err != nil {
				return fmt.Errorf("could not watch %s: %w", path, err)
			}
		}
		w.shaders[path] = append(w.shaders[path], shader)
		w.log.Debug("watching shader source", "shader", shader, "path", path)
	}
	return nil
}

// Reloads yields the name of every shader whose sources changed.
func (w *Watcher) Reloads() <-chan string {
	return w.reloads
}

// Close stops watching; the event loop ends when inotify closes its
// event channel.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) run() {
	for ev := range w.watcher.Event {
		// Watches are on the files themselves, so ev.Name is empty.
		if ev.Watch == nil || ev.Mask&inotify.IN_CLOSE_WRITE == 0 {
			continue
		}
		time.Sleep(settle)
		w.notify(ev.Watch.Path)
	}
}

func (w *Watcher) notify(path string) {
	w.mu.Lock()
	shaders := w.shaders[path]
	w.mu.Unlock()

	for _, shader := range shaders {
		w.log.Debug("Reloading shader due to inotify event", "shader", shader, "path", path)
		select {
		case w.reloads <- shader:
		default:
			w.log.Warn("reload queue full, dropping request", "shader", shader)
		}
	}
}
