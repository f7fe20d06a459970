// Package watch reports when model files change on disk.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before a change is reported.
const DefaultDebounce = 250 * time.Millisecond

// Watcher delivers the path of a changed file on Changes once writes to it
// settle. Pending reports for the same file coalesce, so a slow reader
// never sees a backlog.
type Watcher struct {
	watcher  *fsnotify.Watcher
	log      *zap.Logger
	debounce time.Duration
	changes  chan string

	mu     sync.Mutex
	files  map[string]struct{}
	timers map[string]*time.Timer
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// New creates a watcher. A zero debounce uses DefaultDebounce.
func New(debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		log:      log,
		debounce: debounce,
		changes:  make(chan string, 1),
		files:    make(map[string]struct{}),
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Add starts watching files. Their directories are watched so that editors
// replacing a file by rename are still seen.
func (w *Watcher) Add(files ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		if err := w.watcher.Add(filepath.Dir(absPath)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", absPath, err)
		}
		w.files[absPath] = struct{}{}
		w.log.Debug("watching", zap.String("path", absPath))
	}
	return nil
}

// Changes returns the channel of changed file paths.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.handle(filepath.Clean(event.Name))
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", zap.Error(err))

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) handle(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[path]; !ok || w.closed {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() { w.fire(path) })
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.timers, path)
	if w.closed {
		return
	}
	select {
	case w.changes <- path:
		w.log.Info("file changed", zap.String("path", path))
	default:
		// A report is already pending; the reader reloads once.
	}
}

// Close stops the watcher. Pending reports are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, t := range w.timers {
		t.Stop()
	}
	close(w.done)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
