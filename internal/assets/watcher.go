package assets

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/meshgraph/internal/logger"
)

// ErrWatcherClosed is returned by Add after Close.
var ErrWatcherClosed = errors.New("watcher closed")

// Watcher reports mesh files that changed on disk. It watches the parent
// directories, since editors often replace a file instead of writing it, and
// coalesces bursts of events per file.
type Watcher struct {
	fs       *fsnotify.Watcher
	log      *zap.Logger
	debounce time.Duration

	changes chan string
	done    chan struct{}
	wg      sync.WaitGroup

	mu     sync.Mutex
	files  map[string]bool // absolute paths
	dirs   map[string]bool
	closed bool
}

// NewWatcher starts a watcher. Changes are reported once no new event for
// the same file arrived for debounce.
func NewWatcher(debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fs:       fsw,
		log:      logger.Named("watcher"),
		debounce: debounce,
		changes:  make(chan string, 16),
		done:     make(chan struct{}),
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Add starts watching path.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}

	if !w.dirs[dir] {
		if err := w.fs.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	w.files[abs] = true
	w.log.Debug("watching", zap.String("path", abs))
	return nil
}

// Changes delivers absolute paths of changed files.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Close stops the watcher and closes the Changes channel.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	close(w.changes)
	return err
}

func (w *Watcher) watched(name string) (string, bool) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return abs, w.files[abs]
}

func (w *Watcher) run() {
	defer w.wg.Done()

	pending := make(map[string]time.Time)
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if e.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			path, ok := w.watched(e.Name)
			if !ok {
				continue
			}
			if len(pending) == 0 {
				timer.Reset(w.debounce)
			}
			pending[path] = time.Now()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			now := time.Now()
			next := time.Duration(0)
			for path, at := range pending {
				if wait := w.debounce - now.Sub(at); wait > 0 {
					if next == 0 || wait < next {
						next = wait
					}
					continue
				}
				delete(pending, path)
				select {
				case w.changes <- path:
				case <-w.done:
					return
				}
			}
			if len(pending) > 0 {
				timer.Reset(next)
			}

		case <-w.done:
			timer.Stop()
			return
		}
	}
}
