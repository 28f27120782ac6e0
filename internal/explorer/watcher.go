package explorer

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher wraps fsnotify and coalesces bursts of filesystem events into a
// single debounced notification. Directories are added as they are expanded;
// a directory that disappears is dropped by fsnotify itself.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	notify   chan struct{}
	done     chan struct{}

	mu      sync.Mutex
	watched map[string]struct{}
	closed  bool
}

// NewWatcher creates a watcher that emits at most one notification per
// debounce interval.
func NewWatcher(debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		notify:   make(chan struct{}, 1),
		done:     make(chan struct{}),
		watched:  make(map[string]struct{}),
	}
	go w.run()
	return w, nil
}

// Watch adds a directory to the watch set. Adding the same directory twice
// is a no-op.
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	if _, ok := w.watched[dir]; ok {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return err
	}
	w.watched[dir] = struct{}{}
	return nil
}

// Unwatch removes a directory from the watch set.
func (w *Watcher) Unwatch(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if _, ok := w.watched[dir]; !ok {
		return
	}
	delete(w.watched, dir)
	// Removing a path fsnotify already dropped returns an error we can
	// ignore.
	_ = w.fsw.Remove(dir)
}

// Notify returns the channel on which debounced change notifications are
// delivered. The channel is closed when the watcher is closed.
func (w *Watcher) Notify() <-chan struct{} { return w.notify }

// Close stops the watcher and closes the notification channel.
func (w *Watcher) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()
	close(w.done)
	_ = w.fsw.Close()
}

func (w *Watcher) run() {
	defer close(w.notify)
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case _, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		case <-fire:
			timer = nil
			fire = nil
			select {
			case w.notify <- struct{}{}:
			default:
			}
		}
	}
}
