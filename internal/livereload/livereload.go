// Package livereload watches the served directory and reports changes so
// the page can be reloaded.
package livereload

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/abemedia/webshell/internal/logging"
)

// DefaultDebounce coalesces bursts of events from a single save.
const DefaultDebounce = 150 * time.Millisecond

const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watcher calls OnChange after files in a directory change.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange func(path string)
	debounce time.Duration
	logger   logging.Logger

	mu      sync.Mutex
	timer   *time.Timer
	last    string
	closed  bool
	running sync.WaitGroup
	done    chan struct{}
	closeMu sync.Once
}

// Watch starts watching dir. onChange runs on the watcher goroutine with
// the last changed path of each burst.
func Watch(dir string, debounce time.Duration, logger logging.Logger, onChange func(path string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if logger == nil {
		logger = logging.Nop()
	}
	w := &Watcher{
		watcher:  fw,
		onChange: onChange,
		debounce: debounce,
		logger:   logger,
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&relevantOps == 0 {
				continue
			}
			w.logger.Debug("file changed", "path", event.Name, "op", event.Op.String())
			w.schedule(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.last = path
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	path := w.last
	w.running.Add(1)
	w.mu.Unlock()

	defer w.running.Done()
	w.onChange(path)
}

// Close stops watching. Pending notifications are dropped and a running
// onChange is waited for, so it must not call Close itself.
func (w *Watcher) Close() error {
	var err error
	w.closeMu.Do(func() {
		w.mu.Lock()
		w.closed = true
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		err = w.watcher.Close()
		<-w.done
		w.running.Wait()
	})
	return err
}
