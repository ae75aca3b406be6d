package workspace

import (
	"os"
	"sync"
	"time"
)

type WatcherOption func(*Watcher)

func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.pollInterval = d
	}
}

// OnChange is called with every document that was added or modified.
func OnChange(fn func(*Document)) WatcherOption {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// OnRemove is called with the path of every document that disappeared.
func OnRemove(fn func(path string)) WatcherOption {
	return func(w *Watcher) {
		w.onRemove = fn
	}
}

// Watcher polls the workspace roots and keeps the workspace in sync with
// the file system.
type Watcher struct {
	workspace    *Workspace
	stopCh       chan struct{}
	startOnce    sync.Once
	stopOnce     sync.Once
	done         chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
	onChange     func(*Document)
	onRemove     func(string)
}

func NewWatcher(ws *Workspace, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		workspace:    ws,
		stopCh:       make(chan struct{}),
		done:         make(chan struct{}),
		pollInterval: 1 * time.Second,
		modTimes:     make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins polling in the background. Only the first call has an
// effect.
func (w *Watcher) Start() {
	w.startOnce.Do(func() {
		go w.run()
	})
}

// Stop ends polling and waits for the current scan to finish. A watcher
// that was never started cannot be started afterwards.
func (w *Watcher) Stop() {
	w.startOnce.Do(func() {
		close(w.done)
	})
	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
	<-w.done
}

func (w *Watcher) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *Watcher) scan() {
	currentFiles := make(map[string]bool)

	for _, root := range w.workspace.Roots() {
		err := w.workspace.walk(root, func(path string, info os.FileInfo) {
			currentFiles[path] = true

			lastMod, known := w.modTimes[path]
			if known && !info.ModTime().After(lastMod) {
				return
			}
			w.modTimes[path] = info.ModTime()

			doc, err := w.workspace.ScanFile(path)
			if err != nil {
				log.Warningf("scan %s: %s", path, err)
				return
			}
			log.Infof("changed %s", path)
			if w.onChange != nil {
				w.onChange(doc)
			}
		})
		if err != nil {
			log.Warningf("walk %s: %s", root, err)
		}
	}

	for path := range w.modTimes {
		if !currentFiles[path] {
			delete(w.modTimes, path)
			w.workspace.RemoveFile(path)
			log.Infof("removed %s", path)
			if w.onRemove != nil {
				w.onRemove(path)
			}
		}
	}
}
