package problem

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"knower/internal/logging"
	"knower/internal/prover"
)

// RunFunc receives the outcome of a watched run. Loading or proving
// errors arrive with nil results.
type RunFunc func(path string, results []Result, err error)

// Watcher watches a directory of problem files and re-proves any file
// that changes. Rapid saves are debounced so an editor writing in
// chunks triggers one run, not five.
type Watcher struct {
	mu          sync.RWMutex
	watcher     *fsnotify.Watcher
	dir         string
	cfg         prover.Config
	workers     int
	onRun       RunFunc
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
	log         *logging.Logger

	stats WatcherStats
}

// WatcherStats tracks watcher activity.
type WatcherStats struct {
	FilesChanged  int
	RunsTriggered int
	Errors        int
	LastEventPath string
	LastEventTime time.Time
}

// NewWatcher creates a Watcher over dir. Problem files are recognised
// by a .yaml or .yml suffix.
func NewWatcher(dir string, cfg prover.Config, workers int, onRun RunFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:     fw,
		dir:         dir,
		cfg:         cfg,
		workers:     workers,
		onRun:       onRun,
		debounceMap: make(map[string]time.Time),
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
		log:         logging.Get(logging.CategoryProver),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.log.Info("watching %s", w.dir)

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to drain.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.log.Error("closing watcher: %v", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("watch error: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case <-ticker.C:
			w.processSettled()
		}
	}
}

func isProblemFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !isProblemFile(event.Name) {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	w.mu.Lock()
	w.stats.FilesChanged++
	w.stats.LastEventPath = event.Name
	w.stats.LastEventTime = time.Now()
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processSettled() {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, at := range w.debounceMap {
		if now.Sub(at) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		w.runFile(path)
	}
}

func (w *Watcher) runFile(path string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return
	}

	w.mu.Lock()
	w.stats.RunsTriggered++
	w.mu.Unlock()

	w.log.Info("running %s", filepath.Base(path))
	p, err := Load(path)
	if err != nil {
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		w.onRun(path, nil, err)
		return
	}
	results, err := Run(p, w.cfg, w.workers)
	if err != nil {
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
	}
	w.onRun(path, results, err)
}

// Stats returns a snapshot of the watcher counters.
func (w *Watcher) Stats() WatcherStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// IsWatching reports whether the event loop is live.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}
