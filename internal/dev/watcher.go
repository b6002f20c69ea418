package dev

import (
	"context"
	"os"
	"sync"
	"time"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	ChangeModified ChangeType = iota
	ChangeCreated
	ChangeRemoved
)

// String returns the change name.
func (t ChangeType) String() string {
	switch t {
	case ChangeCreated:
		return "created"
	case ChangeRemoved:
		return "removed"
	default:
		return "modified"
	}
}

// Change represents a detected file change.
type Change struct {
	Path string
	Type ChangeType
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the files to watch.
	Paths []string

	// Interval is the polling period (default: 250ms).
	Interval time.Duration
}

// Watcher polls files for modification time changes.
type Watcher struct {
	config   WatcherConfig
	onChange func(Change)

	mu         sync.Mutex
	running    bool
	stopCh     chan struct{}
	timestamps map[string]time.Time
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval <= 0 {
		config.Interval = 250 * time.Millisecond
	}
	return &Watcher{
		config:     config,
		timestamps: make(map[string]time.Time),
	}
}

// OnChange sets the callback for file changes. It runs on the watcher
// goroutine.
func (w *Watcher) OnChange(fn func(Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start polls until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.scanInitial()
	w.mu.Unlock()

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			w.checkForChanges()
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// scanInitial records current modification times. w.mu must be held.
func (w *Watcher) scanInitial() {
	for _, p := range w.config.Paths {
		if info, err := os.Stat(p); err == nil {
			w.timestamps[p] = info.ModTime()
		}
	}
}

func (w *Watcher) checkForChanges() {
	w.mu.Lock()
	callback := w.onChange
	var changes []Change
	for _, p := range w.config.Paths {
		last, known := w.timestamps[p]
		info, err := os.Stat(p)
		switch {
		case err != nil && known:
			delete(w.timestamps, p)
			changes = append(changes, Change{Path: p, Type: ChangeRemoved})
		case err != nil:
		case !known:
			w.timestamps[p] = info.ModTime()
			changes = append(changes, Change{Path: p, Type: ChangeCreated})
		case !info.ModTime().Equal(last):
			w.timestamps[p] = info.ModTime()
			changes = append(changes, Change{Path: p, Type: ChangeModified})
		}
	}
	w.mu.Unlock()

	if callback == nil {
		return
	}
	for _, c := range changes {
		callback(c)
	}
}
