package dev

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/vango-dev/velement/internal/config"
	"github.com/vango-dev/velement/internal/preview"
)

// instance is one mounted page and the goroutine running its loop.
type instance struct {
	page    *preview.Page
	handler http.Handler
	cancel  context.CancelFunc
	done    chan struct{}
}

// Reloader serves the most recently loaded page.
type Reloader struct {
	path   string
	logger *slog.Logger
	opts   []preview.Option

	mu      sync.Mutex // serializes Load and Close
	current atomic.Pointer[instance]
	reloads atomic.Int64
}

// NewReloader creates a Reloader for the manifest at path. opts are passed
// to every preview.New.
func NewReloader(path string, logger *slog.Logger, opts ...preview.Option) *Reloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reloader{
		path:   path,
		logger: logger.With("component", "reloader"),
		opts:   append([]preview.Option{preview.WithLogger(logger)}, opts...),
	}
}

// Load mounts a page for m and makes it current, tearing down the previous
// page afterwards.
func (r *Reloader) Load(ctx context.Context, m *config.Manifest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	inst, err := r.start(ctx, m)
	if err != nil {
		return err
	}
	if old := r.current.Swap(inst); old != nil {
		r.stop(ctx, old)
		r.reloads.Add(1)
	}
	return nil
}

// Reload reads the manifest from disk and loads it. Errors are logged and
// returned; the current page keeps serving.
func (r *Reloader) Reload(ctx context.Context) error {
	m, err := config.Load(r.path)
	if err == nil {
		err = r.Load(ctx, m)
	}
	if err != nil {
		r.logger.Error("reload failed, keeping current page", "path", r.path, "error", err)
		return err
	}
	r.logger.Info("page reloaded", "path", r.path, "components", len(m.Components))
	return nil
}

// Page returns the current page, or nil before the first Load.
func (r *Reloader) Page() *preview.Page {
	if inst := r.current.Load(); inst != nil {
		return inst.page
	}
	return nil
}

// Reloads returns how many times a page has been replaced.
func (r *Reloader) Reloads() int64 {
	return r.reloads.Load()
}

// ServeHTTP implements http.Handler.
func (r *Reloader) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	inst := r.current.Load()
	if inst == nil {
		http.Error(w, "no page loaded", http.StatusServiceUnavailable)
		return
	}
	inst.handler.ServeHTTP(w, req)
}

// Close unmounts the current page and stops its loop.
func (r *Reloader) Close(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inst := r.current.Swap(nil); inst != nil {
		r.stop(ctx, inst)
	}
}

func (r *Reloader) start(ctx context.Context, m *config.Manifest) (*instance, error) {
	p, err := preview.New(m, r.opts...)
	if err != nil {
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	inst := &instance{page: p, cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(inst.done)
		p.Loop().Run(loopCtx)
	}()

	var mountErr error
	if err := p.Loop().Call(ctx, func() { mountErr = p.Mount() }); err != nil {
		r.stop(ctx, inst)
		return nil, err
	}
	if mountErr != nil {
		r.stop(ctx, inst)
		return nil, mountErr
	}
	inst.handler = preview.NewServer(p)
	return inst, nil
}

func (r *Reloader) stop(ctx context.Context, inst *instance) {
	if err := inst.page.Loop().Call(ctx, inst.page.Unmount); err != nil {
		r.logger.Warn("unmount skipped", "error", err)
	}
	inst.cancel()
	<-inst.done
}
