// Package dev provides the development conveniences of the serve command:
// a polling file watcher and a Reloader that rebuilds the preview page
// when its manifest changes.
//
// # Hot Reload
//
//	r := dev.NewReloader(path, logger)
//	if err := r.Load(ctx, manifest); err != nil {
//	    return err
//	}
//	w := dev.NewWatcher(dev.WatcherConfig{Paths: []string{path}})
//	w.OnChange(func(dev.Change) { r.Reload(ctx) })
//	go w.Start(ctx)
//	http.ListenAndServe(addr, r)
//
// Each loaded page runs on its own loop goroutine. A reload mounts the new
// page before the old one is unmounted, so requests never see an empty
// handler. A manifest that fails to load or validate leaves the current
// page in place.
package dev
