package app

import (
	"path/filepath"

	"github.com/dshills/tilestorm/internal/renderer/backend"
	"github.com/dshills/tilestorm/internal/tile"
	"github.com/dshills/tilestorm/internal/watcher"
)

// reloadKind is posted to the event loop when a watched file changes.
type reloadKind int

const (
	reloadNone reloadKind = iota
	reloadCatalog
	reloadScripts
)

// classify maps a changed path to what must be reloaded.
func (app *Application) classify(path string) reloadKind {
	abs, err := filepath.Abs(path)
	if err != nil {
		return reloadNone
	}
	if app.catalogPath != "" && abs == app.catalogPath {
		return reloadCatalog
	}
	if app.scripts != nil && filepath.Ext(abs) == ".lua" {
		dir, err := filepath.Abs(app.scripts.Dir())
		if err == nil && filepath.Dir(abs) == dir {
			return reloadScripts
		}
	}
	return reloadNone
}

// startWatcher watches the catalog file and script directory, as enabled
// in the config, and forwards changes to the event loop as interrupts.
func (app *Application) startWatcher(b backend.Backend) error {
	var paths []string
	if app.cfg.Catalog.Watch && app.catalogPath != "" {
		paths = append(paths, app.catalogPath)
	}
	if app.cfg.Scripts.Watch && app.scripts != nil {
		paths = append(paths, app.scripts.Dir())
	}
	if len(paths) == 0 {
		return nil
	}

	inner, err := watcher.NewFSNotifyWatcher(watcher.WithEventFilter(func(ev watcher.Event) bool {
		return app.classify(ev.Path) != reloadNone
	}))
	if err != nil {
		return err
	}
	w := watcher.NewDebouncedWatcher(inner, watcher.DefaultDebounceDelay)

	for _, p := range paths {
		if err := w.Watch(p); err != nil {
			_ = w.Close()
			return NewOperationError("watch", "", p, err)
		}
	}

	app.watcher = w
	app.watchWg.Add(1)
	go app.forwardReloads(w, b)

	app.logger.Debug("watching files", "paths", paths)
	return nil
}

func (app *Application) forwardReloads(w watcher.Watcher, b backend.Backend) {
	defer app.watchWg.Done()

	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				return
			}
			if kind := app.classify(ev.Path); kind != reloadNone {
				b.PostEvent(backend.Event{Type: backend.EventInterrupt, Data: kind})
			}
		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			app.logger.Warn("watch error", "error", err)
		}
	}
}

func (app *Application) stopWatcher() {
	if app.watcher == nil {
		return
	}
	if err := app.watcher.Close(); err != nil {
		app.logger.Warn("closing watcher", "error", err)
	}
	app.watchWg.Wait()
	app.watcher = nil
}

// handleInterrupt runs reloads posted by the watcher. Other interrupts
// only wake the loop.
func (app *Application) handleInterrupt(data any) {
	kind, ok := data.(reloadKind)
	if !ok {
		return
	}
	switch kind {
	case reloadCatalog:
		app.ReloadCatalog()
	case reloadScripts:
		app.ReloadScripts()
	}
}

// ReloadCatalog re-reads the catalog file and rebinds every room to the
// material of the same name. On error the current catalog is kept.
func (app *Application) ReloadCatalog() error {
	c, err := tile.LoadCatalog(app.cfg.Catalog.Path)
	if err != nil {
		err = NewOperationError("reload", "catalog", app.cfg.Catalog.Path, err)
		app.logger.Warn("catalog reload failed", "error", err)
		app.setMessage(err.Error())
		return err
	}

	app.catalog = c
	app.rooms = app.rooms.Rebind(c)
	app.logger.Info("catalog reloaded", "path", app.cfg.Catalog.Path, "materials", c.Len())
	app.setMessage("catalog reloaded")
	return nil
}

// ReloadScripts re-reads the script directory. On error the current
// scripts are kept.
func (app *Application) ReloadScripts() error {
	if app.scripts == nil {
		return ErrNoScripts
	}
	if err := app.scripts.Reload(); err != nil {
		err = NewOperationError("reload", "scripts", app.scripts.Dir(), err)
		app.logger.Warn("script reload failed", "error", err)
		app.setMessage(err.Error())
		return err
	}

	if n := app.scripts.Len(); n > 0 {
		app.scriptIndex %= n
	} else if app.tool == ToolScript {
		app.tool = ToolBrush
	}
	app.logger.Info("scripts reloaded", "dir", app.scripts.Dir(), "count", app.scripts.Len())
	app.setMessage("scripts reloaded")
	return nil
}
