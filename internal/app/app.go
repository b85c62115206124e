// Package app provides the main application structure and coordination
// for the tilestorm editor. It wires the engine, the material catalog,
// the script tool and the terminal frontend together and runs the event
// loop.
package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/tilestorm/internal/config"
	"github.com/dshills/tilestorm/internal/engine"
	"github.com/dshills/tilestorm/internal/renderer"
	"github.com/dshills/tilestorm/internal/renderer/backend"
	"github.com/dshills/tilestorm/internal/renderer/core"
	"github.com/dshills/tilestorm/internal/script"
	"github.com/dshills/tilestorm/internal/tile"
	"github.com/dshills/tilestorm/internal/watcher"
)

// MaxCellWidth bounds zooming in.
const MaxCellWidth = 16

// Application is the central coordinator for all tilestorm components.
// Editing state is owned by the event loop goroutine.
type Application struct {
	mu sync.RWMutex

	cfg    *config.Config
	logger *slog.Logger

	// Model
	engine      *engine.Engine
	catalog     tile.Catalog
	catalogPath string
	rooms       tile.Rooms
	selected    int
	scripts     *script.Tool
	scriptIndex int

	// Interaction
	tool      Tool
	cursor    engine.Pos
	cellWidth int
	painting  bool
	lastPos   engine.Pos
	message   string

	// Checkpoints: mark is set by the user, ahead by jumping back to mark.
	mark     engine.Checkpoint
	marked   bool
	ahead    engine.Checkpoint
	hasAhead bool

	// Frontend
	backend  backend.Backend
	renderer *renderer.Renderer
	theme    renderer.Theme

	// File watching
	watcher watcher.Watcher
	watchWg sync.WaitGroup

	// State
	ctx          context.Context
	cancel       context.CancelFunc
	running      atomic.Bool
	done         chan struct{}
	shutdownOnce sync.Once
}

// Options configures the application.
type Options struct {
	// Config holds the settings. Nil means config.Default().
	Config *config.Config

	// Catalog is used instead of loading Config.Catalog.Path when non-empty.
	Catalog tile.Catalog

	// Logger receives application logs. Nil discards them.
	Logger *slog.Logger

	// Clock stamps history entries. Nil means time.Now.
	Clock func() time.Time
}

// New creates a new Application with the given options.
func New(opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(DefaultLoggerConfig())
	}

	catalog := opts.Catalog
	if catalog.IsEmpty() {
		c, err := tile.LoadCatalog(cfg.Catalog.Path)
		if err != nil {
			return nil, &InitError{Component: "catalog", Err: err}
		}
		catalog = c
	}
	first, _ := catalog.First()

	engineOpts := []engine.Option{
		engine.WithDimensions(cfg.Grid.Rows, cfg.Grid.Cols),
		engine.WithMaxUndoEntries(cfg.History.MaxEntries),
		engine.WithLogger(WithComponent(logger, "engine")),
	}
	if opts.Clock != nil {
		engineOpts = append(engineOpts, engine.WithClock(opts.Clock))
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		cfg:       cfg,
		logger:    logger,
		engine:    engine.New(engineOpts...),
		catalog:   catalog,
		rooms:     tile.NewRooms(first),
		tool:      ToolBrush,
		cellWidth: cfg.Grid.CellWidth,
		theme:     ThemeFromConfig(cfg.UI),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	if cfg.Catalog.Path != "" {
		if abs, err := filepath.Abs(cfg.Catalog.Path); err == nil {
			app.catalogPath = abs
		}
	}

	if cfg.Scripts.Dir != "" {
		tool, err := script.LoadDir(cfg.Scripts.Dir,
			script.WithToolInstructionLimit(cfg.Scripts.InstructionLimit),
			script.WithToolLogger(WithComponent(logger, "script")),
		)
		if err != nil {
			cancel()
			return nil, &InitError{Component: "scripts", Err: err}
		}
		app.scripts = tool
	}

	return app, nil
}

// ThemeFromConfig builds a renderer theme from the [ui] settings.
// Colors that fail to parse keep their default.
func ThemeFromConfig(ui config.UIConfig) renderer.Theme {
	theme := renderer.DefaultTheme()
	set := func(dst *core.Color, hex string) {
		if c, err := core.ColorFromHex(hex); err == nil {
			*dst = c
		}
	}
	set(&theme.Background, ui.Background)
	set(&theme.GridLine, ui.GridLine)
	set(&theme.Cursor, ui.Cursor)
	set(&theme.StatusFg, ui.StatusFg)
	set(&theme.StatusBg, ui.StatusBg)
	return theme
}

// SetBackend sets the terminal backend.
// Must be called before Run().
func (app *Application) SetBackend(b backend.Backend) error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.running.Load() {
		return ErrAlreadyRunning
	}

	app.backend = b
	return nil
}

func (app *Application) getBackend() backend.Backend {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.backend
}

// Run starts the application main loop.
// Blocks until the user quits or Shutdown is called. A user quit is
// reported as ErrQuit.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	b := app.getBackend()
	if b == nil {
		return ErrNoBackend
	}
	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer b.Shutdown()

	app.renderer = renderer.New(b, app.theme)

	if err := app.startWatcher(b); err != nil {
		app.logger.Warn("file watching disabled", "error", err)
	}
	defer app.stopWatcher()
	defer app.Shutdown()

	app.logger.Info("application started",
		"rows", app.engine.Rows(),
		"cols", app.engine.Cols(),
		"materials", app.catalog.Len(),
		"scripts", app.scriptCount(),
	)

	return app.eventLoop(b)
}

// Shutdown stops the event loop and cancels running scripts.
// It is safe to call from any goroutine and more than once.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		close(app.done)
		app.cancel()
		if b := app.getBackend(); b != nil {
			// Wake the input goroutine
			b.PostEvent(backend.Event{Type: backend.EventInterrupt})
		}
	})
}

// IsRunning returns true if the application is running.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Engine returns the editing engine.
func (app *Application) Engine() *engine.Engine {
	return app.engine
}

// Catalog returns the material catalog.
func (app *Application) Catalog() tile.Catalog {
	return app.catalog
}

// Rooms returns the current rooms.
func (app *Application) Rooms() tile.Rooms {
	return app.rooms
}

// SelectedRoom returns the index of the room painted by the brush and fill tools.
func (app *Application) SelectedRoom() int {
	return app.selected
}

// CurrentTool returns the active tool.
func (app *Application) CurrentTool() Tool {
	return app.tool
}

// Cursor returns the keyboard cursor position.
func (app *Application) Cursor() engine.Pos {
	return app.cursor
}

// CellWidth returns the current zoom level in screen columns per cell.
func (app *Application) CellWidth() int {
	return app.cellWidth
}

// Message returns the last status message.
func (app *Application) Message() string {
	return app.message
}

func (app *Application) scriptCount() int {
	if app.scripts == nil {
		return 0
	}
	return app.scripts.Len()
}
