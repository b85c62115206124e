package script

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/dshills/tilestorm/internal/engine/grid"
	"github.com/dshills/tilestorm/internal/tile"
)

// Script is a loaded tool script.
type Script struct {
	Name   string // File name without the .lua extension
	Path   string
	source string
}

// Tool holds the scripts of a directory.
//
// Tool is safe for concurrent use; Reload may run from a file watcher
// while the editor runs scripts.
type Tool struct {
	mu      sync.RWMutex
	dir     string
	scripts []*Script

	timeout          time.Duration
	instructionLimit int64
	logger           *slog.Logger
}

// ToolOption configures a Tool.
type ToolOption func(*Tool)

// WithToolTimeout sets the per-run execution timeout.
func WithToolTimeout(d time.Duration) ToolOption {
	return func(t *Tool) {
		t.timeout = d
	}
}

// WithToolInstructionLimit sets the per-run instruction budget.
func WithToolInstructionLimit(limit int64) ToolOption {
	return func(t *Tool) {
		t.instructionLimit = limit
	}
}

// WithToolLogger sets the logger for load events and script output.
func WithToolLogger(logger *slog.Logger) ToolOption {
	return func(t *Tool) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// LoadDir loads every *.lua file in dir, sorted by name.
// A script that fails to compile fails the whole load with a ScriptError.
func LoadDir(dir string, opts ...ToolOption) (*Tool, error) {
	t := &Tool{
		dir:              dir,
		timeout:          DefaultExecutionTimeout,
		instructionLimit: DefaultInstructionLimit,
		logger:           slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Dir returns the script directory.
func (t *Tool) Dir() string {
	return t.dir
}

// Reload re-reads the script directory. On error the previous scripts
// are kept.
func (t *Tool) Reload() error {
	scripts, err := readScripts(t.dir)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.scripts = scripts
	t.mu.Unlock()

	t.logger.Debug("scripts loaded", "dir", t.dir, "count", len(scripts))
	return nil
}

func readScripts(dir string) ([]*Script, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.lua"))
	if err != nil {
		return nil, fmt.Errorf("listing scripts in %s: %w", dir, err)
	}
	slices.Sort(paths)

	scripts := make([]*Script, 0, len(paths))
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".lua")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ScriptError{Script: name, Err: err}
		}
		if _, err := parse.Parse(strings.NewReader(string(data)), path); err != nil {
			return nil, &ScriptError{Script: name, Err: err}
		}
		scripts = append(scripts, &Script{Name: name, Path: path, source: string(data)})
	}
	return scripts, nil
}

// Names returns the script names in load order.
func (t *Tool) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, len(t.scripts))
	for i, s := range t.scripts {
		names[i] = s.Name
	}
	return names
}

// Len returns the number of scripts.
func (t *Tool) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.scripts)
}

func (t *Tool) lookup(name string) (*Script, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, s := range t.scripts {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Run executes the named script's apply(canvas, row, col, room) on g and
// returns the resulting grid. If the script makes no effective change
// the result is Same as g.
func (t *Tool) Run(ctx context.Context, name string, g grid.Grid[tile.Cell], row, col int, room tile.Cell) (grid.Grid[tile.Cell], error) {
	s, ok := t.lookup(name)
	if !ok {
		return g, &ScriptError{Script: name, Err: ErrScriptNotFound}
	}

	state := NewState(
		WithExecutionTimeout(t.timeout),
		WithInstructionLimit(t.instructionLimit),
		WithLogger(t.logger.With("script", name)),
	)
	defer state.Close()

	if err := state.DoString(ctx, s.source); err != nil {
		return g, &ScriptError{Script: name, Err: err}
	}

	canvas := NewCanvas(g, state.Sandbox())
	err := state.Call(ctx, "apply",
		canvas.Table(state.L),
		lua.LNumber(row),
		lua.LNumber(col),
		cellToLua(room),
	)
	if err != nil {
		return g, &ScriptError{Script: name, Err: err}
	}

	t.logger.Debug("script applied", "script", name, "calls", state.Sandbox().Used())
	return canvas.Grid(), nil
}
