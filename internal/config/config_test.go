package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/tilestorm/internal/config/loader"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tilestorm.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Grid.Rows != 10 || cfg.Grid.Cols != 10 {
		t.Errorf("default grid = %dx%d, want 10x10", cfg.Grid.Rows, cfg.Grid.Cols)
	}
	if cfg.History.MaxEntries != 0 {
		t.Errorf("default history should be unbounded, got %d", cfg.History.MaxEntries)
	}
}

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := Load(WithEnviron(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[grid]
rows = 24
cell_width = 3

[history]
max_entries = 100

[catalog]
path = "assets/tiles.json"
watch = false

[logging]
level = "debug"
`)

	cfg, err := Load(WithFile(path), WithEnviron(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Grid.Rows != 24 {
		t.Errorf("Grid.Rows = %d, want 24", cfg.Grid.Rows)
	}
	if cfg.Grid.Cols != 10 {
		t.Errorf("Grid.Cols = %d, want default 10", cfg.Grid.Cols)
	}
	if cfg.Grid.CellWidth != 3 {
		t.Errorf("Grid.CellWidth = %d, want 3", cfg.Grid.CellWidth)
	}
	if cfg.History.MaxEntries != 100 {
		t.Errorf("History.MaxEntries = %d, want 100", cfg.History.MaxEntries)
	}
	if cfg.Catalog.Path != "assets/tiles.json" || cfg.Catalog.Watch {
		t.Errorf("Catalog = %+v", cfg.Catalog)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.UI != Default().UI {
		t.Errorf("UI should keep defaults, got %+v", cfg.UI)
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, `
[grid]
rows = 24
cols = 40

[logging]
level = "warn"
`)

	cfg, err := Load(WithFile(path), WithEnviron([]string{
		"TILESTORM_GRID_COLS=50",
		"TILESTORM_LOG_LEVEL=error",
	}))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Grid.Rows != 24 {
		t.Errorf("Grid.Rows = %d, want file value 24", cfg.Grid.Rows)
	}
	if cfg.Grid.Cols != 50 {
		t.Errorf("Grid.Cols = %d, want env value 50", cfg.Grid.Cols)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want env value error", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	if _, err := Load(WithFile(missing), WithEnviron(nil)); err != nil {
		t.Errorf("optional missing file should be skipped, got %v", err)
	}

	_, err := Load(WithRequiredFile(missing), WithEnviron(nil))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("required missing file: got %v, want ErrFileNotFound", err)
	}
}

func TestLoadFileSystem(t *testing.T) {
	files := map[string]string{
		"/etc/tilestorm.toml": "[grid]\nrows = 4\n",
	}
	fsys := loader.ReadFileFunc(func(path string) ([]byte, error) {
		data, ok := files[path]
		if !ok {
			return nil, fs.ErrNotExist
		}
		return []byte(data), nil
	})

	cfg, err := Load(WithRequiredFile("/etc/tilestorm.toml"), WithFileSystem(fsys), WithEnviron(nil))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Grid.Rows != 4 {
		t.Errorf("Grid.Rows = %d, want 4", cfg.Grid.Rows)
	}

	_, err = Load(WithRequiredFile("/etc/other.toml"), WithFileSystem(fsys), WithEnviron(nil))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("got %v, want ErrFileNotFound", err)
	}
}

func TestLoadParseError(t *testing.T) {
	path := writeConfig(t, "[grid\nrows = 3\n")

	_, err := Load(WithFile(path), WithEnviron(nil))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Path != path {
		t.Errorf("Path = %q, want %q", pe.Path, path)
	}
}

func TestLoadUnknownSetting(t *testing.T) {
	path := writeConfig(t, "[grid]\nheight = 3\n")

	_, err := Load(WithFile(path), WithEnviron(nil))
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("unknown setting: got %v, want ErrValidationFailed", err)
	}
}

func TestLoadWrongType(t *testing.T) {
	_, err := Load(WithEnviron([]string{"TILESTORM_GRID_ROWS=many"}))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Errorf("string for int setting: got %v, want ParseError", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		path   string
	}{
		{"zero rows", func(c *Config) { c.Grid.Rows = 0 }, "grid.rows"},
		{"negative cols", func(c *Config) { c.Grid.Cols = -2 }, "grid.cols"},
		{"zero cell width", func(c *Config) { c.Grid.CellWidth = 0 }, "grid.cell_width"},
		{"negative history", func(c *Config) { c.History.MaxEntries = -1 }, "history.max_entries"},
		{"negative instruction limit", func(c *Config) { c.Scripts.InstructionLimit = -1 }, "scripts.instruction_limit"},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			err := cfg.Validate()
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("Validate() = %v, want ErrValidationFailed", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Path != tt.path {
				t.Errorf("failing path = %v, want %s", ve, tt.path)
			}
		})
	}
}

func TestValidLogLevel(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "warn", "warning", "error"} {
		if !ValidLogLevel(level) {
			t.Errorf("ValidLogLevel(%q) = false", level)
		}
	}
	if ValidLogLevel("trace") {
		t.Error("ValidLogLevel(trace) = true")
	}
}
