package main

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/tilestorm/internal/config"
)

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	opts, err := parseFlags([]string{"-rows", "12", "-catalog", "t.json", "-print-catalog"}, &stderr)
	if err != nil {
		t.Fatalf("parseFlags() failed: %v", err)
	}

	if opts.rows != 12 || opts.catalog != "t.json" || !opts.printCatalog {
		t.Errorf("opts = %+v", opts)
	}
	if !opts.set["rows"] || !opts.set["catalog"] || opts.set["cols"] {
		t.Errorf("set = %v, want rows and catalog only", opts.set)
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-bogus"}},
		{"bad int", []string{"-rows", "many"}},
		{"positional", []string{"file.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			if _, err := parseFlags(tt.args, &stderr); err == nil {
				t.Error("expected error")
			}
			if stderr.Len() == 0 {
				t.Error("expected usage on stderr")
			}
		})
	}

	var stderr bytes.Buffer
	if _, err := parseFlags([]string{"-h"}, &stderr); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-h error = %v, want flag.ErrHelp", err)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tilestorm.toml")
	content := "[grid]\nrows = 5\ncols = 6\n\n[logging]\nlevel = \"debug\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TILESTORM_GRID_COLS", "8")

	var stderr bytes.Buffer
	opts, err := parseFlags([]string{"-config", path, "-rows", "9"}, &stderr)
	if err != nil {
		t.Fatalf("parseFlags() failed: %v", err)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}
	if cfg.Grid.Rows != 9 {
		t.Errorf("rows = %d, want 9 (flag)", cfg.Grid.Rows)
	}
	if cfg.Grid.Cols != 8 {
		t.Errorf("cols = %d, want 8 (environment)", cfg.Grid.Cols)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q, want debug (file)", cfg.Logging.Level)
	}
	if cfg.Catalog.Path != config.Default().Catalog.Path {
		t.Errorf("catalog = %q, want default", cfg.Catalog.Path)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	var stderr bytes.Buffer

	opts, _ := parseFlags([]string{"-config", filepath.Join(t.TempDir(), "missing.toml")}, &stderr)
	if _, err := loadConfig(opts); !errors.Is(err, config.ErrFileNotFound) {
		t.Errorf("loadConfig() = %v, want ErrFileNotFound", err)
	}

	opts, _ = parseFlags([]string{"-rows", "0"}, &stderr)
	if _, err := loadConfig(opts); !errors.Is(err, config.ErrValidationFailed) {
		t.Errorf("loadConfig() = %v, want ErrValidationFailed", err)
	}

	opts, _ = parseFlags([]string{"-log-level", "loud"}, &stderr)
	if _, err := loadConfig(opts); !errors.Is(err, config.ErrValidationFailed) {
		t.Errorf("loadConfig() = %v, want ErrValidationFailed", err)
	}
}

func TestPrintCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.json")
	data := `{"materials":[{"name":"grass","href":"grass.png","size":32}]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := printCatalog(path, &out); err != nil {
		t.Fatalf("printCatalog() failed: %v", err)
	}
	got := out.String()
	if !strings.HasPrefix(got, "[") || !strings.Contains(got, `"name":"grass"`) || !strings.HasSuffix(got, "\n") {
		t.Errorf("printCatalog() = %q", got)
	}

	if err := printCatalog(filepath.Join(t.TempDir(), "none.json"), &out); err == nil {
		t.Error("expected error for missing catalog")
	}
}
