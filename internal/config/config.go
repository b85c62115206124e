package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/tilestorm/internal/config/loader"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "TILESTORM_"

// Config is the complete Tilestorm configuration.
type Config struct {
	Grid    GridConfig    `toml:"grid"`
	History HistoryConfig `toml:"history"`
	Catalog CatalogConfig `toml:"catalog"`
	Scripts ScriptsConfig `toml:"scripts"`
	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
}

// GridConfig holds the initial canvas size.
type GridConfig struct {
	Rows      int `toml:"rows"`
	Cols      int `toml:"cols"`
	CellWidth int `toml:"cell_width"` // Terminal columns per cell
}

// HistoryConfig holds undo/redo settings.
type HistoryConfig struct {
	MaxEntries int `toml:"max_entries"` // 0 means unbounded
}

// CatalogConfig locates the tile catalog.
type CatalogConfig struct {
	Path  string `toml:"path"`
	Watch bool   `toml:"watch"`
}

// ScriptsConfig locates Lua tool scripts.
type ScriptsConfig struct {
	Dir              string `toml:"dir"`
	InstructionLimit int64  `toml:"instruction_limit"`
	Watch            bool   `toml:"watch"`
}

// LoggingConfig controls the log output.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // Empty discards log output
}

// UIConfig holds frontend colors as hex strings.
type UIConfig struct {
	Background string `toml:"background"`
	GridLine   string `toml:"grid_line"`
	Cursor     string `toml:"cursor"`
	StatusFg   string `toml:"status_fg"`
	StatusBg   string `toml:"status_bg"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Rows:      10,
			Cols:      10,
			CellWidth: 2,
		},
		Catalog: CatalogConfig{
			Path:  "tiles.json",
			Watch: true,
		},
		Scripts: ScriptsConfig{
			InstructionLimit: 1_000_000,
			Watch:            true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			Background: "#1e1e2e",
			GridLine:   "#45475a",
			Cursor:     "#f5e0dc",
			StatusFg:   "#cdd6f4",
			StatusBg:   "#313244",
		},
	}
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	path     string
	required bool
	fs       loader.FileSystem
	env      *loader.EnvLoader
}

// WithFile loads the TOML file at path. A missing file is skipped.
func WithFile(path string) Option {
	return func(o *loadOptions) {
		o.path = path
	}
}

// WithRequiredFile loads the TOML file at path and fails if it is missing.
func WithRequiredFile(path string) Option {
	return func(o *loadOptions) {
		o.path = path
		o.required = true
	}
}

// WithFileSystem sets the file system used to read the config file.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(o *loadOptions) {
		o.fs = fsys
	}
}

// WithEnviron reads environment settings from environ, in os.Environ
// form, instead of the process environment.
func WithEnviron(environ []string) Option {
	return func(o *loadOptions) {
		o.env = loader.NewEnvLoaderWithEnviron(EnvPrefix, environ)
	}
}

// Load builds a Config from defaults, the config file and the environment,
// then validates it.
func Load(opts ...Option) (*Config, error) {
	o := loadOptions{fs: loader.OS}
	for _, opt := range opts {
		opt(&o)
	}
	if o.env == nil {
		o.env = loader.NewEnvLoader(EnvPrefix)
	}

	tomlOpts := []loader.TOMLOption{loader.FromFS(o.fs)}
	if o.required {
		tomlOpts = append(tomlOpts, loader.Required())
	}
	fileLayer, err := loader.NewTOMLLoader(o.path, tomlOpts...).Load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, o.path)
		}
		return nil, err
	}
	envLayer, err := o.env.Load()
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := Default()
	if err := cfg.apply(loader.Merge(fileLayer, envLayer)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// apply decodes a merged settings map over c, leaving unset fields alone.
func (c *Config) apply(settings map[string]any) error {
	if len(settings) == 0 {
		return nil
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding merged config: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return &ValidationError{Path: "config", Message: "unknown setting", Value: strings.TrimSpace(strict.String())}
		}
		return &ParseError{Path: "merged config", Message: err.Error(), Err: err}
	}
	return nil
}

// Validate checks that every setting holds a usable value.
func (c *Config) Validate() error {
	var errs []error

	if c.Grid.Rows < 1 {
		errs = append(errs, &ValidationError{Path: "grid.rows", Message: "must be at least 1", Value: c.Grid.Rows})
	}
	if c.Grid.Cols < 1 {
		errs = append(errs, &ValidationError{Path: "grid.cols", Message: "must be at least 1", Value: c.Grid.Cols})
	}
	if c.Grid.CellWidth < 1 {
		errs = append(errs, &ValidationError{Path: "grid.cell_width", Message: "must be at least 1", Value: c.Grid.CellWidth})
	}
	if c.History.MaxEntries < 0 {
		errs = append(errs, &ValidationError{Path: "history.max_entries", Message: "must not be negative", Value: c.History.MaxEntries})
	}
	if c.Scripts.InstructionLimit < 0 {
		errs = append(errs, &ValidationError{Path: "scripts.instruction_limit", Message: "must not be negative", Value: c.Scripts.InstructionLimit})
	}
	if !ValidLogLevel(c.Logging.Level) {
		errs = append(errs, &ValidationError{Path: "logging.level", Message: "must be one of debug, info, warn, error", Value: c.Logging.Level})
	}

	return errors.Join(errs...)
}

// ValidLogLevel reports whether level names a known log level.
func ValidLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}
