package loader

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader reads a layer from a TOML file.
type TOMLLoader struct {
	path     string
	fs       FileSystem
	required bool
}

// TOMLOption configures a TOMLLoader.
type TOMLOption func(*TOMLLoader)

// FromFS reads the file through fsys instead of the OS.
func FromFS(fsys FileSystem) TOMLOption {
	return func(l *TOMLLoader) {
		l.fs = fsys
	}
}

// Required makes a missing file an error wrapping fs.ErrNotExist.
func Required() TOMLOption {
	return func(l *TOMLLoader) {
		l.required = true
	}
}

// NewTOMLLoader creates a loader for path. An empty path loads nothing.
func NewTOMLLoader(path string, opts ...TOMLOption) *TOMLLoader {
	l := &TOMLLoader{path: path, fs: OS}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and parses the file.
func (l *TOMLLoader) Load() (map[string]any, error) {
	if l.path == "" {
		return nil, nil
	}

	data, err := l.fs.ReadFile(l.path)
	switch {
	case err == nil:
		return Parse(l.path, data)
	case errors.Is(err, fs.ErrNotExist) && !l.required:
		return nil, nil
	default:
		return nil, fmt.Errorf("reading config file %s: %w", l.path, err)
	}
}

// Parse decodes TOML data. Source names the data in errors.
func Parse(source string, data []byte) (map[string]any, error) {
	var layer map[string]any
	err := toml.Unmarshal(data, &layer)
	if err == nil {
		return layer, nil
	}

	pe := &ParseError{Path: source, Message: err.Error(), Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		pe.Line, pe.Column = derr.Position()
	}
	return nil, pe
}

// ParseError reports malformed configuration. Line and Column are
// 1-based and zero when unknown.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	where := e.Path
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d", where, e.Line)
		if e.Column > 0 {
			where = fmt.Sprintf("%s:%d", where, e.Column)
		}
	}
	return "config " + where + ": " + e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
