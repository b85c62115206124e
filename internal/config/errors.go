package config

import (
	"errors"
	"fmt"

	"github.com/dshills/tilestorm/internal/config/loader"
)

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrFileNotFound     = errors.New("config file not found")
)

// ParseError is a syntax error in a config file.
type ParseError = loader.ParseError

// ValidationError rejects the value held at a setting path. It matches
// ErrValidationFailed under errors.Is.
type ValidationError struct {
	Path    string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Path, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }
