package tile

import (
	"errors"
	"fmt"
)

// Catalog errors.
var (
	// ErrEmptyCatalog indicates a catalog without materials.
	ErrEmptyCatalog = errors.New("no tiles defined")

	// ErrInvalidJSON indicates catalog data is not valid JSON.
	ErrInvalidJSON = errors.New("catalog is not valid JSON")

	// ErrNotArray indicates the catalog has no material array.
	ErrNotArray = errors.New("catalog must be an array of materials")

	// ErrMissingName indicates a material entry without a name.
	ErrMissingName = errors.New("material has no name")
)

// CatalogError describes a failure to load or parse a catalog.
type CatalogError struct {
	Path  string // Source file, empty for in-memory data
	Index int    // Material index, -1 if not specific to one entry
	Err   error
}

func (e *CatalogError) Error() string {
	source := e.Path
	if source == "" {
		source = "<data>"
	}
	if e.Index >= 0 {
		return fmt.Sprintf("catalog %s: material %d: %v", source, e.Index, e.Err)
	}
	return fmt.Sprintf("catalog %s: %v", source, e.Err)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}
