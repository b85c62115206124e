package tile

import (
	"errors"
	"fmt"
	"iter"
	"os"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/tilestorm/internal/engine/seq"
)

// Catalog is an ordered, immutable list of materials.
type Catalog struct {
	materials seq.Seq[Material]
}

// NewCatalog creates a catalog from materials.
func NewCatalog(materials ...Material) Catalog {
	return Catalog{materials: seq.New(materials...)}
}

// LoadCatalog reads and parses a catalog file.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, &CatalogError{Path: path, Index: -1, Err: err}
	}

	c, err := ParseCatalog(data)
	if err != nil {
		var ce *CatalogError
		if errors.As(err, &ce) {
			ce.Path = path
		}
		return Catalog{}, err
	}
	return c, nil
}

// ParseCatalog parses catalog JSON.
// It fails with ErrEmptyCatalog if no materials are defined.
func ParseCatalog(data []byte) (Catalog, error) {
	if !gjson.ValidBytes(data) {
		return Catalog{}, &CatalogError{Index: -1, Err: ErrInvalidJSON}
	}

	root := gjson.ParseBytes(data)
	if root.IsObject() {
		root = root.Get("materials")
	}
	if !root.IsArray() {
		return Catalog{}, &CatalogError{Index: -1, Err: ErrNotArray}
	}

	var (
		materials []Material
		parseErr  error
	)
	root.ForEach(func(_, v gjson.Result) bool {
		index := len(materials)
		name := v.Get("name")
		if !name.Exists() || name.String() == "" {
			parseErr = &CatalogError{Index: index, Err: ErrMissingName}
			return false
		}
		size := v.Get("size")
		if size.Exists() && size.Type != gjson.Number {
			parseErr = &CatalogError{Index: index, Err: fmt.Errorf("size must be a number, got %s", size.Raw)}
			return false
		}
		materials = append(materials, Material{
			Name:  name.String(),
			Href:  v.Get("href").String(),
			Size:  int(size.Int()),
			Color: v.Get("color").String(),
		})
		return true
	})
	if parseErr != nil {
		return Catalog{}, parseErr
	}

	if len(materials) == 0 {
		return Catalog{}, &CatalogError{Index: -1, Err: ErrEmptyCatalog}
	}
	return NewCatalog(materials...), nil
}

// Encode writes the catalog as JSON in the object form.
func (c Catalog) Encode() ([]byte, error) {
	doc := []byte(`{"materials":[]}`)
	for i, m := range c.materials.All() {
		entry := []byte(`{}`)
		var err error
		if entry, err = sjson.SetBytes(entry, "name", m.Name); err != nil {
			return nil, fmt.Errorf("encode material %d: %w", i, err)
		}
		if entry, err = sjson.SetBytes(entry, "href", m.Href); err != nil {
			return nil, fmt.Errorf("encode material %d: %w", i, err)
		}
		if entry, err = sjson.SetBytes(entry, "size", m.Size); err != nil {
			return nil, fmt.Errorf("encode material %d: %w", i, err)
		}
		if m.Color != "" {
			if entry, err = sjson.SetBytes(entry, "color", m.Color); err != nil {
				return nil, fmt.Errorf("encode material %d: %w", i, err)
			}
		}
		if doc, err = sjson.SetRawBytes(doc, "materials.-1", entry); err != nil {
			return nil, fmt.Errorf("encode material %d: %w", i, err)
		}
	}
	return doc, nil
}

// Len returns the number of materials.
func (c Catalog) Len() int {
	return c.materials.Len()
}

// IsEmpty returns true if the catalog has no materials.
func (c Catalog) IsEmpty() bool {
	return c.materials.Len() == 0
}

// Material returns the material at index i.
func (c Catalog) Material(i int) (Material, bool) {
	return c.materials.Get(i)
}

// First returns the first material, used for new rooms.
func (c Catalog) First() (Material, bool) {
	return c.materials.Get(0)
}

// Index returns the position of the material with the given name, or -1.
func (c Catalog) Index(name string) int {
	for i, m := range c.materials.All() {
		if m.Name == name {
			return i
		}
	}
	return -1
}

// Next returns the material after m, wrapping around.
// If m is not in the catalog the first material is returned.
func (c Catalog) Next(m Material) (Material, bool) {
	if c.IsEmpty() {
		return Material{}, false
	}
	i := c.Index(m.Name)
	return c.materials.Get((i + 1) % c.materials.Len())
}

// All returns an iterator over the materials.
func (c Catalog) All() iter.Seq2[int, Material] {
	return c.materials.All()
}
