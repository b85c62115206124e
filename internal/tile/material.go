package tile

import (
	"hash/fnv"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Material is a tile image from the catalog.
type Material struct {
	Name  string
	Href  string
	Size  int
	Color string // Optional hex color used by the terminal frontend
}

// ID returns the identifier used for the material's pattern definition.
func (m Material) ID() string {
	return "tile" + m.Name
}

// URLReference returns a CSS url() reference to the material's pattern.
func (m Material) URLReference() string {
	return "url(#" + m.ID() + ")"
}

func (m Material) String() string {
	return m.Name
}

// TerminalColor returns the color used to draw the material.
// An explicit Color wins; otherwise a stable color is derived from the name.
func (m Material) TerminalColor() colorful.Color {
	if m.Color != "" {
		if c, err := colorful.Hex(m.Color); err == nil {
			return c
		}
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(m.Name))
	hue := float64(h.Sum32() % 360)
	return colorful.Hcl(hue, 0.45, 0.65).Clamped()
}
