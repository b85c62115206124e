// Package core holds the drawing primitives shared by the renderer and
// the backends.
package core

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a 24-bit color, or the terminal's own color when Default is set.
type Color struct {
	R, G, B uint8
	Default bool
}

var (
	ColorDefault = Color{Default: true}
	ColorBlack   = Color{}
	ColorWhite   = Color{R: 0xff, G: 0xff, B: 0xff}
)

func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromColorful clamps c into the RGB gamut.
func ColorFromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return ColorFromRGB(r, g, b)
}

// ColorFromHex parses "#rrggbb" or "#rgb".
func ColorFromHex(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return ColorFromColorful(c), nil
}

// MustHex parses a hex constant, falling back to ColorDefault.
func MustHex(hex string) Color {
	if c, err := ColorFromHex(hex); err == nil {
		return c
	}
	return ColorDefault
}

func (c Color) IsDefault() bool {
	return c.Default
}

func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 0xff, G: float64(c.G) / 0xff, B: float64(c.B) / 0xff}
}

// Contrast picks black or white text for a c background by CIE lightness.
func (c Color) Contrast() Color {
	if c.Default {
		return ColorDefault
	}
	if l, _, _ := c.Colorful().Lab(); l > 0.6 {
		return ColorBlack
	}
	return ColorWhite
}

func (c Color) String() string {
	if c.Default {
		return "default"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
