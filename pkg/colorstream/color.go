// Package colorstream writes powerline-style colored segments to a byte sink.
//
// A Stream tracks the active background color across independently rendered
// segments. When a new segment starts, the previous background becomes the
// foreground of the transition glyph, so each segment appears to emerge from
// the one before it. Segments never need to know about each other.
package colorstream

import "fmt"

// Color is an immutable 24-bit RGB color.
type Color struct {
	R, G, B uint8
}

// RGB returns the color with the given channel values.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Black is the background a fresh or reset stream assumes.
var Black = RGB(0, 0, 0)

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}
