// Package metrics supplies font measurements to the layout engine.
package metrics

import "pager/common"

// Provider measures text set in one of the known fonts. Implementations must
// be deterministic: the same input always yields the same numbers.
type Provider interface {
	// LineHeight returns unscaled line height of the font in pixels.
	LineHeight(font int) int
	// SpaceWidth returns width of a single inter-word space.
	SpaceWidth(font int, style common.FontStyle) int
	// TextWidth returns advance width of the text.
	TextWidth(font int, style common.FontStyle, text string) int
}

// Monospace is a trivial provider where every character has the same
// advance regardless of font and style.
type Monospace struct {
	Advance int
	Height  int
}

func (m Monospace) LineHeight(int) int {
	return m.Height
}

func (m Monospace) SpaceWidth(int, common.FontStyle) int {
	return m.Advance
}

func (m Monospace) TextWidth(_ int, _ common.FontStyle, text string) int {
	n := 0
	for range text {
		n++
	}
	return n * m.Advance
}
