// Package render projects session state onto draw commands and rasterizes
// them into a terminal cell grid. Nothing here mutates session state.
package render

import (
	"fmt"
	"math"
)

// Viewport is the logical canvas size in pixels.
type Viewport struct {
	Width  float64
	Height float64
}

// DefaultViewport is the 400x600 road canvas.
var DefaultViewport = Viewport{Width: 400, Height: 600}

// Color is an sRGB color with straight alpha.
type Color struct {
	R, G, B uint8
	A       float64 // 0..1
}

// Hex builds an opaque color from 0xRRGGBB.
func Hex(rgb uint32) Color {
	return Color{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 1}
}

// RGBA builds a translucent color.
func RGBA(r, g, b uint8, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// HexString returns #rrggbb, ignoring alpha.
func (c Color) HexString() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String returns the CSS form of c.
func (c Color) String() string {
	if c.A >= 1 {
		return c.HexString()
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", c.R, c.G, c.B, c.A)
}

// Over composites c on top of dst and returns an opaque color.
func (c Color) Over(dst Color) Color {
	a := math.Max(0, math.Min(1, c.A))
	mix := func(s, d uint8) uint8 {
		return uint8(math.Round(float64(s)*a + float64(d)*(1-a)))
	}
	return Color{R: mix(c.R, dst.R), G: mix(c.G, dst.G), B: mix(c.B, dst.B), A: 1}
}

// Palette.
var (
	ColorRoad       = Hex(0x1e293b)
	ColorLane       = Hex(0x64748b)
	ColorLead       = Hex(0xef4444)
	ColorEgoAuto    = Hex(0x3b82f6)
	ColorEgoManual  = Hex(0x10b981)
	ColorSensor     = RGBA(59, 130, 246, 0.3)
	ColorTORWash    = RGBA(127, 29, 29, 0.2)
	ColorTORTitle   = Hex(0xef4444)
	ColorTORSubline = Hex(0xffffff)
	ColorFeedLabel  = Hex(0x60a5fa)
)

// Align is the horizontal anchor of a Text command.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Command is one draw operation. The concrete types are Rect, DashedLine,
// Arc and Text.
type Command interface {
	command()
}

// Rect fills an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
	Fill       Color
}

// DashedLine strokes a line with an on/off dash pattern shifted by Offset,
// following canvas lineDashOffset semantics.
type DashedLine struct {
	X1, Y1, X2, Y2 float64
	Stroke         Color
	Width          float64
	Dash           [2]float64 // on, off
	Offset         float64
}

// Arc strokes a circular arc clockwise from Start to End (radians, canvas
// orientation: y grows downward). FromCenter also strokes the radius to the
// arc start.
type Arc struct {
	CX, CY, R  float64
	Start, End float64
	Stroke     Color
	FromCenter bool
}

// Text draws a single line of text anchored at X, Y.
type Text struct {
	X, Y  float64
	Value string
	Fill  Color
	Size  float64
	Bold  bool
	Align Align
}

func (Rect) command()       {}
func (DashedLine) command() {}
func (Arc) command()        {}
func (Text) command()       {}

// Frame is the ordered draw list for one animation frame.
type Frame struct {
	Viewport   Viewport
	Background Color
	Commands   []Command
}
