package colour

// This file contains the colour representations shared by every effect and
// overlay, packed RGB for the output side and linear HSV for compositing

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// HueRange is the integer hue range, tenths of a degree
	HueRange = 3600
	// MaxSaturation and MaxValue are the integer scales used by configuration
	MaxSaturation = 100
	MaxValue      = 100
)

// Colour is either a packed RGB value or an HSV triple. Conversions are
// explicit at every boundary.
type Colour interface {
	RGB() RGB
	HSV() HSV
	isColour()
}

// RGB is a packed 0xRRGGBB colour
type RGB uint32

// NewRGB packs three channels
func NewRGB(r, g, b uint8) RGB {
	return RGB(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

func (c RGB) R() uint8 { return uint8(c >> 16) }
func (c RGB) G() uint8 { return uint8(c >> 8) }
func (c RGB) B() uint8 { return uint8(c) }

func (c RGB) RGB() RGB { return c & 0xFFFFFF }
func (c RGB) HSV() HSV { return RGBToHSV(c) }
func (RGB) isColour()  {}

func (c RGB) String() string {
	return fmt.Sprintf("#%06X", uint32(c&0xFFFFFF))
}

// Colorful converts to a go-colorful colour for blending in other spaces
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R()) / 255.0,
		G: float64(c.G()) / 255.0,
		B: float64(c.B()) / 255.0,
	}
}

// FromColorful packs a go-colorful colour, clamping out of gamut values
func FromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return NewRGB(r, g, b)
}

// Parse accepts "#rrggbb" or "rrggbb", the 3 digit shorthand is rejected
func Parse(hex string) (RGB, error) {
	if len(hex) > 0 && hex[0] != '#' {
		hex = "#" + hex
	}
	if len(hex) != 7 {
		return 0, fmt.Errorf("colour %q is not 6 hex digits", hex)
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, err
	}
	return FromColorful(c), nil
}

// HSV holds a linear hue fraction in [0,1) with saturation and value in [0,1]
type HSV struct {
	H float64
	S float64
	V float64
}

func (c HSV) RGB() RGB { return HSVToRGB(c) }
func (c HSV) HSV() HSV { return c.Clamped() }
func (HSV) isColour()  {}

// Clamped wraps the hue into [0,1) and limits saturation and value to [0,1]
func (c HSV) Clamped() HSV {
	return HSV{H: wrap01(c.H), S: clamp01(c.S), V: clamp01(c.V)}
}

// Black is the zero colour in HSV form
var Black = HSV{}

func clamp01(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}

func wrap01(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	_, frac := math.Modf(x)
	if frac < 0 {
		frac += 1
	}
	if frac >= 1 {
		frac = 0
	}
	return frac
}
