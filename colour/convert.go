package colour

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// ExpHueRange is the integer range of the exponential hue encoding. The
	// first sixth of the wheel (red to yellow) takes up twice its normal share
	// so that cycling spends the same perceived time on the warm hues.
	ExpHueRange = HueRange + HueRange/6

	expStretch     = HueRange / 6 // hues stretched x2
	expStretchEnds = expStretch * 2
)

// RGBToHSV converts a packed colour to linear HSV
func RGBToHSV(c RGB) HSV {
	h, s, v := c.Colorful().Hsv()
	return HSV{H: wrap01(h / 360), S: s, V: v}
}

// HSVToRGB converts linear HSV to a packed colour, clamping the inputs
func HSVToRGB(c HSV) RGB {
	c = c.Clamped()
	return FromColorful(colorful.Hsv(c.H*360, c.S, c.V))
}

// HueToRGB converts an integer hue in [0, HueRange) with [0,1] saturation and
// value
func HueToRGB(hue int, saturation, value float64) RGB {
	return HSVToRGB(HSV{H: float64(mod(hue, HueRange)) / HueRange, S: saturation, V: value})
}

// ExpHueToHue maps an exponential hue to a linear hue fraction
func ExpHueToHue(expHue int) float64 {
	e := mod(expHue, ExpHueRange)

	var hue float64
	if e < expStretchEnds {
		hue = float64(e) / 2
	} else {
		hue = float64(e - expStretch)
	}
	return hue / HueRange
}

// HueToExpHue maps a linear hue fraction to the nearest exponential hue
func HueToExpHue(h float64) int {
	hue := wrap01(h) * HueRange

	var e float64
	if hue < expStretch {
		e = hue * 2
	} else {
		e = hue + expStretch
	}
	return mod(int(math.Round(e)), ExpHueRange)
}

// ExpHueFraction maps a [0,1) cycle fraction onto the exponential hue range
func ExpHueFraction(f float64) int {
	return mod(int(math.Round(wrap01(f)*ExpHueRange)), ExpHueRange)
}

// ExpHSVToRGB composes the exponential hue mapping with HSVToRGB
func ExpHSVToRGB(expHue int, saturation, value float64) RGB {
	return HSVToRGB(ExpHSV(expHue, saturation, value))
}

// ExpHSV builds a linear HSV from an exponential hue
func ExpHSV(expHue int, saturation, value float64) HSV {
	return HSV{H: ExpHueToHue(expHue), S: clamp01(saturation), V: clamp01(value)}
}

// RGBToExpHSV converts a packed colour to an exponential hue with [0,1]
// saturation and value
func RGBToExpHSV(c RGB) (expHue int, saturation, value float64) {
	hsv := RGBToHSV(c)
	return HueToExpHue(hsv.H), hsv.S, hsv.V
}

// Scaled converts integer saturation and value (0..MaxSaturation,
// 0..MaxValue) to fractions, clamping
func Scaled(saturation, value int) (float64, float64) {
	return clamp01(float64(saturation) / MaxSaturation), clamp01(float64(value) / MaxValue)
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
