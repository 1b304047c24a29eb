// Package gradient builds fixed length colour lookup tables from palette stops
// using piecewise linear 8 bit interpolation that wraps from the last stop
// back to the first.
package gradient

import (
	"math"
	"sort"

	"github.com/TeamNorCal/coriolis/colour"
)

// Stop is a palette entry at an output index
type Stop struct {
	Index  int
	Colour colour.RGB
}

// Table is a fully built gradient, one colour per output index. Tables are
// rebuilt rather than modified.
type Table []colour.RGB

// RGB returns the colour at index, clamping out of range indexes
func (t Table) RGB(index int) colour.RGB {
	if len(t) == 0 {
		return 0
	}
	if index < 0 {
		index = 0
	} else if index >= len(t) {
		index = len(t) - 1
	}
	return t[index]
}

// Build interpolates the palette over length entries
func Build(length int, palette []Stop) Table {
	if length <= 0 {
		return Table{}
	}
	table := make(Table, length)

	stops := normalise(length, palette)
	if len(stops) == 1 {
		for i := range table {
			table[i] = stops[0].Colour
		}
		return table
	}

	n := 0
	for i := 0; i < length; i++ {
		for n+1 < len(stops) && i >= stops[n+1].Index {
			n++
		}

		a := stops[n]
		b := stops[(n+1)%len(stops)]
		aIdx, bIdx := a.Index, b.Index

		if i < aIdx {
			// Before the first stop, blending in from the last one
			a = stops[len(stops)-1]
			b = stops[0]
			aIdx, bIdx = a.Index-length, b.Index
		} else if bIdx <= aIdx {
			bIdx = length
		}

		bScale := 0
		if bIdx-aIdx > 0 {
			bScale = int(math.Round(float64(i-aIdx) / float64(bIdx-aIdx) * 255))
		}
		table[i] = blend(a.Colour, b.Colour, bScale)
	}

	return table
}

// FromRGBList spaces the colours evenly over length, in list order
func FromRGBList(length int, colours []colour.RGB) Table {
	palette := make([]Stop, 0, len(colours))
	n := 0

	for _, c := range colours {
		palette = append(palette, Stop{Index: n, Colour: c})
		n += length / len(colours)
		if n > length-1 {
			n = length - 1
		}
	}

	return Build(length, palette)
}

// blend mixes two colours channel by channel with truncating 8 bit scaling
func blend(a, b colour.RGB, bScale int) colour.RGB {
	aScale := 255 - bScale
	mix := func(x, y uint8) uint8 {
		return uint8(int(x)*aScale/255 + int(y)*bScale/255)
	}
	return colour.NewRGB(mix(a.R(), b.R()), mix(a.G(), b.G()), mix(a.B(), b.B()))
}

func normalise(length int, palette []Stop) []Stop {
	if len(palette) == 0 {
		return []Stop{{}}
	}

	stops := make([]Stop, len(palette))
	for i, s := range palette {
		if s.Index < 0 {
			s.Index = 0
		} else if s.Index > length-1 {
			s.Index = length - 1
		}
		stops[i] = s
	}
	sort.SliceStable(stops, func(i, j int) bool { return stops[i].Index < stops[j].Index })
	return stops
}
