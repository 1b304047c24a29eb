// Package effects holds the effect scripts. Each effect owns all of its
// state, nothing is shared between instances.
package effects

import (
	"sort"

	"github.com/TeamNorCal/coriolis/colour"
	"github.com/TeamNorCal/coriolis/config"
	"github.com/TeamNorCal/coriolis/generator"
)

var registry = map[string]func() generator.Effect{
	"static":     func() generator.Effect { return &Static{} },
	"gradient":   func() generator.Effect { return &Gradient{} },
	"hue_fade":   func() generator.Effect { return &HueFade{} },
	"hue_scroll": func() generator.Effect { return &HueScroll{} },
	"random":     func() generator.Effect { return &Random{} },
	"burst":      func() generator.Effect { return &Burst{} },
	"fire":       func() generator.Effect { return &Fire{} },
	"udp":        func() generator.Effect { return &UDP{} },
}

// Lookup creates a new instance of the named effect
func Lookup(name string) (effect generator.Effect, isPresent bool) {
	create, isPresent := registry[name]
	if !isPresent {
		return nil, false
	}
	return create(), true
}

// Names lists the available effects
func Names() (names []string) {
	names = make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// clampInt reads an s32 option, corrects it to [lo, hi] and writes the
// correction back
func clampInt(vals *config.Values, name string, lo, hi int32) int {
	v := vals.Int(name)
	c := v
	if c < lo {
		c = lo
	}
	if c > hi {
		c = hi
	}
	if c != v {
		vals.SetInt(name, c)
	}
	return int(c)
}

// colours reads a colour list option, an empty list is a single black
func colours(vals *config.Values, name string) []colour.RGB {
	list := vals.RGBs(name)
	if len(list) == 0 {
		return []colour.RGB{0}
	}
	return list
}
