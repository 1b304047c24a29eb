package effects

import (
	"math"
	"time"

	"github.com/TeamNorCal/coriolis/colour"
	"github.com/TeamNorCal/coriolis/config"
	"github.com/TeamNorCal/coriolis/generator"
	"github.com/TeamNorCal/coriolis/model"
	"github.com/TeamNorCal/coriolis/phase"
)

// HueFade shows one hue on the whole strip, cycling through the exponential
// hue range once per duration
type HueFade struct {
	cycle phase.Cycle
}

func (*HueFade) Name() string { return "hue_fade" }

func (*HueFade) Schema() config.Schema {
	return config.Schema{
		"duration": config.S32Option(21000),
	}
}

func (h *HueFade) Configure(vals *config.Values, host generator.Host) {
	h.cycle = phase.NewCycle(int64(clampInt(vals, "duration", phase.MinDuration, math.MaxInt32)))
	host.Defaults(model.Options{Repeat: model.Bool(true)})
}

func (h *HueFade) Generate(host generator.Host) (frame generator.Frame, wait time.Duration) {
	hue := colour.ExpHueFraction(h.cycle.Fraction(host.NextTimeMS()))
	return generator.Frame{
		Colours: generator.NewSlice([]colour.Colour{colour.ExpHSV(hue, 1, 1)}),
	}, 0
}

// HueScroll scrolls the exponential hue range along the strip, repeat times
// per strip length
type HueScroll struct {
	cycle  phase.Cycle
	step   float64
	start  float64
	stream *generator.Func
}

func (*HueScroll) Name() string { return "hue_scroll" }

func (*HueScroll) Schema() config.Schema {
	return config.Schema{
		"repeat":   config.S32Option(1),
		"duration": config.S32Option(21000),
	}
}

func (h *HueScroll) Configure(vals *config.Values, host generator.Host) {
	repeat := clampInt(vals, "repeat", 1, math.MaxInt32)
	h.cycle = phase.NewCycle(int64(clampInt(vals, "duration", phase.MinDuration, math.MaxInt32)))

	h.step = 0
	if length := host.Length(); length > 0 {
		h.step = float64(repeat) / float64(length)
	}
	h.stream = generator.NewFunc(func(pos int) colour.Colour {
		return colour.ExpHSV(colour.ExpHueFraction(h.start+float64(pos)*h.step), 1, 1)
	})
}

func (h *HueScroll) Generate(host generator.Host) (frame generator.Frame, wait time.Duration) {
	h.start = h.cycle.Fraction(host.TimeMS())
	h.stream.Reset()
	return generator.Frame{
		Colours: h.stream,
		Options: model.Options{Repeat: model.Bool(true), FPS: model.Int(60)},
	}, 0
}
