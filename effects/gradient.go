package effects

import (
	"time"

	"github.com/TeamNorCal/coriolis/colour"
	"github.com/TeamNorCal/coriolis/config"
	"github.com/TeamNorCal/coriolis/generator"
	"github.com/TeamNorCal/coriolis/gradient"
	"github.com/TeamNorCal/coriolis/phase"
	"github.com/TeamNorCal/coriolis/sweep"
	"github.com/TeamNorCal/coriolis/twinkle"
)

// Gradient spreads a colour list evenly along the strip, optionally scrolling
// it once per duration, with sweep and twinkle overlays applied in that order
type Gradient struct {
	table  gradient.Table
	scroll bool
	cycle  phase.Cycle
	mode   phase.Mode

	sweep   sweep.Overlay
	twinkle twinkle.Overlay
}

func (*Gradient) Name() string { return "gradient" }

func (*Gradient) Schema() config.Schema {
	return config.Schema{
		"colours":   config.ListRGBOption(0xFF0000, 0x00FF00, 0x0000FF),
		"duration":  config.NullS32Option(), // ms per scroll through the strip
		"real_time": config.BoolOption(false),
	}.Merge(sweep.Schema(false)).Merge(twinkle.Schema(false))
}

func (g *Gradient) Configure(vals *config.Values, host generator.Host) {
	length := host.Length()
	g.table = gradient.FromRGBList(length, colours(vals, "colours"))

	var duration int32
	duration, g.scroll = vals.OptionalInt("duration")
	g.cycle = phase.NewCycle(int64(duration))
	if g.scroll && int64(duration) != int64(g.cycle.Duration) {
		vals.SetInt("duration", int32(g.cycle.Duration))
	}
	g.mode = phase.ModeFor(vals.Bool("real_time"))

	g.sweep.Configure(sweep.SettingsFrom(vals), length)
	g.twinkle.Configure(twinkle.SettingsFrom(vals), length, host.NextTicks64US(), host.Rand())

	host.Defaults(g.sweep.DefaultOptions())
}

func (g *Gradient) Generate(host generator.Host) (frame generator.Frame, wait time.Duration) {
	// Overlay clocks first, then colours, then the masks
	if g.sweep.Enabled() && !g.sweep.Tick(host) && !g.twinkle.Enabled() && !g.scroll {
		return generator.Frame{}, g.sweep.Wait(g.sweep.Now(host))
	}
	now := host.NextTicks64US()
	g.twinkle.Change(now)

	length := len(g.table)
	offset := 0
	if g.scroll && length > 0 {
		offset = int(g.cycle.Fraction(g.mode.NextMS(host)) * float64(length))
	}
	values := make([]colour.Colour, length)
	for i := range values {
		values[i] = g.table[(i+offset)%length]
	}

	values = g.sweep.ApplyMask(values)
	values = g.twinkle.ApplyMask(values, now)
	return generator.Frame{Colours: generator.NewSlice(values)}, 0
}
