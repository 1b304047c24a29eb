package effects

import (
	"time"

	"github.com/TeamNorCal/coriolis/colour"
	"github.com/TeamNorCal/coriolis/config"
	"github.com/TeamNorCal/coriolis/generator"
	"github.com/TeamNorCal/coriolis/model"
	"github.com/TeamNorCal/coriolis/sweep"
)

// Static shows a fixed list of colours repeated along the strip, optionally
// under a sweep
type Static struct {
	colours []colour.RGB
	hsv     []colour.Colour // the colours repeated to the strip length
	sweep   sweep.Overlay
}

func (*Static) Name() string { return "static" }

func (*Static) Schema() config.Schema {
	return config.Schema{
		"colours": config.ListRGBOption(0),
	}.Merge(sweep.Schema(false))
}

func (s *Static) Configure(vals *config.Values, host generator.Host) {
	length := host.Length()
	s.colours = colours(vals, "colours")
	s.sweep.Configure(sweep.SettingsFrom(vals), length)

	s.hsv = make([]colour.Colour, length)
	for i := range s.hsv {
		s.hsv[i] = s.colours[i%len(s.colours)].HSV()
	}

	host.Defaults(s.sweep.DefaultOptions())
}

func (s *Static) Generate(host generator.Host) (frame generator.Frame, wait time.Duration) {
	if !s.sweep.Enabled() {
		return generator.Frame{
			Colours: generator.FromRGB(s.colours),
			Options: model.Options{Repeat: model.Bool(true)},
		}, 0
	}

	if !s.sweep.Tick(host) {
		return generator.Frame{}, s.sweep.Wait(s.sweep.Now(host))
	}
	return generator.Frame{Colours: generator.NewSlice(s.sweep.ApplyMask(s.hsv))}, 0
}
