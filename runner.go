// Package coriolis drives one effect on one LED strip. The Runner owns the
// per iteration order of an effect loop: options are polled first, the effect
// is reconfigured when they changed or the strip length moved, then a frame
// is generated and either emitted or waited out.
package coriolis

import (
	"fmt"
	"os"
	"time"

	"github.com/karlmutch/errors"
	"github.com/mgutz/logxi"

	"github.com/TeamNorCal/coriolis/config"
	"github.com/TeamNorCal/coriolis/generator"
	"github.com/TeamNorCal/coriolis/host"
	"github.com/TeamNorCal/coriolis/model"
)

var (
	logger = logxi.New("coriolis")
)

// Runner runs an effect against a host runtime
type Runner struct {
	effect generator.Effect
	reg    *config.Registry
	vals   *config.Values
	rt     *host.Runtime

	configured int // strip length of the last Configure, -1 before the first
}

func NewRunner(effect generator.Effect, source config.Source, rt *host.Runtime) (r *Runner) {
	r = &Runner{
		effect:     effect,
		reg:        config.NewRegistry(source),
		vals:       config.NewValues(),
		rt:         rt,
		configured: -1,
	}
	r.reg.Register(effect.Schema())
	rt.SetEffect(effect.Name())
	return r
}

// Values are the options currently applied to the effect
func (r *Runner) Values() *config.Values {
	return r.vals
}

// Step runs a single iteration of the effect loop, frame is nil when the
// effect asked to wait instead
func (r *Runner) Step() (frame *model.Frame, err errors.Error) {
	changed := r.reg.PollChanged(r.vals)
	if length := r.rt.Length(); changed || length != r.configured {
		r.effect.Configure(r.vals, r.rt)
		r.configured = length
		logger.Debug("configured", "effect", r.effect.Name(), "length", length, "changed", changed)
	}

	out, wait := r.effect.Generate(r.rt)
	if out.Colours == nil {
		r.rt.Sleep(wait)
		return nil, nil
	}
	return r.rt.Emit(out.Colours, out.Options)
}

// Run loops over Step until quitC is closed. Frames are offered to frameC,
// which may be nil, and write failures go to errorC.
func (r *Runner) Run(frameC chan<- *model.Frame, errorC chan<- errors.Error, quitC <-chan struct{}) {
	defer logger.Debug("runner stopped", "effect", r.effect.Name())

	for {
		select {
		case <-quitC:
			return
		default:
		}

		frame, err := r.Step()
		if err != nil {
			sendErr(err, errorC)
		}
		if frame == nil || frameC == nil {
			continue
		}
		select {
		case frameC <- frame:
		case <-quitC:
			return
		}
	}
}

func sendErr(err errors.Error, errorC chan<- errors.Error) {
	select {
	case errorC <- err:
	case <-time.After(time.Second):
		fmt.Fprintln(os.Stderr, err.Error())
	}
}
