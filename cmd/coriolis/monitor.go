package main

import (
	"time"

	"github.com/TeamNorCal/coriolis/model"
)

// This file implements a monitor that subscribe to and logs a summary of
// the emitted frames using event subscription

func runMonitoring(subscribeC chan chan *model.Frame, quitC <-chan struct{}) {

	frameC := make(chan *model.Frame, 1)
	subscribeC <- frameC

	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	frames := 0
	var last *model.Frame
	for {
		select {
		case frame := <-frameC:
			frames++
			last = frame
		case <-tick.C:
			if last == nil {
				continue
			}
			logger.Debug("frames", "effect", last.Effect, "fps", frames, "seq", last.Seq, "lit", last.Lit(), "profile", last.Profile.String())
			frames = 0
		case <-quitC:
			return
		}
	}
}
