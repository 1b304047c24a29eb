package coriolis

// This module wires an effect runner to the frame broadcaster so that
// previews and monitors can follow the frames the strip is shown

import (
	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/coriolis/model"
)

type Gateway struct {
	Runner *Runner
	fan    FanOut
}

func (gw *Gateway) Start(errorC chan<- errors.Error, quitC <-chan struct{}) (subscribeC chan chan *model.Frame) {

	frameC, subscribeC := gw.fan.Start(quitC)

	// Frames from the runner feed the broadcaster
	//
	go gw.Runner.Run(frameC, errorC, quitC)

	return subscribeC
}
