package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/TeamNorCal/coriolis/model"
)

// This file implements a terminal preview that subscribes to the emitted
// frames and draws them as a single line of truecolor blocks

// previewInterval limits how often the terminal is redrawn
const previewInterval = 50 * time.Millisecond

func runPreview(subscribeC chan chan *model.Frame, out io.Writer, quitC <-chan struct{}) {

	frameC := make(chan *model.Frame, 1)
	subscribeC <- frameC

	last := time.Time{}
	for {
		select {
		case frame := <-frameC:
			if frame == nil || time.Since(last) < previewInterval {
				continue
			}
			last = time.Now()
			fmt.Fprint(out, render(frame))
		case <-quitC:
			fmt.Fprintln(out, "\x1b[0m")
			return
		}
	}
}

// render returns the escape codes that redraw the preview line
func render(frame *model.Frame) string {
	sb := strings.Builder{}
	sb.WriteString("\r")
	for _, p := range frame.Pixels {
		fmt.Fprintf(&sb, "\x1b[48;2;%d;%d;%dm ", (p>>16)&0xFF, (p>>8)&0xFF, p&0xFF)
	}
	sb.WriteString("\x1b[0m")
	return sb.String()
}
