package model

// Frame snapshots are handed to subscribers of the output fanout, they are
// copies so that the producer is free to reuse its buffers

import (
	"time"

	"github.com/goccy/go-json"
)

// Frame is a snapshot of one emitted frame, after repeat and reverse but
// before the colour profile is applied
type Frame struct {
	Seq     uint64    `json:"seq"`
	Time    time.Time `json:"time"`
	Effect  string    `json:"effect"`
	Profile Profile   `json:"profile"`
	Pixels  []uint32  `json:"pixels"` // packed 0xRRGGBB
}

// DeepCopy deepcopies a frame using json marshaling
func (frame *Frame) DeepCopy() (cpy *Frame) {
	cpy = &Frame{}

	byt, _ := json.Marshal(frame)
	json.Unmarshal(byt, cpy)
	return cpy
}

// Lit counts the pixels that are not black
func (frame *Frame) Lit() (lit int) {
	for _, p := range frame.Pixels {
		if p&0xFFFFFF != 0 {
			lit++
		}
	}
	return lit
}
