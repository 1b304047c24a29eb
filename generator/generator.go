// Package generator defines the shape of an effect: a restartable producer of
// colours in strip order that re-derives its cached state whenever its options
// or the strip length change.
package generator

import (
	"math/rand"
	"time"

	"github.com/TeamNorCal/coriolis/colour"
	"github.com/TeamNorCal/coriolis/config"
	"github.com/TeamNorCal/coriolis/model"
	"github.com/TeamNorCal/coriolis/phase"
)

// Stream is a pull iterator over colours. A finite stream reports false once
// it is exhausted, an infinite stream never does and relies on the consumer
// to stop pulling.
type Stream interface {
	Next() (c colour.Colour, ok bool)
}

// Host is the runtime surface an effect can see
type Host interface {
	phase.Source

	// Length is the current strip length, it may change between frames
	Length() int
	// Defaults replaces the output options used when a frame sets none
	Defaults(opts model.Options)
	// Rand is the random source effects must use
	Rand() *rand.Rand
}

// Frame is one output step from an effect
type Frame struct {
	Colours Stream
	Options model.Options
}

// Effect is implemented by every script
type Effect interface {
	Name() string

	// Schema lists the options, it is registered once before the first frame
	Schema() config.Schema

	// Configure is called after every reported option change and whenever
	// the strip length differs from the one last configured, it must rebuild
	// all cached state
	Configure(vals *config.Values, host Host)

	// Generate produces the next frame, or returns a positive wait when there
	// is nothing new to show yet
	Generate(host Host) (frame Frame, wait time.Duration)
}

// Slice is a finite stream over a materialised frame
type Slice struct {
	values []colour.Colour
	pos    int
}

func NewSlice(values []colour.Colour) *Slice {
	return &Slice{values: values}
}

// FromRGB wraps packed colours as a finite stream
func FromRGB(values []colour.RGB) *Slice {
	s := &Slice{values: make([]colour.Colour, len(values))}
	for i, c := range values {
		s.values[i] = c
	}
	return s
}

func (s *Slice) Next() (c colour.Colour, ok bool) {
	if s.pos >= len(s.values) {
		return nil, false
	}
	c = s.values[s.pos]
	s.pos++
	return c, true
}

func (s *Slice) Len() int { return len(s.values) }

func (s *Slice) Reset() { s.pos = 0 }

// Func is an infinite stream computed one position at a time
type Func struct {
	fn  func(pos int) colour.Colour
	pos int
}

func NewFunc(fn func(pos int) colour.Colour) *Func {
	return &Func{fn: fn}
}

func (f *Func) Next() (c colour.Colour, ok bool) {
	c = f.fn(f.pos)
	f.pos++
	return c, true
}

// Position is the index of the next colour
func (f *Func) Position() int { return f.pos }

// Reset starts the stream again, used when the effect is reconfigured
func (f *Func) Reset() { f.pos = 0 }

// Take pulls at most n colours from a stream
func Take(s Stream, n int) (values []colour.Colour) {
	if s == nil || n <= 0 {
		return []colour.Colour{}
	}
	values = make([]colour.Colour, 0, n)
	for len(values) < n {
		c, ok := s.Next()
		if !ok {
			break
		}
		values = append(values, c)
	}
	return values
}
