// Package host is the runtime an effect runs inside of: the clocks, the strip
// length, the output defaults and the sink that arranges, corrects, paces and
// writes each frame.
package host

import (
	"math/rand"
	"sync"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
	"github.com/mgutz/logxi"

	"github.com/TeamNorCal/coriolis/colour"
	"github.com/TeamNorCal/coriolis/generator"
	"github.com/TeamNorCal/coriolis/model"
)

var (
	logger = logxi.New("host")
)

// MaxLength is the longest strip the runtime drives
const MaxLength = 4096

// Runtime implements generator.Host over real clocks and a Writer
type Runtime struct {
	origin time.Time
	now    func() time.Time
	sleep  func(time.Duration)

	length   int
	defaults model.Options
	profiles *Profiles
	rand     *rand.Rand
	writer   Writer
	effect   string

	nextDue time.Time
	seq     uint64

	sync.Mutex
}

func NewRuntime(length int, writer Writer, seed int64) (rt *Runtime) {
	rt = &Runtime{
		origin:   time.Now(),
		now:      time.Now,
		sleep:    time.Sleep,
		profiles: DefaultProfiles(),
		rand:     rand.New(rand.NewSource(seed)),
		writer:   writer,
	}
	rt.SetLength(length)
	return rt
}

// SetLength changes the strip length, effects pick it up on their next frame
func (rt *Runtime) SetLength(length int) {
	if length < 0 {
		length = 0
	} else if length > MaxLength {
		length = MaxLength
	}

	rt.Lock()
	defer rt.Unlock()

	if length != rt.length {
		logger.Debug("strip length", "length", length)
	}
	rt.length = length
}

func (rt *Runtime) SetProfiles(profiles *Profiles) {
	rt.Lock()
	defer rt.Unlock()

	rt.profiles = profiles
}

// SetEffect labels emitted frames
func (rt *Runtime) SetEffect(name string) {
	rt.Lock()
	defer rt.Unlock()

	rt.effect = name
}

func (rt *Runtime) Length() int {
	rt.Lock()
	defer rt.Unlock()

	return rt.length
}

// Defaults replaces the sink wide options, rotation is never a default
func (rt *Runtime) Defaults(opts model.Options) {
	opts.Rotate = nil

	rt.Lock()
	defer rt.Unlock()

	rt.defaults = opts
}

func (rt *Runtime) Rand() *rand.Rand { return rt.rand }

// Sleep blocks for d, it is the only blocking call an effect loop makes
// besides Emit
func (rt *Runtime) Sleep(d time.Duration) {
	if d > 0 {
		rt.sleep(d)
	}
}

// clocks reads the time once and returns the monotonic and wall clock
// microseconds together with the time left until the next frame slot
func (rt *Runtime) clocks() (mono, wall, latency uint64) {
	now := rt.now()

	rt.Lock()
	due := rt.nextDue
	rt.Unlock()

	mono = uint64(now.Sub(rt.origin) / time.Microsecond)
	wall = uint64(now.UnixMicro())
	if due.After(now) {
		latency = uint64(due.Sub(now) / time.Microsecond)
	}
	return mono, wall, latency
}

func (rt *Runtime) Ticks64US() uint64 {
	mono, _, _ := rt.clocks()
	return mono
}

func (rt *Runtime) Ticks64MS() uint64 { return rt.Ticks64US() / 1000 }

func (rt *Runtime) NextTicks64US() uint64 {
	mono, _, latency := rt.clocks()
	return mono + latency
}

func (rt *Runtime) NextTicks64MS() uint64 { return rt.NextTicks64US() / 1000 }

func (rt *Runtime) TimeUS() uint64 {
	_, wall, _ := rt.clocks()
	return wall
}

func (rt *Runtime) TimeMS() uint64 { return rt.TimeUS() / 1000 }

func (rt *Runtime) NextTimeUS() uint64 {
	_, wall, latency := rt.clocks()
	return wall + latency
}

func (rt *Runtime) NextTimeMS() uint64 { return rt.NextTimeUS() / 1000 }

// Emit pulls at most one strip of colours from the stream, arranges them
// according to the options, waits for the frame slot and writes the frame.
// The returned frame holds the pixels before profile correction.
func (rt *Runtime) Emit(stream generator.Stream, opts model.Options) (frame *model.Frame, err errors.Error) {
	rt.Lock()
	length := rt.length
	resolved := rt.defaults.Merge(opts).Resolve()
	curve := rt.profiles.Curve(resolved.Profile)
	effect := rt.effect
	rt.seq++
	seq := rt.seq
	due := rt.nextDue
	rt.Unlock()

	pixels := Arrange(generator.Take(stream, length), length, resolved)

	now := rt.now()
	if due.After(now) {
		rt.sleep(due.Sub(now))
		now = due
	}

	frame = &model.Frame{
		Seq:     seq,
		Time:    now,
		Effect:  effect,
		Profile: resolved.Profile,
		Pixels:  pixels,
	}

	if rt.writer != nil {
		corrected := *frame
		corrected.Pixels = curve.Apply(pixels)
		if err = rt.writer.Write(&corrected); err != nil {
			err = err.With("effect", effect)
		}
	}

	rt.Lock()
	rt.nextDue = now.Add(time.Duration(resolved.FrameUS()) * time.Microsecond)
	rt.Unlock()

	return frame, err
}

// Arrange applies rotation, reversal and repetition to the colours of one
// frame. Without repetition a short frame leaves the remaining LEDs black.
func Arrange(values []colour.Colour, length int, opts model.Resolved) (pixels []uint32) {
	pixels = make([]uint32, length)
	n := len(values)
	if n > length {
		n = length
	}
	if n == 0 {
		return pixels
	}

	start := ((opts.Rotate % n) + n) % n
	for i := 0; i < n; i++ {
		var src int
		if opts.Reverse {
			src = ((start-1-i)%n + n) % n
		} else {
			src = (start + i) % n
		}
		c := values[src]
		if c == nil {
			panic(errors.New("nil colour in frame").With("index", src).With("stack", stack.Trace().TrimRuntime()).Error())
		}
		pixels[i] = uint32(c.RGB())
	}

	if opts.Repeat {
		for i := n; i < length; i++ {
			pixels[i] = pixels[i%n]
		}
	}
	return pixels
}
