package effects

import (
	"time"

	"github.com/TeamNorCal/coriolis/colour"
	"github.com/TeamNorCal/coriolis/config"
	"github.com/TeamNorCal/coriolis/generator"
	"github.com/TeamNorCal/coriolis/model"
)

// UDPPoll is how long the udp effect waits before looking for new data again
const UDPPoll = 2 * time.Millisecond

// Receiver is the source of externally produced pixels, see wled.Listener
type Receiver interface {
	Snapshot(length int) (pixels []colour.RGB, seq uint64)
}

// UDP shows pixels received from a realtime UDP sender
type UDP struct {
	Receiver Receiver

	seq   uint64
	dirty bool
}

// NewUDP creates the udp effect reading from rx
func NewUDP(rx Receiver) *UDP {
	return &UDP{Receiver: rx}
}

func (*UDP) Name() string { return "udp" }

func (*UDP) Schema() config.Schema {
	return config.Schema{
		"profile": config.ProfileOption(model.ProfileNormal),
	}
}

func (u *UDP) Configure(vals *config.Values, host generator.Host) {
	host.Defaults(model.Options{
		Profile: model.ProfileOf(vals.Profile("profile")),
		WaitUS:  model.Int(0),
	})
	u.dirty = true
}

func (u *UDP) Generate(host generator.Host) (frame generator.Frame, wait time.Duration) {
	if u.Receiver == nil {
		if !u.dirty {
			return generator.Frame{}, UDPPoll
		}
		u.dirty = false
		return generator.Frame{Colours: generator.NewSlice(nil)}, 0
	}

	pixels, seq := u.Receiver.Snapshot(host.Length())
	if seq == u.seq && !u.dirty {
		return generator.Frame{}, UDPPoll
	}
	u.seq = seq
	u.dirty = false
	return generator.Frame{Colours: generator.FromRGB(pixels)}, 0
}
