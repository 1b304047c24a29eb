package coriolis

import (
	"sync"
	"time"

	"github.com/TeamNorCal/coriolis/model"
)

// SendTimeout bounds how long a slow subscriber can hold up a frame
const SendTimeout = 250 * time.Millisecond

// FanOut relays emitted frames to any number of subscribers
type FanOut struct {
	subs []chan *model.Frame
	sync.Mutex
}

// Start implements a broadcast mechanisim for accepting frames and relaying
// them to subscribers.  The function returns a single channel to which frames
// get sent and, a channel that can be used to add listeners.
//
// Subscribers whose channel has been closed are dropped.
//
func (fan *FanOut) Start(quitC <-chan struct{}) (inC chan *model.Frame, subC chan chan *model.Frame) {

	inC = make(chan *model.Frame, 1)
	subC = make(chan chan *model.Frame, 1)

	go func(quitC <-chan struct{}) {
		defer logger.Debug("fanout stopped")
		for {
			select {
			case <-quitC:
				return
			case sub := <-subC:
				if nil != sub {
					fan.Lock()
					fan.subs = append(fan.subs, sub)
					fan.Unlock()
					logger.Debug("subscription added")
				}
			case frame := <-inC:
				fan.broadcast(frame)
			}
		}
	}(quitC)

	return inC, subC
}

// broadcast sends a frame to every subscription, grooming out the failed ones
// using https://github.com/golang/go/wiki/SliceTricks#filtering-without-allocating
func (fan *FanOut) broadcast(frame *model.Frame) {
	fan.Lock()
	defer fan.Unlock()

	newSubs := fan.subs[:0]
	for _, ch := range fan.subs {
		if fan.send(ch, frame) {
			newSubs = append(newSubs, ch)
		}
	}
	fan.subs = newSubs
}

func (fan *FanOut) send(ch chan *model.Frame, frame *model.Frame) (keep bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("subscription dropped failed to send", "seq", frame.Seq)
			keep = false
		}
	}()

	select {
	case ch <- frame:
	case <-time.After(SendTimeout):
		logger.Debug("subscription failed to send", "seq", frame.Seq)
	}
	return true
}

// Subscribers is the number of live subscriptions
func (fan *FanOut) Subscribers() int {
	fan.Lock()
	defer fan.Unlock()

	return len(fan.subs)
}
