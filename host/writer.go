package host

import (
	"sync"

	"github.com/karlmutch/errors"

	"github.com/TeamNorCal/coriolis/model"
)

// Writer delivers corrected frames to the LEDs
type Writer interface {
	Write(frame *model.Frame) (err errors.Error)
}

// Memory keeps copies of every frame written to it
type Memory struct {
	frames []*model.Frame
	sync.Mutex
}

func NewMemory() (m *Memory) {
	return &Memory{frames: []*model.Frame{}}
}

func (m *Memory) Write(frame *model.Frame) (err errors.Error) {
	m.Lock()
	defer m.Unlock()

	m.frames = append(m.frames, frame.DeepCopy())
	return nil
}

// Frames returns the frames written so far, oldest first
func (m *Memory) Frames() (frames []*model.Frame) {
	m.Lock()
	defer m.Unlock()

	return append([]*model.Frame(nil), m.frames...)
}

// Last is the most recent frame or nil
func (m *Memory) Last() (frame *model.Frame) {
	m.Lock()
	defer m.Unlock()

	if len(m.frames) == 0 {
		return nil
	}
	return m.frames[len(m.frames)-1]
}

func (m *Memory) Reset() {
	m.Lock()
	defer m.Unlock()

	m.frames = m.frames[:0]
}
