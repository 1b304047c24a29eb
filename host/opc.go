package host

// This file contains a writer that sends frames to an Open Pixel Control
// server such as a fadecandy board. Identical consecutive frames are not
// resent, the server holds the last frame it was given.

import (
	"bytes"
	"sync"
	"time"

	"github.com/cnf/structhash"
	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
	"github.com/kellydunn/go-opc"

	"github.com/TeamNorCal/coriolis/model"
)

// reconnectBackoff limits how often a lost server is dialed again
const reconnectBackoff = time.Second

type OPC struct {
	server  string
	channel uint8

	client    *opc.Client
	connected bool
	lastDial  time.Time
	last      []byte

	sync.Mutex
}

// NewOPC dials the server, a failure is returned but the writer remains
// usable and will dial again when frames are written
func NewOPC(server string, channel uint8) (oc *OPC, err errors.Error) {
	oc = &OPC{
		server:  server,
		channel: channel,
		client:  opc.NewClient(),
	}
	oc.Lock()
	defer oc.Unlock()

	return oc, oc.connect()
}

func (oc *OPC) connect() (err errors.Error) {
	oc.lastDial = time.Now()
	if errGo := oc.client.Connect("tcp", oc.server); errGo != nil {
		oc.connected = false
		return errors.Wrap(errGo).With("server", oc.server).With("stack", stack.Trace().TrimRuntime())
	}
	oc.connected = true
	oc.last = nil
	return nil
}

func (oc *OPC) Write(frame *model.Frame) (err errors.Error) {
	oc.Lock()
	defer oc.Unlock()

	if !oc.connected {
		if time.Since(oc.lastDial) < reconnectBackoff {
			return nil
		}
		if err = oc.connect(); err != nil {
			return err
		}
	}

	hash := structhash.Md5(struct{ Pixels []uint32 }{frame.Pixels}, 1)
	if bytes.Equal(oc.last, hash) {
		return nil
	}

	m := opc.NewMessage(oc.channel)
	m.SetLength(uint16(len(frame.Pixels) * 3))
	for i, p := range frame.Pixels {
		m.SetPixelColor(i, uint8(p>>16), uint8(p>>8), uint8(p))
	}

	if errGo := oc.client.Send(m); errGo != nil {
		oc.connected = false
		return errors.Wrap(errGo).With("server", oc.server).With("seq", frame.Seq).With("stack", stack.Trace().TrimRuntime())
	}
	oc.last = hash
	return nil
}
