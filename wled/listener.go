package wled

// This module implements a UDP listener that decodes realtime packets into a
// shared buffer and reports which sources are sending once a minute

import (
	"fmt"
	"net"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
	"github.com/mgutz/logxi"

	"github.com/TeamNorCal/coriolis/colour"
)

var (
	logger = logxi.New("wled")
)

// ReportInterval is how often per source statistics are logged
const ReportInterval = 60 * time.Second

// maxPacket covers DNRGB packets for the longest strips
const maxPacket = 65535

type Listener struct {
	conn   *net.UDPConn
	buffer []byte
	seq    uint64

	sources    map[string]int
	frames     int
	lastReport time.Time

	sync.Mutex
}

// Listen opens a UDP socket on addr, leds sizes the receive buffer
func Listen(addr string, leds int) (l *Listener, err errors.Error) {
	udpAddr, errGo := net.ResolveUDPAddr("udp", addr)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("address", addr).With("stack", stack.Trace().TrimRuntime())
	}
	conn, errGo := net.ListenUDP("udp", udpAddr)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("address", addr).With("stack", stack.Trace().TrimRuntime())
	}
	l = newListener(leds)
	l.conn = conn
	return l, nil
}

func newListener(leds int) (l *Listener) {
	if leds < 0 {
		leds = 0
	}
	return &Listener{
		buffer:     make([]byte, leds*3),
		sources:    map[string]int{},
		lastReport: time.Now(),
	}
}

// Addr is the local address being listened on
func (l *Listener) Addr() net.Addr {
	return l.conn.LocalAddr()
}

// handle decodes one packet and updates the statistics
func (l *Listener) handle(packet []byte, source string, now time.Time) {
	l.Lock()
	defer l.Unlock()

	l.sources[source]++
	l.frames++

	if _, updated, ok := Decode(packet, l.buffer); ok && updated > 0 {
		l.seq++
	}

	if elapsed := now.Sub(l.lastReport); elapsed >= ReportInterval {
		names := make([]string, 0, len(l.sources))
		for k := range l.sources {
			names = append(names, k)
		}
		sort.Strings(names)
		args := []interface{}{"fps", fmt.Sprintf("%.1f", float64(l.frames)/elapsed.Seconds())}
		for _, name := range names {
			args = append(args, name, l.sources[name])
		}
		logger.Debug("sources", args...)

		l.sources = map[string]int{}
		l.frames = 0
		l.lastReport = now
	}
}

// Seq changes every time a packet updates the buffer
func (l *Listener) Seq() uint64 {
	l.Lock()
	defer l.Unlock()

	return l.seq
}

// Snapshot copies the first length LEDs of the buffer
func (l *Listener) Snapshot(length int) (pixels []colour.RGB, seq uint64) {
	l.Lock()
	defer l.Unlock()

	if length > len(l.buffer)/3 {
		length = len(l.buffer) / 3
	}
	if length < 0 {
		length = 0
	}
	pixels = make([]colour.RGB, length)
	for i := range pixels {
		pixels[i] = colour.NewRGB(l.buffer[i*3], l.buffer[i*3+1], l.buffer[i*3+2])
	}
	return pixels, l.seq
}

// Run receives packets until quitC is closed
func (l *Listener) Run(errorC chan<- errors.Error, quitC <-chan struct{}) {
	defer l.conn.Close()

	packet := make([]byte, maxPacket)
	for {
		select {
		case <-quitC:
			return
		default:
		}

		l.conn.SetReadDeadline(time.Now().Add(250 * time.Millisecond))
		n, source, errGo := l.conn.ReadFromUDP(packet)
		if errGo != nil {
			if netErr, isNet := errGo.(net.Error); isNet && netErr.Timeout() {
				continue
			}
			err := errors.Wrap(errGo).With("address", l.conn.LocalAddr().String()).With("stack", stack.Trace().TrimRuntime())
			select {
			case errorC <- err:
			case <-time.After(100 * time.Millisecond):
				fmt.Fprintln(os.Stderr, err.Error())
			}
			select {
			case <-quitC:
				return
			case <-time.After(time.Second):
			}
			continue
		}
		l.handle(packet[:n], source.IP.String(), time.Now())
	}
}
