// Package wled receives the WLED UDP realtime protocols into a flat RGB
// buffer, see https://github.com/Aircoookie/WLED/wiki/UDP-Realtime-Control
package wled

import (
	"fmt"
)

// Protocol is the first byte of a realtime packet
type Protocol byte

const (
	WARLS Protocol = 1 // index, r, g, b records
	DRGB  Protocol = 2 // sequential r, g, b from LED 0
	DRGBW Protocol = 3 // sequential r, g, b, w from LED 0, white ignored
	DNRGB Protocol = 4 // 16 bit big endian start index then r, g, b
)

func (p Protocol) String() string {
	switch p {
	case WARLS:
		return "WARLS"
	case DRGB:
		return "DRGB"
	case DRGBW:
		return "DRGBW"
	case DNRGB:
		return "DNRGB"
	}
	return fmt.Sprintf("protocol(%d)", byte(p))
}

// header is the protocol byte and the timeout byte, which is not used
const header = 2

// Decode writes a packet into buffer, three bytes per LED. Parsing stops at
// the last complete record and writes past the end of buffer are dropped.
// ok is false for packets that are too short or of an unknown protocol.
func Decode(packet []byte, buffer []byte) (proto Protocol, updated int, ok bool) {
	if len(packet) < header {
		return 0, 0, false
	}
	proto = Protocol(packet[0])
	data := packet[header:]

	switch proto {
	case WARLS:
		for ; len(data) >= 4; data = data[4:] {
			i := int(data[0]) * 3
			if i+3 <= len(buffer) {
				copy(buffer[i:i+3], data[1:4])
				updated++
			}
		}
	case DRGB:
		updated = sequential(data, buffer, 0, 3)
	case DRGBW:
		updated = sequential(data, buffer, 0, 4)
	case DNRGB:
		if len(data) < 2 {
			return proto, 0, true
		}
		start := (int(data[0])<<8 | int(data[1])) * 3
		updated = sequential(data[2:], buffer, start, 3)
	default:
		return proto, 0, false
	}
	return proto, updated, true
}

// sequential copies stride sized records into consecutive LEDs from offset
func sequential(data []byte, buffer []byte, offset int, stride int) (updated int) {
	for i := offset; len(data) >= stride && i+3 <= len(buffer); i += 3 {
		copy(buffer[i:i+3], data[:3])
		data = data[stride:]
		updated++
	}
	return updated
}
