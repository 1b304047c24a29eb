package model

// This module defines the output options and frame data structures shared
// between effects, the host runtime and frame subscribers

import (
	"strings"
)

// Profile selects the colour curve applied by the output sink
type Profile int

const (
	ProfileNormal Profile = iota
	ProfileHDR
)

func (p Profile) String() string {
	switch p {
	case ProfileHDR:
		return "HDR"
	default:
		return "NORMAL"
	}
}

// ParseProfile accepts a profile name, case insensitive
func ParseProfile(name string) (p Profile, ok bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "NORMAL":
		return ProfileNormal, true
	case "HDR":
		return ProfileHDR, true
	}
	return ProfileNormal, false
}

const (
	MinFPS = 1
	MaxFPS = 1000
)

// Options are output settings, nil fields leave the current default alone
type Options struct {
	Repeat  *bool    `json:"repeat,omitempty"`
	Reverse *bool    `json:"reverse,omitempty"`
	FPS     *int     `json:"fps,omitempty"`
	WaitUS  *int     `json:"wait_us,omitempty"`
	Profile *Profile `json:"profile,omitempty"`
	Rotate  *int     `json:"rotate,omitempty"` // per frame only, never a default
}

// Merge returns o with every field that is set in over replaced
func (o Options) Merge(over Options) Options {
	if over.Repeat != nil {
		o.Repeat = over.Repeat
	}
	if over.Reverse != nil {
		o.Reverse = over.Reverse
	}
	if over.FPS != nil {
		o.FPS = over.FPS
	}
	if over.WaitUS != nil {
		o.WaitUS = over.WaitUS
	}
	if over.Profile != nil {
		o.Profile = over.Profile
	}
	if over.Rotate != nil {
		o.Rotate = over.Rotate
	}
	return o
}

// Resolved is a fully populated set of options
type Resolved struct {
	Repeat  bool
	Reverse bool
	FPS     int
	WaitUS  int
	Wait    bool // WaitUS overrides FPS
	Profile Profile
	Rotate  int
}

// FrameUS is the time reserved for each frame in microseconds
func (r Resolved) FrameUS() uint64 {
	if r.Wait {
		return uint64(r.WaitUS)
	}
	return uint64(1000000 / r.FPS)
}

// Resolve fills unset fields from the built in defaults and clamps the rest
func (o Options) Resolve() Resolved {
	r := Resolved{FPS: 60, Profile: ProfileNormal}
	if o.Repeat != nil {
		r.Repeat = *o.Repeat
	}
	if o.Reverse != nil {
		r.Reverse = *o.Reverse
	}
	if o.FPS != nil {
		r.FPS = *o.FPS
	}
	if o.WaitUS != nil {
		r.WaitUS = *o.WaitUS
		r.Wait = true
	}
	if o.Profile != nil {
		r.Profile = *o.Profile
	}
	if o.Rotate != nil {
		r.Rotate = *o.Rotate
	}

	if r.FPS < MinFPS {
		r.FPS = MinFPS
	} else if r.FPS > MaxFPS {
		r.FPS = MaxFPS
	}
	if r.WaitUS < 0 {
		r.WaitUS = 0
	}
	if r.Profile != ProfileHDR {
		r.Profile = ProfileNormal
	}
	return r
}

func Bool(b bool) *bool { return &b }

func Int(i int) *int { return &i }

func ProfileOf(p Profile) *Profile { return &p }
