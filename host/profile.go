package host

// Colour profiles correct the output per LED. Each profile is a list of
// channel ratios keyed by the first LED they apply to, a ratio stays in force
// until the next entry. Channels are scaled by ratio/255.

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
	"gopkg.in/yaml.v3"

	"github.com/TeamNorCal/coriolis/model"
)

// Ratio scales each channel by n/255
type Ratio struct {
	R, G, B uint8
}

// FullRatio leaves colours unchanged
var FullRatio = Ratio{255, 255, 255}

// RatioEntry starts a ratio at an LED index
type RatioEntry struct {
	Index int
	Ratio Ratio
}

// Curve is one profile, entries are held in index order
type Curve struct {
	entries []RatioEntry
}

// NewCurve sorts the entries, later duplicates replace earlier ones
func NewCurve(entries []RatioEntry) (c *Curve) {
	byIndex := map[int]Ratio{}
	for _, e := range entries {
		if e.Index < 0 {
			continue
		}
		byIndex[e.Index] = e.Ratio
	}
	c = &Curve{entries: make([]RatioEntry, 0, len(byIndex))}
	for idx, ratio := range byIndex {
		c.entries = append(c.entries, RatioEntry{Index: idx, Ratio: ratio})
	}
	sort.Slice(c.entries, func(i, j int) bool { return c.entries[i].Index < c.entries[j].Index })
	return c
}

// Identity reports whether the curve changes nothing
func (c *Curve) Identity() bool {
	if c == nil {
		return true
	}
	for _, e := range c.entries {
		if e.Ratio != FullRatio {
			return false
		}
	}
	return true
}

// Apply returns corrected copies of packed pixels
func (c *Curve) Apply(pixels []uint32) (out []uint32) {
	out = make([]uint32, len(pixels))
	if c.Identity() {
		copy(out, pixels)
		return out
	}

	ratio := FullRatio
	next := 0
	for i, p := range pixels {
		for next < len(c.entries) && c.entries[next].Index <= i {
			ratio = c.entries[next].Ratio
			next++
		}
		r := (p >> 16 & 0xFF) * uint32(ratio.R) / 255
		g := (p >> 8 & 0xFF) * uint32(ratio.G) / 255
		b := (p & 0xFF) * uint32(ratio.B) / 255
		out[i] = r<<16 | g<<8 | b
	}
	return out
}

// Profiles holds a curve for every model.Profile
type Profiles struct {
	curves map[model.Profile]*Curve
}

// DefaultProfiles leaves every profile unchanged until one is loaded
func DefaultProfiles() (p *Profiles) {
	return &Profiles{curves: map[model.Profile]*Curve{}}
}

func (p *Profiles) Set(profile model.Profile, c *Curve) {
	p.curves[profile] = c
}

func (p *Profiles) Curve(profile model.Profile) *Curve {
	if p == nil {
		return nil
	}
	return p.curves[profile]
}

// LoadProfiles reads a YAML document of the form
//
//	normal:
//	  - [0, 255, 200, 180]
//	hdr:
//	  - [0, 255, 255, 255]
//	  - [60, 128, 128, 128]
//
// where each entry is an LED index followed by the red, green and blue ratios
func LoadProfiles(path string) (p *Profiles, err errors.Error) {
	body, errGo := os.ReadFile(path)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("path", path).With("stack", stack.Trace().TrimRuntime())
	}

	doc := map[string][][]int{}
	if errGo = yaml.Unmarshal(body, &doc); errGo != nil {
		return nil, errors.Wrap(errGo).With("path", path).With("stack", stack.Trace().TrimRuntime())
	}

	p = DefaultProfiles()
	for name, rows := range doc {
		profile, ok := model.ParseProfile(name)
		if !ok {
			return nil, errors.New("unknown colour profile").With("profile", name).With("path", path).With("stack", stack.Trace().TrimRuntime())
		}
		entries := make([]RatioEntry, 0, len(rows))
		for i, row := range rows {
			if len(row) != 4 {
				errGo = fmt.Errorf("entry %d of profile %s needs an index and three ratios", i, name)
				return nil, errors.Wrap(errGo).With("path", path).With("stack", stack.Trace().TrimRuntime())
			}
			entries = append(entries, RatioEntry{
				Index: row[0],
				Ratio: Ratio{R: ratioByte(row[1]), G: ratioByte(row[2]), B: ratioByte(row[3])},
			})
		}
		p.Set(profile, NewCurve(entries))
	}
	return p, nil
}

func ratioByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
