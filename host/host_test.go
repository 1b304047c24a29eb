package host

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/TeamNorCal/coriolis/colour"
	"github.com/TeamNorCal/coriolis/generator"
	"github.com/TeamNorCal/coriolis/model"
)

func rgbs(values ...colour.RGB) []colour.Colour {
	out := make([]colour.Colour, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func equal(a []uint32, b ...uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestArrange(t *testing.T) {
	cases := []struct {
		name   string
		values []colour.Colour
		length int
		opts   model.Resolved
		want   []uint32
	}{
		{"plain", rgbs(1, 2, 3), 3, model.Resolved{}, []uint32{1, 2, 3}},
		{"short", rgbs(1, 2), 4, model.Resolved{}, []uint32{1, 2, 0, 0}},
		{"repeat", rgbs(1, 2, 3), 7, model.Resolved{Repeat: true}, []uint32{1, 2, 3, 1, 2, 3, 1}},
		{"reverse", rgbs(1, 2, 3), 3, model.Resolved{Reverse: true}, []uint32{3, 2, 1}},
		{"rotate", rgbs(1, 2, 3, 4), 4, model.Resolved{Rotate: 1}, []uint32{2, 3, 4, 1}},
		{"rotate negative", rgbs(1, 2, 3, 4), 4, model.Resolved{Rotate: -1}, []uint32{4, 1, 2, 3}},
		{"rotate reverse", rgbs(1, 2, 3, 4), 4, model.Resolved{Rotate: 2, Reverse: true}, []uint32{2, 1, 4, 3}},
		{"hsv", []colour.Colour{colour.HSV{H: 0, S: 1, V: 1}}, 1, model.Resolved{}, []uint32{0xFF0000}},
		{"empty", nil, 3, model.Resolved{Repeat: true}, []uint32{0, 0, 0}},
	}
	for _, tc := range cases {
		if got := Arrange(tc.values, tc.length, tc.opts); !equal(got, tc.want...) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
}

func newTestRuntime(length int) (*Runtime, *Memory, *fakeClock) {
	mem := NewMemory()
	rt := NewRuntime(length, mem, 1)
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	rt.origin = clock.now
	rt.now = clock.Now
	rt.sleep = clock.Sleep
	return rt, mem, clock
}

func TestEmitPacing(t *testing.T) {
	rt, mem, clock := newTestRuntime(4)
	rt.SetEffect("test")

	frame, err := rt.Emit(generator.FromRGB([]colour.RGB{0xFF0000}), model.Options{Repeat: model.Bool(true)})
	if err != nil {
		t.Fatal(err.Error())
	}
	if !equal(frame.Pixels, 0xFF0000, 0xFF0000, 0xFF0000, 0xFF0000) || frame.Effect != "test" || frame.Seq != 1 {
		t.Fatalf("unexpected frame %+v", frame)
	}
	if len(clock.slept) != 0 {
		t.Fatal("the first frame should not wait")
	}

	// The next frame slot is one 60fps frame away
	if got := rt.NextTicks64US() - rt.Ticks64US(); got != 16666 {
		t.Fatalf("expected 16666us output latency, got %d", got)
	}

	clock.now = clock.now.Add(10 * time.Millisecond)
	rt.Emit(generator.FromRGB(nil), model.Options{})
	if len(clock.slept) != 1 || clock.slept[0] != 6666*time.Microsecond {
		t.Fatalf("expected to sleep out the frame slot, slept %v", clock.slept)
	}

	rt.Defaults(model.Options{WaitUS: model.Int(0)})
	rt.Emit(generator.FromRGB(nil), model.Options{})
	rt.Emit(generator.FromRGB(nil), model.Options{})
	if len(clock.slept) != 2 {
		t.Fatalf("a zero wait should not sleep after the first frame, slept %v", clock.slept)
	}

	if n := len(mem.Frames()); n != 4 {
		t.Fatalf("expected 4 frames written, got %d", n)
	}
	if mem.Last().Seq != 4 {
		t.Fatalf("unexpected last sequence %d", mem.Last().Seq)
	}
}

func TestEmitDefaults(t *testing.T) {
	rt, mem, _ := newTestRuntime(3)

	rt.Defaults(model.Options{Reverse: model.Bool(true), Rotate: model.Int(1)})
	frame, _ := rt.Emit(generator.FromRGB([]colour.RGB{1, 2, 3}), model.Options{})
	if !equal(frame.Pixels, 3, 2, 1) {
		t.Fatalf("defaults were not applied or kept a rotation %v", frame.Pixels)
	}

	frame, _ = rt.Emit(generator.FromRGB([]colour.RGB{1, 2, 3}), model.Options{Reverse: model.Bool(false)})
	if !equal(frame.Pixels, 1, 2, 3) {
		t.Fatalf("a per frame option did not override the default %v", frame.Pixels)
	}
	if len(mem.Frames()) != 2 {
		t.Fatal("frames were not written")
	}
}

func TestProfileCorrection(t *testing.T) {
	rt, mem, _ := newTestRuntime(4)

	profiles := DefaultProfiles()
	profiles.Set(model.ProfileHDR, NewCurve([]RatioEntry{
		{Index: 2, Ratio: Ratio{128, 255, 0}},
		{Index: 0, Ratio: FullRatio},
	}))
	rt.SetProfiles(profiles)

	white := generator.FromRGB([]colour.RGB{0xFFFFFF, 0xFFFFFF, 0xFFFFFF, 0xFFFFFF})
	frame, _ := rt.Emit(white, model.Options{Profile: model.ProfileOf(model.ProfileHDR)})
	if !equal(frame.Pixels, 0xFFFFFF, 0xFFFFFF, 0xFFFFFF, 0xFFFFFF) {
		t.Fatalf("the returned frame should be uncorrected %v", frame.Pixels)
	}
	if got := mem.Last().Pixels; !equal(got, 0xFFFFFF, 0xFFFFFF, 0x80FF00, 0x80FF00) {
		t.Fatalf("unexpected corrected pixels %x", got)
	}
	if mem.Last().Profile != model.ProfileHDR {
		t.Fatal("the profile was not recorded")
	}

	white.Reset()
	rt.Emit(white, model.Options{})
	if got := mem.Last().Pixels; !equal(got, 0xFFFFFF, 0xFFFFFF, 0xFFFFFF, 0xFFFFFF) {
		t.Fatalf("the normal profile should be unchanged %x", got)
	}
}

func TestLoadProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	doc := []byte("normal:\n  - [0, 255, 128, 0]\nhdr:\n  - [1, 300, -4, 255]\n")
	if errGo := os.WriteFile(path, doc, 0600); errGo != nil {
		t.Fatal(errGo)
	}
	profiles, err := LoadProfiles(path)
	if err != nil {
		t.Fatal(err.Error())
	}
	if got := profiles.Curve(model.ProfileNormal).Apply([]uint32{0xFFFFFF}); !equal(got, 0xFF8000) {
		t.Fatalf("unexpected normal curve %x", got)
	}
	if got := profiles.Curve(model.ProfileHDR).Apply([]uint32{0x102030, 0xFFFFFF}); !equal(got, 0x102030, 0xFF00FF) {
		t.Fatalf("unexpected hdr curve %x", got)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(bad, []byte("sepia:\n  - [0, 1, 2, 3]\n"), 0600)
	if _, err := LoadProfiles(bad); err == nil {
		t.Fatal("an unknown profile should be rejected")
	}
}

func TestSetLengthClamps(t *testing.T) {
	rt, _, _ := newTestRuntime(-3)
	if rt.Length() != 0 {
		t.Fatalf("expected 0, got %d", rt.Length())
	}
	rt.SetLength(MaxLength + 1)
	if rt.Length() != MaxLength {
		t.Fatalf("expected %d, got %d", MaxLength, rt.Length())
	}
}
