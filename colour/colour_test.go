package colour

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func absDiff(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

func TestStandardHues(t *testing.T) {
	cases := []struct {
		degrees int
		rgb     RGB
	}{
		{0, 0xFF0000},
		{30, 0xFF8000},
		{60, 0xFFFF00},
		{90, 0x80FF00},
		{120, 0x00FF00},
		{150, 0x00FF80},
		{180, 0x00FFFF},
		{210, 0x0080FF},
		{240, 0x0000FF},
		{270, 0x8000FF},
		{300, 0xFF00FF},
		{330, 0xFF0080},
	}

	for _, tc := range cases {
		got := HueToRGB(tc.degrees*HueRange/360, 1, 1)
		if got != tc.rgb {
			t.Errorf("hue %d: expected %v, got %v", tc.degrees, tc.rgb, got)
		}

		hsv := RGBToHSV(tc.rgb)
		if math.Abs(hsv.H*360-float64(tc.degrees)) > 0.5 {
			t.Errorf("%v: expected hue %d, got %f", tc.rgb, tc.degrees, hsv.H*360)
		}
		if hsv.S != 1 || hsv.V != 1 {
			t.Errorf("%v: expected full saturation and value, got %+v", tc.rgb, hsv)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for r := 0; r < 256; r += 3 {
		for g := 0; g < 256; g += 5 {
			for b := 0; b < 256; b += 7 {
				in := NewRGB(uint8(r), uint8(g), uint8(b))
				out := HSVToRGB(RGBToHSV(in))
				if absDiff(in.R(), out.R()) > 1 || absDiff(in.G(), out.G()) > 1 || absDiff(in.B(), out.B()) > 1 {
					t.Fatalf("round trip of %v produced %v", in, out)
				}
			}
		}
	}
}

func TestAgainstColorful(t *testing.T) {
	for _, in := range []RGB{0x123456, 0xFEDCBA, 0x7F7F00, 0x010203, 0xC0FFEE} {
		h, s, v := in.Colorful().Hsv()
		ours := RGBToHSV(in)
		if math.Abs(ours.H*360-h) > 1e-6 || math.Abs(ours.S-s) > 1e-6 || math.Abs(ours.V-v) > 1e-6 {
			t.Errorf("%v: expected %f,%f,%f got %+v", in, h, s, v, ours)
		}

		back := FromColorful(colorful.Hsv(h, s, v))
		if back != HSVToRGB(ours) {
			t.Errorf("%v: colorful gives %v, we give %v", in, back, HSVToRGB(ours))
		}
	}

	// Every integer hue, saturation and value lands within one step of the
	// unrounded conversion
	for hue := 0; hue < HueRange; hue += 7 {
		for sat := 0; sat <= MaxSaturation; sat += 3 {
			for val := 0; val <= MaxValue; val += 3 {
				s, v := Scaled(sat, val)
				want := colorful.Hsv(float64(hue)*360/HueRange, s, v)
				got := HueToRGB(hue, s, v).Colorful()
				if math.Abs(got.R-want.R) > 1.0/255 || math.Abs(got.G-want.G) > 1.0/255 || math.Abs(got.B-want.B) > 1.0/255 {
					t.Fatalf("hue %d sat %d val %d: expected %v, got %v", hue, sat, val, want.Hex(), got.Hex())
				}
			}
		}
	}
}

func TestClamping(t *testing.T) {
	if got := HSVToRGB(HSV{H: 0, S: 2, V: 5}); got != 0xFF0000 {
		t.Errorf("expected clamped red, got %v", got)
	}
	if got := HSVToRGB(HSV{H: -0.5, S: 1, V: 1}); got != 0x00FFFF {
		t.Errorf("expected wrapped cyan, got %v", got)
	}
	if got := HSVToRGB(HSV{H: math.NaN(), S: math.NaN(), V: 1}); got != 0xFFFFFF {
		t.Errorf("expected white for NaN hue and saturation, got %v", got)
	}
	if got := HSVToRGB(HSV{H: 0.3, S: 1, V: -1}); got != 0 {
		t.Errorf("expected black, got %v", got)
	}
}

func TestExpHue(t *testing.T) {
	m := HueRange / 360
	cases := []struct {
		expHue  int
		degrees int
	}{
		{0, 0},
		{60 * m, 30},
		{120 * m, 60},
		{180 * m, 120},
		{240 * m, 180},
		{300 * m, 240},
		{360 * m, 300},
		{ExpHueRange, 0},
	}

	for _, tc := range cases {
		h := ExpHueToHue(tc.expHue)
		if math.Abs(h*360-float64(tc.degrees)) > 1e-9 {
			t.Errorf("exp hue %d: expected %d degrees, got %f", tc.expHue, tc.degrees, h*360)
		}
		if tc.expHue < ExpHueRange {
			if back := HueToExpHue(h); back != tc.expHue {
				t.Errorf("hue %f: expected exp hue %d, got %d", h, tc.expHue, back)
			}
		}
	}

	if got := ExpHSVToRGB(120*m, 1, 1); got != 0xFFFF00 {
		t.Errorf("expected yellow, got %v", got)
	}

	for v := 1; v <= MaxValue; v++ {
		_, value := Scaled(MaxSaturation, v)
		rgb := ExpHSVToRGB(180*m, 1, value)
		if rgb.R() != 0 || rgb.B() != 0 {
			t.Fatalf("value %d: green leaked into other channels: %v", v, rgb)
		}
		e, s, back := RGBToExpHSV(rgb)
		if e != 180*m || s != 1 || math.Abs(back-value) > 0.5/255 {
			t.Fatalf("value %d: expected green back, got %d %f %f", v, e, s, back)
		}
	}
}

func TestExpHueFraction(t *testing.T) {
	if got := ExpHueFraction(0.5); got != ExpHueRange/2 {
		t.Errorf("expected %d, got %d", ExpHueRange/2, got)
	}
	if got := ExpHueFraction(1); got != 0 {
		t.Errorf("expected wrap to 0, got %d", got)
	}
}

func TestParse(t *testing.T) {
	for in, expected := range map[string]RGB{
		"#ff0000": 0xFF0000,
		"00ff00":  0x00FF00,
		"#0000FF": 0x0000FF,
	} {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if got != expected {
			t.Errorf("%s: expected %v, got %v", in, expected, got)
		}
	}

	for _, in := range []string{"nope", "abc", "#abc", "", "#ff00ff00", "gghhii"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("%q: expected an error for an invalid colour", in)
		}
	}
}

func TestVariant(t *testing.T) {
	colours := []Colour{RGB(0x00FF00), HSV{H: 1.0 / 3, S: 1, V: 1}}
	for _, c := range colours {
		if c.RGB() != 0x00FF00 {
			t.Errorf("%v: expected green, got %v", c, c.RGB())
		}
	}
}
