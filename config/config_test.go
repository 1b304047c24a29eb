package config

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/TeamNorCal/coriolis/colour"
	"github.com/TeamNorCal/coriolis/model"
	"github.com/karlmutch/errors"
)

func testSchema() Schema {
	return Schema{
		"enabled":  BoolOption(false),
		"count":    S32Option(2),
		"duration": NullS32Option(),
		"rate":     FloatOption(0.75),
		"colour":   RGBOption(0xFF0000),
		"colours":  ListRGBOption(0xFF0000, 0x00FF00),
		"set":      SetRGBOption(0x0000FF),
		"profile":  ProfileOption(model.ProfileNormal),
	}
}

func TestCoerce(t *testing.T) {
	schema := testSchema()

	cases := []struct {
		name string
		raw  interface{}
		ok   bool
		want string
	}{
		{"enabled", true, true, "true"},
		{"enabled", "false", true, "false"},
		{"enabled", 1, true, "true"},
		{"enabled", "maybe", false, "false"},
		{"count", 7, true, "7"},
		{"count", 2.6, true, "3"},
		{"count", "12", true, "12"},
		{"count", 1e12, true, "2147483647"},
		{"count", "lots", false, "2"},
		{"duration", nil, true, "null"},
		{"duration", 1500, true, "1500"},
		{"count", nil, false, "2"},
		{"rate", 0.5, true, "0.5"},
		{"rate", []interface{}{1}, false, "0.75"},
		{"colour", "#00ff00", true, "[#00FF00]"},
		{"colour", 255, true, "[#0000FF]"},
		{"colour", []interface{}{1, 2, 3}, true, "[#010203]"},
		{"colour", "nope", false, "[#FF0000]"},
		{"colours", []interface{}{"#0000ff", "bad", "#ffffff"}, true, "[#0000FF #FFFFFF]"},
		{"colours", "#123456", true, "[#123456]"},
		{"colours", []interface{}{"bad"}, false, "[#FF0000 #00FF00]"},
		{"set", []interface{}{"#ffffff", "#000001", "#ffffff"}, true, "[#000001 #FFFFFF]"},
		{"profile", "hdr", true, "HDR"},
		{"profile", 1, true, "HDR"},
		{"profile", "sepia", false, "NORMAL"},
	}

	for _, tc := range cases {
		val, ok := schema[tc.name].Coerce(tc.raw)
		if ok != tc.ok {
			t.Errorf("%s %v: expected ok %v, got %v", tc.name, tc.raw, tc.ok, ok)
		}
		if got := val.String(); got != tc.want {
			t.Errorf("%s %v: expected %s, got %s", tc.name, tc.raw, tc.want, got)
		}
	}
}

func TestPollChanged(t *testing.T) {
	src := NewStatic(map[string]interface{}{"count": 5})
	reg := NewRegistry(src)
	reg.Register(testSchema())

	vals := NewValues()
	if !reg.PollChanged(vals) {
		t.Fatal("the first poll must report a change")
	}
	if vals.Int("count") != 5 || vals.Float("rate") != 0.75 {
		t.Fatalf("unexpected values %d %f", vals.Int("count"), vals.Float("rate"))
	}
	if _, isSet := vals.OptionalInt("duration"); isSet {
		t.Fatal("duration should default to null")
	}

	if reg.PollChanged(vals) {
		t.Fatal("unchanged values reported as a change")
	}

	// Writing back a clamped value is local to the values and is not a change
	vals.SetInt("count", 3)
	if reg.PollChanged(vals) {
		t.Fatal("a write back was reported as a change")
	}
	if vals.Int("count") != 3 {
		t.Fatal("a write back was overwritten without a change")
	}

	// A raw value that coerces to the same result is not a change either
	src.Set("count", 5.2)
	if reg.PollChanged(vals) {
		t.Fatal("an equivalent value was reported as a change")
	}

	src.Set("rate", 0.25)
	if !reg.PollChanged(vals) {
		t.Fatal("a new value was not reported")
	}
	if vals.Float("rate") != 0.25 || vals.Int("count") != 5 {
		t.Fatalf("values were not all replaced, rate %f count %d", vals.Float("rate"), vals.Int("count"))
	}

	reg.Register(Schema{"extra": BoolOption(true)})
	if !reg.PollChanged(vals) || !vals.Bool("extra") {
		t.Fatal("registering options must force a change")
	}
}

type failing struct {
	raw  map[string]interface{}
	fail bool
}

func (f *failing) Load() (map[string]interface{}, errors.Error) {
	if f.fail {
		return nil, errors.New("unavailable")
	}
	return f.raw, nil
}

func TestSourceFailureKeepsValues(t *testing.T) {
	src := &failing{fail: true}
	reg := NewRegistry(src)
	reg.Register(testSchema())

	vals := NewValues()
	if !reg.PollChanged(vals) || vals.Int("count") != 2 {
		t.Fatal("a failing first load should give the defaults")
	}

	src.fail = false
	src.raw = map[string]interface{}{"count": 9}
	if !reg.PollChanged(vals) || vals.Int("count") != 9 {
		t.Fatal("values from the recovered source were not applied")
	}

	src.fail = true
	if reg.PollChanged(vals) || vals.Int("count") != 9 {
		t.Fatal("the last good values were not kept")
	}
}

func TestUnregisteredPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("reading an unregistered option should panic")
		}
	}()
	NewValues().Bool("missing")
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	doc := []byte("colours: ['#ff0000', '#0000ff']\nsweep:\n  enabled: true\n  fade_rate: 0.5\n")
	if errGo := os.WriteFile(path, doc, 0600); errGo != nil {
		t.Fatal(errGo)
	}

	raw, err := NewFile(path).Load()
	if err != nil {
		t.Fatal(err.Error())
	}
	if raw["sweep.enabled"] != true || raw["sweep.fade_rate"] != 0.5 {
		t.Fatalf("nested options were not flattened %v", raw)
	}

	reg := NewRegistry(NewFile(path))
	reg.Register(Schema{
		"colours":       ListRGBOption(),
		"sweep.enabled": BoolOption(false),
	})
	vals := NewValues()
	reg.PollChanged(vals)
	got := vals.RGBs("colours")
	if len(got) != 2 || got[0] != colour.RGB(0xFF0000) || got[1] != colour.RGB(0x0000FF) {
		t.Fatalf("unexpected colours %v", got)
	}
	if !vals.Bool("sweep.enabled") {
		t.Fatal("sweep.enabled was not read")
	}

	if _, err := NewFile(filepath.Join(t.TempDir(), "absent.yaml")).Load(); err == nil {
		t.Fatal("a missing file should fail")
	}
}

func TestRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"twinkle": {"number": 4}, "profile": "HDR"}`))
	}))
	defer server.Close()

	u, errGo := url.Parse(server.URL)
	if errGo != nil {
		t.Fatal(errGo)
	}
	remote, err := NewRemote(*u, 0, nil)
	if err != nil {
		t.Fatal(err.Error())
	}
	if _, err := remote.Load(); err == nil {
		t.Fatal("a remote that has not fetched should fail to load")
	}

	remote.poll()
	raw, err := remote.Load()
	if err != nil {
		t.Fatal(err.Error())
	}
	if raw["twinkle.number"] != float64(4) || raw["profile"] != "HDR" {
		t.Fatalf("unexpected document %v", raw)
	}

	for _, scheme := range []string{"serial", "ftp"} {
		if _, err := NewRemote(url.URL{Scheme: scheme, Host: "x"}, 0, nil); err == nil {
			t.Errorf("scheme %s should be rejected", scheme)
		}
	}
}
