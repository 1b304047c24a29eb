package main

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSlotDir(t *testing.T) {
	scenario := t.TempDir()
	for _, name := range []string{"10", "0", "30", "notes"} {
		if err := os.Mkdir(filepath.Join(scenario, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(scenario, "5"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	start := time.Unix(1700000000, 0)
	s := &schedule{}
	if s.slotDir(start, 1) != "" {
		t.Fatal("an empty schedule has no directory")
	}
	if err := s.load(scenario, start); err != nil {
		t.Fatal(err)
	}
	if len(s.slots) != 3 {
		t.Fatalf("expected only the numbered directories, got %d slots", len(s.slots))
	}

	cases := []struct {
		elapsed time.Duration
		scale   int
		want    string
	}{
		{0, 1, "0"},
		{9 * time.Second, 1, "0"},
		{10 * time.Second, 1, "10"},
		{6 * time.Second, 2, "10"},
		{45 * time.Second, 1, "30"},
		{-5 * time.Second, 1, "0"},
	}
	for _, tc := range cases {
		if got := s.slotDir(start.Add(tc.elapsed), tc.scale); got != filepath.Join(scenario, tc.want) {
			t.Errorf("%v x%d: expected slot %s, got %s", tc.elapsed, tc.scale, tc.want, got)
		}
	}
}

func TestReloadKeepsScenarioOnError(t *testing.T) {
	scenario := t.TempDir()
	if err := os.Mkdir(filepath.Join(scenario, "0"), 0o755); err != nil {
		t.Fatal(err)
	}

	start := time.Unix(1700000000, 0)
	s := &schedule{}
	s.reload(scenario, start)
	s.reload(filepath.Join(scenario, "missing"), start.Add(time.Minute))

	if got := s.slotDir(start, 1); got != filepath.Join(scenario, "0") {
		t.Fatalf("a failed load replaced the scenario, got slot %q", got)
	}
	if !s.startTime.Equal(start) {
		t.Fatalf("a failed load restarted the clock at %v", s.startTime)
	}
}

func TestConfigureSendsPath(t *testing.T) {
	before := *scenarioPath

	w := httptest.NewRecorder()
	serveConfigure(w, httptest.NewRequest("GET", "/configure/tmp/scenario", nil))

	select {
	case got := <-forcedLoad:
		if got != "/tmp/scenario" {
			t.Fatalf("expected /tmp/scenario to be loaded, got %q", got)
		}
	default:
		t.Fatal("the configured path was not handed to the loader")
	}
	if *scenarioPath != before {
		t.Fatal("the handler modified the path flag")
	}
	if w.Code != 200 {
		t.Fatalf("unexpected status %d", w.Code)
	}
}

func TestConfigureRejectsRelative(t *testing.T) {
	w := httptest.NewRecorder()
	serveConfigure(w, httptest.NewRequest("GET", "/configurerelative", nil))
	if w.Code != 404 {
		t.Fatalf("expected a relative path to be refused, got %d", w.Code)
	}
	select {
	case got := <-forcedLoad:
		t.Fatalf("a refused path %q was handed to the loader", got)
	default:
	}
}
