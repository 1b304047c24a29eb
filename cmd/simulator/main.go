package main

// The simulator serves a scenario of option documents over HTTP so that a
// coriolis started with an http -options URL can be driven through a
// sequence of option changes. A scenario directory holds sub directories
// named by the second at which they become active, each holding the
// documents served from that second on. A file named finish in the active
// directory restarts the scenario.

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mgutz/logxi"
)

var (
	listen       = flag.String("listen", ":8080", "Address to bind to")
	scenarioPath = flag.String("path", "./", "Path of the scenario directory")
	remote       = flag.Bool("remote", false, "Enable remote management of the scenario being run")
	scale        = flag.Int("scale", 1, "factor by which to accelerate the relative rate of the clock")
)

type slot struct {
	second int    // The second at which the directory activates
	dir    string // The directory that activates
}

type schedule struct {
	startTime time.Time
	slots     []*slot
	sync.Mutex
}

var (
	logW = logxi.NewLogger(logxi.NewConcurrentWriter(os.Stdout), "coriolis-simulator")

	testSchedule = &schedule{startTime: time.Now().Round(time.Second)}

	// This channel carries a scenario path to be loaded immediately
	forcedLoad = make(chan string, 1)
)

func main() {

	flag.Parse()

	if _, err := filepath.Abs(*scenarioPath); err != nil {
		logxi.Fatal(err.Error())
		os.Exit(-1)
	}

	testSchedule.reload(*scenarioPath, time.Now())

	go auditWindow(*scenarioPath)

	http.HandleFunc("/", serveHandler)

	if err := http.ListenAndServe(*listen, nil); err != nil {
		logW.Warn(err.Error())
	}
}

// loadSlots lists the numbered directories of a scenario in ascending order
func loadSlots(scenario string) (slots []*slot, err error) {
	entries, err := os.ReadDir(scenario)
	if err != nil {
		return nil, err
	}

	slots = []*slot{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		second, errGo := strconv.Atoi(entry.Name())
		if errGo != nil || second < 0 {
			continue
		}
		slots = append(slots, &slot{second: second, dir: filepath.Join(scenario, entry.Name())})
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].second < slots[j].second
	})
	return slots, nil
}

// load replaces the slots and restarts the scenario clock at now
func (s *schedule) load(scenario string, now time.Time) (err error) {
	slots, err := loadSlots(scenario)
	if err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	s.startTime = now.Round(time.Second)
	s.slots = slots

	logW.Debug(fmt.Sprintf("loaded scenario %s with %d slots", scenario, len(slots)))
	return nil
}

// reload loads a scenario, keeping the current one when that fails
func (s *schedule) reload(scenario string, now time.Time) {
	if err := s.load(scenario, now); err != nil {
		logW.Warn(fmt.Sprintf("could not load scenario from %s due to %s", scenario, err.Error()), "error", err)
	}
}

// slotDir is the directory active at now, the first slot until the scenario
// starts and the last one once it has run out
func (s *schedule) slotDir(now time.Time, scale int) (dir string) {
	s.Lock()
	defer s.Unlock()

	if len(s.slots) == 0 {
		return ""
	}

	second := int(now.Sub(s.startTime).Seconds() * float64(scale))
	idx := sort.Search(len(s.slots), func(i int) bool { return s.slots[i].second > second }) - 1
	if idx < 0 {
		idx = 0
	}
	return s.slots[idx].dir
}

// auditWindow owns the scenario path, changes to it arrive over forcedLoad
func auditWindow(scenario string) {
	tick := time.NewTicker(500 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case scenario = <-forcedLoad:
			logW.Debug(fmt.Sprintf("forced load of %s occurring", scenario))
			testSchedule.reload(scenario, time.Now())

		case <-tick.C:
			dir := testSchedule.slotDir(time.Now(), *scale)
			logW.Debug(fmt.Sprintf("using %s", dir))

			if _, err := os.Stat(filepath.Join(dir, "finish")); err == nil && len(dir) != 0 {
				testSchedule.reload(scenario, time.Now())
			}
		}
	}
}

func serveConfigure(w http.ResponseWriter, r *http.Request) {

	scenario := strings.TrimPrefix(r.URL.Path, "/configure")
	if !path.IsAbs(scenario) {
		http.Error(w, "configure paths must be absolute", 404)
		return
	}

	select {
	case forcedLoad <- scenario:
	case <-time.After(3 * time.Second):
		http.Error(w, "configure path could not be applied immediately", 500)
	}
}

func serveHandler(w http.ResponseWriter, r *http.Request) {

	if *remote && strings.HasPrefix(r.URL.Path, "/configure/") {
		serveConfigure(w, r)
		return
	}

	// Locate from the current scenario which directory is the
	// appropriate one to serve up
	//
	dir := testSchedule.slotDir(time.Now(), *scale)
	if len(dir) == 0 {
		http.NotFound(w, r)
		return
	}
	file := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
	logW.Debug(fmt.Sprintf("serving %s", file))

	http.ServeFile(w, r, file)
}
