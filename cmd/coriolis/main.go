package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
	"github.com/mgutz/logxi" // Using a forked copy of this package results in build issues

	"github.com/TeamNorCal/coriolis"
	"github.com/TeamNorCal/coriolis/config"
	"github.com/TeamNorCal/coriolis/effects"
	"github.com/TeamNorCal/coriolis/generator"
	"github.com/TeamNorCal/coriolis/host"
	"github.com/TeamNorCal/coriolis/version"
	"github.com/TeamNorCal/coriolis/wled"

	"github.com/karlmutch/envflag" // Forked copy of https://github.com/GoBike/envflag
)

var (
	logger = logxi.New("coriolis")

	verbose = flag.Bool("v", false, "When enabled will print internal logging for this tool")

	effectName = flag.String("effect", "gradient", "The effect to run, one of "+strings.Join(effects.Names(), ", "))
	options    = flag.String("options", "", "A YAML file, or an http(s) URL serving JSON, holding the effect options")
	refresh    = flag.Duration("refresh", 5*time.Second, "How often a remote options URL is fetched")
	length     = flag.Int("length", 60, "The number of LEDs on the strip")
	opcServer  = flag.String("opc", "", "The host:port of an OPC server such as fadecandy, frames are not sent anywhere when empty")
	channel    = flag.Uint("channel", 0, "The OPC channel the strip is attached to")
	udpAddr    = flag.String("udp", ":21324", "The address the udp effect listens on for realtime packets")
	profiles   = flag.String("profiles", "", "A YAML file of per LED colour profiles")
	preview    = flag.Bool("preview", false, "Show the frames on a truecolor terminal")
	seed       = flag.Int64("seed", 0, "The random seed for effects, 0 uses the time")
)

func usage() {
	fmt.Fprintln(os.Stderr, path.Base(os.Args[0]))
	fmt.Fprintln(os.Stderr, "usage: ", os.Args[0], "[options]       effect → OPC (coriolis)      ", version.GitHash, "    ", version.BuildTime)
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "coriolis runs a single LED effect on a strip attached to an OPC based USB fadecandy board")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Environment Variables:")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "options can also be extracted from environment variables by changing dashes '-' to underscores and using upper case.")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "log levels are handled by the LOGXI env variables, these are documented at https://github.com/mgutz/logxi")
}

func init() {
	flag.Usage = usage
}

func main() {

	// Parse the CLI flags
	if !flag.Parsed() {
		envflag.Parse()
	}

	// Turn off logging regardless of the default levels if the verbose flag is not enabled.
	// By design this is a CLI tool and outputs information that is expected to be used by shell
	// scripts etc
	//
	if *verbose {
		logger.SetLevel(logxi.LevelDebug)
	}

	logger.Debug(fmt.Sprintf("%s built at %s, against commit id %s\n", os.Args[0], version.BuildTime, version.GitHash))

	quitC := make(chan struct{})
	errorC := make(chan errors.Error, 3)

	stopC := make(chan os.Signal, 1)
	signal.Notify(stopC, os.Interrupt, syscall.SIGTERM)

	if err := start(errorC, quitC); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(-1)
	}

	for {
		select {
		case err := <-errorC:
			if err != nil {
				logger.Warn(err.Error())
			}
		case <-stopC:
			logger.Debug("stopping")
			close(quitC)
			return
		}
	}
}

func start(errorC chan<- errors.Error, quitC <-chan struct{}) (err errors.Error) {

	var writer host.Writer
	if len(*opcServer) != 0 {
		oc, err := host.NewOPC(*opcServer, uint8(*channel))
		if err != nil {
			// The writer keeps redialing so a board that is not yet up is only a warning
			logger.Warn(err.Error())
		}
		writer = oc
	}

	rt := host.NewRuntime(*length, writer, randomSeed())

	if len(*profiles) != 0 {
		p, err := host.LoadProfiles(*profiles)
		if err != nil {
			return err
		}
		rt.SetProfiles(p)
	}

	source, err := optionSource(errorC, quitC)
	if err != nil {
		return err
	}

	effect, err := lookupEffect(errorC, quitC)
	if err != nil {
		return err
	}

	gw := &coriolis.Gateway{Runner: coriolis.NewRunner(effect, source, rt)}
	subscribeC := gw.Start(errorC, quitC)

	if *preview {
		go runPreview(subscribeC, os.Stdout, quitC)
	}
	if *verbose {
		go runMonitoring(subscribeC, quitC)
	}
	return nil
}

func randomSeed() int64 {
	if *seed != 0 {
		return *seed
	}
	return time.Now().UnixNano()
}

// optionSource picks a remote source for URLs and a file for anything else
func optionSource(errorC chan<- errors.Error, quitC <-chan struct{}) (source config.Source, err errors.Error) {
	if len(*options) == 0 {
		return config.NewStatic(nil), nil
	}
	if !strings.Contains(*options, "://") {
		return config.NewFile(*options), nil
	}

	u, errGo := url.Parse(*options)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("options", *options).With("stack", stack.Trace().TrimRuntime())
	}
	remote, err := config.NewRemote(*u, *refresh, errorC)
	if err != nil {
		return nil, err
	}
	go remote.Run(quitC)
	return remote, nil
}

func lookupEffect(errorC chan<- errors.Error, quitC <-chan struct{}) (effect generator.Effect, err errors.Error) {
	if *effectName == "udp" {
		listener, err := wled.Listen(*udpAddr, *length)
		if err != nil {
			return nil, err
		}
		go listener.Run(errorC, quitC)
		return effects.NewUDP(listener), nil
	}

	effect, isPresent := effects.Lookup(*effectName)
	if !isPresent {
		return nil, errors.New("unknown effect").With("effect", *effectName).With("known", effects.Names()).With("stack", stack.Trace().TrimRuntime())
	}
	return effect, nil
}
