package config

// This module polls an HTTP endpoint that serves option values as a JSON
// object. Polling runs in the background so the frame loop only ever reads
// the most recent document.

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/go-stack/stack"
	"github.com/goccy/go-json"
	"github.com/karlmutch/errors"
)

type Remote struct {
	url     url.URL
	client  *http.Client
	refresh time.Duration
	errorC  chan<- errors.Error

	raw    map[string]interface{}
	loaded bool
	err    errors.Error

	sync.Mutex
}

// NewRemote validates the scheme now, the first fetch happens when Run starts
func NewRemote(u url.URL, refresh time.Duration, errorC chan<- errors.Error) (remote *Remote, err errors.Error) {
	switch u.Scheme {
	case "http", "https":
	case "serial":
		errGo := fmt.Errorf("scheme %s for configuration sources is not yet implemented", u.Scheme)
		return nil, errors.Wrap(errGo).With("url", u.String()).With("stack", stack.Trace().TrimRuntime())
	default:
		errGo := fmt.Errorf("unknown scheme %s for a configuration source URI", u.Scheme)
		return nil, errors.Wrap(errGo).With("url", u.String()).With("stack", stack.Trace().TrimRuntime())
	}
	if refresh <= 0 {
		refresh = time.Second
	}
	return &Remote{
		url:     u,
		client:  &http.Client{Timeout: 5 * time.Second},
		refresh: refresh,
		errorC:  errorC,
		err:     errors.New("configuration not yet fetched").With("url", u.String()),
	}, nil
}

// Load returns the last document fetched. Once a document has been fetched
// later failures are only reported through the error channel.
func (remote *Remote) Load() (raw map[string]interface{}, err errors.Error) {
	remote.Lock()
	defer remote.Unlock()

	if !remote.loaded {
		return nil, remote.err
	}
	return remote.raw, nil
}

func (remote *Remote) fetch() (raw map[string]interface{}, err errors.Error) {
	resp, errGo := remote.client.Get(remote.url.String())
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("url", remote.url.String()).With("stack", stack.Trace().TrimRuntime())
	}
	body, errGo := io.ReadAll(resp.Body)
	resp.Body.Close()
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("url", remote.url.String()).With("stack", stack.Trace().TrimRuntime())
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("unexpected HTTP status").With("status", resp.Status).With("url", remote.url.String()).With("stack", stack.Trace().TrimRuntime())
	}

	doc := map[string]interface{}{}
	if errGo = json.Unmarshal(body, &doc); errGo != nil {
		return nil, errors.Wrap(errGo).With("url", remote.url.String()).With("body", string(body)).With("stack", stack.Trace().TrimRuntime())
	}
	return Flatten(doc), nil
}

func (remote *Remote) poll() {
	raw, err := remote.fetch()

	remote.Lock()
	if err == nil {
		remote.raw = raw
		remote.loaded = true
	}
	remote.err = err
	remote.Unlock()

	if err != nil && remote.errorC != nil {
		go func(err errors.Error) {
			select {
			case remote.errorC <- err:
			case <-time.After(500 * time.Millisecond):
				fmt.Fprintf(os.Stderr, "could not send error for configuration update %s\n", err.Error())
			}
		}(err)
	}
}

// Run fetches the document immediately and then on every refresh interval
func (remote *Remote) Run(quitC <-chan struct{}) {
	remote.poll()

	poll := time.NewTicker(remote.refresh)
	defer poll.Stop()

	for {
		select {
		case <-poll.C:
			remote.poll()

		case <-quitC:
			return
		}
	}
}
