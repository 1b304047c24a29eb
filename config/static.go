package config

import (
	"sync"

	"github.com/karlmutch/errors"
)

// Static is an in memory source, values can be changed while running
type Static struct {
	raw map[string]interface{}
	sync.Mutex
}

func NewStatic(raw map[string]interface{}) (s *Static) {
	s = &Static{raw: map[string]interface{}{}}
	for k, v := range Flatten(raw) {
		s.raw[k] = v
	}
	return s
}

func (s *Static) Set(name string, value interface{}) {
	s.Lock()
	defer s.Unlock()

	s.raw[name] = value
}

func (s *Static) Delete(name string) {
	s.Lock()
	defer s.Unlock()

	delete(s.raw, name)
}

func (s *Static) Load() (raw map[string]interface{}, err errors.Error) {
	s.Lock()
	defer s.Unlock()

	raw = make(map[string]interface{}, len(s.raw))
	for k, v := range s.raw {
		raw[k] = v
	}
	return raw, nil
}
