package config

import (
	"os"
	"sync"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
	"gopkg.in/yaml.v3"
)

// File loads options from a YAML document, JSON documents are accepted as
// YAML. The document is only parsed again once its size or modification time
// changes.
type File struct {
	path string

	modTime time.Time
	size    int64
	raw     map[string]interface{}

	sync.Mutex
}

func NewFile(path string) (f *File) {
	return &File{path: path}
}

func (f *File) Load() (raw map[string]interface{}, err errors.Error) {
	f.Lock()
	defer f.Unlock()

	info, errGo := os.Stat(f.path)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("path", f.path).With("stack", stack.Trace().TrimRuntime())
	}
	if f.raw != nil && info.ModTime().Equal(f.modTime) && info.Size() == f.size {
		return f.raw, nil
	}

	body, errGo := os.ReadFile(f.path)
	if errGo != nil {
		return nil, errors.Wrap(errGo).With("path", f.path).With("stack", stack.Trace().TrimRuntime())
	}

	raw, err = decodeYAML(body)
	if err != nil {
		return nil, err.With("path", f.path)
	}

	f.raw = raw
	f.modTime = info.ModTime()
	f.size = info.Size()
	return f.raw, nil
}

func decodeYAML(body []byte) (raw map[string]interface{}, err errors.Error) {
	doc := map[string]interface{}{}
	if errGo := yaml.Unmarshal(body, &doc); errGo != nil {
		return nil, errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
	}
	return Flatten(doc), nil
}
