package config

import (
	"fmt"
	"sync"

	"github.com/cnf/structhash"
	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
	"github.com/mgutz/logxi"
)

var (
	logger = logxi.New("config")
)

// Source supplies raw option values keyed by option name. Nested maps are
// flattened with "." so that a `sweep:` section holds `sweep.*` options.
type Source interface {
	Load() (raw map[string]interface{}, err errors.Error)
}

// entry is the hashed form of one coerced option
type entry struct {
	Name  string
	Value Value
}

// Registry coerces values from a source against the registered schema and
// reports when the result has changed
type Registry struct {
	source Source
	schema Schema

	lastHash string
	polled   bool
	failed   bool // last load failed, used to log transitions only
	lastRaw  map[string]interface{}

	sync.Mutex
}

func NewRegistry(source Source) *Registry {
	return &Registry{
		source: source,
		schema: Schema{},
	}
}

// Register adds the options of a schema, the next poll always reports a change
func (r *Registry) Register(schema Schema) {
	r.Lock()
	defer r.Unlock()

	r.schema = r.schema.Merge(schema)
	r.polled = false
}

// Schema returns a copy of the registered options
func (r *Registry) Schema() Schema {
	r.Lock()
	defer r.Unlock()

	return r.schema.Merge(nil)
}

// PollChanged loads the source and, when the coerced values differ from the
// last poll, replaces every value in vals at once and returns true
func (r *Registry) PollChanged(vals *Values) (changed bool) {
	r.Lock()
	defer r.Unlock()

	raw := r.lastRaw
	if r.source != nil {
		loaded, err := r.source.Load()
		if err != nil {
			if !r.failed {
				logger.Warn("configuration source failed, keeping previous values", "error", err.Error())
			}
			r.failed = true
		} else {
			if r.failed {
				logger.Info("configuration source recovered")
			}
			r.failed = false
			raw = loaded
			r.lastRaw = loaded
		}
	}

	names := r.schema.Names()
	entries := make([]entry, 0, len(names))
	coerced := make(map[string]Value, len(names))
	for _, name := range names {
		opt := r.schema[name]
		rawVal, isPresent := raw[name]
		val := opt.Default.clone()
		if isPresent {
			var ok bool
			if val, ok = opt.Coerce(rawVal); !ok {
				logger.Debug("option value replaced by default", "option", name, "value", fmt.Sprint(rawVal))
			}
		}
		entries = append(entries, entry{Name: name, Value: val})
		coerced[name] = val
	}

	hash, errGo := structhash.Hash(struct{ Entries []entry }{entries}, 1)
	if errGo != nil {
		// Values are plain data so hashing cannot fail short of a bug
		panic(errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime()).Error())
	}

	if r.polled && hash == r.lastHash {
		return false
	}
	r.polled = true
	r.lastHash = hash

	vals.replace(coerced)
	if logger.IsDebug() {
		for _, name := range names {
			logger.Debug("option", "name", name, "value", coerced[name].String())
		}
	}
	return true
}

// flatten merges nested maps into dotted option names
func flatten(prefix string, in map[string]interface{}, out map[string]interface{}) {
	for k, v := range in {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		switch nested := v.(type) {
		case map[string]interface{}:
			flatten(name, nested, out)
		case map[interface{}]interface{}:
			conv := make(map[string]interface{}, len(nested))
			for nk, nv := range nested {
				conv[fmt.Sprint(nk)] = nv
			}
			flatten(name, conv, out)
		default:
			out[name] = v
		}
	}
}

// Flatten returns a copy of in with nested maps merged into dotted names
func Flatten(in map[string]interface{}) (out map[string]interface{}) {
	out = make(map[string]interface{}, len(in))
	flatten("", in, out)
	return out
}
