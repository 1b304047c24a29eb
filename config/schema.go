// Package config holds typed effect options. A Schema is registered once,
// values arrive from a Source and are coerced against the schema on every
// poll, and a poll only reports a change when the coerced values differ from
// the previous ones.
package config

import (
	"fmt"
	"sort"

	"github.com/TeamNorCal/coriolis/colour"
	"github.com/TeamNorCal/coriolis/model"
)

// Type is the declared type of an option
type Type int

const (
	TypeBool Type = iota
	TypeS32
	TypeFloat
	TypeRGB
	TypeListRGB
	TypeSetRGB
	TypeProfile
)

var typeNames = map[Type]string{
	TypeBool:    "bool",
	TypeS32:     "s32",
	TypeFloat:   "float",
	TypeRGB:     "rgb",
	TypeListRGB: "list_rgb",
	TypeSetRGB:  "set_rgb",
	TypeProfile: "profile",
}

func (t Type) String() string {
	if name, isPresent := typeNames[t]; isPresent {
		return name
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Value is a single coerced option value
type Value struct {
	Type    Type
	Bool    bool
	Int     int32
	Null    bool // only for nullable s32 options
	Float   float64
	Colours []colour.RGB
	Profile model.Profile
}

func (v Value) clone() Value {
	if v.Colours != nil {
		v.Colours = append([]colour.RGB(nil), v.Colours...)
	}
	return v
}

func (v Value) String() string {
	switch v.Type {
	case TypeBool:
		return fmt.Sprint(v.Bool)
	case TypeS32:
		if v.Null {
			return "null"
		}
		return fmt.Sprint(v.Int)
	case TypeFloat:
		return fmt.Sprint(v.Float)
	case TypeRGB, TypeListRGB, TypeSetRGB:
		return fmt.Sprint(v.Colours)
	case TypeProfile:
		return v.Profile.String()
	}
	return "?"
}

// Option declares the type and default of a named option
type Option struct {
	Default  Value
	Nullable bool
}

func (o Option) Type() Type { return o.Default.Type }

// Schema maps option names to their declarations
type Schema map[string]Option

// Merge returns a schema holding both sets of options, other wins on clashes
func (s Schema) Merge(other Schema) Schema {
	merged := make(Schema, len(s)+len(other))
	for k, v := range s {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// Names lists the options in sorted order
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func BoolOption(def bool) Option {
	return Option{Default: Value{Type: TypeBool, Bool: def}}
}

func S32Option(def int32) Option {
	return Option{Default: Value{Type: TypeS32, Int: def}}
}

// NullS32Option is an s32 that defaults to null, "not set"
func NullS32Option() Option {
	return Option{Default: Value{Type: TypeS32, Null: true}, Nullable: true}
}

func FloatOption(def float64) Option {
	return Option{Default: Value{Type: TypeFloat, Float: def}}
}

func RGBOption(def colour.RGB) Option {
	return Option{Default: Value{Type: TypeRGB, Colours: []colour.RGB{def}}}
}

func ListRGBOption(defs ...colour.RGB) Option {
	return Option{Default: Value{Type: TypeListRGB, Colours: defs}}
}

func SetRGBOption(defs ...colour.RGB) Option {
	return Option{Default: Value{Type: TypeSetRGB, Colours: uniqueSorted(defs)}}
}

func ProfileOption(def model.Profile) Option {
	return Option{Default: Value{Type: TypeProfile, Profile: def}}
}

// Values are the current option values of one effect instance. Effects may
// write clamped values back so later reads see the corrected setting.
type Values struct {
	entries map[string]Value
}

func NewValues() *Values {
	return &Values{entries: map[string]Value{}}
}

// Defaults builds values holding every default of the schema
func Defaults(schema Schema) *Values {
	vals := NewValues()
	for name, opt := range schema {
		vals.entries[name] = opt.Default.clone()
	}
	return vals
}

func (v *Values) get(name string, t Type) Value {
	val, isPresent := v.entries[name]
	if !isPresent {
		panic(fmt.Sprintf("option %s is not registered", name))
	}
	if val.Type != t {
		panic(fmt.Sprintf("option %s is %s, not %s", name, val.Type, t))
	}
	return val
}

func (v *Values) Has(name string) bool {
	_, isPresent := v.entries[name]
	return isPresent
}

func (v *Values) Bool(name string) bool { return v.get(name, TypeBool).Bool }

func (v *Values) Int(name string) int32 { return v.get(name, TypeS32).Int }

// OptionalInt reports false when a nullable option is null
func (v *Values) OptionalInt(name string) (int32, bool) {
	val := v.get(name, TypeS32)
	return val.Int, !val.Null
}

func (v *Values) Float(name string) float64 { return v.get(name, TypeFloat).Float }

func (v *Values) RGB(name string) colour.RGB {
	val := v.get(name, TypeRGB)
	if len(val.Colours) == 0 {
		return 0
	}
	return val.Colours[0]
}

// RGBs returns a copy of a list or set option
func (v *Values) RGBs(name string) []colour.RGB {
	val, isPresent := v.entries[name]
	if !isPresent {
		panic(fmt.Sprintf("option %s is not registered", name))
	}
	switch val.Type {
	case TypeListRGB, TypeSetRGB:
	default:
		panic(fmt.Sprintf("option %s is %s, not a colour list", name, val.Type))
	}
	return append([]colour.RGB(nil), val.Colours...)
}

func (v *Values) Profile(name string) model.Profile { return v.get(name, TypeProfile).Profile }

func (v *Values) SetBool(name string, b bool) {
	val := v.get(name, TypeBool)
	val.Bool = b
	v.entries[name] = val
}

func (v *Values) SetInt(name string, i int32) {
	val := v.get(name, TypeS32)
	val.Int = i
	val.Null = false
	v.entries[name] = val
}

func (v *Values) SetFloat(name string, f float64) {
	val := v.get(name, TypeFloat)
	val.Float = f
	v.entries[name] = val
}

// Names lists the options held in sorted order
func (v *Values) Names() []string {
	names := make([]string, 0, len(v.entries))
	for k := range v.entries {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// String renders a value for logging
func (v *Values) String(name string) string {
	if val, isPresent := v.entries[name]; isPresent {
		return val.String()
	}
	return "<unset>"
}

func (v *Values) replace(entries map[string]Value) {
	v.entries = entries
}
