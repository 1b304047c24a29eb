package config

// Coercion of raw decoded values (YAML or JSON) onto declared option types.
// Mismatched values fall back to the default, they are never rejected.

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/TeamNorCal/coriolis/colour"
	"github.com/TeamNorCal/coriolis/model"
)

// Coerce converts a raw value to the option type, ok is false when the
// default had to be used
func (o Option) Coerce(raw interface{}) (val Value, ok bool) {
	if raw == nil {
		if o.Nullable {
			return Value{Type: TypeS32, Null: true}, true
		}
		return o.Default.clone(), false
	}

	val = Value{Type: o.Type()}
	switch o.Type() {
	case TypeBool:
		val.Bool, ok = toBool(raw)
	case TypeS32:
		var f float64
		if f, ok = toFloat(raw); ok && !math.IsNaN(f) {
			val.Int = toInt32(f)
		} else {
			ok = false
		}
	case TypeFloat:
		val.Float, ok = toFloat(raw)
	case TypeRGB:
		var c colour.RGB
		if c, ok = toRGB(raw); ok {
			val.Colours = []colour.RGB{c}
		}
	case TypeListRGB:
		val.Colours, ok = toRGBList(raw)
	case TypeSetRGB:
		if val.Colours, ok = toRGBList(raw); ok {
			val.Colours = uniqueSorted(val.Colours)
		}
	case TypeProfile:
		val.Profile, ok = toProfile(raw)
	}
	if !ok {
		return o.Default.clone(), false
	}
	return val, true
}

func toBool(raw interface{}) (bool, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		b, errGo := strconv.ParseBool(strings.TrimSpace(v))
		return b, errGo == nil
	}
	if f, ok := toFloat(raw); ok {
		return f != 0, true
	}
	return false, false
}

func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case uint32:
		return float64(v), true
	case string:
		f, errGo := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, errGo == nil
	}
	return 0, false
}

func toInt32(f float64) int32 {
	switch {
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int32(math.Round(f))
}

func toRGB(raw interface{}) (colour.RGB, bool) {
	switch v := raw.(type) {
	case string:
		c, errGo := colour.Parse(v)
		return c, errGo == nil
	case []interface{}:
		// A three element list is a channel triple
		if len(v) != 3 {
			return 0, false
		}
		var ch [3]uint8
		for i, e := range v {
			f, ok := toFloat(e)
			if !ok || math.IsNaN(f) {
				return 0, false
			}
			ch[i] = uint8(math.Max(0, math.Min(255, math.Round(f))))
		}
		return colour.NewRGB(ch[0], ch[1], ch[2]), true
	}
	if f, ok := toFloat(raw); ok && !math.IsNaN(f) && f >= 0 {
		return colour.RGB(uint32(math.Min(f, 0xFFFFFF))), true
	}
	return 0, false
}

func toRGBList(raw interface{}) ([]colour.RGB, bool) {
	items, isList := raw.([]interface{})
	if !isList {
		c, ok := toRGB(raw)
		if !ok {
			return nil, false
		}
		return []colour.RGB{c}, true
	}
	list := make([]colour.RGB, 0, len(items))
	for _, item := range items {
		if c, ok := toRGB(item); ok {
			list = append(list, c)
		}
	}
	if len(list) == 0 && len(items) != 0 {
		return nil, false
	}
	return list, true
}

func toProfile(raw interface{}) (model.Profile, bool) {
	if s, isString := raw.(string); isString {
		return model.ParseProfile(s)
	}
	if f, ok := toFloat(raw); ok {
		switch model.Profile(int(f)) {
		case model.ProfileNormal:
			return model.ProfileNormal, true
		case model.ProfileHDR:
			return model.ProfileHDR, true
		}
	}
	return model.ProfileNormal, false
}

func uniqueSorted(in []colour.RGB) []colour.RGB {
	if in == nil {
		return nil
	}
	out := append([]colour.RGB(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	n := 0
	for i, c := range out {
		if i == 0 || c != out[n-1] {
			out[n] = c
			n++
		}
	}
	return out[:n]
}
