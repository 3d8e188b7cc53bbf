package valtree

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
)

// Config is one declarative schema fragment: the configuration node a single
// validator is built from. It is treated as read-only once handed to a Registry.
type Config map[string]any

// Kind returns the type discriminator ("type", or its alias "kind").
func (c Config) Kind() (string, bool) {
	for _, key := range []string{"type", "kind"} {
		if s, ok := c[key].(string); ok {
			return s, true
		}
	}
	return "", false
}

// Has reports whether key is present (even when its value is nil).
func (c Config) Has(key string) bool {
	_, ok := c[key]
	return ok
}

// Lookup returns the raw value stored under key.
func (c Config) Lookup(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// Dict returns the required nested configuration stored under key.
func (c Config) Dict(key string) (Config, error) {
	v, ok := c[key]
	if !ok {
		return nil, buildErrorf("%q is required", key)
	}
	sub, ok := AsConfig(v)
	if !ok {
		return nil, buildErrorf("%q must be a mapping", key)
	}
	return sub, nil
}

// OptDict returns the nested configuration under key, or nil when absent.
func (c Config) OptDict(key string) (Config, error) {
	if !c.Has(key) {
		return nil, nil
	}
	return c.Dict(key)
}

// List returns the sequence stored under key, or nil when absent.
func (c Config) List(key string) ([]any, error) {
	v, ok := c[key]
	if !ok || v == nil {
		return nil, nil
	}
	l, ok := v.([]any)
	if !ok {
		return nil, buildErrorf("%q must be a list", key)
	}
	return l, nil
}

// String returns the string under key, or def when absent.
func (c Config) String(key, def string) (string, error) {
	v, ok := c[key]
	if !ok || v == nil {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", buildErrorf("%q must be a string", key)
	}
	return s, nil
}

// Bool returns the bool under key, or def when absent.
func (c Config) Bool(key string, def bool) (bool, error) {
	v, ok := c[key]
	if !ok || v == nil {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, buildErrorf("%q must be a bool", key)
	}
	return b, nil
}

// OptInt returns the integer under key; ok is false when the key is absent.
func (c Config) OptInt(key string) (n int, ok bool, err error) {
	v, present := c[key]
	if !present || v == nil {
		return 0, false, nil
	}
	n, ok = toInt(v)
	if !ok {
		return 0, false, buildErrorf("%q must be an integer", key)
	}
	return n, true, nil
}

// OptFloat returns the number under key; ok is false when the key is absent.
func (c Config) OptFloat(key string) (f float64, ok bool, err error) {
	v, present := c[key]
	if !present || v == nil {
		return 0, false, nil
	}
	f, ok = toFloat(v)
	if !ok {
		return 0, false, buildErrorf("%q must be a number", key)
	}
	return f, true, nil
}

// Keys returns the configuration keys in sorted order.
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AsConfig converts v into a Config when it is a string-keyed mapping.
func AsConfig(v any) (Config, bool) {
	switch m := v.(type) {
	case Config:
		return m, true
	case map[string]any:
		return Config(m), true
	default:
		return nil, false
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := strconv.Atoi(string(n))
		return i, err == nil
	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
