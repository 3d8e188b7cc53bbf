package validators

import (
	"context"
	"fmt"
	"reflect"
	"sort"

	"github.com/reoring/valtree"
)

type dictValidator struct {
	keys, values valtree.TypeValidator
}

func buildDict(ctx context.Context, cfg valtree.Config, reg *valtree.Registry) (valtree.TypeValidator, error) {
	dv := dictValidator{keys: anyValidator{}, values: anyValidator{}}
	for _, slot := range []struct {
		key string
		dst *valtree.TypeValidator
	}{{"keys", &dv.keys}, {"values", &dv.values}} {
		if !cfg.Has(slot.key) {
			continue
		}
		tv, err := reg.BuildNested(ctx, cfg, slot.key)
		if err != nil {
			return nil, err
		}
		*slot.dst = tv
	}
	return dv, nil
}

func (dv dictValidator) Validate(ctx context.Context, v any) (any, error) {
	m, ok := asMap(v)
	if !ok {
		return nil, valtree.Reject(valtree.CodeDictType, v)
	}
	out := make(map[string]any, len(m))
	var issues valtree.Issues
	for _, k := range sortedKeys(m) {
		kv, err := dv.keys.Validate(ctx, k)
		if err != nil {
			iss, fatal := split(err)
			if fatal != nil {
				return nil, fatal
			}
			issues = append(issues, iss.Prefix(k)...)
			if valtree.IsFailFast(ctx) {
				return nil, issues
			}
			continue
		}
		vv, err := dv.values.Validate(ctx, m[k])
		if err != nil {
			iss, fatal := split(err)
			if fatal != nil {
				return nil, fatal
			}
			issues = append(issues, iss.Prefix(k)...)
			if valtree.IsFailFast(ctx) {
				return nil, issues
			}
			continue
		}
		out[keyString(kv)] = vv
	}
	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}

func (dv dictValidator) Clone() valtree.TypeValidator {
	return dictValidator{keys: dv.keys.Clone(), values: dv.values.Clone()}
}

func (dv dictValidator) String() string {
	return describe("Dict", opt("keys", dv.keys, true), opt("values", dv.values, true))
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// asMap accepts string-keyed maps; other key kinds are rendered with fmt.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case valtree.Config:
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	for it := rv.MapRange(); it.Next(); {
		out[keyString(it.Key().Interface())] = it.Value().Interface()
	}
	return out, true
}
