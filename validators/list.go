package validators

import (
	"context"
	"reflect"
	"strconv"

	"github.com/reoring/valtree"
)

type listValidator struct {
	items              valtree.TypeValidator
	minItems, maxItems bound[int]
}

func buildList(ctx context.Context, cfg valtree.Config, reg *valtree.Registry) (valtree.TypeValidator, error) {
	lv := listValidator{items: anyValidator{}}
	if cfg.Has("items") {
		items, err := reg.BuildNested(ctx, cfg, "items")
		if err != nil {
			return nil, err
		}
		lv.items = items
	}
	var err error
	if lv.minItems, err = intBound(cfg, "min_items"); err != nil {
		return nil, err
	}
	if lv.maxItems, err = intBound(cfg, "max_items"); err != nil {
		return nil, err
	}
	return lv, nil
}

func (lv listValidator) Validate(ctx context.Context, v any) (any, error) {
	elems, ok := asList(v)
	if !ok {
		return nil, valtree.Reject(valtree.CodeListType, v)
	}
	switch n := len(elems); {
	case lv.minItems.set && n < lv.minItems.v:
		return nil, valtree.Reject(valtree.CodeTooShort, v, "min", lv.minItems.v, "unit", "items")
	case lv.maxItems.set && n > lv.maxItems.v:
		return nil, valtree.Reject(valtree.CodeTooLong, v, "max", lv.maxItems.v, "unit", "items")
	}
	out := make([]any, len(elems))
	var issues valtree.Issues
	for i, e := range elems {
		ev, err := lv.items.Validate(ctx, e)
		if err != nil {
			iss, fatal := split(err)
			if fatal != nil {
				return nil, fatal
			}
			issues = append(issues, iss.Prefix(strconv.Itoa(i))...)
			if valtree.IsFailFast(ctx) {
				return nil, issues
			}
			continue
		}
		out[i] = ev
	}
	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}

func (lv listValidator) Clone() valtree.TypeValidator {
	lv.items = lv.items.Clone()
	return lv
}

func (lv listValidator) String() string {
	return describe("List",
		opt("items", lv.items, true),
		opt("min_items", lv.minItems.v, lv.minItems.set), opt("max_items", lv.maxItems.v, lv.maxItems.set))
}

// asList accepts []any and any other slice or array kind.
func asList(v any) ([]any, bool) {
	if l, ok := v.([]any); ok {
		return l, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		// []byte is a string-ish value, not a list.
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// split separates collectable issues from a fault that must abort validation.
func split(err error) (valtree.Issues, error) {
	if iss, ok := valtree.AsIssues(err); ok {
		return iss, nil
	}
	return nil, err
}
