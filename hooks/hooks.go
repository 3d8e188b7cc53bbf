// Package hooks is a small library of named callables for decorator
// validators. Schema documents refer to them by name; see loader.Funcs.
package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/valtree"
	"github.com/reoring/valtree/loader"
)

// Builtins returns a fresh table of every hook in this package.
func Builtins() loader.Funcs {
	return loader.Funcs{
		"strip":             valtree.Func(Strip),
		"lower":             valtree.Func(Lower),
		"upper":             valtree.Func(Upper),
		"double":            valtree.Func(Double),
		"parse_json":        valtree.Func(ParseJSON),
		"stringify":         valtree.Func(Stringify),
		"negate":            valtree.Func(Negate),
		"nullable_on_error": valtree.WrapFunc(NullableOnError),
		"default_zero":      valtree.WrapFunc(DefaultZero),
		"validate_twice":    valtree.WrapFunc(ValidateTwice),
	}
}

// Strip trims surrounding whitespace from strings. Other values pass through.
func Strip(v any) (any, error) {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s), nil
	}
	return v, nil
}

func Lower(v any) (any, error) {
	if s, ok := v.(string); ok {
		return strings.ToLower(s), nil
	}
	return v, nil
}

func Upper(v any) (any, error) {
	if s, ok := v.(string); ok {
		return strings.ToUpper(s), nil
	}
	return v, nil
}

// Double multiplies numbers by two.
func Double(v any) (any, error) {
	switch n := v.(type) {
	case int:
		return n * 2, nil
	case int64:
		return n * 2, nil
	case float64:
		return n * 2, nil
	case json.Number:
		if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
			return int(i) * 2, nil
		}
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("double: %w", err)
		}
		return f * 2, nil
	default:
		return nil, fmt.Errorf("double: unsupported value %T", v)
	}
}

// ParseJSON decodes a single JSON value; trailing data is an error.
// Non-string values pass through.
func ParseJSON(v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return v, nil
	}
	dec := gojson.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("parse_json: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("parse_json: unexpected data after top-level value")
	}
	return out, nil
}

// Stringify renders any value with fmt.
func Stringify(v any) (any, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

// Negate flips booleans and the sign of numbers.
func Negate(v any) (any, error) {
	switch n := v.(type) {
	case bool:
		return !n, nil
	case int:
		return -n, nil
	case int64:
		return -n, nil
	case float64:
		return -n, nil
	default:
		return nil, fmt.Errorf("negate: unsupported value %T", v)
	}
}

// NullableOnError returns nil instead of failing when the inner validator
// rejects v. Internal faults still propagate.
func NullableOnError(ctx context.Context, v any, validator *valtree.ValidatorCallable) (any, error) {
	out, err := validator.Call(ctx, v)
	if _, ok := valtree.AsValidationError(err); ok {
		return nil, nil
	}
	return out, err
}

// DefaultZero validates 0 in place of a missing (nil) input.
func DefaultZero(ctx context.Context, v any, validator *valtree.ValidatorCallable) (any, error) {
	if v == nil {
		v = 0
	}
	return validator.Call(ctx, v)
}

// ValidateTwice runs the inner validator on v and then on its own output.
func ValidateTwice(ctx context.Context, v any, validator *valtree.ValidatorCallable) (any, error) {
	out, err := validator.Call(ctx, v)
	if err != nil {
		return nil, err
	}
	return validator.Call(ctx, out)
}
