package validators

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/reoring/valtree"
)

// ---- any ----

type anyValidator struct{}

func buildAny(context.Context, valtree.Config, *valtree.Registry) (valtree.TypeValidator, error) {
	return anyValidator{}, nil
}

func (anyValidator) Validate(_ context.Context, v any) (any, error) { return v, nil }
func (anyValidator) Clone() valtree.TypeValidator                   { return anyValidator{} }
func (anyValidator) String() string                                 { return "Any()" }

// ---- int ----

// bound is an optional numeric constraint.
type bound[T int | float64] struct {
	v   T
	set bool
}

type intValidator struct {
	strict         bool
	gt, ge, lt, le bound[int]
	multipleOf     bound[int]
}

func intBound(cfg valtree.Config, key string) (bound[int], error) {
	n, ok, err := cfg.OptInt(key)
	return bound[int]{v: n, set: ok}, err
}

func buildInt(_ context.Context, cfg valtree.Config, _ *valtree.Registry) (valtree.TypeValidator, error) {
	var (
		iv  intValidator
		err error
	)
	if iv.strict, err = cfg.Bool("strict", false); err != nil {
		return nil, err
	}
	for _, b := range []struct {
		key string
		dst *bound[int]
	}{{"gt", &iv.gt}, {"ge", &iv.ge}, {"lt", &iv.lt}, {"le", &iv.le}, {"multiple_of", &iv.multipleOf}} {
		if *b.dst, err = intBound(cfg, b.key); err != nil {
			return nil, err
		}
	}
	if iv.multipleOf.set && iv.multipleOf.v == 0 {
		return nil, &valtree.BuildError{Msg: `"multiple_of" must not be zero`}
	}
	return iv, nil
}

func (iv intValidator) Validate(_ context.Context, v any) (any, error) {
	n, code := coerceInt(v, iv.strict)
	if code != "" {
		return nil, valtree.Reject(code, v)
	}
	switch {
	case iv.gt.set && n <= iv.gt.v:
		return nil, valtree.Reject(valtree.CodeGreaterThan, v, "gt", iv.gt.v)
	case iv.ge.set && n < iv.ge.v:
		return nil, valtree.Reject(valtree.CodeGreaterEqual, v, "ge", iv.ge.v)
	case iv.lt.set && n >= iv.lt.v:
		return nil, valtree.Reject(valtree.CodeLessThan, v, "lt", iv.lt.v)
	case iv.le.set && n > iv.le.v:
		return nil, valtree.Reject(valtree.CodeLessEqual, v, "le", iv.le.v)
	case iv.multipleOf.set && n%iv.multipleOf.v != 0:
		return nil, valtree.Reject(valtree.CodeMultipleOf, v, "multiple_of", iv.multipleOf.v)
	}
	return n, nil
}

func (iv intValidator) Clone() valtree.TypeValidator { return iv }

func (iv intValidator) String() string {
	return describe("Int",
		opt("strict", iv.strict, iv.strict),
		opt("gt", iv.gt.v, iv.gt.set), opt("ge", iv.ge.v, iv.ge.set),
		opt("lt", iv.lt.v, iv.lt.set), opt("le", iv.le.v, iv.le.set),
		opt("multiple_of", iv.multipleOf.v, iv.multipleOf.set))
}

// coerceInt returns the integer held by v, or the issue code explaining why
// there is none.
func coerceInt(v any, strict bool) (int, string) {
	switch n := v.(type) {
	case int:
		return n, ""
	case int8:
		return int(n), ""
	case int16:
		return int(n), ""
	case int32:
		return int(n), ""
	case int64:
		return int(n), ""
	case uint8:
		return int(n), ""
	case uint16:
		return int(n), ""
	case uint32:
		return int(n), ""
	case uint64:
		if n > math.MaxInt64 {
			return 0, valtree.CodeIntType
		}
		return int(n), ""
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, valtree.CodeIntType
		}
		return int(n), ""
	case float32:
		return integralFloat(float64(n), strict)
	case float64:
		return integralFloat(n, strict)
	case json.Number:
		i, err := n.Int64()
		if err == nil {
			return int(i), ""
		}
		if errors.Is(err, strconv.ErrRange) {
			return 0, valtree.CodeIntType
		}
		f, err := n.Float64()
		if err != nil {
			return 0, valtree.CodeIntParsing
		}
		return integralFloat(f, strict)
	case string:
		if strict {
			return 0, valtree.CodeIntType
		}
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, valtree.CodeIntParsing
		}
		return i, ""
	default:
		return 0, valtree.CodeIntType
	}
}

// integralFloat accepts whole floats inside the int64 range.
func integralFloat(f float64, strict bool) (int, string) {
	if strict || f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, valtree.CodeIntType
	}
	// float64(math.MaxInt64) rounds up to 2^63, so the upper bound is exclusive.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, valtree.CodeIntType
	}
	return int(f), ""
}

// ---- float ----

type floatValidator struct {
	strict         bool
	allowInfNaN    bool
	gt, ge, lt, le bound[float64]
}

func buildFloat(_ context.Context, cfg valtree.Config, _ *valtree.Registry) (valtree.TypeValidator, error) {
	var (
		fv  floatValidator
		err error
	)
	if fv.strict, err = cfg.Bool("strict", false); err != nil {
		return nil, err
	}
	if fv.allowInfNaN, err = cfg.Bool("allow_inf_nan", true); err != nil {
		return nil, err
	}
	for _, b := range []struct {
		key string
		dst *bound[float64]
	}{{"gt", &fv.gt}, {"ge", &fv.ge}, {"lt", &fv.lt}, {"le", &fv.le}} {
		f, ok, err := cfg.OptFloat(b.key)
		if err != nil {
			return nil, err
		}
		*b.dst = bound[float64]{v: f, set: ok}
	}
	return fv, nil
}

func (fv floatValidator) Validate(_ context.Context, v any) (any, error) {
	f, code := coerceFloat(v, fv.strict)
	if code != "" {
		return nil, valtree.Reject(code, v)
	}
	if !fv.allowInfNaN && (math.IsInf(f, 0) || math.IsNaN(f)) {
		return nil, valtree.Reject(valtree.CodeFiniteNumber, v)
	}
	switch {
	case fv.gt.set && !(f > fv.gt.v):
		return nil, valtree.Reject(valtree.CodeGreaterThan, v, "gt", fv.gt.v)
	case fv.ge.set && !(f >= fv.ge.v):
		return nil, valtree.Reject(valtree.CodeGreaterEqual, v, "ge", fv.ge.v)
	case fv.lt.set && !(f < fv.lt.v):
		return nil, valtree.Reject(valtree.CodeLessThan, v, "lt", fv.lt.v)
	case fv.le.set && !(f <= fv.le.v):
		return nil, valtree.Reject(valtree.CodeLessEqual, v, "le", fv.le.v)
	}
	return f, nil
}

func (fv floatValidator) Clone() valtree.TypeValidator { return fv }

func (fv floatValidator) String() string {
	return describe("Float",
		opt("strict", fv.strict, fv.strict),
		opt("allow_inf_nan", fv.allowInfNaN, !fv.allowInfNaN),
		opt("gt", fv.gt.v, fv.gt.set), opt("ge", fv.ge.v, fv.ge.set),
		opt("lt", fv.lt.v, fv.lt.set), opt("le", fv.le.v, fv.le.set))
}

func coerceFloat(v any, strict bool) (float64, string) {
	switch n := v.(type) {
	case float64:
		return n, ""
	case float32:
		return float64(n), ""
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, valtree.CodeFloatParsing
		}
		return f, ""
	case string:
		if strict {
			return 0, valtree.CodeFloatType
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, valtree.CodeFloatParsing
		}
		return f, ""
	case bool:
		return 0, valtree.CodeFloatType
	default:
		if i, code := coerceInt(v, true); code == "" {
			return float64(i), ""
		}
		return 0, valtree.CodeFloatType
	}
}

// ---- str ----

type stringValidator struct {
	strip, lower, upper bool
	minLen, maxLen      bound[int]
	pattern             *regexp.Regexp
}

func buildString(_ context.Context, cfg valtree.Config, _ *valtree.Registry) (valtree.TypeValidator, error) {
	var (
		sv  stringValidator
		err error
	)
	if sv.strip, err = cfg.Bool("strip_whitespace", false); err != nil {
		return nil, err
	}
	if sv.lower, err = cfg.Bool("to_lower", false); err != nil {
		return nil, err
	}
	if sv.upper, err = cfg.Bool("to_upper", false); err != nil {
		return nil, err
	}
	if sv.minLen, err = intBound(cfg, "min_length"); err != nil {
		return nil, err
	}
	if sv.maxLen, err = intBound(cfg, "max_length"); err != nil {
		return nil, err
	}
	pat, err := cfg.String("pattern", "")
	if err != nil {
		return nil, err
	}
	if pat != "" {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, &valtree.BuildError{Msg: `"pattern" is not a valid regular expression: ` + err.Error()}
		}
		sv.pattern = re
	}
	return sv, nil
}

func (sv stringValidator) Validate(_ context.Context, v any) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, valtree.Reject(valtree.CodeStringType, v)
	}
	if sv.strip {
		s = strings.TrimSpace(s)
	}
	if sv.lower {
		s = strings.ToLower(s)
	}
	if sv.upper {
		s = strings.ToUpper(s)
	}
	n := utf8.RuneCountInString(s)
	switch {
	case sv.minLen.set && n < sv.minLen.v:
		return nil, valtree.Reject(valtree.CodeTooShort, v, "min", sv.minLen.v, "unit", "characters")
	case sv.maxLen.set && n > sv.maxLen.v:
		return nil, valtree.Reject(valtree.CodeTooLong, v, "max", sv.maxLen.v, "unit", "characters")
	case sv.pattern != nil && !sv.pattern.MatchString(s):
		return nil, valtree.Reject(valtree.CodePattern, v, "pattern", sv.pattern.String())
	}
	return s, nil
}

// Clone shares the compiled pattern; *regexp.Regexp is safe for concurrent use.
func (sv stringValidator) Clone() valtree.TypeValidator { return sv }

func (sv stringValidator) String() string {
	pat := ""
	if sv.pattern != nil {
		pat = strconv.Quote(sv.pattern.String())
	}
	return describe("Str",
		opt("strip_whitespace", sv.strip, sv.strip),
		opt("to_lower", sv.lower, sv.lower), opt("to_upper", sv.upper, sv.upper),
		opt("min_length", sv.minLen.v, sv.minLen.set), opt("max_length", sv.maxLen.v, sv.maxLen.set),
		opt("pattern", pat, sv.pattern != nil))
}

// ---- bool ----

type boolValidator struct{ strict bool }

func buildBool(_ context.Context, cfg valtree.Config, _ *valtree.Registry) (valtree.TypeValidator, error) {
	strict, err := cfg.Bool("strict", false)
	if err != nil {
		return nil, err
	}
	return boolValidator{strict: strict}, nil
}

func (bv boolValidator) Validate(_ context.Context, v any) (any, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	if bv.strict {
		return nil, valtree.Reject(valtree.CodeBoolType, v)
	}
	switch x := v.(type) {
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "t", "yes", "y", "on", "1":
			return true, nil
		case "false", "f", "no", "n", "off", "0":
			return false, nil
		}
		return nil, valtree.Reject(valtree.CodeBoolParsing, v)
	case json.Number:
		return bv.Validate(context.Background(), string(x))
	}
	if n, code := coerceInt(v, true); code == "" {
		switch n {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return nil, valtree.Reject(valtree.CodeBoolParsing, v)
	}
	return nil, valtree.Reject(valtree.CodeBoolType, v)
}

func (bv boolValidator) Clone() valtree.TypeValidator { return bv }

func (bv boolValidator) String() string { return describe("Bool", opt("strict", bv.strict, bv.strict)) }
