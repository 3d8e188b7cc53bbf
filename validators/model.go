package validators

import (
	"context"
	"strings"

	"github.com/reoring/valtree"
)

type modelField struct {
	name       string
	validator  valtree.TypeValidator
	required   bool
	def        any
	hasDefault bool
}

type modelValidator struct {
	fields []modelField // sorted by name
	extra  valtree.ExtraPolicy
}

func buildModel(ctx context.Context, cfg valtree.Config, reg *valtree.Registry) (valtree.TypeValidator, error) {
	fieldsCfg, err := cfg.Dict("fields")
	if err != nil {
		return nil, err
	}
	extra, err := cfg.String("extra", "ignore")
	if err != nil {
		return nil, err
	}
	mv := modelValidator{}
	if mv.extra, err = valtree.ParseExtraPolicy(extra); err != nil {
		return nil, err
	}
	for _, name := range fieldsCfg.Keys() {
		f, err := buildModelField(ctx, fieldsCfg, name, reg)
		if err != nil {
			return nil, valtree.Nested("fields", err)
		}
		mv.fields = append(mv.fields, f)
	}
	return mv, nil
}

// buildModelField accepts either {"schema": {...}, "required": ..., "default": ...}
// or a bare validator configuration (required, no default).
func buildModelField(ctx context.Context, fields valtree.Config, name string, reg *valtree.Registry) (modelField, error) {
	fc, err := fields.Dict(name)
	if err != nil {
		return modelField{}, err
	}
	f := modelField{name: name, required: true}
	if _, typed := fc.Kind(); typed || !fc.Has("schema") {
		tv, err := reg.BuildNested(ctx, fields, name)
		if err != nil {
			return modelField{}, err
		}
		f.validator = tv
		return f, nil
	}
	tv, err := reg.BuildNested(ctx, fc, "schema")
	if err != nil {
		return modelField{}, valtree.Nested(name, err)
	}
	f.validator = tv
	def, hasDefault := fc.Lookup("default")
	f.def, f.hasDefault = copyValue(def), hasDefault
	if f.required, err = fc.Bool("required", !f.hasDefault); err != nil {
		return modelField{}, valtree.Nested(name, err)
	}
	return f, nil
}

func (mv modelValidator) Validate(ctx context.Context, v any) (any, error) {
	src, ok := asMap(v)
	if !ok {
		return nil, valtree.Reject(valtree.CodeModelType, v)
	}
	out := make(map[string]any, len(mv.fields))
	var issues valtree.Issues
	known := make(map[string]struct{}, len(mv.fields))
	for _, f := range mv.fields {
		known[f.name] = struct{}{}
		raw, present := src[f.name]
		if !present {
			switch {
			case f.hasDefault:
				out[f.name] = copyValue(f.def)
			case f.required:
				issues = append(issues, valtree.Reject(valtree.CodeMissing, v).Prefix(f.name)...)
			}
			if len(issues) > 0 && valtree.IsFailFast(ctx) {
				return nil, issues
			}
			continue
		}
		fv, err := f.validator.Validate(ctx, raw)
		if err != nil {
			iss, fatal := split(err)
			if fatal != nil {
				return nil, fatal
			}
			issues = append(issues, iss.Prefix(f.name)...)
			if valtree.IsFailFast(ctx) {
				return nil, issues
			}
			continue
		}
		out[f.name] = fv
	}
	if mv.extra != valtree.ExtraIgnore {
		for _, k := range sortedKeys(src) {
			if _, ok := known[k]; ok {
				continue
			}
			if mv.extra == valtree.ExtraForbid {
				issues = append(issues, valtree.Reject(valtree.CodeExtraForbidden, src[k]).Prefix(k)...)
				continue
			}
			out[k] = src[k]
		}
	}
	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}

func (mv modelValidator) Clone() valtree.TypeValidator {
	fields := make([]modelField, len(mv.fields))
	for i, f := range mv.fields {
		f.validator = f.validator.Clone()
		f.def = copyValue(f.def)
		fields[i] = f
	}
	return modelValidator{fields: fields, extra: mv.extra}
}

func (mv modelValidator) String() string {
	parts := make([]string, 0, len(mv.fields))
	for _, f := range mv.fields {
		mark := ""
		if !f.required {
			mark = "?"
		}
		parts = append(parts, f.name+mark+": "+f.validator.String())
	}
	return describe("Model",
		opt("fields", "{"+strings.Join(parts, ", ")+"}", true),
		opt("extra", mv.extra, mv.extra != valtree.ExtraIgnore))
}

// copyValue deep-copies the containers a decoded document can hold, so a
// default handed out once cannot be changed behind the validator's back.
func copyValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = copyValue(e)
		}
		return out
	case valtree.Config:
		out := make(valtree.Config, len(t))
		for k, e := range t {
			out[k] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
