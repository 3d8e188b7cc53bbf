package validators

import (
	"context"
	"strconv"
	"strings"

	"github.com/reoring/valtree"
)

type unionValidator struct {
	choices []valtree.TypeValidator
}

func buildUnion(ctx context.Context, cfg valtree.Config, reg *valtree.Registry) (valtree.TypeValidator, error) {
	raw, err := cfg.List("choices")
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, &valtree.BuildError{Msg: `"choices" must not be empty`}
	}
	uv := unionValidator{choices: make([]valtree.TypeValidator, 0, len(raw))}
	for i, c := range raw {
		key := "choices." + strconv.Itoa(i)
		sub, ok := valtree.AsConfig(c)
		if !ok {
			return nil, &valtree.BuildError{Path: []string{key}, Msg: "choice must be a mapping"}
		}
		tv, err := reg.Build(ctx, sub)
		if err != nil {
			return nil, valtree.Nested(key, err)
		}
		uv.choices = append(uv.choices, tv)
	}
	return uv, nil
}

// Validate returns the first choice that accepts v. When none does, the
// issues of every choice are returned, tagged with the choice index.
// An internal fault in any choice aborts immediately.
func (uv unionValidator) Validate(ctx context.Context, v any) (any, error) {
	var issues valtree.Issues
	for i, c := range uv.choices {
		out, err := c.Validate(ctx, v)
		if err == nil {
			return out, nil
		}
		iss, fatal := split(err)
		if fatal != nil {
			return nil, fatal
		}
		for _, it := range iss {
			params := make(map[string]any, len(it.Params)+1)
			for k, pv := range it.Params {
				params[k] = pv
			}
			params["choice"] = i
			it.Params = params
			issues = append(issues, it)
		}
	}
	if len(issues) == 0 {
		return nil, valtree.Reject(valtree.CodeUnionNoMatch, v)
	}
	return nil, issues
}

func (uv unionValidator) Clone() valtree.TypeValidator {
	return unionValidator{choices: valtree.CloneAll(uv.choices)}
}

func (uv unionValidator) String() string {
	parts := make([]string, len(uv.choices))
	for i, c := range uv.choices {
		parts[i] = c.String()
	}
	return "Union(" + strings.Join(parts, " | ") + ")"
}
