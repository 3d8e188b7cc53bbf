package validators

import (
	"context"

	"github.com/reoring/valtree"
)

type nullableValidator struct {
	inner valtree.TypeValidator
}

func buildNullable(ctx context.Context, cfg valtree.Config, reg *valtree.Registry) (valtree.TypeValidator, error) {
	inner, err := reg.BuildNested(ctx, cfg, "schema")
	if err != nil {
		return nil, err
	}
	return nullableValidator{inner: inner}, nil
}

func (nv nullableValidator) Validate(ctx context.Context, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return nv.inner.Validate(ctx, v)
}

func (nv nullableValidator) Clone() valtree.TypeValidator {
	return nullableValidator{inner: nv.inner.Clone()}
}

func (nv nullableValidator) String() string { return "Nullable(" + nv.inner.String() + ")" }
