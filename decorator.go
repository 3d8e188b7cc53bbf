package valtree

import (
	"context"
	"fmt"
)

// Decorator configuration keys. A node of type "decorator" carries exactly one
// of them; the nested validator lives under FieldKey.
const (
	DecoratorKind = "decorator"
	FieldKey      = "field"
	PreKey        = "pre_decorator"
	PostKey       = "post_decorator"
	WrapKey       = "wrap_decorator"
)

var (
	// PreVariant builds PreDecorator nodes.
	PreVariant Variant = decoratorVariant{key: PreKey, make: func(inner TypeValidator, hook Callable) TypeValidator {
		return &PreDecorator{inner: inner, hook: hook}
	}}
	// PostVariant builds PostDecorator nodes.
	PostVariant Variant = decoratorVariant{key: PostKey, make: func(inner TypeValidator, hook Callable) TypeValidator {
		return &PostDecorator{inner: inner, hook: hook}
	}}
	// WrapVariant builds WrapDecorator nodes.
	WrapVariant Variant = decoratorVariant{key: WrapKey, make: func(inner TypeValidator, hook Callable) TypeValidator {
		return &WrapDecorator{inner: inner, hook: hook}
	}}
)

// DecoratorVariants returns the decorator variants in matching order.
func DecoratorVariants() []Variant {
	return []Variant{PreVariant, PostVariant, WrapVariant}
}

type decoratorVariant struct {
	key  string
	make func(inner TypeValidator, hook Callable) TypeValidator
}

func (d decoratorVariant) Name() string { return d.key }

func (d decoratorVariant) Matches(kind string, cfg Config) bool {
	return kind == DecoratorKind && cfg.Has(d.key)
}

func (d decoratorVariant) Build(ctx context.Context, cfg Config, reg *Registry) (TypeValidator, error) {
	inner, err := reg.BuildNested(ctx, cfg, FieldKey)
	if err != nil {
		return nil, err
	}
	hook, err := RequireCallable(cfg, d.key)
	if err != nil {
		return nil, err
	}
	return d.make(inner, hook), nil
}

// PreDecorator passes the input through its hook before the inner validator.
type PreDecorator struct {
	inner TypeValidator
	hook  Callable
}

// NewPreDecorator returns a PreDecorator; hook must be non-nil.
func NewPreDecorator(inner TypeValidator, hook Callable) *PreDecorator {
	return &PreDecorator{inner: inner, hook: hook}
}

func (d *PreDecorator) Validate(ctx context.Context, v any) (any, error) {
	out, err := invoke(ctx, d.hook, []any{v}, nil)
	if err != nil {
		// Every hook fault is internal, including ones meant as rejections.
		return nil, Internal(err)
	}
	return d.inner.Validate(ctx, out)
}

func (d *PreDecorator) Clone() TypeValidator {
	return &PreDecorator{inner: d.inner.Clone(), hook: d.hook}
}

func (d *PreDecorator) String() string {
	return fmt.Sprintf("PreDecorator(%s, %s)", callableName(d.hook), d.inner)
}

// PostDecorator passes the inner validator's output through its hook. The hook
// never runs when inner validation fails.
type PostDecorator struct {
	inner TypeValidator
	hook  Callable
}

// NewPostDecorator returns a PostDecorator; hook must be non-nil.
func NewPostDecorator(inner TypeValidator, hook Callable) *PostDecorator {
	return &PostDecorator{inner: inner, hook: hook}
}

func (d *PostDecorator) Validate(ctx context.Context, v any) (any, error) {
	val, err := d.inner.Validate(ctx, v)
	if err != nil {
		return nil, err
	}
	out, err := invoke(ctx, d.hook, []any{val}, nil)
	if err != nil {
		return nil, Internal(err)
	}
	return out, nil
}

func (d *PostDecorator) Clone() TypeValidator {
	return &PostDecorator{inner: d.inner.Clone(), hook: d.hook}
}

func (d *PostDecorator) String() string {
	return fmt.Sprintf("PostDecorator(%s, %s)", callableName(d.hook), d.inner)
}

// WrapDecorator hands the input and a ValidatorCallable over the inner
// validator to its hook, which decides whether, when and how often the inner
// validator runs. The result is whatever the hook returns.
type WrapDecorator struct {
	inner TypeValidator
	hook  Callable
}

// NewWrapDecorator returns a WrapDecorator; hook must be non-nil.
func NewWrapDecorator(inner TypeValidator, hook Callable) *WrapDecorator {
	return &WrapDecorator{inner: inner, hook: hook}
}

func (d *WrapDecorator) Validate(ctx context.Context, v any) (any, error) {
	vc := &ValidatorCallable{validator: d.inner.Clone(), title: DefaultTitle}
	out, err := invoke(ctx, d.hook, []any{v}, map[string]any{ValidatorKwarg: vc})
	if err != nil {
		return nil, Internal(err)
	}
	return out, nil
}

func (d *WrapDecorator) Clone() TypeValidator {
	return &WrapDecorator{inner: d.inner.Clone(), hook: d.hook}
}

func (d *WrapDecorator) String() string {
	return fmt.Sprintf("WrapDecorator(%s, %s)", callableName(d.hook), d.inner)
}
