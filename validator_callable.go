package valtree

import (
	"context"
	"fmt"
)

// ValidatorCallable exposes a validator subtree to user code as a single
// function. A WrapDecorator creates a fresh one around a clone of its inner
// validator for every Validate call.
//
// Call speaks the user-level error idiom: rejections surface as
// *ValidationError, internal faults come back as the original error, and
// success yields the plain value.
type ValidatorCallable struct {
	validator TypeValidator
	title     string
}

// NewValidatorCallable wraps v. The wrapper does not clone v.
func NewValidatorCallable(v TypeValidator) *ValidatorCallable {
	return &ValidatorCallable{validator: v, title: DefaultTitle}
}

// Call validates v through the wrapped subtree.
func (c *ValidatorCallable) Call(ctx context.Context, v any) (any, error) {
	out, err := c.validator.Validate(ctx, v)
	if err != nil {
		return nil, translate(c.title, err)
	}
	return out, nil
}

// Invoke lets a ValidatorCallable stand wherever a Callable is expected.
func (c *ValidatorCallable) Invoke(ctx context.Context, args []any, _ map[string]any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("ValidatorCallable: expected 1 positional argument, got %d", len(args))
	}
	return c.Call(ctx, args[0])
}

func (c *ValidatorCallable) String() string {
	return fmt.Sprintf("ValidatorCallable(%s)", c.validator)
}
