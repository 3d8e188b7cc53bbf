package valtree

import (
	"context"
	"fmt"
	"reflect"
)

// ValidatorKwarg is the keyword under which a WrapDecorator hands its
// ValidatorCallable to the user callable.
const ValidatorKwarg = "validator"

// Callable is an opaque user-supplied function. Validators hold a reference to
// it for their whole lifetime and never inspect or mutate it.
type Callable interface {
	Invoke(ctx context.Context, args []any, kwargs map[string]any) (any, error)
}

// CallableFunc adapts a plain function to Callable.
type CallableFunc func(ctx context.Context, args []any, kwargs map[string]any) (any, error)

func (f CallableFunc) Invoke(ctx context.Context, args []any, kwargs map[string]any) (any, error) {
	return f(ctx, args, kwargs)
}

// Func adapts a one-argument transformation (pre/post hook shape).
func Func(fn func(v any) (any, error)) Callable {
	return CallableFunc(func(_ context.Context, args []any, _ map[string]any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected 1 positional argument, got %d", len(args))
		}
		return fn(args[0])
	})
}

// WrapFunc adapts a wrap hook: it receives the raw input and the inner
// validator exposed as a ValidatorCallable.
func WrapFunc(fn func(ctx context.Context, v any, validator *ValidatorCallable) (any, error)) Callable {
	return CallableFunc(func(ctx context.Context, args []any, kwargs map[string]any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("expected 1 positional argument, got %d", len(args))
		}
		vc, _ := kwargs[ValidatorKwarg].(*ValidatorCallable)
		return fn(ctx, args[0], vc)
	})
}

// Named attaches a display name to c, used in structural representations.
func Named(name string, c Callable) Callable {
	return namedCallable{name: name, Callable: c}
}

type namedCallable struct {
	name string
	Callable
}

func (n namedCallable) String() string { return n.name }

var (
	_ctxType   = reflect.TypeOf((*context.Context)(nil)).Elem()
	_errType   = reflect.TypeOf((*error)(nil)).Elem()
	_vcPtrType = reflect.TypeOf((*ValidatorCallable)(nil))
)

// AsCallable reports whether v is invocable and returns it as a Callable.
// Besides Callable implementations, any Go func is accepted: an optional
// leading context.Context, positional parameters, an optional trailing
// *ValidatorCallable bound from the "validator" keyword, and results of the
// form (T) or (T, error).
func AsCallable(v any) (Callable, bool) {
	switch c := v.(type) {
	case nil:
		return nil, false
	case Callable:
		return c, true
	case func(any) (any, error):
		return Func(c), c != nil
	case func(any) any:
		return Func(func(x any) (any, error) { return c(x), nil }), c != nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, false
	}
	rt := rv.Type()
	if rt.NumOut() == 0 || rt.NumOut() > 2 || rt.IsVariadic() {
		return nil, false
	}
	if rt.NumOut() == 2 && rt.Out(1) != _errType {
		return nil, false
	}
	return reflectCallable{fn: rv}, true
}

type reflectCallable struct {
	fn reflect.Value
}

func (r reflectCallable) Invoke(ctx context.Context, args []any, kwargs map[string]any) (any, error) {
	rt := r.fn.Type()
	in := make([]reflect.Value, 0, rt.NumIn())
	next := 0
	if rt.NumIn() > 0 && rt.In(0) == _ctxType {
		in = append(in, reflect.ValueOf(ctx))
		next = 1
	}
	last := rt.NumIn()
	takesValidator := last > next && rt.In(last-1) == _vcPtrType
	if takesValidator {
		last--
	}
	if last-next != len(args) {
		return nil, fmt.Errorf("%s: expected %d positional arguments, got %d", rt, last-next, len(args))
	}
	for i, a := range args {
		pt := rt.In(next + i)
		av, err := argValue(a, pt)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", rt, i, err)
		}
		in = append(in, av)
	}
	if takesValidator {
		vc, _ := kwargs[ValidatorKwarg].(*ValidatorCallable)
		in = append(in, reflect.ValueOf(vc))
	}
	out := r.fn.Call(in)
	var err error
	if len(out) == 2 && !out[1].IsNil() {
		err = out[1].Interface().(error)
	}
	return out[0].Interface(), err
}

func argValue(a any, pt reflect.Type) (reflect.Value, error) {
	if a == nil {
		return reflect.Zero(pt), nil
	}
	av := reflect.ValueOf(a)
	switch {
	case av.Type().AssignableTo(pt):
		return av, nil
	case av.Type().ConvertibleTo(pt) && av.Kind() != reflect.String && pt.Kind() != reflect.String:
		return av.Convert(pt), nil
	default:
		return reflect.Value{}, fmt.Errorf("cannot use %T as %s", a, pt)
	}
}

// invoke calls c and recovers a panic raised inside it as a *PanicError.
func invoke(ctx context.Context, c Callable, args []any, kwargs map[string]any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, &PanicError{Value: r}
		}
	}()
	return c.Invoke(ctx, args, kwargs)
}

// RequireCallable acquires the callable stored under key, failing when the key
// is absent or its value is not invocable.
func RequireCallable(cfg Config, key string) (Callable, error) {
	v, ok := cfg[key]
	if !ok {
		return nil, buildErrorf("%q is required", key)
	}
	c, ok := AsCallable(v)
	if !ok {
		return nil, buildErrorf("%q must be callable", key)
	}
	return c, nil
}

// callableName renders a hook for structural representations.
func callableName(c Callable) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}
	switch f := c.(type) {
	case reflectCallable:
		return f.fn.Type().String()
	default:
		return fmt.Sprintf("%T", c)
	}
}
