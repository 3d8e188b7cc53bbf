package valtree_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/reoring/valtree"
	"github.com/reoring/valtree/validators"
)

func build(t *testing.T, cfg valtree.Config) valtree.TypeValidator {
	t.Helper()
	tv, err := validators.NewRegistry().Build(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return tv
}

func intField() valtree.Config { return valtree.Config{"type": "int"} }

// recorder counts hook invocations and remembers their arguments.
type recorder struct {
	calls []any
	fn    func(v any) (any, error)
}

func (r *recorder) Invoke(_ context.Context, args []any, _ map[string]any) (any, error) {
	r.calls = append(r.calls, args[0])
	return r.fn(args[0])
}

// spy is a leaf validator recording what it receives.
type spy struct {
	inner valtree.TypeValidator
	seen  *[]any
}

func (s spy) Validate(ctx context.Context, v any) (any, error) {
	*s.seen = append(*s.seen, v)
	return s.inner.Validate(ctx, v)
}
func (s spy) Clone() valtree.TypeValidator { return s }
func (s spy) String() string               { return "Spy(" + s.inner.String() + ")" }

func TestPreDecorator_DoublesBeforeInnerValidation(t *testing.T) {
	ctx := context.Background()
	double := &recorder{fn: func(v any) (any, error) { return v.(int) * 2, nil }}
	var seen []any
	tv := valtree.NewPreDecorator(spy{inner: build(t, intField()), seen: &seen}, double)

	out, err := tv.Validate(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != 10 {
		t.Fatalf("expected 10, got %v", out)
	}
	if len(double.calls) != 1 || double.calls[0] != 5 {
		t.Fatalf("hook calls = %v, want [5]", double.calls)
	}
	if len(seen) != 1 || seen[0] != 10 {
		t.Fatalf("inner saw %v, want [10]", seen)
	}
}

func TestPreDecorator_HookFaultIsInternal(t *testing.T) {
	boom := errors.New("boom")
	tv := build(t, valtree.Config{
		"type":          "decorator",
		"field":         intField(),
		"pre_decorator": func(any) (any, error) { return nil, boom },
	})
	_, err := tv.Validate(context.Background(), 5)
	if !valtree.IsInternal(err) {
		t.Fatalf("expected internal error, got %T %v", err, err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected original fault to be preserved, got %v", err)
	}
	if _, ok := valtree.AsIssues(err); ok {
		t.Fatalf("hook fault must not be reported as issues")
	}
}

func TestPreDecorator_InnerRejectionPassesThrough(t *testing.T) {
	tv := build(t, valtree.Config{
		"type":          "decorator",
		"field":         valtree.Config{"type": "int", "lt": 10},
		"pre_decorator": func(v any) any { return v.(int) * 2 },
	})
	_, err := tv.Validate(context.Background(), 7)
	iss, ok := valtree.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != valtree.CodeLessThan {
		t.Fatalf("expected less_than issue, got %v", err)
	}
}

func TestPostDecorator_SkipsHookOnFailure(t *testing.T) {
	ctx := context.Background()
	stringify := &recorder{fn: func(v any) (any, error) { return fmt.Sprint(v), nil }}
	inner := build(t, intField())
	tv := valtree.NewPostDecorator(inner, stringify)

	_, want := inner.Validate(ctx, "abc")
	_, err := tv.Validate(ctx, "abc")
	if len(stringify.calls) != 0 {
		t.Fatalf("hook must not run on inner failure, ran with %v", stringify.calls)
	}
	if !reflect.DeepEqual(err, want) {
		t.Fatalf("expected inner failure unchanged\n got: %#v\nwant: %#v", err, want)
	}
	iss, ok := valtree.AsIssues(err)
	if !ok || iss[0].Code != valtree.CodeIntParsing {
		t.Fatalf("expected int_parsing, got %v", err)
	}
}

func TestPostDecorator_TransformsValidOutput(t *testing.T) {
	ctx := context.Background()
	stringify := &recorder{fn: func(v any) (any, error) { return fmt.Sprint(v), nil }}
	tv := valtree.NewPostDecorator(build(t, intField()), stringify)

	out, err := tv.Validate(ctx, "42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "42" {
		t.Fatalf("expected \"42\", got %#v", out)
	}
	// The hook sees the validated int, not the raw string.
	if len(stringify.calls) != 1 || stringify.calls[0] != 42 {
		t.Fatalf("hook calls = %v, want [42]", stringify.calls)
	}
}

func TestPostDecorator_HookPanicIsInternal(t *testing.T) {
	tv := build(t, valtree.Config{
		"type":           "decorator",
		"field":          intField(),
		"post_decorator": func(v any) any { panic("nope") },
	})
	_, err := tv.Validate(context.Background(), 1)
	var pe *valtree.PanicError
	if !valtree.IsInternal(err) || !errors.As(err, &pe) || pe.Value != "nope" {
		t.Fatalf("expected internal panic error, got %T %v", err, err)
	}
}

func TestWrapDecorator_AddsOneAfterValidation(t *testing.T) {
	tv := build(t, valtree.Config{
		"type":  "decorator",
		"field": intField(),
		"wrap_decorator": valtree.WrapFunc(func(ctx context.Context, v any, validator *valtree.ValidatorCallable) (any, error) {
			out, err := validator.Call(ctx, v)
			if err != nil {
				return nil, err
			}
			return out.(int) + 1, nil
		}),
	})
	out, err := tv.Validate(context.Background(), 5)
	if err != nil || out != 6 {
		t.Fatalf("expected 6, got %v err=%v", out, err)
	}
}

func TestWrapDecorator_NeverCallingValidatorSkipsInner(t *testing.T) {
	var seen []any
	hook := valtree.WrapFunc(func(context.Context, any, *valtree.ValidatorCallable) (any, error) {
		return "short-circuit", nil
	})
	tv := valtree.NewWrapDecorator(spy{inner: build(t, intField()), seen: &seen}, hook)

	out, err := tv.Validate(context.Background(), "not an int")
	if err != nil || out != "short-circuit" {
		t.Fatalf("expected hook result, got %v err=%v", out, err)
	}
	if len(seen) != 0 {
		t.Fatalf("inner validator must not run, saw %v", seen)
	}
}

func TestWrapDecorator_CallsValidatorTwice(t *testing.T) {
	ctx := context.Background()
	tv := build(t, valtree.Config{
		"type":  "decorator",
		"field": valtree.Config{"type": "int", "ge": 0},
		"wrap_decorator": func(ctx context.Context, v any, validator *valtree.ValidatorCallable) ([2]any, error) {
			pair := v.([2]any)
			var out [2]any
			for i, x := range pair {
				r, err := validator.Call(ctx, x)
				if err != nil {
					out[i] = err
					continue
				}
				out[i] = r
			}
			return out, nil
		},
	})

	out, err := tv.Validate(ctx, [2]any{5, "7"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != [2]any{5, 7} {
		t.Fatalf("expected [5 7], got %v", out)
	}

	out, err = tv.Validate(ctx, [2]any{-1, 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pair := out.([2]any)
	ve, ok := pair[0].(*valtree.ValidationError)
	if !ok || ve.Issues[0].Code != valtree.CodeGreaterEqual {
		t.Fatalf("first call should be rejected by ge=0, got %#v", pair[0])
	}
	if pair[1] != 3 {
		t.Fatalf("second call should pass, got %#v", pair[1])
	}
}

func TestWrapDecorator_ReturnedValidationErrorIsInternal(t *testing.T) {
	tv := build(t, valtree.Config{
		"type":  "decorator",
		"field": intField(),
		"wrap_decorator": func(ctx context.Context, v any, validator *valtree.ValidatorCallable) (any, error) {
			return validator.Call(ctx, v)
		},
	})
	_, err := tv.Validate(context.Background(), "abc")
	if !valtree.IsInternal(err) {
		t.Fatalf("a fault returned by the hook is internal, got %T", err)
	}
	ve, ok := valtree.AsValidationError(err)
	if !ok || ve.Title != valtree.DefaultTitle || ve.Issues[0].Code != valtree.CodeIntParsing {
		t.Fatalf("expected wrapped ValidationError, got %v", err)
	}
}

func TestWrapDecorator_NestedReentry(t *testing.T) {
	addOne := func(ctx context.Context, v any, validator *valtree.ValidatorCallable) (any, error) {
		out, err := validator.Call(ctx, v)
		if err != nil {
			return nil, err
		}
		return out.(int) + 1, nil
	}
	tv := build(t, valtree.Config{
		"type":           "decorator",
		"wrap_decorator": addOne,
		"field": valtree.Config{
			"type":           "decorator",
			"wrap_decorator": addOne,
			"field":          intField(),
		},
	})
	out, err := tv.Validate(context.Background(), 1)
	if err != nil || out != 3 {
		t.Fatalf("expected 3, got %v err=%v", out, err)
	}
}

func TestDecoratorBuild_FailFast(t *testing.T) {
	ctx := context.Background()
	reg := validators.NewRegistry()
	for _, key := range []string{valtree.PreKey, valtree.PostKey, valtree.WrapKey} {
		t.Run(key, func(t *testing.T) {
			_, err := reg.Build(ctx, valtree.Config{"type": "decorator", "field": intField(), key: 42})
			if err == nil || !valtree.IsBuildError(err) {
				t.Fatalf("expected build error, got %v", err)
			}
			if want := fmt.Sprintf("%q must be callable", key); err.Error() != want {
				t.Fatalf("got %q, want %q", err.Error(), want)
			}

			_, err = reg.Build(ctx, valtree.Config{"type": "decorator", "field": intField(), key: nil})
			if err == nil || !strings.Contains(err.Error(), "must be callable") {
				t.Fatalf("nil hook must be rejected, got %v", err)
			}
		})
	}

	for _, v := range valtree.DecoratorVariants() {
		t.Run("missing/"+v.Name(), func(t *testing.T) {
			_, err := v.Build(ctx, valtree.Config{"type": "decorator", "field": intField()}, reg)
			if want := fmt.Sprintf("%q is required", v.Name()); err == nil || err.Error() != want {
				t.Fatalf("got %v, want %q", err, want)
			}
		})
	}
}

func TestDecoratorBuild_FieldErrors(t *testing.T) {
	reg := validators.NewRegistry()
	hook := valtree.Func(func(v any) (any, error) { return v, nil })

	_, err := reg.Build(context.Background(), valtree.Config{"type": "decorator", "pre_decorator": hook})
	if err == nil || err.Error() != `"field" is required` {
		t.Fatalf("got %v", err)
	}

	_, err = reg.Build(context.Background(), valtree.Config{
		"type":          "decorator",
		"pre_decorator": hook,
		"field":         valtree.Config{"type": "decorator", "post_decorator": "nope", "field": intField()},
	})
	if err == nil || err.Error() != `field: "post_decorator" must be callable` {
		t.Fatalf("nested failure should name its path, got %v", err)
	}
}

func TestDecorator_Matching(t *testing.T) {
	cfg := valtree.Config{"type": "decorator", "wrap_decorator": nil}
	if valtree.PreVariant.Matches("decorator", cfg) || valtree.PostVariant.Matches("decorator", cfg) {
		t.Fatalf("pre/post must not match a wrap node")
	}
	if !valtree.WrapVariant.Matches("decorator", cfg) {
		t.Fatalf("wrap should match")
	}
	if valtree.WrapVariant.Matches("int", cfg) {
		t.Fatalf("wrap must require the decorator kind")
	}
}

func TestDecorator_String(t *testing.T) {
	tv := valtree.NewPreDecorator(build(t, valtree.Config{"type": "int", "ge": 1}),
		valtree.Named("double", valtree.Func(func(v any) (any, error) { return v, nil })))
	if got, want := tv.String(), "PreDecorator(double, Int(ge=1))"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	vc := valtree.NewValidatorCallable(tv)
	if got, want := vc.String(), "ValidatorCallable(PreDecorator(double, Int(ge=1)))"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestClone_ProducesIdenticalResults(t *testing.T) {
	ctx := context.Background()
	tv := build(t, valtree.Config{
		"type":          "decorator",
		"pre_decorator": func(v any) any { return v.(int) * 2 },
		"field": valtree.Config{
			"type":           "decorator",
			"post_decorator": func(v any) any { return v.(int) + 1 },
			"field":          valtree.Config{"type": "int", "lt": 100},
		},
	})
	cl := tv.Clone()
	for _, in := range []int{1, 20, 60} {
		a, errA := tv.Validate(ctx, in)
		b, errB := cl.Validate(ctx, in)
		if !reflect.DeepEqual(a, b) || !reflect.DeepEqual(errA, errB) {
			t.Fatalf("input %d: original=(%v,%v) clone=(%v,%v)", in, a, errA, b, errB)
		}
	}
	if tv.String() != cl.String() {
		t.Fatalf("clone structure differs: %s vs %s", tv, cl)
	}
}
