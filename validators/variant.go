package validators

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/reoring/valtree"
)

type buildFunc func(ctx context.Context, cfg valtree.Config, reg *valtree.Registry) (valtree.TypeValidator, error)

// variant matches a fixed set of type names.
type variant struct {
	kinds []string
	build buildFunc
}

func (v variant) Name() string { return v.kinds[0] }

func (v variant) Matches(kind string, _ valtree.Config) bool {
	return slices.Contains(v.kinds, kind)
}

func (v variant) Build(ctx context.Context, cfg valtree.Config, reg *valtree.Registry) (valtree.TypeValidator, error) {
	return v.build(ctx, cfg, reg)
}

// Variants returns this package's variants in matching order.
func Variants() []valtree.Variant {
	return []valtree.Variant{
		variant{kinds: []string{"any"}, build: buildAny},
		variant{kinds: []string{"int"}, build: buildInt},
		variant{kinds: []string{"float"}, build: buildFloat},
		variant{kinds: []string{"str", "string"}, build: buildString},
		variant{kinds: []string{"bool"}, build: buildBool},
		variant{kinds: []string{"list"}, build: buildList},
		variant{kinds: []string{"dict"}, build: buildDict},
		variant{kinds: []string{"model"}, build: buildModel},
		variant{kinds: []string{"nullable"}, build: buildNullable},
		variant{kinds: []string{"union"}, build: buildUnion},
	}
}

// NewRegistry returns a registry with every validator of this package and the
// three decorator variants.
func NewRegistry(opts ...valtree.RegistryOption) *valtree.Registry {
	return valtree.NewRegistry(append(Variants(), valtree.DecoratorVariants()...), opts...)
}

// describe renders Name(k=v, ...) skipping unset options.
func describe(name string, opts ...option) string {
	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		if o.set {
			parts = append(parts, fmt.Sprintf("%s=%v", o.key, o.val))
		}
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}

type option struct {
	key string
	val any
	set bool
}

func opt(key string, val any, set bool) option { return option{key: key, val: val, set: set} }
