package valtree

import (
	"context"
	"log/slog"

	"github.com/reoring/valtree/internal/ctxlog"
)

// Registry builds validator trees from configuration by trying its variants
// in registration order. It is constructed explicitly and passed to whoever
// builds; there is no process-wide registry.
type Registry struct {
	variants []Variant
	logger   *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used when the build context carries none.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) { r.logger = l }
}

// NewRegistry returns a registry trying variants in the given order.
func NewRegistry(variants []Variant, opts ...RegistryOption) *Registry {
	r := &Registry{variants: append([]Variant(nil), variants...)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Variants returns the registered variants in matching order.
func (r *Registry) Variants() []Variant {
	return append([]Variant(nil), r.variants...)
}

// Build selects the first variant matching cfg and builds it.
func (r *Registry) Build(ctx context.Context, cfg Config) (TypeValidator, error) {
	if cfg == nil {
		return nil, buildErrorf("schema must be a mapping")
	}
	kind, ok := cfg.Kind()
	if !ok {
		return nil, buildErrorf("%q is required", "type")
	}
	logger := ctxlog.FromContext(ctx, r.logger)
	for _, v := range r.variants {
		if !v.Matches(kind, cfg) {
			continue
		}
		logger.DebugContext(ctx, "building validator", slog.String("type", kind), slog.String("variant", v.Name()))
		tv, err := v.Build(ctx, cfg, r)
		if err != nil {
			return nil, err
		}
		return tv, nil
	}
	return nil, buildErrorf("unknown validator type %q", kind)
}

// BuildNested builds the required sub-configuration stored under key and
// re-bases any build failure under that key.
func (r *Registry) BuildNested(ctx context.Context, cfg Config, key string) (TypeValidator, error) {
	sub, err := cfg.Dict(key)
	if err != nil {
		return nil, err
	}
	tv, err := r.Build(ctx, sub)
	if err != nil {
		return nil, Nested(key, err)
	}
	return tv, nil
}

// ContextWithLogger attaches a logger used by Build and by validators that log.
func ContextWithLogger(ctx context.Context, l *slog.Logger) context.Context {
	return ctxlog.WithLogger(ctx, l)
}
