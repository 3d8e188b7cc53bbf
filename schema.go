package valtree

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoRegistry indicates Compile was called without a registry.
var ErrNoRegistry = errors.New("valtree: registry is required")

// Schema is a compiled validator tree together with the title used to label
// user-facing validation faults.
type Schema struct {
	root  TypeValidator
	title string
}

// SchemaOption configures Compile.
type SchemaOption func(*Schema)

// WithTitle overrides the title taken from the configuration.
func WithTitle(title string) SchemaOption {
	return func(s *Schema) {
		if title != "" {
			s.title = title
		}
	}
}

// Compile builds cfg with reg. The title is read from the "title" key when
// present and defaults to "Model".
func Compile(ctx context.Context, reg *Registry, cfg Config, opts ...SchemaOption) (*Schema, error) {
	if reg == nil {
		return nil, ErrNoRegistry
	}
	root, err := reg.Build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	title, err := cfg.String("title", DefaultTitle)
	if err != nil {
		return nil, err
	}
	s := &Schema{root: root, title: title}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(ctx context.Context, reg *Registry, cfg Config, opts ...SchemaOption) *Schema {
	s, err := Compile(ctx, reg, cfg, opts...)
	if err != nil {
		panic(fmt.Sprintf("valtree: compile: %v", err))
	}
	return s
}

// NewSchema wraps an already built tree.
func NewSchema(root TypeValidator, title string) *Schema {
	if title == "" {
		title = DefaultTitle
	}
	return &Schema{root: root, title: title}
}

// Validate returns the validated value, a *ValidationError aggregating the
// rejection, or the original internal fault.
func (s *Schema) Validate(ctx context.Context, v any) (any, error) {
	out, err := s.root.Validate(ctx, v)
	if err != nil {
		return nil, translate(s.title, err)
	}
	return out, nil
}

// ValidateRaw returns the root validator's result without translation: the
// error is Issues or *InternalError.
func (s *Schema) ValidateRaw(ctx context.Context, v any) (any, error) {
	return s.root.Validate(ctx, v)
}

// Callable exposes the whole tree as a ValidatorCallable over a private clone.
func (s *Schema) Callable() *ValidatorCallable {
	return &ValidatorCallable{validator: s.root.Clone(), title: s.title}
}

// Clone returns an independent copy of the schema.
func (s *Schema) Clone() *Schema {
	return &Schema{root: s.root.Clone(), title: s.title}
}

// Root returns the root validator.
func (s *Schema) Root() TypeValidator { return s.root }

// Title returns the label used for validation faults.
func (s *Schema) Title() string { return s.title }

func (s *Schema) String() string { return s.root.String() }

// Is reports whether v passes validation.
func Is(ctx context.Context, s *Schema, v any) bool {
	_, err := s.root.Validate(ctx, v)
	return err == nil
}
