package valtree

import "context"

// TypeValidator is one node of a built validator tree.
//
// Validate returns the validated (possibly transformed) value, or an error
// that is either Issues (an expected rejection) or *InternalError (a fault in
// user-supplied code). Validate never mutates the node, so a built tree may be
// shared by concurrent callers.
type TypeValidator interface {
	Validate(ctx context.Context, v any) (any, error)
	// Clone returns a deep copy that shares no mutable state with the receiver.
	Clone() TypeValidator
	// String renders the node's structure for debugging.
	String() string
}

// Variant selects and builds one kind of TypeValidator from configuration.
type Variant interface {
	// Name identifies the variant in logs.
	Name() string
	// Matches is a pure predicate over the discriminator and the node. It only
	// checks for its own discriminating keys.
	Matches(kind string, cfg Config) bool
	// Build constructs the validator, using reg for nested configuration.
	Build(ctx context.Context, cfg Config, reg *Registry) (TypeValidator, error)
}

// CloneAll deep-copies a slice of validators.
func CloneAll(vs []TypeValidator) []TypeValidator {
	if vs == nil {
		return nil
	}
	out := make([]TypeValidator, len(vs))
	for i, v := range vs {
		out[i] = v.Clone()
	}
	return out
}
