// Package valtree builds trees of validators from declarative configuration
// and runs values through them.
//
// Provides:
//
// - A Registry that selects a Variant for each configuration node and builds
// its subtree recursively
// - Decorator validators (pre, post, wrap) that let user callables transform
// input, transform output, or take over validation entirely
// - A stable error model: Issues (JSON Pointer, code, message) for expected
// rejections, *InternalError for faults raised by user code and
// *ValidationError once issues cross into user code
//
// Typical usage:
//
//	reg := validators.NewRegistry()
//	s, err := valtree.Compile(ctx, reg, valtree.Config{
//		"type":          "decorator",
//		"pre_decorator": strings.TrimSpace,
//		"field":         valtree.Config{"type": "str", "min_length": 1},
//	})
//	v, err := s.Validate(ctx, "  hello ")
//
// Leaf and container validators live in package validators, schema files are
// read by package loader and package hooks ships named callables.
package valtree
