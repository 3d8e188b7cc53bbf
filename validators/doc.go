// Package validators provides the leaf and container validators that decorator
// nodes wrap: any, int, float, str, bool, list, dict, model, nullable and union.
//
// Entry points
//   - NewRegistry(): a valtree.Registry holding every variant of this package
//     followed by the decorator variants.
//   - Variants(): the variants alone, to compose a custom registry.
//
// Configuration
//
// Every node is a mapping with a "type" key. Container nodes nest further
// configuration: list "items", dict "keys"/"values", model "fields",
// nullable "schema", union "choices".
//
//	{
//	  "type": "model",
//	  "extra": "forbid",
//	  "fields": {
//	    "name": {"type": "str", "min_length": 1},
//	    "age":  {"schema": {"type": "int", "ge": 0}, "required": false}
//	  }
//	}
//
// File layout (roles)
//   - variant.go: shared variant plumbing and structural descriptions.
//   - primitives.go: any/int/float/str/bool.
//   - list.go, dict.go, model.go: containers (issue paths re-based per element).
//   - nullable.go, union.go: combinators.
package validators
