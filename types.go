package valtree

import "fmt"

// ExtraPolicy controls how a model treats keys it does not declare.
type ExtraPolicy int

const (
	ExtraIgnore ExtraPolicy = iota // Drop unknown keys.
	ExtraForbid                    // Reject unknown keys with an error.
	ExtraAllow                     // Preserve unknown keys unvalidated.
)

// ParseExtraPolicy maps the configuration spelling onto an ExtraPolicy.
func ParseExtraPolicy(s string) (ExtraPolicy, error) {
	switch s {
	case "", "ignore":
		return ExtraIgnore, nil
	case "forbid":
		return ExtraForbid, nil
	case "allow":
		return ExtraAllow, nil
	default:
		return 0, buildErrorf(`"extra" must be one of ignore, forbid, allow; got %q`, s)
	}
}

func (p ExtraPolicy) String() string {
	switch p {
	case ExtraIgnore:
		return "ignore"
	case ExtraForbid:
		return "forbid"
	case ExtraAllow:
		return "allow"
	default:
		return fmt.Sprintf("ExtraPolicy(%d)", int(p))
	}
}
