package valtree

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeIntType        = "int_type"
	CodeIntParsing     = "int_parsing"
	CodeFloatType      = "float_type"
	CodeFloatParsing   = "float_parsing"
	CodeFiniteNumber   = "finite_number"
	CodeStringType     = "string_type"
	CodeBoolType       = "bool_type"
	CodeBoolParsing    = "bool_parsing"
	CodeListType       = "list_type"
	CodeDictType       = "dict_type"
	CodeModelType      = "model_type"
	CodeMissing        = "missing"
	CodeExtraForbidden = "extra_forbidden"
	CodeGreaterThan    = "greater_than"
	CodeGreaterEqual   = "greater_than_equal"
	CodeLessThan       = "less_than"
	CodeLessEqual      = "less_than_equal"
	CodeMultipleOf     = "multiple_of"
	CodeTooShort       = "too_short"
	CodeTooLong        = "too_long"
	CodePattern        = "string_pattern_mismatch"
	CodeUnionNoMatch   = "union_no_match"
)

// DefaultTitle labels the user-facing fault when the schema does not name itself.
const DefaultTitle = "Model"

// Issue represents a single validation entry.
type Issue struct {
	Path    string `json:"path"` // JSON Pointer (for example: /items/2/price).
	Code    string `json:"code"` // One of the codes listed above.
	Message string `json:"message"`
	// Input is the offending value as seen by the failing validator.
	Input any `json:"input,omitempty"`
	// Params carries structured parameters (e.g., {"ge":1, "got":0})
	// for i18n and observability.
	Params map[string]any `json:"params,omitempty"`
}

// Issues is the LineErrors kind of the error model: an ordered collection of
// expected validation rejections. It implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. int_type at /age
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Prefix re-bases every issue path under seg. The receiver is not modified.
func (iss Issues) Prefix(seg string) Issues {
	if len(iss) == 0 {
		return iss
	}
	esc := strings.ReplaceAll(strings.ReplaceAll(seg, "~", "~0"), "/", "~1")
	out := make(Issues, len(iss))
	for i, it := range iss {
		if it.Path == "" || it.Path == "/" {
			it.Path = "/" + esc
		} else {
			it.Path = "/" + esc + it.Path
		}
		out[i] = it
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// SortByPath orders issues by path, keeping insertion order for equal paths.
func SortByPath(iss Issues) {
	sort.SliceStable(iss, func(i, j int) bool { return iss[i].Path < iss[j].Path })
}

// AsIssues extracts Issues from an error using errors.As internally.
// Internal faults are never reported as Issues, even when their cause wraps some.
func AsIssues(err error) (Issues, bool) {
	if err == nil || IsInternal(err) {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// InternalError is the unexpected-fault kind of the error model. It carries the
// original fault raised or returned by user-supplied code.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return "internal error"
	}
	return e.Err.Error()
}

func (e *InternalError) Unwrap() error { return e.Err }

// Internal classifies err as an InternalError. An error that already is one is
// returned unchanged.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	var ie *InternalError
	if errors.As(err, &ie) {
		return err
	}
	return &InternalError{Err: err}
}

// IsInternal reports whether err is an InternalError.
func IsInternal(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}

// PanicError records a panic recovered while invoking a callable.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("callable panicked: %v", e.Value) }

// ValidationError is the user-facing fault produced when Issues cross the
// boundary into user code (ValidatorCallable) or out of a Schema.
type ValidationError struct {
	Title  string
	Issues Issues
}

func (e *ValidationError) Error() string {
	n := len(e.Issues)
	noun := "errors"
	if n == 1 {
		noun = "error"
	}
	b := &strings.Builder{}
	fmt.Fprintf(b, "%d validation %s for %s", n, noun, e.Title)
	for _, it := range e.Issues {
		fmt.Fprintf(b, "\n%s\n  %s [%s]", it.Path, it.Message, it.Code)
	}
	return b.String()
}

// AsValidationError extracts a *ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// BuildError is a construction-time failure. Path names the configuration keys
// leading to the node that failed, outermost first.
type BuildError struct {
	Path []string
	Msg  string
}

func (e *BuildError) Error() string {
	if len(e.Path) == 0 {
		return e.Msg
	}
	return strings.Join(e.Path, ".") + ": " + e.Msg
}

func buildErrorf(format string, args ...any) *BuildError {
	return &BuildError{Msg: fmt.Sprintf(format, args...)}
}

// Nested re-bases a build failure of a child configuration under key.
// Errors that are not *BuildError are returned unchanged.
func Nested(key string, err error) error {
	var be *BuildError
	if !errors.As(err, &be) {
		return err
	}
	return &BuildError{Path: append([]string{key}, be.Path...), Msg: be.Msg}
}

// IsBuildError reports whether err is a *BuildError.
func IsBuildError(err error) bool {
	var be *BuildError
	return errors.As(err, &be)
}

// translate maps an error-model result onto the user-facing contract: Issues
// become a *ValidationError, internal faults are unwrapped to their original
// cause, anything else passes through.
func translate(title string, err error) error {
	if err == nil {
		return nil
	}
	var ie *InternalError
	if errors.As(err, &ie) {
		if ie.Err == nil {
			return ie
		}
		return ie.Err
	}
	var iss Issues
	if errors.As(err, &iss) {
		return &ValidationError{Title: title, Issues: iss}
	}
	return err
}
