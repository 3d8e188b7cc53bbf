package valtree

import (
	"fmt"

	"github.com/reoring/valtree/i18n"
)

// NewIssue creates a root-level Issue with a translated message. kv holds
// alternating parameter names and values (e.g. "ge", 3).
func NewIssue(code string, input any, kv ...any) Issue {
	var params map[string]any
	var data map[string]string
	if len(kv) >= 2 {
		params = make(map[string]any, len(kv)/2)
		data = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			k := fmt.Sprint(kv[i])
			params[k] = kv[i+1]
			data[k] = fmt.Sprint(kv[i+1])
		}
	}
	return Issue{Path: "/", Code: code, Message: i18n.T(code, data), Input: input, Params: params}
}

// Reject is shorthand for a single-issue rejection.
func Reject(code string, input any, kv ...any) Issues {
	return Issues{NewIssue(code, input, kv...)}
}
