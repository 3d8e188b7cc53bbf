// Package middleware validates JSON request bodies against a valtree schema
// at net/http boundaries.
package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"

	json "github.com/goccy/go-json"

	"github.com/reoring/valtree"
	"github.com/reoring/valtree/loader"
)

// ctxKeyValidated is a typed context key for the validated body.
type ctxKeyValidated struct{}

// validated boxes the body so that a nil result is still present.
type validated struct{ v any }

// ContextWithValue attaches a validated body to the context.
func ContextWithValue(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyValidated{}, validated{v: v})
}

// ValueFromContext retrieves the validated body stored by ValidateJSON. ok is
// true even when the body validated to nil.
func ValueFromContext(ctx context.Context) (any, bool) {
	b, ok := ctx.Value(ctxKeyValidated{}).(validated)
	return b.v, ok
}

// ErrorPayload shapes Issues for JSON responses.
func ErrorPayload(title string, issues valtree.Issues) map[string]any {
	return map[string]any{"title": title, "issues": issues}
}

// DefaultMaxBodyBytes bounds the request body read by ValidateJSON.
const DefaultMaxBodyBytes = 1 << 20

// ValidateJSON decodes the request body, validates it with s and stores the
// validated value in the request context. Rejections and unreadable bodies
// answer 400, bodies over DefaultMaxBodyBytes 413, internal faults 500.
func ValidateJSON(s *valtree.Schema) func(http.Handler) http.Handler {
	return ValidateJSONLimit(s, DefaultMaxBodyBytes)
}

// ValidateJSONLimit is ValidateJSON with a custom body size limit.
func ValidateJSONLimit(s *valtree.Schema, maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
			if err != nil {
				status := http.StatusBadRequest
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					status = http.StatusRequestEntityTooLarge
				}
				writeJSON(w, status, map[string]any{"error": err.Error()})
				return
			}
			raw, err := loader.DecodeValue(body, loader.FormatJSON)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
				return
			}
			v, err := s.Validate(r.Context(), raw)
			if err != nil {
				if ve, ok := valtree.AsValidationError(err); ok {
					writeJSON(w, http.StatusBadRequest, ErrorPayload(ve.Title, ve.Issues))
					return
				}
				writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithValue(r.Context(), v)))
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
