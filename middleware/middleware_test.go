package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing/iotest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/valtree"
	"github.com/reoring/valtree/middleware"
	"github.com/reoring/valtree/validators"
)

func schema(t *testing.T, cfg valtree.Config) *valtree.Schema {
	t.Helper()
	s, err := valtree.Compile(context.Background(), validators.NewRegistry(), cfg)
	require.NoError(t, err)
	return s
}

func serve(h http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rec
}

func TestValidateJSON(t *testing.T) {
	s := schema(t, valtree.Config{"type": "model", "title": "Order", "fields": valtree.Config{
		"qty": valtree.Config{"type": "int", "gt": 0},
	}})
	var seen any
	h := middleware.ValidateJSON(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = middleware.ValueFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := serve(h, `{"qty": "2"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, map[string]any{"qty": 2}, seen)

	rec = serve(h, `{"qty": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var payload struct {
		Title  string         `json:"title"`
		Issues valtree.Issues `json:"issues"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "Order", payload.Title)
	require.Len(t, payload.Issues, 1)
	assert.Equal(t, "/qty", payload.Issues[0].Path)
	assert.Equal(t, valtree.CodeGreaterThan, payload.Issues[0].Code)

	rec = serve(h, `{"qty": `)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestValidateJSON_InternalFault(t *testing.T) {
	s := schema(t, valtree.Config{
		"type":          "decorator",
		"pre_decorator": func(any) (any, error) { return nil, errors.New("db down") },
		"field":         valtree.Config{"type": "any"},
	})
	h := middleware.ValidateJSON(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	rec := serve(h, `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "db down")
}

func TestValidateJSON_NullBodyIsPresent(t *testing.T) {
	s := schema(t, valtree.Config{"type": "nullable", "schema": valtree.Config{"type": "int"}})
	var (
		seen  any
		found bool
	)
	h := middleware.ValidateJSON(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, found = middleware.ValueFromContext(r.Context())
	}))
	rec := serve(h, `null`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, found)
	assert.Nil(t, seen)

	_, found = middleware.ValueFromContext(context.Background())
	assert.False(t, found)
}

func TestValidateJSON_BodyErrors(t *testing.T) {
	s := schema(t, valtree.Config{"type": "any"})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	rec := serve(middleware.ValidateJSONLimit(s, 4)(next), `"too long"`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", iotest.ErrReader(errors.New("connection reset")))
	middleware.ValidateJSON(s)(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection reset")
}
