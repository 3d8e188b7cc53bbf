package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// decodeJSON decodes a single JSON value, rejecting repeated object keys.
func decodeJSON(data []byte) (any, error) {
	if err := DetectDuplicateKeys(data); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode json: unexpected data after top-level value")
	}
	return v, nil
}
