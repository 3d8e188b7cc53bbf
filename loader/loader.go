// Package loader reads declarative validator schemas and input documents from
// JSON, YAML or HCL and resolves decorator function references.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reoring/valtree"
)

var (
	// ErrUnsupportedFormat is returned for file extensions no decoder handles.
	ErrUnsupportedFormat = errors.New("loader: unsupported format")
	// ErrNoSchema is returned when a schema document is not a mapping.
	ErrNoSchema = errors.New("loader: schema document must be a mapping")
)

// Format identifies a document encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatHCL
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatHCL:
		return "hcl"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".ndjson", ".jsonl":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// Load reads the schema at path and resolves decorator references through
// funcs. funcs may be nil.
func Load(path string, funcs Funcs) (valtree.Config, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read schema: %w", err)
	}
	cfg, err := parseNamed(data, f, path, funcs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a schema document held in memory.
func Parse(data []byte, f Format, funcs Funcs) (valtree.Config, error) {
	return parseNamed(data, f, "schema."+f.String(), funcs)
}

func parseNamed(data []byte, f Format, name string, funcs Funcs) (valtree.Config, error) {
	raw, err := decode(data, f, name)
	if err != nil {
		return nil, err
	}
	cfg, ok := valtree.AsConfig(raw)
	if !ok {
		return nil, ErrNoSchema
	}
	return funcs.Resolve(cfg), nil
}

// DecodeValue decodes one input document. JSON numbers are kept as
// json.Number so integer and float validators see the literal text.
func DecodeValue(data []byte, f Format) (any, error) {
	return decode(data, f, "input."+f.String())
}

func decode(data []byte, f Format, name string) (any, error) {
	switch f {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	case FormatHCL:
		return decodeHCL(data, name)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}
