package loader

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// ErrDuplicateKey matches every *DuplicateKeyError.
var ErrDuplicateKey = errors.New("loader: duplicate object key")

// DuplicateKeyError reports an object that repeats a key. Path is the JSON
// Pointer of the object.
type DuplicateKeyError struct {
	Path string
	Key  string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q at %s", e.Key, e.Path)
}

func (e *DuplicateKeyError) Is(target error) bool { return target == ErrDuplicateKey }

type dupFrame struct {
	object       bool
	keys         map[string]struct{}
	expectingKey bool
	seg          string // key or index of the child being decoded
	index        int
}

// DetectDuplicateKeys scans a JSON text and returns a *DuplicateKeyError for
// the first object that repeats a key. Syntax errors are left to the decoder.
func DetectDuplicateKeys(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var stack []dupFrame

	valueDone := func() {
		if len(stack) == 0 {
			return
		}
		top := &stack[len(stack)-1]
		if top.object {
			top.expectingKey = true
		} else {
			top.index++
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			// io.EOF, or a syntax error reported later by the decoder.
			return nil
		}
		switch v := tok.(type) {
		case json.Delim:
			switch v {
			case '{', '[':
				if n := len(stack); n > 0 && !stack[n-1].object {
					stack[n-1].seg = strconv.Itoa(stack[n-1].index)
				}
				f := dupFrame{object: v == '{'}
				if f.object {
					f.keys = make(map[string]struct{})
					f.expectingKey = true
				}
				stack = append(stack, f)
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				valueDone()
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectingKey {
				top := &stack[n-1]
				if _, dup := top.keys[v]; dup {
					return &DuplicateKeyError{Path: framePath(stack[:n-1]), Key: v}
				}
				top.keys[v] = struct{}{}
				top.seg = v
				top.expectingKey = false
				continue
			}
			valueDone()
		default:
			valueDone()
		}
	}
}

func framePath(frames []dupFrame) string {
	if len(frames) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, f := range frames {
		b.WriteByte('/')
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(f.seg, "~", "~0"), "/", "~1"))
	}
	return b.String()
}
