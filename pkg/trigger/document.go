package trigger

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is an opaque, string-keyed, JSON-compatible value, used for
// trigger conditions and options. The engine only ever compares documents
// structurally; field-level interpretation lives in display helpers.
//
// Internally the document is held as compacted JSON. Equality is byte
// equality of the compacted form: insensitive to whitespace, but sensitive
// to key order. Two documents that differ only in key order are NOT equal.
// This mirrors how the HamAlert API echoes conditions back verbatim, and
// keeps identity checks cheap and predictable.
type Document struct {
	raw json.RawMessage
}

// NewDocument creates a [Document] from any JSON-marshalable value.
func NewDocument(v any) (Document, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Document{}, fmt.Errorf("marshal document: %w", err)
	}

	return Document{raw: b}, nil
}

// MustNewDocument creates a [Document] and panics on marshaling errors.
// Intended for tests and static values.
func MustNewDocument(v any) Document {
	d, err := NewDocument(v)
	if err != nil {
		panic(err)
	}

	return d
}

// Equal reports whether two documents are structurally equal.
func (d Document) Equal(o Document) bool {
	return bytes.Equal(d.raw, o.raw)
}

// IsZero reports whether the document holds no value at all.
// An empty object `{}` is not zero.
func (d Document) IsZero() bool {
	return len(d.raw) == 0
}

// StringField returns the string value stored under key, if the document is
// an object and the value is a string.
func (d Document) StringField(key string) (string, bool) {
	var obj map[string]json.RawMessage

	err := json.Unmarshal(d.raw, &obj)
	if err != nil {
		return "", false
	}

	raw, ok := obj[key]
	if !ok {
		return "", false
	}

	var s string

	err = json.Unmarshal(raw, &s)
	if err != nil {
		return "", false
	}

	return s, true
}

func (d Document) String() string {
	if d.IsZero() {
		return ""
	}

	return string(d.raw)
}

// MarshalJSON emits the document verbatim.
func (d Document) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}

	return d.raw, nil
}

// UnmarshalJSON stores the compacted form of the input.
//
//nolint:recvcheck // Pointer receiver is required for unmarshaling.
func (d *Document) UnmarshalJSON(data []byte) error {
	buf := &bytes.Buffer{}

	err := json.Compact(buf, data)
	if err != nil {
		return fmt.Errorf("compact document: %w", err)
	}

	d.raw = buf.Bytes()

	return nil
}
