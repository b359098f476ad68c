package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// toDocumentValue turns an opaque JSON payload into a value the bson
// encoder can store as a nested document. Integers that fit int64 are kept
// exact; every other number becomes float64.
func toDocumentValue(raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("payload is not valid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("payload has trailing data after the JSON value")
	}
	return normalizeNumbers(v)
}

func normalizeNumbers(v any) (any, error) {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("payload number %s is out of range: %w", t, err)
		}
		return f, nil
	case map[string]any:
		for k, item := range t {
			n, err := normalizeNumbers(item)
			if err != nil {
				return nil, err
			}
			t[k] = n
		}
		return t, nil
	case []any:
		for i, item := range t {
			n, err := normalizeNumbers(item)
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
		return t, nil
	default:
		return v, nil
	}
}

// fromDocumentValue is the inverse of toDocumentValue. Nested documents
// decode as bson.M, which marshals as a plain JSON object.
func fromDocumentValue(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("stored payload cannot be encoded as JSON: %w", err)
	}
	return raw, nil
}
