package model

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/rotisserie/eris"
)

// Confident wraps a value that may carry a confidence score from the
// source that produced it. A nil Confidence means the source gave none.
type Confident[T any] struct {
	Value      T        `json:"value"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Known returns a Confident without a confidence score.
func Known[T any](v T) Confident[T] {
	return Confident[T]{Value: v}
}

// WithConfidence returns a Confident carrying confidence c.
func WithConfidence[T any](v T, c float64) Confident[T] {
	return Confident[T]{Value: v, Confidence: &c}
}

// HasConfidence reports whether a confidence score is attached.
func (c Confident[T]) HasConfidence() bool {
	return c.Confidence != nil
}

// Present reports whether the wrapped value is non-empty. Blank strings,
// empty slices and maps, and zero numbers count as absent.
func (c Confident[T]) Present() bool {
	switch v := any(c.Value).(type) {
	case string:
		return strings.TrimSpace(v) != ""
	case []string:
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				return true
			}
		}
		return false
	}
	rv := reflect.ValueOf(c.Value)
	if !rv.IsValid() {
		return false
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return !rv.IsZero()
}

// UnmarshalJSON accepts either a bare value or a {"value": ..., "confidence": ...} object.
func (c *Confident[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*c = Confident[T]{}
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err == nil && isConfidentObject(obj) {
			var out Confident[T]
			if err := json.Unmarshal(obj["value"], &out.Value); err != nil {
				return eris.Wrap(err, "confident: decode value")
			}
			if raw, ok := obj["confidence"]; ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
				var conf float64
				if err := json.Unmarshal(raw, &conf); err != nil {
					return eris.Wrap(err, "confident: decode confidence")
				}
				if conf < 0 || conf > 1 {
					return eris.Errorf("confident: confidence %v outside [0,1]", conf)
				}
				out.Confidence = &conf
			}
			*c = out
			return nil
		}
	}

	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return eris.Wrap(err, "confident: decode bare value")
	}
	*c = Confident[T]{Value: v}
	return nil
}

// isConfidentObject reports whether obj is the wrapped form rather than a bare object value.
func isConfidentObject(obj map[string]json.RawMessage) bool {
	if _, ok := obj["value"]; !ok {
		return false
	}
	for k := range obj {
		switch k {
		case "value", "confidence", "source":
		default:
			return false
		}
	}
	return true
}
