package cache

import "encoding/json"

// PayloadValidator checks that a payload conforms to the serialization
// shape the caller expects. A non-nil error rejects the write. The cached
// payload itself stays an opaque byte blob; callers define the shape.
type PayloadValidator func(payload []byte) error

// JSONPayload is the default validator: the payload must be well-formed
// JSON.
func JSONPayload(payload []byte) error {
	if !json.Valid(payload) {
		return ErrInvalidPayload
	}
	return nil
}

// AnyPayload accepts every payload.
func AnyPayload([]byte) error { return nil }

// SafetyPolicy is the pluggable content-safety predicate applied before a
// payload is stored. A non-nil error rejects the write without touching the
// store.
type SafetyPolicy func(payload []byte) error
