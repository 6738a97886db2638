package services

import (
	"bytes"
	"encoding/json"
)

// Field is a tri-state patch value: absent (leave unchanged), explicit null
// (clear), or set to a value. JSON keys that are missing decode to the zero
// Field, so "key absent" and "key: null" stay distinguishable.
type Field[T any] struct {
	present bool
	valid   bool
	value   T
}

// SetField returns a Field carrying value.
func SetField[T any](value T) Field[T] {
	return Field[T]{present: true, valid: true, value: value}
}

// ClearField returns a Field that clears the target.
func ClearField[T any]() Field[T] {
	return Field[T]{present: true}
}

// Present reports whether the patch mentions this field at all.
func (f Field[T]) Present() bool {
	return f.present
}

// Value returns the carried value; ok is false when the field is absent or
// an explicit clear.
func (f Field[T]) Value() (T, bool) {
	return f.value, f.present && f.valid
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.present = true
	if bytes.Equal(data, []byte("null")) {
		f.valid = false
		return nil
	}
	if err := json.Unmarshal(data, &f.value); err != nil {
		return err
	}
	f.valid = true
	return nil
}

// ProviderConfigPatch carries the optionally-present fields of an upsert.
type ProviderConfigPatch struct {
	Provider   Field[string] `json:"provider"`
	Credential Field[string] `json:"credential"`
	BaseURL    Field[string] `json:"baseUrl"`
	Model      Field[string] `json:"model"`
	IsActive   Field[bool]   `json:"isActive"`
}
