package decode

import (
	"strings"

	"github.com/spf13/cast"
)

// Object is a decoded JSON object. Accessors never panic on missing keys or
// unexpected types; they fall back to zero values.
type Object map[string]interface{}

// Has reports whether key is present.
func (o Object) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// String returns key coerced to a trimmed string.
func (o Object) String(key string) string {
	v, ok := o[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(Stringify(v))
}

// StringOr returns String(key) or def when it is empty.
func (o Object) StringOr(key, def string) string {
	if s := o.String(key); s != "" {
		return s
	}
	return def
}

// List returns key as a slice. A scalar is wrapped into a one-element slice.
func (o Object) List(key string) []interface{} {
	v, ok := o[key]
	if !ok || v == nil {
		return nil
	}
	if arr, ok := v.([]interface{}); ok {
		return arr
	}
	return []interface{}{v}
}

// Strings returns key as a slice of non-empty strings.
func (o Object) Strings(key string) []string {
	items := o.List(key)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(Stringify(item)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Object returns key as a nested Object, or an empty Object.
func (o Object) Object(key string) Object {
	if m, ok := o[key].(map[string]interface{}); ok {
		return Object(m)
	}
	return Object{}
}

// AsObject converts an arbitrary decoded value to an Object.
func AsObject(v interface{}) (Object, bool) {
	m, ok := v.(map[string]interface{})
	return Object(m), ok
}

// Stringify renders any decoded value as a string. Scalars use cast;
// composite values are re-encoded as JSON.
func Stringify(v interface{}) string {
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		s, err := json.MarshalToString(v)
		if err != nil {
			return ""
		}
		return s
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}
