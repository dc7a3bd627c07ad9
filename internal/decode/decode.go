// Package decode turns raw generative-model text into a keyed object.
//
// Decoding never fails. Anything that cannot be read as a JSON object
// degrades to an empty Object, and the Result's Status tells the caller how
// much the payload had to be massaged before it was usable.
package decode

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/kaptinlin/jsonrepair"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Status describes how a payload was obtained.
type Status int

const (
	// StatusClean means the text (minus any code fence) was a JSON object.
	StatusClean Status = iota
	// StatusUnwrapped means the object was the first element of a top-level array.
	StatusUnwrapped
	// StatusRepaired means the text only parsed after jsonrepair.
	StatusRepaired
	// StatusEmpty means nothing usable was found; Object is empty.
	StatusEmpty
)

func (s Status) String() string {
	switch s {
	case StatusClean:
		return "clean"
	case StatusUnwrapped:
		return "unwrapped"
	case StatusRepaired:
		return "repaired"
	default:
		return "empty"
	}
}

// Result is the outcome of a decode.
type Result struct {
	Object Object
	Status Status
	// Reason is set when Status is StatusEmpty.
	Reason string
}

// LowConfidence reports whether the caller got nothing usable.
func (r Result) LowConfidence() bool {
	return r.Status == StatusEmpty || len(r.Object) == 0
}

// Decoder holds decoding options. The zero value is strict.
type Decoder struct {
	// Repair runs jsonrepair over text that does not parse as-is.
	Repair bool
}

// Decode parses raw with a strict Decoder.
func Decode(raw string) Result {
	return Decoder{}.Decode(raw)
}

// Decode strips a markdown fence, parses JSON, unwraps a leading array
// element and guarantees an object result.
func (d Decoder) Decode(raw string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = empty("panic while decoding")
		}
	}()

	text := StripFence(raw)
	if text == "" {
		return empty("blank response")
	}

	var v interface{}
	status := StatusClean
	if err := json.UnmarshalFromString(text, &v); err != nil {
		if !d.Repair {
			return empty(err.Error())
		}
		repaired, rerr := jsonrepair.JSONRepair(text)
		if rerr != nil {
			return empty(err.Error())
		}
		v = nil
		if err := json.UnmarshalFromString(repaired, &v); err != nil {
			return empty(err.Error())
		}
		status = StatusRepaired
	}

	if arr, ok := v.([]interface{}); ok && len(arr) > 0 {
		v = arr[0]
		if status == StatusClean {
			status = StatusUnwrapped
		}
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		return empty("payload is not an object")
	}
	return Result{Object: Object(obj), Status: status}
}

func empty(reason string) Result {
	return Result{Object: Object{}, Status: StatusEmpty, Reason: reason}
}

// StripFence removes a leading ```json (or bare ```) line marker and a
// trailing ``` marker.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
