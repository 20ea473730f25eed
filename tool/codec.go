package tool

import (
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// codec matches payload keys exactly and leaves <, > and & unescaped so
// shape hints such as <integer 0-100> reach the host verbatim.
var codec = jsoniter.Config{
	EscapeHTML:             false,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	CaseSensitive:          true,
}.Froze()

// Encode marshals v as a JSON string. Encoding the plain result structs used
// by tools cannot fail; if it ever does, an internal error object is
// returned so callers still receive valid JSON.
func Encode(v any) string {
	out, err := codec.MarshalToString(v)
	if err != nil {
		return `{"error":"Internal error: failed to encode result"}`
	}
	return out
}

// DecodeArgs unmarshals payload into dst. Blank payloads decode as {}.
func DecodeArgs(payload string, dst any) error {
	if strings.TrimSpace(payload) == "" {
		payload = "{}"
	}
	if err := codec.UnmarshalFromString(payload, dst); err != nil {
		return err
	}
	return nil
}

// HasError reports whether a tool result is an {"error": ...} object.
func HasError(result string) bool {
	return codec.Get([]byte(result), "error").ValueType() != jsoniter.InvalidValue
}

// Valid reports whether s is syntactically valid JSON.
func Valid(s string) bool {
	return codec.Valid([]byte(s))
}
