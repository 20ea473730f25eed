// Package delimited decodes the flattened text that Music automation scripts
// return: fields joined by one sentinel, records joined by a longer one.
package delimited

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// FieldSeparator joins fields inside one record.
	FieldSeparator = "|||"
	// RecordSeparator joins records. It must not contain FieldSeparator.
	RecordSeparator = "<<<RECORD>>>"
)

// ErrTooFewFields is returned when a record is shorter than required.
var ErrTooFewFields = errors.New("delimited: too few fields")

// Codec splits text using a field and a record separator.
type Codec struct {
	Field  string
	Record string
}

// Default is the codec every script in this module uses.
var Default = Codec{Field: FieldSeparator, Record: RecordSeparator}

// Fields splits a single record and requires at least minFields fields.
func (c Codec) Fields(text string, minFields int) ([]string, error) {
	fields := strings.Split(text, c.Field)
	if len(fields) < minFields {
		return nil, fmt.Errorf("%w: got %d, want at least %d", ErrTooFewFields, len(fields), minFields)
	}
	return fields, nil
}

// Records splits text into records and drops any record with fewer than
// minFields fields. Empty text yields no records.
func (c Codec) Records(text string, minFields int) [][]string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out [][]string
	for _, raw := range strings.Split(text, c.Record) {
		fields, err := c.Fields(raw, minFields)
		if err != nil {
			continue
		}
		out = append(out, fields)
	}
	return out
}

// Join is the inverse of Fields, used to build fixtures.
func (c Codec) Join(fields ...string) string {
	return strings.Join(fields, c.Field)
}

// JoinRecords is the inverse of Records.
func (c Codec) JoinRecords(records ...string) string {
	return strings.Join(records, c.Record)
}

// Script returns the AppleScript string literal for a separator, so scripts
// and decoder cannot drift apart.
func Script(sep string) string {
	return `"` + sep + `"`
}
