package tool

import (
	"context"
	"slices"
)

// Permission is the host confirmation policy for a tool.
type Permission string

const (
	// PermissionAuto runs without extra confirmation.
	PermissionAuto Permission = "auto"
	// PermissionAsk asks the host to prompt before invoking.
	PermissionAsk Permission = "ask"
)

// Field types used in parameter descriptors.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeObject  = "object"
)

// FieldSpec describes one JSON payload parameter.
type FieldSpec struct {
	Type        string `json:"type"`
	Required    bool   `json:"-"`
	Description string `json:"description,omitempty"`
	Default     any    `json:"default,omitempty"`
	Minimum     *int   `json:"minimum,omitempty"`
	Maximum     *int   `json:"maximum,omitempty"`
}

// Spec is the declared shape of a tool.
type Spec struct {
	ID          string
	Description string
	Permission  Permission
	// RequiresApp means the Music app must be running before the command is sent.
	RequiresApp bool
	Parameters  map[string]FieldSpec
}

// ParameterNames returns parameter names in deterministic order.
func (s Spec) ParameterNames() []string {
	names := make([]string, 0, len(s.Parameters))
	for name := range s.Parameters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// RequiredParameters returns the required parameter names in order.
func (s Spec) RequiredParameters() []string {
	var out []string
	for _, name := range s.ParameterNames() {
		if s.Parameters[name].Required {
			out = append(out, name)
		}
	}
	return out
}

// Tool is one named operation exposed to the host.
type Tool interface {
	Spec() Spec
	// Run never fails: every outcome is returned as a JSON string.
	Run(ctx context.Context, payload string) string
}

// IntPtr is a small helper for FieldSpec bounds.
func IntPtr(v int) *int {
	return &v
}
