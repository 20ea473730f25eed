package tool

import (
	"fmt"
	"slices"
	"strings"
)

// Severity defines diagnostic severity produced by validators.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic codes reported by ValidateManifest.
const (
	DiagnosticMissingFromRegistry = "MISSING_FROM_REGISTRY"
	DiagnosticMissingFromManifest = "MISSING_FROM_MANIFEST"
	DiagnosticDuplicateEntry      = "DUPLICATE_ENTRY"
	DiagnosticPermissionMismatch  = "PERMISSION_MISMATCH"
	DiagnosticParameterMismatch   = "PARAMETER_MISMATCH"
	DiagnosticRequiredMismatch    = "REQUIRED_MISMATCH"
	DiagnosticTypeMismatch        = "TYPE_MISMATCH"
	DiagnosticVersion             = "MANIFEST_VERSION"
)

// Diagnostic is a structured validation finding.
type Diagnostic struct {
	Field    string   `json:"field,omitempty"`
	Code     string   `json:"code,omitempty"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Result aggregates diagnostics from a validation pass.
type Result struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// HasErrors returns true when at least one error-severity diagnostic exists.
func (r Result) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateManifest checks that manifest and registry describe the same
// tools: no orphans in either direction, and matching permission and
// parameter shapes.
func ValidateManifest(manifest Manifest, reg *Registry) Result {
	result := Result{Diagnostics: make([]Diagnostic, 0)}
	add := func(field, code string, severity Severity, format string, args ...any) {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Field:    field,
			Code:     code,
			Severity: severity,
			Message:  fmt.Sprintf(format, args...),
		})
	}

	if manifest.ManifestVersion != ManifestVersionV1 {
		add("manifest_version", DiagnosticVersion, SeverityWarning,
			"manifest_version %q, expected %q", manifest.ManifestVersion, ManifestVersionV1)
	}

	seen := make(map[string]struct{}, len(manifest.Capabilities.Tools))
	for i, entry := range manifest.Capabilities.Tools {
		field := fmt.Sprintf("capabilities.tool[%d]", i)
		if _, dup := seen[entry.ID]; dup {
			add(field, DiagnosticDuplicateEntry, SeverityError, "tool %q is listed more than once", entry.ID)
			continue
		}
		seen[entry.ID] = struct{}{}

		t, ok := reg.Lookup(entry.ID)
		if !ok {
			add(field, DiagnosticMissingFromRegistry, SeverityError, "tool %q has no registry entry", entry.ID)
			continue
		}
		compareEntry(field, entry, entryFromSpec(t.Spec()), add)
	}

	for _, id := range reg.IDs() {
		if _, ok := seen[id]; !ok {
			add("capabilities.tool", DiagnosticMissingFromManifest, SeverityError, "registered tool %q is not in the manifest", id)
		}
	}
	return result
}

func compareEntry(
	field string,
	got ToolEntry,
	want ToolEntry,
	add func(field, code string, severity Severity, format string, args ...any),
) {
	if got.Permission != want.Permission {
		add(field+".permission", DiagnosticPermissionMismatch, SeverityError,
			"tool %q permission %q, registry declares %q", got.ID, got.Permission, want.Permission)
	}

	gotNames := sortedKeys(got.Parameters.Properties)
	wantNames := sortedKeys(want.Parameters.Properties)
	if !slices.Equal(gotNames, wantNames) {
		add(field+".parameters", DiagnosticParameterMismatch, SeverityError,
			"tool %q parameters [%s], registry declares [%s]",
			got.ID, strings.Join(gotNames, ", "), strings.Join(wantNames, ", "))
		return
	}
	for _, name := range wantNames {
		if got.Parameters.Properties[name].Type != want.Parameters.Properties[name].Type {
			add(field+".parameters."+name, DiagnosticTypeMismatch, SeverityError,
				"tool %q parameter %q type %q, registry declares %q",
				got.ID, name, got.Parameters.Properties[name].Type, want.Parameters.Properties[name].Type)
		}
	}

	gotRequired := slices.Clone(got.Parameters.Required)
	slices.Sort(gotRequired)
	if !slices.Equal(gotRequired, want.Parameters.Required) {
		add(field+".parameters.required", DiagnosticRequiredMismatch, SeverityError,
			"tool %q required [%s], registry declares [%s]",
			got.ID, strings.Join(gotRequired, ", "), strings.Join(want.Parameters.Required, ", "))
	}
}

func sortedKeys(m map[string]FieldSpec) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
