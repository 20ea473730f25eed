package tool

import "testing"

func diagnosticCodes(result Result) map[string]int {
	codes := make(map[string]int)
	for _, d := range result.Diagnostics {
		codes[d.Code]++
	}
	return codes
}

func TestValidateManifestDetectsOrphans(t *testing.T) {
	reg := testRegistry()
	manifest := BuildManifest(PluginInfo{Name: "apple-music"}, reg)

	// Drop play from the manifest and add a tool the registry does not know.
	manifest.Capabilities.Tools = []ToolEntry{
		manifest.Capabilities.Tools[1],
		{ID: "shuffle", Permission: PermissionAuto, Parameters: ParameterSchema{Type: TypeObject}},
	}

	result := ValidateManifest(manifest, reg)
	if !result.HasErrors() {
		t.Fatal("HasErrors() = false, want true")
	}
	codes := diagnosticCodes(result)
	if codes[DiagnosticMissingFromRegistry] != 1 {
		t.Fatalf("missing-from-registry = %d, want 1 (%+v)", codes[DiagnosticMissingFromRegistry], result.Diagnostics)
	}
	if codes[DiagnosticMissingFromManifest] != 1 {
		t.Fatalf("missing-from-manifest = %d, want 1 (%+v)", codes[DiagnosticMissingFromManifest], result.Diagnostics)
	}
}

func TestValidateManifestShapeMismatches(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Manifest)
		code   string
	}{
		{
			name: "permission",
			mutate: func(m *Manifest) {
				m.Capabilities.Tools[1].Permission = PermissionAuto
			},
			code: DiagnosticPermissionMismatch,
		},
		{
			name: "parameter names",
			mutate: func(m *Manifest) {
				m.Capabilities.Tools[1].Parameters.Properties = map[string]FieldSpec{"volume": {Type: TypeInteger}}
			},
			code: DiagnosticParameterMismatch,
		},
		{
			name: "parameter type",
			mutate: func(m *Manifest) {
				m.Capabilities.Tools[1].Parameters.Properties = map[string]FieldSpec{"level": {Type: TypeString}}
			},
			code: DiagnosticTypeMismatch,
		},
		{
			name: "required",
			mutate: func(m *Manifest) {
				m.Capabilities.Tools[1].Parameters.Required = nil
			},
			code: DiagnosticRequiredMismatch,
		},
		{
			name: "duplicate",
			mutate: func(m *Manifest) {
				m.Capabilities.Tools = append(m.Capabilities.Tools, m.Capabilities.Tools[0])
			},
			code: DiagnosticDuplicateEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := testRegistry()
			manifest := BuildManifest(PluginInfo{Name: "apple-music"}, reg)
			tt.mutate(&manifest)
			result := ValidateManifest(manifest, reg)
			if diagnosticCodes(result)[tt.code] == 0 {
				t.Fatalf("diagnostics = %+v, want %s", result.Diagnostics, tt.code)
			}
		})
	}
}

func TestValidateManifestVersionIsWarning(t *testing.T) {
	reg := testRegistry()
	manifest := BuildManifest(PluginInfo{Name: "apple-music"}, reg)
	manifest.ManifestVersion = "0.9"

	result := ValidateManifest(manifest, reg)
	if result.HasErrors() {
		t.Fatalf("HasErrors() = true, want warning only: %+v", result.Diagnostics)
	}
	if diagnosticCodes(result)[DiagnosticVersion] != 1 {
		t.Fatalf("diagnostics = %+v, want version warning", result.Diagnostics)
	}
}
