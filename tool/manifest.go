package tool

import (
	"fmt"
	"os"
)

// Manifest schema constants for the initial plugin contract version.
const (
	ManifestVersionV1 = "1.0"
	SchemaPluginV1    = "https://musicbridge.petal-labs.dev/schemas/plugin-manifest/v1.json"
)

// CapabilityTool is the only capability type this plugin serves.
const CapabilityTool = "tool"

// Manifest is the host-readable description of every tool.
type Manifest struct {
	Schema          string       `json:"$schema,omitempty"`
	ManifestVersion string       `json:"manifest_version"`
	Plugin          PluginInfo   `json:"plugin"`
	Capabilities    Capabilities `json:"capabilities"`
}

// PluginInfo contains display metadata for the plugin.
type PluginInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
}

// Capabilities groups entries by capability type.
type Capabilities struct {
	Tools []ToolEntry `json:"tool"`
}

// ToolEntry describes one tool for the host.
type ToolEntry struct {
	ID          string          `json:"id"`
	Description string          `json:"description,omitempty"`
	Permission  Permission      `json:"permission"`
	Parameters  ParameterSchema `json:"parameters"`
}

// ParameterSchema is a JSON-schema shaped object description.
type ParameterSchema struct {
	Type       string               `json:"type"`
	Properties map[string]FieldSpec `json:"properties"`
	Required   []string             `json:"required,omitempty"`
}

// BuildManifest generates the manifest from the registry's declared specs.
func BuildManifest(info PluginInfo, reg *Registry) Manifest {
	manifest := Manifest{
		Schema:          SchemaPluginV1,
		ManifestVersion: ManifestVersionV1,
		Plugin:          info,
		Capabilities:    Capabilities{Tools: make([]ToolEntry, 0, reg.Len())},
	}
	for _, spec := range reg.Specs() {
		manifest.Capabilities.Tools = append(manifest.Capabilities.Tools, entryFromSpec(spec))
	}
	return manifest
}

func entryFromSpec(spec Spec) ToolEntry {
	properties := make(map[string]FieldSpec, len(spec.Parameters))
	for name, field := range spec.Parameters {
		properties[name] = field
	}
	permission := spec.Permission
	if permission == "" {
		permission = PermissionAuto
	}
	return ToolEntry{
		ID:          spec.ID,
		Description: spec.Description,
		Permission:  permission,
		Parameters: ParameterSchema{
			Type:       TypeObject,
			Properties: properties,
			Required:   spec.RequiredParameters(),
		},
	}
}

// MarshalManifest renders a manifest as indented JSON text.
func MarshalManifest(m Manifest) (string, error) {
	out, err := codec.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("tool: encode manifest: %w", err)
	}
	return string(out), nil
}

// ParseManifest decodes manifest JSON text.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := codec.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("tool: decode manifest: %w", err)
	}
	return m, nil
}

// LoadManifestFile reads and decodes a manifest file.
func LoadManifestFile(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("tool: read manifest: %w", err)
	}
	return ParseManifest(data)
}
