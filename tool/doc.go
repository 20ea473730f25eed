// Package tool defines the contract between the plugin host and individual
// Music tools.
//
// The package is split by concern:
//   - tool: the Tool interface and its declared Spec
//   - registry: the immutable id -> Tool mapping built once per context
//   - manifest: the host-readable capability document generated from a registry
//   - validate: manifest/registry consistency diagnostics
//   - error, codec: the JSON error taxonomy and result encoding
//
// Every Tool.Run result is a syntactically valid JSON string; failures are
// encoded as {"error": "..."} objects and never returned as Go errors.
package tool
