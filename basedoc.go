package pint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SchemaDoc is a base schema document: a JSON (or YAML) document whose
// top level contains a components mapping from section name to component
// name to schema, as in the components section of an OpenAPI file.
// It is loaded once during setup and never mutated; validators created
// from it share the same underlying document.
type SchemaDoc struct {
	root map[string]any
}

// LoadSchemaFile reads a base schema document from disk. Files ending in
// .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadSchemaFile(path string) (*SchemaDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load schema document: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseSchemaYAML(data)
	default:
		return ParseSchema(data)
	}
}

// ParseSchema parses a base schema document from JSON bytes.
func ParseSchema(data []byte) (*SchemaDoc, error) {
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse schema document: %w", err)
	}
	return &SchemaDoc{root: root}, nil
}

// parseSchemaYAML parses a YAML base schema document, normalizing it to
// JSON value types so the rest of the pipeline sees one representation.
func parseSchemaYAML(data []byte) (*SchemaDoc, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse schema document: %w", err)
	}

	// Round-trip through JSON so numbers and nested maps match what
	// json.Unmarshal would have produced.
	raw, err := json.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("parse schema document: %w", err)
	}
	return ParseSchema(raw)
}

// SchemaFromValue wraps an already-parsed document. The caller must not
// mutate the value afterwards.
func SchemaFromValue(root map[string]any) *SchemaDoc {
	return &SchemaDoc{root: root}
}

// Component returns the schema registered under components.<section>.<name>,
// or false if the path does not exist.
func (d *SchemaDoc) Component(section, name string) (any, bool) {
	return d.resolvePointer("#/components/" + section + "/" + name)
}

// Components returns the document's components mapping (section name to
// component name to schema), or nil if the document has none. The returned
// maps alias the document and must be treated as read-only.
func (d *SchemaDoc) Components() map[string]map[string]any {
	raw, ok := d.root["components"].(map[string]any)
	if !ok {
		return nil
	}

	out := make(map[string]map[string]any, len(raw))
	for section, v := range raw {
		entries, ok := v.(map[string]any)
		if !ok || len(entries) == 0 {
			continue
		}
		out[section] = entries
	}
	return out
}

// resolvePointer walks a local JSON pointer reference ("#/a/b/c") through
// the document. Pointer tokens are unescaped per RFC 6901.
func (d *SchemaDoc) resolvePointer(ref string) (any, bool) {
	ptr, ok := strings.CutPrefix(ref, "#/")
	if !ok {
		return nil, false
	}

	var cur any = d.root
	for tok := range strings.SplitSeq(ptr, "/") {
		tok = strings.ReplaceAll(tok, "~1", "/")
		tok = strings.ReplaceAll(tok, "~0", "~")

		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[tok]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
