package pint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// defaultSection is the components section used when none is given.
const defaultSection = "schemas"

// CreateValidator compiles an inline JSON Schema fragment and registers it
// under name. Local $ref pointers inside the fragment are resolved against
// the base schema document. Registering the same name twice replaces the
// earlier validator.
//
// Returns a *SchemaError if the fragment cannot be compiled, a
// *ReferenceError if it points at a missing component, and a
// *ConfigurationError if it uses $ref with no base document configured.
func (r *Router) CreateValidator(name string, schema map[string]any) (*Validator, error) {
	r.vmu.Lock()
	defer r.vmu.Unlock()

	resolved, err := r.resolveRefs(schema, nil)
	if err != nil {
		return nil, setupError(name, err)
	}

	compiled, err := compileSchema(name, resolved)
	if err != nil {
		return nil, &SchemaError{Name: name, Err: err}
	}

	v := &Validator{name: name, schema: resolved, doc: resolved, compiled: compiled}
	r.validators[name] = v
	return v, nil
}

// CreateRefValidator resolves components.<section>.<name> in the base
// schema document (section defaults to "schemas"), compiles the result,
// and registers it under name. The validator appears as a $ref object in
// the generated OpenAPI document.
//
// Returns a *ConfigurationError if no base document is configured, a
// *ReferenceError if the component does not exist, and a *SchemaError if
// the component (or anything it references) cannot be compiled.
func (r *Router) CreateRefValidator(name string, section ...string) (*Validator, error) {
	sec := defaultSection
	if len(section) > 0 && section[0] != "" {
		sec = section[0]
	}

	r.vmu.Lock()
	defer r.vmu.Unlock()

	if r.baseDoc == nil {
		return nil, &ConfigurationError{Msg: "no base schema document configured"}
	}

	ref := "#/components/" + sec + "/" + name
	target, ok := r.baseDoc.resolvePointer(ref)
	if !ok {
		return nil, &ReferenceError{Ref: ref}
	}

	resolved, err := r.resolveRefs(target, []string{ref})
	if err != nil {
		return nil, setupError(name, err)
	}

	compiled, err := compileSchema(name, resolved)
	if err != nil {
		return nil, &SchemaError{Name: name, Err: err}
	}

	v := &Validator{
		name:     name,
		schema:   resolved,
		doc:      map[string]any{"$ref": ref},
		compiled: compiled,
	}
	r.validators[name] = v
	return v, nil
}

// Validator returns a previously registered validator by name, or a
// *LookupError if the name was never registered.
func (r *Router) Validator(name string) (*Validator, error) {
	r.vmu.Lock()
	defer r.vmu.Unlock()

	v, ok := r.validators[name]
	if !ok {
		return nil, &LookupError{Name: name}
	}
	return v, nil
}

// MustValidator is like Validator but panics on unknown names. Intended
// for route setup, where a missing registration is a programmer error.
func (r *Router) MustValidator(name string) *Validator {
	v, err := r.Validator(name)
	if err != nil {
		panic(err)
	}
	return v
}

// resolveRefs rewrites every local $ref in node to the referenced
// sub-schema of the base document, depth first. Fully resolved sub-schemas
// are memoized by reference path in r.resolved, so shared fragments are
// expanded once and repeated resolutions of the same component yield the
// same value. The stack carries the chain of references being expanded;
// revisiting one is a cycle and fails instead of recursing forever.
//
// Callers must hold r.vmu.
func (r *Router) resolveRefs(node any, stack []string) (any, error) {
	switch n := node.(type) {
	case map[string]any:
		if ref, ok := n["$ref"].(string); ok {
			return r.resolveRef(ref, stack)
		}

		out := make(map[string]any, len(n))
		for k, v := range n {
			rv, err := r.resolveRefs(v, stack)
			if err != nil {
				return nil, err
			}
			out[k] = rv
		}
		return out, nil

	case []any:
		out := make([]any, len(n))
		for i, v := range n {
			rv, err := r.resolveRefs(v, stack)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil

	default:
		return node, nil
	}
}

// resolveRef expands a single $ref against the base document.
func (r *Router) resolveRef(ref string, stack []string) (any, error) {
	if !strings.HasPrefix(ref, "#/") {
		return nil, fmt.Errorf("unsupported reference %q: only local #/ references are resolvable", ref)
	}

	if resolved, ok := r.resolved[ref]; ok {
		return resolved, nil
	}

	if slices.Contains(stack, ref) {
		return nil, fmt.Errorf("reference cycle: %s", strings.Join(append(stack, ref), " -> "))
	}

	if r.baseDoc == nil {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("cannot resolve %q: no base schema document configured", ref)}
	}

	target, ok := r.baseDoc.resolvePointer(ref)
	if !ok {
		return nil, &ReferenceError{Ref: ref}
	}

	resolved, err := r.resolveRefs(target, append(stack, ref))
	if err != nil {
		return nil, err
	}

	r.resolved[ref] = resolved
	return resolved, nil
}

// compileSchema hands a fully resolved schema to the jsonschema compiler.
// Draft 4 matches the subset OpenAPI 3.0 schema objects are written in.
func compileSchema(name string, schema any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft4
	compiler.AssertFormat = true

	resource := "mem:///" + url.PathEscape(name) + ".json"
	if err := compiler.AddResource(resource, bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return compiler.Compile(resource)
}

// setupError passes typed setup errors through untouched and wraps
// everything else as a *SchemaError.
func setupError(name string, err error) error {
	var refErr *ReferenceError
	var cfgErr *ConfigurationError
	if errors.As(err, &refErr) || errors.As(err, &cfgErr) {
		return err
	}
	return &SchemaError{Name: name, Err: err}
}
