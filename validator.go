package pint

import (
	"errors"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator is a compiled, reusable JSON Schema predicate. Validators are
// immutable once created and safe for concurrent use across requests.
type Validator struct {
	name     string
	schema   any // fully resolved schema the validator was compiled from
	doc      any // schema as emitted into the OpenAPI document ($ref form for reference validators)
	compiled *jsonschema.Schema
}

// Name returns the name the validator was registered under.
func (v *Validator) Name() string { return v.name }

// Schema returns the fully resolved schema the validator enforces.
// The returned value is shared and must be treated as read-only.
func (v *Validator) Schema() any { return v.schema }

// DocSchema returns the schema as it appears in the generated OpenAPI
// document: a $ref object for reference validators, the resolved schema
// otherwise.
func (v *Validator) DocSchema() any { return v.doc }

// Validate checks a decoded JSON value against the schema. It returns nil
// on success or a *ValidationError carrying one violation per offending
// schema location.
func (v *Validator) Validate(value any) error {
	err := v.compiled.Validate(value)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return &ValidationError{Violations: collectViolations(verr, nil)}
	}
	return &ValidationError{Violations: []Violation{{Message: err.Error()}}}
}

// collectViolations flattens the cause tree of a jsonschema validation
// error into leaf violations. Interior nodes only restate their causes.
func collectViolations(err *jsonschema.ValidationError, out []Violation) []Violation {
	if len(err.Causes) == 0 {
		return append(out, Violation{
			Path:    err.InstanceLocation,
			Message: err.Message,
		})
	}
	for _, cause := range err.Causes {
		out = collectViolations(cause, out)
	}
	return out
}
