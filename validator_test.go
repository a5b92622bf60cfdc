package pint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pintkit/pint"
)

func TestValidator_Validate_violations(t *testing.T) {
	t.Parallel()

	r := pint.New()
	v, err := r.CreateValidator("order", map[string]any{
		"type":     "object",
		"required": []any{"foobar"},
		"properties": map[string]any{
			"foobar": map[string]any{"type": "string"},
			"baz":    map[string]any{"type": "number"},
		},
	})
	require.NoError(t, err)

	tests := map[string]struct {
		value    any
		wantPath string
	}{
		"missing required property": {
			value:    map[string]any{"baz": float64(3)},
			wantPath: "",
		},
		"wrong property type": {
			value:    map[string]any{"foobar": "x", "baz": "not-a-number"},
			wantPath: "/baz",
		},
		"wrong root type": {
			value:    "a string",
			wantPath: "",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := v.Validate(tc.value)
			require.Error(t, err)

			var verr *pint.ValidationError
			require.ErrorAs(t, err, &verr)
			require.NotEmpty(t, verr.Violations)
			assert.Equal(t, tc.wantPath, verr.Violations[0].Path)
			assert.NotEmpty(t, verr.Violations[0].Message)
		})
	}
}

func TestValidator_Validate_multipleViolations(t *testing.T) {
	t.Parallel()

	r := pint.New()
	v, err := r.CreateValidator("strict", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"a": map[string]any{"type": "string"},
			"b": map[string]any{"type": "integer"},
		},
	})
	require.NoError(t, err)

	err = v.Validate(map[string]any{"a": float64(1), "b": "two"})
	require.Error(t, err)

	var verr *pint.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 2)

	paths := []string{verr.Violations[0].Path, verr.Violations[1].Path}
	assert.ElementsMatch(t, []string{"/a", "/b"}, paths)
}

func TestValidator_Validate_formatAssertion(t *testing.T) {
	t.Parallel()

	r := pint.New()
	v, err := r.CreateValidator("contact", map[string]any{
		"type": "object",
		"properties": map[string]any{
			"email": map[string]any{"type": "string", "format": "email"},
		},
	})
	require.NoError(t, err)

	assert.NoError(t, v.Validate(map[string]any{"email": "a@example.com"}))
	assert.Error(t, v.Validate(map[string]any{"email": "not-an-email"}))
}

func TestValidator_accessors(t *testing.T) {
	t.Parallel()

	r := pint.New()
	schema := map[string]any{"type": "object"}
	v, err := r.CreateValidator("acc", schema)
	require.NoError(t, err)

	assert.Equal(t, "acc", v.Name())
	assert.Equal(t, schema, v.Schema())
	assert.Equal(t, schema, v.DocSchema())
}
