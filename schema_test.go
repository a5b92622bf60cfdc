package pint_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pintkit/pint"
)

func TestTypeToSchema_scalars(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		typ        reflect.Type
		wantType   string
		wantFormat string
	}{
		"string":   {typ: reflect.TypeFor[string](), wantType: "string"},
		"bool":     {typ: reflect.TypeFor[bool](), wantType: "boolean"},
		"int":      {typ: reflect.TypeFor[int](), wantType: "integer"},
		"int64":    {typ: reflect.TypeFor[int64](), wantType: "integer"},
		"uint":     {typ: reflect.TypeFor[uint](), wantType: "integer"},
		"float64":  {typ: reflect.TypeFor[float64](), wantType: "number"},
		"time":     {typ: reflect.TypeFor[time.Time](), wantType: "string", wantFormat: "date-time"},
		"duration": {typ: reflect.TypeFor[time.Duration](), wantType: "string", wantFormat: "duration"},
		"bytes":    {typ: reflect.TypeFor[[]byte](), wantType: "string", wantFormat: "byte"},
		"pointer":  {typ: reflect.TypeFor[*string](), wantType: "string"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			schema := pint.TypeToSchema(tc.typ)
			assert.Equal(t, tc.wantType, schema.Type)
			assert.Equal(t, tc.wantFormat, schema.Format)
		})
	}
}

func TestTypeToSchema_collections(t *testing.T) {
	t.Parallel()

	arr := pint.TypeToSchema(reflect.TypeFor[[]string]())
	assert.Equal(t, "array", arr.Type)
	require.NotNil(t, arr.Items)
	assert.Equal(t, "string", arr.Items.Type)

	m := pint.TypeToSchema(reflect.TypeFor[map[string]int]())
	assert.Equal(t, "object", m.Type)
	require.NotNil(t, m.AdditionalProperties)
	assert.Equal(t, "integer", m.AdditionalProperties.Type)

	intKeys := pint.TypeToSchema(reflect.TypeFor[map[int]string]())
	assert.Equal(t, "object", intKeys.Type)
	assert.Nil(t, intKeys.AdditionalProperties)
}

func TestStructToSchema(t *testing.T) {
	t.Parallel()

	type Nested struct {
		Label string `json:"label"`
	}
	type Subject struct {
		Name     string `json:"name" required:"true" doc:"Display name"`
		Age      int    `json:"age,omitempty"`
		Hidden   string `json:"-"`
		Untagged bool
		Nested   Nested `json:"nested"`
		ID       string `path:"id"`
		Filter   string `query:"filter"`
		private  string //nolint:unused // exercises unexported-field skipping
	}

	schema := pint.TypeToSchema(reflect.TypeFor[Subject]())
	assert.Equal(t, "object", schema.Type)

	assert.Contains(t, schema.Properties, "name")
	assert.Equal(t, "Display name", schema.Properties["name"].Description)
	assert.Equal(t, []string{"name"}, schema.Required)

	assert.Contains(t, schema.Properties, "age")
	assert.Contains(t, schema.Properties, "Untagged")
	assert.Contains(t, schema.Properties, "nested")
	assert.Equal(t, "string", schema.Properties["nested"].Properties["label"].Type)

	// json:"-", param-tagged, and unexported fields stay out of the body schema.
	assert.NotContains(t, schema.Properties, "Hidden")
	assert.NotContains(t, schema.Properties, "ID")
	assert.NotContains(t, schema.Properties, "Filter")
	assert.Len(t, schema.Properties, 4)
}

func TestJSONFieldName(t *testing.T) {
	t.Parallel()

	type Subject struct {
		Plain   string
		Tagged  string `json:"tagged"`
		Options string `json:"opts,omitempty"`
		Empty   string `json:",omitempty"`
	}

	typ := reflect.TypeFor[Subject]()
	field := func(name string) reflect.StructField {
		f, ok := typ.FieldByName(name)
		require.True(t, ok)
		return f
	}

	assert.Equal(t, "Plain", pint.JSONFieldName(field("Plain")))
	assert.Equal(t, "tagged", pint.JSONFieldName(field("Tagged")))
	assert.Equal(t, "opts", pint.JSONFieldName(field("Options")))
	assert.Equal(t, "Empty", pint.JSONFieldName(field("Empty")))
}
