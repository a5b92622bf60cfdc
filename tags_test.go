package pint_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pintkit/pint"
)

func TestHasParamTags(t *testing.T) {
	t.Parallel()

	type withQuery struct {
		Page int `query:"page"`
	}
	type withPath struct {
		ID string `path:"id"`
	}
	type bodyOnly struct {
		Name string `json:"name"`
	}

	assert.True(t, pint.HasParamTags(reflect.TypeFor[withQuery]()))
	assert.True(t, pint.HasParamTags(reflect.TypeFor[withPath]()))
	assert.True(t, pint.HasParamTags(reflect.TypeFor[*withPath]()))
	assert.False(t, pint.HasParamTags(reflect.TypeFor[bodyOnly]()))
	assert.False(t, pint.HasParamTags(reflect.TypeFor[string]()))
}

func TestHasRawRequest(t *testing.T) {
	t.Parallel()

	type withRaw struct {
		pint.RawRequest
		ID string `path:"id"`
	}
	type without struct {
		ID string `path:"id"`
	}

	assert.True(t, pint.HasRawRequest(reflect.TypeFor[withRaw]()))
	assert.False(t, pint.HasRawRequest(reflect.TypeFor[without]()))
}

func TestHasBodyField(t *testing.T) {
	t.Parallel()

	type withBody struct {
		Body struct {
			Name string `json:"name"`
		}
	}
	type without struct {
		Name string `json:"name"`
	}

	assert.True(t, pint.HasBodyField(reflect.TypeFor[withBody]()))
	assert.False(t, pint.HasBodyField(reflect.TypeFor[without]()))
}
