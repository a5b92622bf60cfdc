package pint_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pintkit/pint"
	"github.com/pintkit/pint/apitest"
)

func TestRecovery(t *testing.T) {
	t.Parallel()

	r := pint.New()
	r.Use(pint.Recovery())

	pint.Get(r, "/panic", func(_ context.Context, _ *pint.Void) (*pint.Void, error) {
		panic("boom")
	})
	pint.Get(r, "/fine", func(_ context.Context, _ *pint.Void) (*pint.Void, error) {
		return &pint.Void{}, nil
	})

	c := apitest.NewClient(t, r)

	assert.Equal(t, http.StatusInternalServerError, apitest.Get[struct{}](t, c, "/panic").Status)
	assert.Equal(t, http.StatusNoContent, apitest.Get[struct{}](t, c, "/fine").Status)
}
