package pint_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pintkit/pint"
	"github.com/pintkit/pint/apitest"
)

func TestRateLimit(t *testing.T) {
	t.Parallel()

	r := pint.New()
	r.Use(pint.RateLimit(pint.RateLimitConfig{
		Rate:  1,
		Burst: 2,
		KeyFunc: func(*http.Request) string {
			return "single-bucket"
		},
	}))
	pint.Get(r, "/limited", func(_ context.Context, _ *pint.Void) (*pint.Void, error) {
		return &pint.Void{}, nil
	})

	c := apitest.NewClient(t, r)

	// Burst of 2 allowed, third request rejected.
	assert.Equal(t, http.StatusNoContent, apitest.Get[struct{}](t, c, "/limited").Status)
	assert.Equal(t, http.StatusNoContent, apitest.Get[struct{}](t, c, "/limited").Status)

	third := apitest.Get[struct{}](t, c, "/limited")
	assert.Equal(t, http.StatusTooManyRequests, third.Status)
	assert.NotEmpty(t, third.Headers.Get("Retry-After"))
}

func TestRateLimit_perKey(t *testing.T) {
	t.Parallel()

	r := pint.New()
	r.Use(pint.RateLimit(pint.RateLimitConfig{
		Rate:  1,
		Burst: 1,
		KeyFunc: func(req *http.Request) string {
			return req.Header.Get("X-Api-Key")
		},
	}))
	pint.Get(r, "/limited", func(_ context.Context, _ *pint.Void) (*pint.Void, error) {
		return &pint.Void{}, nil
	})

	c := apitest.NewClient(t, r)

	get := func(key string) int {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, c.Server.URL+"/limited", nil)
		if err != nil {
			t.Fatal(err)
		}
		req.Header.Set("X-Api-Key", key)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusNoContent, get("a"))
	assert.Equal(t, http.StatusTooManyRequests, get("a"))

	// A different key has its own bucket.
	assert.Equal(t, http.StatusNoContent, get("b"))
}

func TestRateLimit_customOnLimit(t *testing.T) {
	t.Parallel()

	r := pint.New()
	r.Use(pint.RateLimit(pint.RateLimitConfig{
		Rate:  1,
		Burst: 1,
		KeyFunc: func(*http.Request) string {
			return "k"
		},
		OnLimit: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		},
	}))
	pint.Get(r, "/limited", func(_ context.Context, _ *pint.Void) (*pint.Void, error) {
		return &pint.Void{}, nil
	})

	c := apitest.NewClient(t, r)

	apitest.Get[struct{}](t, c, "/limited")
	assert.Equal(t, http.StatusServiceUnavailable, apitest.Get[struct{}](t, c, "/limited").Status)
}
