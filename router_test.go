package pint_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pintkit/pint"
	"github.com/pintkit/pint/apitest"
)

func TestRouter_ServeHTTP_basic(t *testing.T) {
	t.Parallel()

	type Resp struct {
		Message string `json:"message"`
	}

	r := pint.New()
	pint.Get(r, "/health", func(_ context.Context, _ *pint.Void) (*Resp, error) {
		return &Resp{Message: "ok"}, nil
	})

	c := apitest.NewClient(t, r)

	resp := apitest.Get[Resp](t, c, "/health")
	assert.Equal(t, http.StatusOK, resp.Status)
	require.NotNil(t, resp.Body)
	assert.Equal(t, "ok", resp.Body.Message)
}

func TestRouter_Use_middleware(t *testing.T) {
	t.Parallel()

	type Resp struct {
		Value string `json:"value"`
	}

	r := pint.New()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Custom", "applied")
			next.ServeHTTP(w, req)
		})
	})

	pint.Get(r, "/test", func(_ context.Context, _ *pint.Void) (*Resp, error) {
		return &Resp{Value: "hello"}, nil
	})

	c := apitest.NewClient(t, r)

	resp := apitest.Get[Resp](t, c, "/test")
	assert.Equal(t, "applied", resp.Headers.Get("X-Custom"))
}

func TestRouter_middlewareOrder(t *testing.T) {
	t.Parallel()

	var order []string

	mw := func(name string) pint.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, req)
			})
		}
	}

	r := pint.New()
	r.Use(mw("first"), mw("second"))
	pint.Get(r, "/", func(_ context.Context, _ *pint.Void) (*pint.Void, error) {
		return &pint.Void{}, nil
	})

	c := apitest.NewClient(t, r)

	apitest.Get[struct{}](t, c, "/")
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestRouter_customErrorHandler(t *testing.T) {
	t.Parallel()

	r := pint.New(pint.WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusTeapot)
		//nolint:errcheck // test handler
		w.Write([]byte(err.Error()))
	}))

	pint.Get(r, "/fail", func(_ context.Context, _ *pint.Void) (*pint.Void, error) {
		return nil, pint.Error(http.StatusBadGateway, "upstream broke")
	})

	c := apitest.NewClient(t, r)

	resp := apitest.Get[struct{}](t, c, "/fail")
	assert.Equal(t, http.StatusTeapot, resp.Status)
}

func TestRouter_customErrorHandler_validationGate(t *testing.T) {
	t.Parallel()

	r := pint.New(pint.WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
		w.WriteHeader(pint.ErrorStatus(err))
		//nolint:errcheck // test handler
		w.Write([]byte("custom: " + err.Error()))
	}))

	pint.Post(r, "/widgets", echoWidget, pint.ExpectJSON(widgetValidator(t, r)))

	c := apitest.NewClient(t, r)

	resp := apitest.PostRaw[struct{}](t, c, "/widgets", "text/plain", []byte("x"))
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.Status)
}

func TestRouter_BaseSchema(t *testing.T) {
	t.Parallel()

	doc := pint.SchemaFromValue(map[string]any{"components": map[string]any{}})

	assert.Nil(t, pint.New().BaseSchema())
	assert.Same(t, doc, pint.New(pint.WithBaseSchema(doc)).BaseSchema())
}

func TestRouter_WithBaseSchemaFile(t *testing.T) {
	t.Parallel()

	content := `{"components": {"schemas": {"Thing": {"type": "object"}}}}`
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	r := pint.New(pint.WithBaseSchemaFile(path))

	require.NotNil(t, r.BaseSchema())
	_, ok := r.BaseSchema().Component("schemas", "Thing")
	assert.True(t, ok)
}

func TestRouter_WithBaseSchemaFile_missing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nope.json")
	assert.Panics(t, func() {
		pint.New(pint.WithBaseSchemaFile(path))
	})
}

func TestRouter_notFound(t *testing.T) {
	t.Parallel()

	r := pint.New()
	pint.Get(r, "/exists", func(_ context.Context, _ *pint.Void) (*pint.Void, error) {
		return &pint.Void{}, nil
	})

	c := apitest.NewClient(t, r)

	resp := apitest.Get[struct{}](t, c, "/nope")
	assert.Equal(t, http.StatusNotFound, resp.Status)
}
