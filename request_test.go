package pint_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pintkit/pint"
	"github.com/pintkit/pint/apitest"
)

func TestRequest_pathParams(t *testing.T) {
	t.Parallel()

	type Req struct {
		ID string `path:"id"`
	}
	type Resp struct {
		ID string `json:"id"`
	}

	r := pint.New()
	pint.Get(r, "/items/{id}", func(_ context.Context, req *Req) (*Resp, error) {
		return &Resp{ID: req.ID}, nil
	})

	c := apitest.NewClient(t, r)

	resp := apitest.Get[Resp](t, c, "/items/abc123")
	require.NotNil(t, resp.Body)
	assert.Equal(t, "abc123", resp.Body.ID)
}

func TestRequest_queryParams(t *testing.T) {
	t.Parallel()

	type Req struct {
		Page int    `query:"page" default:"1"`
		Sort string `query:"sort" default:"name"`
	}
	type Resp struct {
		Page int    `json:"page"`
		Sort string `json:"sort"`
	}

	r := pint.New()
	pint.Get(r, "/items", func(_ context.Context, req *Req) (*Resp, error) {
		return &Resp{Page: req.Page, Sort: req.Sort}, nil
	})

	c := apitest.NewClient(t, r)

	tests := map[string]struct {
		query      string
		expectPage int
		expectSort string
	}{
		"explicit values": {
			query:      "?page=3&sort=date",
			expectPage: 3,
			expectSort: "date",
		},
		"defaults": {
			query:      "",
			expectPage: 1,
			expectSort: "name",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			resp := apitest.Get[Resp](t, c, "/items"+tc.query)
			require.NotNil(t, resp.Body)
			assert.Equal(t, tc.expectPage, resp.Body.Page)
			assert.Equal(t, tc.expectSort, resp.Body.Sort)
		})
	}
}

func TestRequest_headerAndCookieParams(t *testing.T) {
	t.Parallel()

	type Req struct {
		Token   string `header:"X-Token"`
		Session string `cookie:"session" default:"anon"`
	}
	type Resp struct {
		Token   string `json:"token"`
		Session string `json:"session"`
	}

	r := pint.New()
	pint.Get(r, "/whoami", func(_ context.Context, req *Req) (*Resp, error) {
		return &Resp{Token: req.Token, Session: req.Session}, nil
	})

	c := apitest.NewClient(t, r)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, c.Server.URL+"/whoami", nil)
	require.NoError(t, err)
	req.Header.Set("X-Token", "tok-1")
	req.AddCookie(&http.Cookie{Name: "session", Value: "sess-9"})

	httpResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { require.NoError(t, httpResp.Body.Close()) }()

	var body Resp
	require.NoError(t, json.NewDecoder(httpResp.Body).Decode(&body))
	assert.Equal(t, "tok-1", body.Token)
	assert.Equal(t, "sess-9", body.Session)

	// Cookie default applies when no cookie is sent.
	noCookie := apitest.Get[Resp](t, c, "/whoami")
	require.NotNil(t, noCookie.Body)
	assert.Equal(t, "anon", noCookie.Body.Session)
}

func TestRequest_typedParams(t *testing.T) {
	t.Parallel()

	type Req struct {
		Count   int           `query:"count"`
		Ratio   float64       `query:"ratio"`
		Active  bool          `query:"active"`
		Timeout time.Duration `query:"timeout"`
	}
	type Resp struct {
		Count   int           `json:"count"`
		Ratio   float64       `json:"ratio"`
		Active  bool          `json:"active"`
		Timeout time.Duration `json:"timeout"`
	}

	r := pint.New()
	pint.Get(r, "/typed", func(_ context.Context, req *Req) (*Resp, error) {
		return &Resp{Count: req.Count, Ratio: req.Ratio, Active: req.Active, Timeout: req.Timeout}, nil
	})

	c := apitest.NewClient(t, r)

	resp := apitest.Get[Resp](t, c, "/typed?count=7&ratio=2.5&active=true&timeout=30s")
	require.NotNil(t, resp.Body)
	assert.Equal(t, 7, resp.Body.Count)
	assert.Equal(t, 2.5, resp.Body.Ratio)
	assert.True(t, resp.Body.Active)
	assert.Equal(t, 30*time.Second, resp.Body.Timeout)
}

func TestRequest_invalidParamValue(t *testing.T) {
	t.Parallel()

	type Req struct {
		Count int `query:"count"`
	}

	r := pint.New()
	pint.Get(r, "/typed", func(_ context.Context, _ *Req) (*pint.Void, error) {
		return &pint.Void{}, nil
	})

	c := apitest.NewClient(t, r)

	resp := apitest.Get[pint.ErrorResponse](t, c, "/typed?count=abc")
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestRequest_mixedParamsAndBody(t *testing.T) {
	t.Parallel()

	type Req struct {
		ID   string `path:"id"`
		Body struct {
			Name string `json:"name"`
		}
	}
	type Resp struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	r := pint.New()
	pint.Put(r, "/items/{id}", func(_ context.Context, req *Req) (*Resp, error) {
		return &Resp{ID: req.ID, Name: req.Body.Name}, nil
	})

	c := apitest.NewClient(t, r)

	type payload struct {
		Name string `json:"name"`
	}
	resp := apitest.Put[payload, Resp](t, c, "/items/42", &payload{Name: "renamed"})
	require.NotNil(t, resp.Body)
	assert.Equal(t, "42", resp.Body.ID)
	assert.Equal(t, "renamed", resp.Body.Name)
}

func TestRequest_rawRequestInjection(t *testing.T) {
	t.Parallel()

	type Req struct {
		pint.RawRequest
		ID string `path:"id"`
	}
	type Resp struct {
		UserAgent string `json:"user_agent"`
		ID        string `json:"id"`
	}

	r := pint.New()
	pint.Get(r, "/inspect/{id}", func(_ context.Context, req *Req) (*Resp, error) {
		return &Resp{UserAgent: req.Request.UserAgent(), ID: req.ID}, nil
	})

	c := apitest.NewClient(t, r)

	resp := apitest.Get[Resp](t, c, "/inspect/9")
	require.NotNil(t, resp.Body)
	assert.Equal(t, "9", resp.Body.ID)
	assert.NotEmpty(t, resp.Body.UserAgent)
}

func TestRequest_wholeBodyStruct(t *testing.T) {
	t.Parallel()

	// No Body field and no param tags: the whole struct is the body.
	type Req struct {
		Name string `json:"name"`
	}
	type Resp struct {
		Name string `json:"name"`
	}

	r := pint.New()
	pint.Post(r, "/echo", func(_ context.Context, req *Req) (*Resp, error) {
		return &Resp{Name: req.Name}, nil
	})

	c := apitest.NewClient(t, r)

	resp := apitest.Post[Req, Resp](t, c, "/echo", &Req{Name: "whole"})
	require.NotNil(t, resp.Body)
	assert.Equal(t, "whole", resp.Body.Name)
}
