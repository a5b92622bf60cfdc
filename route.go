package pint

import (
	"net/http"
	"reflect"
)

// routeInfo holds metadata for a registered route, used for both
// request dispatch and OpenAPI document generation.
type routeInfo struct {
	method  string
	pattern string
	summary string
	desc    string
	tags    []string

	status      int
	deprecated  bool
	operationID string

	expectations []Expectation
	noValidate   bool

	params    []Param
	responses []ResponseDoc

	bodyLimit int64

	reqType  reflect.Type
	respType reflect.Type

	handler http.Handler
}

// RouteOption configures a route at registration time.
type RouteOption func(*routeInfo)

// WithStatus sets the default HTTP status code for the response.
func WithStatus(code int) RouteOption {
	return func(ri *routeInfo) {
		ri.status = code
	}
}

// WithSummary sets the OpenAPI summary for the route.
func WithSummary(s string) RouteOption {
	return func(ri *routeInfo) {
		ri.summary = s
	}
}

// WithDescription sets the OpenAPI description for the route.
func WithDescription(d string) RouteOption {
	return func(ri *routeInfo) {
		ri.desc = d
	}
}

// WithTags adds OpenAPI tags to the route.
func WithTags(tags ...string) RouteOption {
	return func(ri *routeInfo) {
		ri.tags = append(ri.tags, tags...)
	}
}

// WithDeprecated marks the route as deprecated in the OpenAPI document.
func WithDeprecated() RouteOption {
	return func(ri *routeInfo) {
		ri.deprecated = true
	}
}

// WithOperationID sets a custom OpenAPI operationId.
func WithOperationID(id string) RouteOption {
	return func(ri *routeInfo) {
		ri.operationID = id
	}
}

// Param documents a single operation parameter.
type Param struct {
	Name        string
	In          string // query, header, path, or cookie; defaults to query
	Description string
	Required    bool
	Deprecated  bool
	Schema      any // JSON Schema for the parameter; defaults to {"type": "string"}
}

// WithParams documents operation parameters. Parameters with the same
// name and location as an extracted path parameter override it.
func WithParams(params ...Param) RouteOption {
	return func(ri *routeInfo) {
		for _, p := range params {
			if p.In == "" {
				p.In = "query"
			}
			ri.params = append(ri.params, p)
		}
	}
}

// ResponseDoc documents one response of an operation.
type ResponseDoc struct {
	Code        int
	Description string
	Validator   *Validator     // optional: schema for the response body
	Schema      any            // optional: raw schema, used when Validator is nil
	ContentType string         // defaults to application/json when a schema is present
	Headers     map[string]any // optional response header objects
}

// WithResponse documents a response status code and description.
func WithResponse(code int, description string) RouteOption {
	return WithResponseDoc(ResponseDoc{Code: code, Description: description})
}

// WithResponseModel documents a response whose body matches a validator's
// schema. The content type defaults to application/json.
func WithResponseModel(code int, description string, v *Validator) RouteOption {
	return WithResponseDoc(ResponseDoc{Code: code, Description: description, Validator: v})
}

// WithResponseDoc documents a response with full control over the response
// object. Later declarations for the same status code replace earlier ones.
func WithResponseDoc(resp ResponseDoc) RouteOption {
	return func(ri *routeInfo) {
		for i, prev := range ri.responses {
			if prev.Code == resp.Code {
				ri.responses[i] = resp
				return
			}
		}
		ri.responses = append(ri.responses, resp)
	}
}

// WithBodyLimit sets a per-route maximum request body size in bytes.
func WithBodyLimit(maxBytes int64) RouteOption {
	return func(ri *routeInfo) {
		ri.bodyLimit = maxBytes
	}
}
