package pint

import (
	"net/http"
	"reflect"
)

// Registrar is the interface accepted by the registration functions.
// Both *Router and *Group implement it.
type Registrar interface {
	addRoute(ri routeInfo)
	base() *Router
	routeMiddleware() []Middleware
	defaultExpectations() []Expectation
}

func (r *Router) base() *Router { return r }

func (r *Router) routeMiddleware() []Middleware { return nil }

func (r *Router) defaultExpectations() []Expectation { return nil }

// errorWriter writes an error response, honoring any custom handler.
type errorWriter func(w http.ResponseWriter, r *http.Request, err error)

func (r *Router) errorWriter() errorWriter {
	if r.errorHandler != nil {
		return errorWriter(r.errorHandler)
	}
	return writeErrorResponse
}

// register is the internal generic registration function.
func register[Req, Resp any](reg Registrar, method, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	ri := routeInfo{
		method:   method,
		pattern:  pattern,
		reqType:  reflect.TypeFor[Req](),
		respType: reflect.TypeFor[Resp](),
	}

	for _, opt := range opts {
		opt(&ri)
	}

	mergeDefaultExpectations(&ri, reg)

	// Determine default status: Void response → 204, otherwise 200.
	if ri.status == 0 {
		if ri.respType == reflect.TypeFor[Void]() {
			ri.status = http.StatusNoContent
		} else {
			ri.status = http.StatusOK
		}
	}

	router := reg.base()
	writeErr := router.errorWriter()

	ri.handler = buildHandler(h, ri.status, router.codecs, writeErr)

	// The validation gate runs before the typed handler decodes anything.
	if len(ri.expectations) > 0 && router.validate && !ri.noValidate {
		ri.handler = validationGate(ri.expectations, ri.handler, writeErr)
	}

	if ri.bodyLimit > 0 {
		ri.handler = limitBody(ri.handler, ri.bodyLimit)
	}

	// Apply route-level middleware (from Group).
	routeMW := reg.routeMiddleware()
	for i := len(routeMW) - 1; i >= 0; i-- {
		ri.handler = routeMW[i](ri.handler)
	}

	reg.addRoute(ri)
}

// buildHandler wraps a typed Handler into an http.Handler.
func buildHandler[Req, Resp any](h Handler[Req, Resp], defaultStatus int, codecs *codecRegistry, writeErr errorWriter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRequest[Req](r, codecs)
		if err != nil {
			writeErr(w, r, Error(http.StatusBadRequest, err.Error()))
			return
		}

		// Run SelfValidator if implemented.
		if sv, ok := any(req).(SelfValidator); ok {
			if err := sv.Validate(); err != nil {
				writeErr(w, r, err)
				return
			}
		}

		resp, err := h(r.Context(), req)
		if err != nil {
			writeErr(w, r, err)
			return
		}

		// Void response.
		if _, ok := any(resp).(*Void); ok || resp == nil {
			w.WriteHeader(defaultStatus)
			return
		}

		encodeResponse(w, r, resp, defaultStatus, codecs)
	})
}

// mergeDefaultExpectations adds the registrar's default expectations for
// any content type the route did not declare itself.
func mergeDefaultExpectations(ri *routeInfo, reg Registrar) {
	for _, exp := range reg.defaultExpectations() {
		declared := false
		for _, own := range ri.expectations {
			if own.ContentType == exp.ContentType {
				declared = true
				break
			}
		}
		if !declared {
			ri.expectations = append(ri.expectations, exp)
		}
	}
}

// limitBody caps the request body size for a single route.
func limitBody(next http.Handler, maxBytes int64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		next.ServeHTTP(w, r)
	})
}

// Get registers a GET handler.
func Get[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodGet, pattern, h, opts...)
}

// Post registers a POST handler.
func Post[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPost, pattern, h, opts...)
}

// Put registers a PUT handler.
func Put[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPut, pattern, h, opts...)
}

// Patch registers a PATCH handler.
func Patch[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodPatch, pattern, h, opts...)
}

// Delete registers a DELETE handler.
func Delete[Req, Resp any](reg Registrar, pattern string, h Handler[Req, Resp], opts ...RouteOption) {
	register(reg, http.MethodDelete, pattern, h, opts...)
}

// Raw registers a raw http.Handler with manual OperationInfo for the
// OpenAPI document. Route options (including Expect) still apply, so raw
// handlers keep the validation gate in front of them.
func Raw(reg Registrar, method, pattern string, h RawHandler, info OperationInfo, opts ...RouteOption) {
	ri := routeInfo{
		method:  method,
		pattern: pattern,
		summary: info.Summary,
		desc:    info.Description,
		tags:    info.Tags,
		status:  info.Status,
	}

	for _, opt := range opts {
		opt(&ri)
	}

	mergeDefaultExpectations(&ri, reg)

	router := reg.base()
	ri.handler = http.HandlerFunc(h)

	if len(ri.expectations) > 0 && router.validate && !ri.noValidate {
		ri.handler = validationGate(ri.expectations, ri.handler, router.errorWriter())
	}

	if ri.bodyLimit > 0 {
		ri.handler = limitBody(ri.handler, ri.bodyLimit)
	}

	routeMW := reg.routeMiddleware()
	for i := len(routeMW) - 1; i >= 0; i-- {
		ri.handler = routeMW[i](ri.handler)
	}

	reg.addRoute(ri)
}
