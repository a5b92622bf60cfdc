package pint

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Router is the central type that holds routes, middleware, validators,
// and configuration. It implements http.Handler.
type Router struct {
	mux        *http.ServeMux
	middleware []Middleware
	routes     []routeInfo

	title       string
	version     string
	description string
	contact     Contact
	servers     []Server

	baseDoc    *SchemaDoc
	validators map[string]*Validator
	resolved   map[string]any // resolved sub-schema arena, keyed by reference path
	validate   bool

	errorHandler ErrorHandler

	encoders []Encoder
	decoders []Decoder
	codecs   *codecRegistry

	mu  sync.Mutex // guards routes
	vmu sync.Mutex // guards validators and resolved
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithTitle sets the API title (used in the OpenAPI document).
func WithTitle(title string) RouterOption {
	return func(r *Router) {
		r.title = title
	}
}

// WithVersion sets the API version (used in the OpenAPI document).
func WithVersion(version string) RouterOption {
	return func(r *Router) {
		r.version = version
	}
}

// WithAPIDescription sets the API description (used in the OpenAPI
// document's info section). Routes carry their own descriptions via the
// route-level WithDescription option.
func WithAPIDescription(description string) RouterOption {
	return func(r *Router) {
		r.description = description
	}
}

// WithContact sets the contact block of the OpenAPI info section.
func WithContact(name, url, email string) RouterOption {
	return func(r *Router) {
		r.contact = Contact{Name: name, URL: url, Email: email}
	}
}

// WithServers sets the OpenAPI servers array.
func WithServers(servers ...Server) RouterOption {
	return func(r *Router) {
		r.servers = servers
	}
}

// WithBaseSchema sets the base schema document that reference validators
// and $ref resolution draw from.
func WithBaseSchema(doc *SchemaDoc) RouterOption {
	return func(r *Router) {
		r.baseDoc = doc
	}
}

// WithBaseSchemaFile loads the base schema document from a JSON or YAML
// file. It panics if the file cannot be read or parsed; an unloadable
// base document is a setup-time programmer error.
func WithBaseSchemaFile(path string) RouterOption {
	return func(r *Router) {
		doc, err := LoadSchemaFile(path)
		if err != nil {
			panic(fmt.Sprintf("pint: base schema %s: %v", path, err))
		}
		r.baseDoc = doc
	}
}

// WithValidation sets the default enforcement state for routes that
// declare expectations. Validation is on by default; routes opt out
// individually with WithoutValidation.
func WithValidation(enabled bool) RouterOption {
	return func(r *Router) {
		r.validate = enabled
	}
}

// ErrorHandler is a custom error response writer.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// WithErrorHandler sets a custom error handler for the router.
func WithErrorHandler(h ErrorHandler) RouterOption {
	return func(r *Router) {
		r.errorHandler = h
	}
}

// WithEncoder registers an additional response encoder.
func WithEncoder(enc Encoder) RouterOption {
	return func(r *Router) {
		r.encoders = append(r.encoders, enc)
	}
}

// WithDecoder registers an additional request body decoder.
func WithDecoder(dec Decoder) RouterOption {
	return func(r *Router) {
		r.decoders = append(r.decoders, dec)
	}
}

// New creates a new Router with the given options.
func New(opts ...RouterOption) *Router {
	r := &Router{
		mux:        http.NewServeMux(),
		validators: make(map[string]*Validator),
		resolved:   make(map[string]any),
		validate:   true,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.codecs = newCodecRegistry(r.encoders, r.decoders)
	return r
}

// BaseSchema returns the configured base schema document, or nil.
func (r *Router) BaseSchema() *SchemaDoc { return r.baseDoc }

// Use adds middleware to the router. Middleware is applied in the order added.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := http.Handler(r.mux)
	for i := len(r.middleware) - 1; i >= 0; i-- {
		handler = r.middleware[i](handler)
	}
	handler.ServeHTTP(w, req)
}

// ListenAndServe starts an HTTP server on the given address.
// It blocks until the context is cancelled, then shuts down gracefully.
func (r *Router) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// addRoute registers a routeInfo with the router's mux and stores it
// for OpenAPI generation. Global middleware is applied in ServeHTTP,
// not here — only group middleware is baked into ri.handler.
func (r *Router) addRoute(ri routeInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.mux.Handle(ri.method+" "+ri.pattern, ri.handler)
	r.routes = append(r.routes, ri)
}
