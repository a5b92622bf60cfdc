package pint

import "slices"

// Group is a collection of routes under a shared prefix with shared
// middleware, tags, and expectations — the blueprint unit of the API.
type Group struct {
	router       *Router
	prefix       string
	middleware   []Middleware
	tags         []string
	expectations []Expectation
}

// GroupOption configures a Group.
type GroupOption func(*Group)

// WithGroupTags adds default tags to all routes registered on the group.
func WithGroupTags(tags ...string) GroupOption {
	return func(g *Group) {
		g.tags = append(g.tags, tags...)
	}
}

// WithGroupMiddleware adds middleware to the group.
func WithGroupMiddleware(mw ...Middleware) GroupOption {
	return func(g *Group) {
		g.middleware = append(g.middleware, mw...)
	}
}

// WithGroupExpectations declares default expectations for every route
// registered on the group. Routes declaring their own expectation for the
// same content type override the group default.
func WithGroupExpectations(exps ...Expectation) GroupOption {
	return func(g *Group) {
		for _, exp := range exps {
			g.expectations = append(g.expectations, normalizeExpectation(exp))
		}
	}
}

// Group creates a new route group with the given prefix and options.
func (r *Router) Group(prefix string, opts ...GroupOption) *Group {
	g := &Group{
		router: r,
		prefix: prefix,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// addRoute implements Registrar for Group.
func (g *Group) addRoute(ri routeInfo) {
	ri.pattern = g.prefix + ri.pattern
	// Clone so routes never share g.tags' backing array; appending into
	// spare capacity would let one route's tags overwrite another's.
	ri.tags = append(slices.Clone(g.tags), ri.tags...)
	g.router.addRoute(ri)
}

func (g *Group) base() *Router { return g.router }

func (g *Group) routeMiddleware() []Middleware { return g.middleware }

func (g *Group) defaultExpectations() []Expectation { return g.expectations }
