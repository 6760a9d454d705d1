package usecase

import (
	"context"

	"github.com/abh2050/alexa-story-teller/domain/entities"
)

// Predicate decides whether a route handles the request
type Predicate func(req entities.Request) bool

// HandlerFunc turns a request into a spoken response. It never fails:
// handlers recover their own errors and speak a fallback instead.
type HandlerFunc func(ctx context.Context, env entities.RequestEnvelope) entities.SpokenResponse

// Route pairs a predicate with the handler it selects
type Route struct {
	Name   string
	Match  Predicate
	Handle HandlerFunc
}

// Router dispatches to the first matching route. The route list is fixed at construction.
type Router struct {
	routes   []Route
	fallback Route
}

// NewRouter copies routes into an immutable ordered list. fallback handles
// any request no route claims.
func NewRouter(fallback Route, routes ...Route) *Router {
	return &Router{
		routes:   append([]Route(nil), routes...),
		fallback: fallback,
	}
}

// Select returns the route that will handle the request and whether it was a regular match.
func (r *Router) Select(req entities.Request) (Route, bool) {
	for _, route := range r.routes {
		if route.Match(req) {
			return route, true
		}
	}
	return r.fallback, false
}

// Dispatch invokes exactly one handler for the request
func (r *Router) Dispatch(ctx context.Context, env entities.RequestEnvelope) (Route, entities.SpokenResponse) {
	route, _ := r.Select(env.Request)
	return route, route.Handle(ctx, env)
}

// Routes returns the names of the registered routes in order
func (r *Router) Routes() []string {
	names := make([]string, 0, len(r.routes))
	for _, route := range r.routes {
		names = append(names, route.Name)
	}
	return names
}

// IsRequestType matches requests of the given type
func IsRequestType(t entities.RequestType) Predicate {
	return func(req entities.Request) bool {
		return req.Type == t
	}
}

// IsIntentName matches intent requests whose name is any of names
func IsIntentName(names ...string) Predicate {
	return func(req entities.Request) bool {
		name := req.IntentName()
		if name == "" {
			return false
		}
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
}
