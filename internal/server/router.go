package server

import (
	"maps"
	"net/http"
	"slices"
	"strings"
)

// BasicRouter is a small [Router] over [http.ServeMux].
//
// A path may be registered for several methods; requests with any other method get a 405
// listing the allowed ones.
type BasicRouter struct {
	mux         *http.ServeMux
	middlewares []Middleware
	methods     map[string]map[string]http.Handler
}

// NewBasicRouter creates a new [BasicRouter] instance.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{
		mux:     http.NewServeMux(),
		methods: make(map[string]map[string]http.Handler),
	}
}

// Use appends middleware. It wraps routes registered after the call, outermost first.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.middlewares = append(r.middlewares, middleware...)
}

// Handle registers handler for method on path.
//
// Method dispatch runs inside the middleware, so rejected requests are still logged.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	method = strings.ToUpper(method)
	if byMethod, ok := r.methods[path]; ok {
		byMethod[method] = handler
		return
	}

	r.methods[path] = map[string]http.Handler{method: handler}
	r.mux.Handle(path, r.Apply(r.dispatch(path)))
}

func (r *BasicRouter) dispatch(path string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		byMethod := r.methods[path]
		if h, ok := byMethod[req.Method]; ok {
			h.ServeHTTP(w, req)
			return
		}

		w.Header().Set("Allow", strings.Join(slices.Sorted(maps.Keys(byMethod)), ", "))
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// Handler registers h on every path from [Handler.Routes], for any method.
func (r *BasicRouter) Handler(h Handler) {
	wrapped := r.Apply(h)
	for _, route := range h.Routes() {
		r.mux.Handle(route, wrapped)
	}
}

// ServeHTTP implements [http.Handler] for the entire router.
func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Apply wraps handler with the registered middleware, the first added being outermost.
func (r *BasicRouter) Apply(handler http.Handler) http.Handler {
	for _, mw := range slices.Backward(r.middlewares) {
		handler = mw(handler)
	}
	return handler
}
