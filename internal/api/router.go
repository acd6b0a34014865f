package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"
)

// Router is the central type that holds routes, middleware, and the
// metadata of the OpenAPI document. It implements http.Handler.
type Router struct {
	mux        *http.ServeMux
	middleware []Middleware
	routes     []routeInfo

	title    string
	version  string
	desc     string
	tagDescs map[string]string
	schemas  map[string]JSONSchema

	errorHandler ErrorHandler

	mu sync.Mutex
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithTitle sets the API title (used in OpenAPI spec).
func WithTitle(title string) RouterOption {
	return func(r *Router) {
		r.title = title
	}
}

// WithVersion sets the API version (used in OpenAPI spec).
func WithVersion(version string) RouterOption {
	return func(r *Router) {
		r.version = version
	}
}

// WithAPIDescription sets the info.description of the OpenAPI spec.
func WithAPIDescription(desc string) RouterOption {
	return func(r *Router) {
		r.desc = desc
	}
}

// WithTagDescriptions sets tag descriptions for the OpenAPI spec.
func WithTagDescriptions(descs map[string]string) RouterOption {
	return func(r *Router) {
		r.tagDescs = descs
	}
}

// WithSchema declares a named component schema. Routes point at it with Ref.
func WithSchema(name string, s JSONSchema) RouterOption {
	return func(r *Router) {
		if r.schemas == nil {
			r.schemas = make(map[string]JSONSchema)
		}
		r.schemas[name] = s
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

// New creates a new Router with the given options.
func New(opts ...RouterOption) *Router {
	r := &Router{
		mux: http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

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

// ServerOption configures the http.Server started by ListenAndServe and Serve.
type ServerOption func(*serverConfig)

type serverConfig struct {
	readHeaderTimeout time.Duration
	shutdownTimeout   time.Duration
}

// WithReadHeaderTimeout bounds the time allowed to read request headers.
func WithReadHeaderTimeout(d time.Duration) ServerOption {
	return func(c *serverConfig) {
		c.readHeaderTimeout = d
	}
}

// WithShutdownTimeout bounds how long graceful shutdown waits for
// in-flight requests.
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(c *serverConfig) {
		c.shutdownTimeout = d
	}
}

// ListenAndServe binds addr and serves until ctx is cancelled. A bind
// failure is returned immediately.
func (r *Router) ListenAndServe(ctx context.Context, addr string, opts ...ServerOption) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	return r.Serve(ctx, ln, opts...)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (r *Router) Serve(ctx context.Context, ln net.Listener, opts ...ServerOption) error {
	cfg := serverConfig{
		readHeaderTimeout: 10 * time.Second,
		shutdownTimeout:   30 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	srv := &http.Server{
		Handler:           r,
		ReadHeaderTimeout: cfg.readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// addRoute registers a routeInfo with the router's mux and stores it
// for OpenAPI generation.
func (r *Router) addRoute(ri routeInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.mux.Handle(ri.method+" "+ri.pattern, ri.handler)
	r.routes = append(r.routes, ri)
}

// snapshot returns a copy of the registered routes.
func (r *Router) snapshot() []routeInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]routeInfo(nil), r.routes...)
}
