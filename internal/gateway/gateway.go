// Package gateway is the API Gateway Stub: a fixed route table over User
// and Post records whose handlers return constants or echo their input.
//
// The route table is the same in every build. A Mode picks what is mounted
// next to it: nothing (Plain) or the OpenAPI document and the Swagger UI
// (Documented).
package gateway

import (
	"fmt"

	"github.com/bjaus/stubapi/internal/api"
)

// Fixed documentation paths.
const (
	SpecPath     = "/openapi.json"
	SpecYAMLPath = "/openapi.yaml"
	DocsPath     = "/swagger/"
)

// Title is the info.title of the schema document.
const Title = "stubapi"

// Mode selects the registration strategy.
type Mode int

const (
	// Plain registers the routes only.
	Plain Mode = iota
	// Documented also publishes the schema document and documentation browser.
	Documented
)

// String returns "plain" or "documented".
func (m Mode) String() string {
	switch m {
	case Plain:
		return "plain"
	case Documented:
		return "documented"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// strategy mounts what a mode publishes beyond the route table.
type strategy interface {
	mount(r *api.Router)
}

type plainStrategy struct{}

func (plainStrategy) mount(*api.Router) {}

type documentedStrategy struct{}

func (documentedStrategy) mount(r *api.Router) {
	r.ServeSpec(SpecPath)
	r.ServeSpecYAML(SpecYAMLPath)
	r.ServeDocs(DocsPath, api.WithDocsSpecURL(".."+SpecPath))
}

func (m Mode) strategy() strategy {
	if m == Documented {
		return documentedStrategy{}
	}
	return plainStrategy{}
}

// Option configures New.
type Option func(*options)

type options struct {
	mode    Mode
	version string
	router  []api.RouterOption
}

// WithMode sets the registration strategy. The default is Plain.
func WithMode(m Mode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithVersion sets the info.version of the schema document.
func WithVersion(v string) Option {
	return func(o *options) {
		o.version = v
	}
}

// WithRouterOptions passes extra options to the underlying router.
func WithRouterOptions(opts ...api.RouterOption) Option {
	return func(o *options) {
		o.router = append(o.router, opts...)
	}
}

// New builds the router: the route table, then whatever the mode mounts.
func New(opts ...Option) *api.Router {
	o := options{version: "0.1.0"}
	for _, opt := range opts {
		opt(&o)
	}

	routerOpts := append([]api.RouterOption{
		api.WithTitle(Title),
		api.WithVersion(o.version),
	}, schemaOptions()...)
	r := api.New(append(routerOpts, o.router...)...)

	Routes(r)
	o.mode.strategy().mount(r)
	return r
}
