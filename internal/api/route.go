package api

import "net/http"

// routeInfo holds a registered route: its dispatch handler plus the
// explicit descriptor used for OpenAPI generation.
type routeInfo struct {
	method  string
	pattern string
	status  int
	hidden  bool

	summary     string
	desc        string
	tags        []string
	operationID string
	deprecated  bool
	errors      []int

	params   []Parameter
	body     *JSONSchema
	response *JSONSchema

	bodyLimit int64

	handler http.Handler
}

// Parameter describes a single operation parameter.
type Parameter struct {
	Name        string     `json:"name" yaml:"name"`
	In          string     `json:"in" yaml:"in"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool       `json:"required,omitempty" yaml:"required,omitempty"`
	Schema      JSONSchema `json:"schema" yaml:"schema"`
}

// PathParam declares a path parameter. Path parameters are always required.
func PathParam(name string, s JSONSchema) Parameter {
	return Parameter{Name: name, In: "path", Required: true, Schema: s}
}

// QueryParam declares a required query parameter.
func QueryParam(name string, s JSONSchema) Parameter {
	return Parameter{Name: name, In: "query", Required: true, Schema: s}
}

// OptionalQueryParam declares a query parameter that may be omitted.
func OptionalQueryParam(name string, s JSONSchema) Parameter {
	return Parameter{Name: name, In: "query", Schema: s}
}

// Describe returns a copy of p with the description set.
func (p Parameter) Describe(desc string) Parameter {
	p.Description = desc
	return p
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

// WithOperationID sets the OpenAPI operationId.
func WithOperationID(id string) RouteOption {
	return func(ri *routeInfo) {
		ri.operationID = id
	}
}

// WithDeprecated marks the route as deprecated in the OpenAPI spec.
func WithDeprecated() RouteOption {
	return func(ri *routeInfo) {
		ri.deprecated = true
	}
}

// WithErrors declares HTTP error status codes for the OpenAPI spec.
func WithErrors(codes ...int) RouteOption {
	return func(ri *routeInfo) {
		ri.errors = append(ri.errors, codes...)
	}
}

// WithParams declares the route's path and query parameters.
func WithParams(params ...Parameter) RouteOption {
	return func(ri *routeInfo) {
		ri.params = append(ri.params, params...)
	}
}

// WithRequestBody declares the JSON request body schema.
func WithRequestBody(s JSONSchema) RouteOption {
	return func(ri *routeInfo) {
		ri.body = &s
	}
}

// WithResponse declares the JSON schema of the success response.
func WithResponse(s JSONSchema) RouteOption {
	return func(ri *routeInfo) {
		ri.response = &s
	}
}

// WithHidden leaves the route out of the OpenAPI document. The route is
// still served.
func WithHidden() RouteOption {
	return func(ri *routeInfo) {
		ri.hidden = true
	}
}

// WithBodyLimit sets a per-route maximum request body size in bytes.
func WithBodyLimit(maxBytes int64) RouteOption {
	return func(ri *routeInfo) {
		ri.bodyLimit = maxBytes
	}
}
