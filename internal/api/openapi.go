package api

import (
	"net/http"
	"strconv"
	"strings"
)

// OpenAPIVersion is the version of the generated documents.
const OpenAPIVersion = "3.1.0"

// problemSchemaName is the component every declared error response refers to.
const problemSchemaName = "ProblemDetail"

// OpenAPISpec is the top-level OpenAPI 3.1 document.
type OpenAPISpec struct {
	OpenAPI    string              `json:"openapi" yaml:"openapi"`
	Info       OpenAPIInfo         `json:"info" yaml:"info"`
	Tags       []Tag               `json:"tags,omitempty" yaml:"tags,omitempty"`
	Paths      map[string]PathItem `json:"paths" yaml:"paths"`
	Components *Components         `json:"components,omitempty" yaml:"components,omitempty"`
}

// OpenAPIInfo holds API metadata.
type OpenAPIInfo struct {
	Title       string `json:"title" yaml:"title"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Tag groups operations in documentation browsers.
type Tag struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Components holds reusable schemas.
type Components struct {
	Schemas map[string]JSONSchema `json:"schemas,omitempty" yaml:"schemas,omitempty"`
}

// PathItem maps lower-case HTTP methods to operations.
type PathItem map[string]Operation

// Operation describes a single API operation on a path.
type Operation struct {
	Summary     string        `json:"summary,omitempty" yaml:"summary,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
	OperationID string        `json:"operationId,omitempty" yaml:"operationId,omitempty"`
	Parameters  []Parameter   `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	RequestBody *RequestBody  `json:"requestBody,omitempty" yaml:"requestBody,omitempty"`
	Responses   OperationResp `json:"responses" yaml:"responses"`
	Deprecated  bool          `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// RequestBody describes the request body.
type RequestBody struct {
	Required bool                `json:"required" yaml:"required"`
	Content  map[string]MediaObj `json:"content" yaml:"content"`
}

// MediaObj is a media type object with an optional schema.
type MediaObj struct {
	Schema *JSONSchema `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// OperationResp maps HTTP status codes to response objects.
type OperationResp map[string]ResponseObj

// ResponseObj describes a single response.
type ResponseObj struct {
	Description string              `json:"description" yaml:"description"`
	Content     map[string]MediaObj `json:"content,omitempty" yaml:"content,omitempty"`
}

// Spec assembles the OpenAPI document from the registered route
// descriptors. Hidden routes are skipped.
func (r *Router) Spec() OpenAPISpec {
	spec := OpenAPISpec{
		OpenAPI: OpenAPIVersion,
		Info: OpenAPIInfo{
			Title:       r.title,
			Version:     r.version,
			Description: r.desc,
		},
		Paths: make(map[string]PathItem),
	}

	schemas := make(map[string]JSONSchema, len(r.schemas)+1)
	for name, s := range r.schemas {
		schemas[name] = s
	}

	seenTags := make(map[string]bool)
	for _, ri := range r.snapshot() {
		if ri.hidden {
			continue
		}

		op := buildOperation(&ri)
		if hasErrorResponses(op) {
			schemas[problemSchemaName] = problemSchema()
		}

		path := toOpenAPIPath(ri.pattern)
		if spec.Paths[path] == nil {
			spec.Paths[path] = make(PathItem)
		}
		spec.Paths[path][strings.ToLower(ri.method)] = op

		for _, tag := range ri.tags {
			if seenTags[tag] {
				continue
			}
			seenTags[tag] = true
			spec.Tags = append(spec.Tags, Tag{Name: tag, Description: r.tagDescs[tag]})
		}
	}

	if len(schemas) > 0 {
		spec.Components = &Components{Schemas: schemas}
	}

	return spec
}

// buildOperation creates an Operation from a route descriptor. Routes that
// bind parameters or a body implicitly declare 400.
func buildOperation(ri *routeInfo) Operation {
	op := Operation{
		Summary:     ri.summary,
		Description: ri.desc,
		Tags:        ri.tags,
		OperationID: ri.operationID,
		Parameters:  ri.params,
		Deprecated:  ri.deprecated,
		Responses:   make(OperationResp),
	}

	if ri.body != nil {
		op.RequestBody = &RequestBody{
			Required: true,
			Content: map[string]MediaObj{
				contentTypeJSON: {Schema: ri.body},
			},
		}
	}

	status := ri.status
	if status == 0 {
		status = http.StatusOK
	}

	if ri.response == nil || status == http.StatusNoContent {
		op.Responses[strconv.Itoa(status)] = ResponseObj{Description: "No content"}
	} else {
		op.Responses[strconv.Itoa(status)] = ResponseObj{
			Description: "Successful response",
			Content: map[string]MediaObj{
				contentTypeJSON: {Schema: ri.response},
			},
		}
	}

	codes := ri.errors
	if len(ri.params) > 0 || ri.body != nil {
		codes = append([]int{http.StatusBadRequest}, codes...)
	}
	for _, code := range codes {
		op.Responses[strconv.Itoa(code)] = ResponseObj{
			Description: http.StatusText(code),
			Content: map[string]MediaObj{
				contentTypeProblem: {Schema: ptr(Ref(problemSchemaName))},
			},
		}
	}

	return op
}

func hasErrorResponses(op Operation) bool {
	for code := range op.Responses {
		if n, err := strconv.Atoi(code); err == nil && n >= http.StatusBadRequest {
			return true
		}
	}
	return false
}

// problemSchema describes ProblemDetail.
func problemSchema() JSONSchema {
	return Object(
		Field("status", Integer(FormatInt32)),
		OptionalField("type", String()),
		OptionalField("title", String()),
		OptionalField("detail", String()),
		OptionalField("instance", String()),
	)
}

// toOpenAPIPath converts a ServeMux pattern to an OpenAPI path: wildcard
// suffixes and the {$} anchor are dropped.
func toOpenAPIPath(pattern string) string {
	path := strings.ReplaceAll(pattern, "...", "")
	return strings.TrimSuffix(path, "{$}")
}
