package api

// Integer formats understood by documentation tooling.
const (
	FormatInt32  = "int32"
	FormatInt64  = "int64"
	FormatUint64 = "uint64"
)

// JSONSchema represents a JSON Schema object (subset for OpenAPI 3.1).
// Schemas are declared explicitly with the constructors below.
type JSONSchema struct {
	Ref         string                `json:"$ref,omitempty" yaml:"$ref,omitempty"`
	Type        any                   `json:"type,omitempty" yaml:"type,omitempty"` // string or []string
	Format      string                `json:"format,omitempty" yaml:"format,omitempty"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Properties  map[string]JSONSchema `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required    []string              `json:"required,omitempty" yaml:"required,omitempty"`
	Items       *JSONSchema           `json:"items,omitempty" yaml:"items,omitempty"`
	MinItems    *int                  `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems    *int                  `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	Minimum     *float64              `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Example     any                   `json:"example,omitempty" yaml:"example,omitempty"`
}

// Property is a named member of an object schema.
type Property struct {
	Name     string
	Schema   JSONSchema
	Optional bool
}

// String returns a string schema.
func String() JSONSchema {
	return JSONSchema{Type: "string"}
}

// Integer returns an integer schema with the given format. Unsigned
// formats get a minimum of zero.
func Integer(format string) JSONSchema {
	s := JSONSchema{Type: "integer", Format: format}
	if format == FormatUint64 {
		s.Minimum = ptr(0.0)
	}
	return s
}

// Array returns an array schema of items.
func Array(items JSONSchema) JSONSchema {
	return JSONSchema{Type: "array", Items: &items}
}

// FixedArray returns an array schema holding exactly n items.
func FixedArray(items JSONSchema, n int) JSONSchema {
	s := Array(items)
	s.MinItems = ptr(n)
	s.MaxItems = ptr(n)
	return s
}

// Ref returns a reference to a named component schema.
func Ref(name string) JSONSchema {
	return JSONSchema{Ref: componentRef(name)}
}

// Field declares a required object property.
func Field(name string, s JSONSchema) Property {
	return Property{Name: name, Schema: s}
}

// OptionalField declares an object property that may be null.
func OptionalField(name string, s JSONSchema) Property {
	return Property{Name: name, Schema: Nullable(s), Optional: true}
}

// Object returns an object schema. Required properties are listed in
// declaration order.
func Object(props ...Property) JSONSchema {
	s := JSONSchema{Type: "object", Properties: make(map[string]JSONSchema, len(props))}
	for _, p := range props {
		s.Properties[p.Name] = p.Schema
		if !p.Optional {
			s.Required = append(s.Required, p.Name)
		}
	}
	return s
}

// Nullable widens a typed schema to also accept null.
func Nullable(s JSONSchema) JSONSchema {
	if t, ok := s.Type.(string); ok && t != "" {
		s.Type = []string{t, "null"}
	}
	return s
}

// Describe returns a copy of s with the description set.
func (s JSONSchema) Describe(desc string) JSONSchema {
	s.Description = desc
	return s
}

// WithExample returns a copy of s with the example set.
func (s JSONSchema) WithExample(v any) JSONSchema {
	s.Example = v
	return s
}

func componentRef(name string) string {
	return "#/components/schemas/" + name
}

func ptr[T any](v T) *T { return &v }
