package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// requestCategory describes how a request type should be decoded.
type requestCategory int

const (
	catVoid   requestCategory = iota // Void: no params, no body
	catBody                          // entire struct is the JSON body
	catParams                        // path/query tagged fields only
)

// paramTags are the struct tags used for binding request parameters.
var paramTags = []string{"path", "query"}

// classifyRequest determines how a request type should be decoded.
func classifyRequest(t reflect.Type) requestCategory {
	if t == reflect.TypeFor[Void]() {
		return catVoid
	}
	if hasParamTags(t) {
		return catParams
	}
	return catBody
}

// decodeRequest creates a new Req value and populates it from the HTTP request.
func decodeRequest[Req any](r *http.Request) (*Req, error) {
	req := new(Req)

	//exhaustive:ignore
	switch classifyRequest(reflect.TypeFor[Req]()) {
	case catParams:
		if err := bindParams(req, r); err != nil {
			return nil, err
		}
	case catBody:
		if err := decodeBody(r, req); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBindBody, err)
		}
	}

	return req, nil
}

// bindParams binds path and query values to tagged struct fields. Absent
// values fall back to a default tag; without one, a non-pointer field is
// reported as missing and a pointer field stays nil.
func bindParams(target any, r *http.Request) error {
	v := reflect.ValueOf(target).Elem()
	t := v.Type()
	query := r.URL.Query()

	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		field := v.Field(i)

		if name := f.Tag.Get("path"); name != "" {
			val := r.PathValue(name)
			if val == "" {
				return fmt.Errorf("%w: %s: %w", ErrBindPath, name, ErrMissing)
			}
			if err := setFieldValue(field, val); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrBindPath, name, err)
			}
			continue
		}

		name := f.Tag.Get("query")
		if name == "" {
			continue
		}

		val, ok := query[name]
		switch {
		case ok:
			if err := setFieldValue(field, val[0]); err != nil {
				return fmt.Errorf("%w: %s: %w", ErrBindQuery, name, err)
			}
		case f.Tag.Get("default") != "":
			if err := setFieldValue(field, f.Tag.Get("default")); err != nil {
				return fmt.Errorf("%w: %s: default: %w", ErrBindQuery, name, err)
			}
		case f.Type.Kind() != reflect.Pointer:
			return fmt.Errorf("%w: %s: %w", ErrBindQuery, name, ErrMissing)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value from a string, supporting common
// scalar types and pointers to them.
func setFieldValue(field reflect.Value, value string) error {
	if field.Kind() == reflect.Pointer {
		elem := reflect.New(field.Type().Elem())
		if err := setFieldValue(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	if field.Type() == reflect.TypeFor[time.Duration]() {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(d))
		return nil
	}

	//exhaustive:ignore
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported type: %s", field.Type())
	}
	return nil
}

// decodeBody decodes the request body as JSON into target. For struct
// targets, keys that only case-fold to a field name are ignored, and every
// required field must be present and non-null.
func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return ErrEmptyBody
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyBody
	}

	t := reflect.TypeOf(target).Elem()
	if t.Kind() != reflect.Struct {
		return json.Unmarshal(data, target)
	}

	var present map[string]json.RawMessage
	if err := json.Unmarshal(data, &present); err != nil {
		return err
	}
	if dropFoldedKeys(present, t) {
		if data, err = json.Marshal(present); err != nil {
			return err
		}
	}
	if err := json.Unmarshal(data, target); err != nil {
		return err
	}
	return checkRequired(present, t)
}

// dropFoldedKeys removes keys that match a field of t only case-insensitively.
// encoding/json would otherwise let them overwrite the exact key. It reports
// whether anything was removed.
func dropFoldedKeys(present map[string]json.RawMessage, t reflect.Type) bool {
	names := make(map[string]bool, t.NumField())
	for i := range t.NumField() {
		if name, ok := jsonFieldName(t.Field(i)); ok {
			names[name] = true
		}
	}

	dropped := false
	for key := range present {
		if names[key] {
			continue
		}
		for name := range names {
			if strings.EqualFold(key, name) {
				delete(present, key)
				dropped = true
				break
			}
		}
	}
	return dropped
}

// checkRequired reports the first non-pointer field of t whose JSON key is
// absent or null in present. json.Unmarshal accepts both silently.
func checkRequired(present map[string]json.RawMessage, t reflect.Type) error {
	for i := range t.NumField() {
		f := t.Field(i)
		if f.Type.Kind() == reflect.Pointer {
			continue
		}
		name, ok := jsonFieldName(f)
		if !ok || tagContains(jsonTagOptions(f), "omitempty") {
			continue
		}
		raw, found := present[name]
		if !found || string(bytes.TrimSpace(raw)) == "null" {
			return fmt.Errorf("%s: %w", name, ErrMissing)
		}
	}
	return nil
}

// jsonFieldName returns the JSON key of an exported field, or false when
// the field is unexported or skipped with "-".
func jsonFieldName(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", false
	}
	name, _ := tagOptions(f.Tag.Get("json"))
	switch name {
	case "-":
		return "", false
	case "":
		return f.Name, true
	default:
		return name, true
	}
}

func jsonTagOptions(f reflect.StructField) string {
	_, opts := tagOptions(f.Tag.Get("json"))
	return opts
}

// hasParamTags reports whether the given type has any fields with
// parameter binding tags.
func hasParamTags(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		for _, tag := range paramTags {
			if f.Tag.Get(tag) != "" {
				return true
			}
		}
	}
	return false
}

// tagOptions splits a struct tag value on comma and returns
// the name and remaining options.
func tagOptions(tag string) (string, string) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, opts
}

// tagContains reports whether a comma-separated list of options
// contains a particular option.
func tagContains(opts string, name string) bool {
	for opts != "" {
		var opt string
		opt, opts, _ = strings.Cut(opts, ",")
		if opt == name {
			return true
		}
	}
	return false
}
