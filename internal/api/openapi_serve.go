package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"gopkg.in/yaml.v3"
)

// ServeSpec registers a GET handler at the given path that serves
// the OpenAPI document as JSON. The route itself is not part of the document.
func (r *Router) ServeSpec(pattern string) {
	r.mux.HandleFunc("GET "+pattern, func(w http.ResponseWriter, _ *http.Request) {
		data, err := json.Marshal(r.Spec())
		if err != nil {
			writeErrorResponse(w, Errorf(http.StatusInternalServerError, "encode spec: %w", err))
			return
		}
		w.Header().Set("Content-Type", contentTypeJSON)
		//nolint:errcheck,gosec // best-effort write
		w.Write(data)
	})
}

// ServeSpecYAML registers a GET handler at the given path that serves
// the OpenAPI spec as YAML.
func (r *Router) ServeSpecYAML(pattern string) {
	r.mux.HandleFunc("GET "+pattern, func(w http.ResponseWriter, _ *http.Request) {
		data, err := yaml.Marshal(r.Spec())
		if err != nil {
			writeErrorResponse(w, Errorf(http.StatusInternalServerError, "encode spec: %w", err))
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		//nolint:errcheck,gosec // best-effort write
		w.Write(data)
	})
}

// WriteSpec writes the OpenAPI spec as indented JSON to w.
func (r *Router) WriteSpec(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r.Spec()); err != nil {
		return fmt.Errorf("write spec: %w", err)
	}
	return nil
}

// WriteSpecYAML writes the OpenAPI spec as YAML to w.
func (r *Router) WriteSpecYAML(w io.Writer) error {
	data, err := yaml.Marshal(r.Spec())
	if err != nil {
		return fmt.Errorf("write spec: %w", err)
	}
	_, err = w.Write(data)
	return err
}
