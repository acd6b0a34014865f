package api

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
)

// DocsOption configures the docs UI.
type DocsOption func(*docsConfig)

type docsConfig struct {
	title   string
	specURL string
}

// WithDocsTitle sets the page title for the docs UI.
func WithDocsTitle(title string) DocsOption {
	return func(c *docsConfig) {
		c.title = title
	}
}

// WithDocsSpecURL sets the schema document URL, relative to the docs page.
func WithDocsSpecURL(url string) DocsOption {
	return func(c *docsConfig) {
		c.specURL = url
	}
}

// swaggerUIConfig is the configuration object Swagger UI loads at startup.
type swaggerUIConfig struct {
	URL                      string `json:"url"`
	DeepLinking              bool   `json:"deepLinking"`
	DisplayOperationID       bool   `json:"displayOperationId"`
	DefaultModelsExpandDepth int    `json:"defaultModelsExpandDepth"`
	DocExpansion             string `json:"docExpansion"`
	Filter                   bool   `json:"filter"`
	ShowExtensions           bool   `json:"showExtensions"`
}

// ServeDocs mounts a Swagger UI documentation browser under prefix, which
// must end in a slash. The page loads the schema document from
// "../openapi.json" unless WithDocsSpecURL says otherwise. Requests for the
// prefix without its trailing slash are redirected.
func (r *Router) ServeDocs(prefix string, opts ...DocsOption) {
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	cfg := &docsConfig{
		title:   r.title,
		specURL: "../openapi.json",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	tmpl := template.Must(template.New("docs").Parse(docsHTML))
	index := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		//nolint:errcheck,gosec // best-effort template render
		tmpl.Execute(w, cfg)
	}

	uiConfig, err := json.Marshal(swaggerUIConfig{
		URL:                      cfg.specURL,
		DeepLinking:              true,
		DefaultModelsExpandDepth: 1,
		DocExpansion:             "list",
	})
	if err != nil {
		panic("api: encode swagger-ui config: " + err.Error())
	}

	r.mux.HandleFunc("GET "+prefix+"{$}", index)
	r.mux.HandleFunc("GET "+prefix+"index.html", index)
	r.mux.HandleFunc("GET "+prefix+"swagger-ui-config.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentTypeJSON)
		//nolint:errcheck,gosec // best-effort write
		w.Write(uiConfig)
	})
	r.mux.Handle("GET "+strings.TrimSuffix(prefix, "/"), http.RedirectHandler(prefix, http.StatusMovedPermanently))
}

const docsHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui" data-spec-url="{{.SpecURL}}"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function () {
      var el = document.getElementById("swagger-ui");
      window.ui = SwaggerUIBundle({
        url: el.dataset.specUrl,
        configUrl: "swagger-ui-config.json",
        dom_id: "#swagger-ui",
      });
    };
  </script>
</body>
</html>`

// Title returns the docs config title (used in the template).
func (c *docsConfig) Title() string { return c.title }

// SpecURL returns the docs config spec URL (used in the template).
func (c *docsConfig) SpecURL() string { return c.specURL }
