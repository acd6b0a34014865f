package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bjaus/stubapi/internal/api"
	"github.com/bjaus/stubapi/internal/config"
	"github.com/bjaus/stubapi/internal/gateway"
)

func mustRouter(t *testing.T, cfg config.Config, logger *slog.Logger, mode gateway.Mode) *api.Router {
	t.Helper()
	r, err := newRouter(cfg, logger, mode)
	require.NoError(t, err)
	return r
}

func TestNewRouter(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	r := mustRouter(t, cfg, slog.New(slog.DiscardHandler), gateway.Documented)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, cfg.Metrics.Path, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `stubapi_http_requests_total{method="GET",route="GET /user",status="200"} 1`)

	spec := r.Spec()
	assert.NotContains(t, spec.Paths, cfg.Metrics.Path)
	assert.NotContains(t, spec.Paths, "/hidden")
	assert.Equal(t, version, spec.Info.Version)
}

func TestNewRouter_optional_middleware(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Metrics.Enabled = false
	cfg.CORS.Origins = []string{"https://a.example"}
	cfg.RateLimit.RPS = 1
	cfg.RateLimit.Burst = 1

	r := mustRouter(t, cfg, slog.New(slog.DiscardHandler), gateway.Plain)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/user", bytes.NewBufferString(`{"userId":1,"username":"a","email":null}`))
	req.Header.Set("Origin", "https://a.example")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "the 404 above spent the only token")
	assert.Equal(t, "https://a.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRouter_profiling(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		enabled    bool
		wantStatus int
	}{
		"disabled": {enabled: false, wantStatus: http.StatusNotFound},
		"enabled":  {enabled: true, wantStatus: http.StatusOK},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			cfg.Profiling.Enabled = tc.enabled
			r := mustRouter(t, cfg, slog.New(slog.DiscardHandler), gateway.Documented)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/goroutine", nil))
			assert.Equal(t, tc.wantStatus, rec.Code)

			for path := range r.Spec().Paths {
				assert.NotContains(t, path, "/debug/pprof")
			}
		})
	}
}

func TestNewRouter_body_limit(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Server.MaxBodyBytes = 8

	r := mustRouter(t, cfg, slog.New(slog.DiscardHandler), gateway.Plain)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/user", bytes.NewBufferString(`{"userId":1,"username":"a","email":null}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestNewRouter_panic_is_logged_with_request_id(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	r := mustRouter(t, config.Default(), logger, gateway.Plain)
	api.Get(r, "/boom", func(context.Context, *api.Void) (*api.Void, error) {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(api.RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "abc", rec.Header().Get(api.RequestIDHeader))

	entries := map[string]map[string]any{}
	for line := range bytes.Lines(buf.Bytes()) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		msg, _ := entry["msg"].(string)
		entries[msg] = entry
	}

	require.Contains(t, entries, "panic recovered")
	assert.Equal(t, "abc", entries["panic recovered"]["request_id"])
	require.Contains(t, entries, "request")
	assert.Equal(t, "abc", entries["request"]["request_id"])
	assert.InDelta(t, http.StatusInternalServerError, entries["request"]["status"], 0)
}

func TestNewRouter_path_collisions(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mode    gateway.Mode
		setup   func(cfg *config.Config)
		wantErr string
	}{
		"metrics on a gateway route": {
			mode:    gateway.Plain,
			setup:   func(cfg *config.Config) { cfg.Metrics.Path = "/user" },
			wantErr: "metrics.path",
		},
		"metrics on the schema document": {
			mode:    gateway.Documented,
			setup:   func(cfg *config.Config) { cfg.Metrics.Path = gateway.SpecPath },
			wantErr: "metrics.path",
		},
		"metrics inside profiling": {
			mode: gateway.Plain,
			setup: func(cfg *config.Config) {
				cfg.Profiling.Enabled = true
				cfg.Metrics.Path = "/debug/pprof/heap"
			},
			wantErr: "metrics.path",
		},
		"profiling path is not a pattern": {
			mode: gateway.Plain,
			setup: func(cfg *config.Config) {
				cfg.Profiling.Enabled = true
				cfg.Profiling.Path = "/debug/{pprof"
			},
			wantErr: "profiling.path",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tc.setup(&cfg)

			_, err := newRouter(cfg, slog.New(slog.DiscardHandler), tc.mode)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestNewRouter_schema_path_free_in_plain_mode(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Metrics.Path = gateway.SpecPath
	r := mustRouter(t, cfg, slog.New(slog.DiscardHandler), gateway.Plain)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, gateway.SpecPath, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestWriteSpec(t *testing.T) {
	t.Parallel()

	r := mustRouter(t, config.Default(), slog.New(slog.DiscardHandler), gateway.Documented)

	t.Run("json to stdout", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		require.NoError(t, writeSpec(r, gateway.Documented, "", false, &out))

		var doc map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
		assert.Equal(t, "3.1.0", doc["openapi"])
	})

	t.Run("yaml to file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "api.yaml")
		var out bytes.Buffer
		require.NoError(t, writeSpec(r, gateway.Documented, path, true, &out))
		assert.Zero(t, out.Len())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var doc map[string]any
		require.NoError(t, yaml.Unmarshal(data, &doc))
		assert.Contains(t, doc, "paths")
	})

	t.Run("plain mode", func(t *testing.T) {
		t.Parallel()

		err := writeSpec(r, gateway.Plain, "", false, &bytes.Buffer{})
		assert.ErrorIs(t, err, errSpecDisabled)
	})
}

func TestRun_exit_codes(t *testing.T) {
	t.Parallel()

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	busyPort := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)

	tests := map[string]struct {
		args []string
		env  map[string]string
		want int
	}{
		"help":        {args: []string{"-h"}, want: 0},
		"bad config":  {env: map[string]string{"STUBAPI_PORT": "0"}, want: 2},
		"bad flag":    {args: []string{"-nope"}, want: 2},
		"port in use": {env: map[string]string{"STUBAPI_PORT": busyPort}, want: 1},
		"metrics path collision": {env: map[string]string{"STUBAPI_METRICS_PATH": "/user"}, want: 2},
	}
	if buildMode == gateway.Plain {
		tests["spec in plain build"] = struct {
			args []string
			env  map[string]string
			want int
		}{args: []string{"-spec"}, want: 1}
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			getenv := func(k string) string { return tc.env[k] }
			var stdout, stderr bytes.Buffer
			got := run(context.Background(), tc.args, getenv, &stdout, &stderr)
			assert.Equal(t, tc.want, got, "stdout: %s\nstderr: %s", stdout.String(), stderr.String())
		})
	}
}
