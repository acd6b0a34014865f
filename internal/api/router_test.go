package api_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/stubapi/internal/api"
)

func TestRouter_middleware_order(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) api.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := api.New()
	r.Use(mark("first"), mark("second"))
	r.Use(mark("third"))
	api.Get(r, "/", func(_ context.Context, _ *api.Void) (*api.Void, error) {
		order = append(order, "handler")
		return &api.Void{}, nil
	})

	rec := serve(r, newRequest(t, http.MethodGet, "/"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"first", "second", "third", "handler"}, order)
}

func TestRouter_method_not_allowed(t *testing.T) {
	t.Parallel()

	r := api.New()
	api.Get(r, "/items", func(_ context.Context, _ *api.Void) (*[]string, error) {
		return &[]string{}, nil
	})

	rec := serve(r, newRequest(t, http.MethodPut, "/items"))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_handler_errors(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err        error
		wantStatus int
		wantDetail string
	}{
		"http error": {
			err:        api.Error(http.StatusConflict, "already exists"),
			wantStatus: http.StatusConflict,
			wantDetail: "already exists",
		},
		"problem detail": {
			err:        &api.ProblemDetail{Status: http.StatusTeapot, Title: "teapot", Detail: "short and stout"},
			wantStatus: http.StatusTeapot,
			wantDetail: "short and stout",
		},
		"plain error": {
			err:        errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "db down",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := api.New()
			api.Get(r, "/", func(_ context.Context, _ *api.Void) (*api.Void, error) {
				return nil, tc.err
			})

			rec := serve(r, newRequest(t, http.MethodGet, "/"))
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tc.wantDetail)
		})
	}
}

func TestRouter_status_override(t *testing.T) {
	t.Parallel()

	r := api.New()
	api.Post(r, "/items", func(_ context.Context, req *item) (*item, error) {
		return req, nil
	}, api.WithStatus(http.StatusCreated))

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, "/items", stringsReader(`{"id":1}`))
	require.NoError(t, err)
	rec := serve(r, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"label":null}`, rec.Body.String())
}

func TestRouter_Serve_graceful_shutdown(t *testing.T) {
	t.Parallel()

	r := api.New()
	api.Get(r, "/ping", func(_ context.Context, _ *api.Void) (*string, error) {
		s := "pong"
		return &s, nil
	})

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Serve(ctx, ln, api.WithShutdownTimeout(5*time.Second))
	}()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, "http://"+ln.Addr().String()+"/ping", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `"pong"`, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRouter_ListenAndServe_bind_error(t *testing.T) {
	t.Parallel()

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	err = api.New().ListenAndServe(context.Background(), ln.Addr().String())
	require.Error(t, err)

	var opErr *net.OpError
	assert.ErrorAs(t, err, &opErr)
}

func TestMount(t *testing.T) {
	t.Parallel()

	ok := func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

	tests := map[string]struct {
		pattern string
		wantErr bool
	}{
		"free path":          {pattern: "/status"},
		"duplicate of route": {pattern: "/items", wantErr: true},
		"invalid pattern":    {pattern: "/bad/{x", wantErr: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			r := api.New()
			api.Get(r, "/items", func(_ context.Context, _ *api.Void) (*api.Void, error) {
				return &api.Void{}, nil
			})

			err := api.Mount(r, http.MethodGet, tc.pattern, ok, api.WithHidden())
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorContains(t, err, tc.pattern)
				assert.Len(t, r.Spec().Paths, 1)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, serve(r, newRequest(t, http.MethodGet, tc.pattern)).Code)
			assert.NotContains(t, r.Spec().Paths, tc.pattern)
		})
	}
}

func TestProfiling(t *testing.T) {
	t.Parallel()

	r := api.New()
	require.NoError(t, api.Profiling(r, ""))

	rec := serve(r, newRequest(t, http.MethodGet, api.DefaultProfilingPrefix+"/goroutine?debug=1"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, r.Spec().Paths)

	require.Error(t, api.Profiling(r, ""), "mounting twice collides")
}
