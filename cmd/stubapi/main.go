// Command stubapi serves the user and post stub API.
//
// Build variants:
//
//	go build ./cmd/stubapi                 # plain: routes only
//	go build -tags swagger ./cmd/stubapi   # documented: adds /openapi.json,
//	                                       # /openapi.yaml and /swagger/
//
// In a documented build the schema document can be written without
// starting the server:
//
//	stubapi -spec                  # JSON to stdout
//	stubapi -spec -yaml -o api.yaml
//
// Configuration comes from STUBAPI_* environment variables and an optional
// YAML file (STUBAPI_CONFIG or -config); see package config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bjaus/stubapi/internal/api"
	"github.com/bjaus/stubapi/internal/config"
	"github.com/bjaus/stubapi/internal/gateway"
	"github.com/bjaus/stubapi/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	parsed, err := config.Load(args, getenv, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		//nolint:errcheck // best-effort diagnostics
		fmt.Fprintf(stderr, "stubapi: %v\n", err)
		return 2
	}
	cfg := parsed.Config

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, stdout)
	slog.SetDefault(logger)

	r, err := newRouter(cfg, logger, buildMode)
	if err != nil {
		//nolint:errcheck // best-effort diagnostics
		fmt.Fprintf(stderr, "stubapi: %v\n", err)
		return 2
	}

	if parsed.PrintSpec {
		if err := writeSpec(r, buildMode, parsed.SpecOut, parsed.SpecYAML, stdout); err != nil {
			logger.Error("spec generation failed", "err", err)
			return 1
		}
		return 0
	}

	addr := cfg.Server.Addr()
	attrs := []any{"addr", addr, "mode", buildMode.String(), "version", version}
	if buildMode == gateway.Documented {
		attrs = append(attrs,
			"spec", "http://"+addr+gateway.SpecPath,
			"docs", "http://"+addr+gateway.DocsPath,
		)
	}
	logger.Info("starting server", attrs...)

	err = r.ListenAndServe(ctx, addr,
		api.WithReadHeaderTimeout(cfg.Server.ReadHeaderTimeout),
		api.WithShutdownTimeout(cfg.Server.ShutdownTimeout),
	)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
		return 1
	}

	logger.Info("server shut down gracefully")
	return 0
}

// errSpecDisabled is returned by writeSpec in plain builds.
var errSpecDisabled = errors.New("schema generation is disabled in this build (rebuild with -tags swagger)")

func writeSpec(r *api.Router, mode gateway.Mode, outFile string, asYAML bool, stdout io.Writer) (err error) {
	if mode != gateway.Documented {
		return errSpecDisabled
	}

	w := stdout
	if outFile != "" {
		f, createErr := os.Create(outFile) //nolint:gosec // user-provided CLI flag
		if createErr != nil {
			return createErr
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()
		w = f
	}

	if asYAML {
		return r.WriteSpecYAML(w)
	}
	return r.WriteSpec(w)
}
