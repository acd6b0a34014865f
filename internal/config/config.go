// Package config loads the stubapi process configuration. Values are
// layered: built-in defaults, then an optional YAML file named by
// STUBAPI_CONFIG (or -config), then STUBAPI_* environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "STUBAPI_"

// Config is the full process configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	CORS      CORSConfig      `yaml:"cors"`
	Profiling ProfilingConfig `yaml:"profiling"`
}

// ServerConfig controls the listener and per-request limits.
type ServerConfig struct {
	Address           string        `yaml:"address"`
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"readHeaderTimeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdownTimeout"`
	RequestTimeout    time.Duration `yaml:"requestTimeout"` // 0 disables
	MaxBodyBytes      int64         `yaml:"maxBodyBytes"`   // 0 disables
}

// Addr returns the host:port to listen on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Address, strconv.Itoa(s.Port))
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // json|text
}

// MetricsConfig exposes Prometheus metrics on Path when Enabled.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// RateLimitConfig sets the per-client token bucket.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"` // 0 disables
	Burst int     `yaml:"burst"`
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	Origins []string `yaml:"origins"` // empty disables
}

// ProfilingConfig mounts the runtime profiling endpoints. Off by default.
type ProfilingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the configuration used when nothing is overridden:
// 127.0.0.1:8000, info-level text logs, metrics on /metrics.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Address:           "127.0.0.1",
			Port:              8000,
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   30 * time.Second,
			MaxBodyBytes:      1 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		RateLimit: RateLimitConfig{
			Burst: 10,
		},
		Profiling: ProfilingConfig{
			Path: "/debug/pprof",
		},
	}
}

// Parsed is the result of Load: the configuration plus the one-shot
// command-line actions.
type Parsed struct {
	Config Config

	PrintSpec bool   // -spec
	SpecOut   string // -o
	SpecYAML  bool   // -yaml
}

// Load builds the configuration from defaults, the optional YAML file,
// the environment (via getenv) and args, in that order of precedence.
func Load(args []string, getenv func(string) string, output io.Writer) (Parsed, error) {
	fs := flag.NewFlagSet("stubapi", flag.ContinueOnError)
	fs.SetOutput(output)

	var (
		configPath = fs.String("config", getenv(EnvPrefix+"CONFIG"), "Path to a YAML config file")
		printSpec  = fs.Bool("spec", false, "Print the OpenAPI document and exit (documented builds only)")
		specOut    = fs.String("o", "", "Output file for -spec (default: stdout)")
		specYAML   = fs.Bool("yaml", false, "Emit the -spec document as YAML")
	)
	if err := fs.Parse(args); err != nil {
		return Parsed{}, err
	}
	if fs.NArg() > 0 {
		return Parsed{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg := Default()
	if *configPath != "" {
		if err := loadFile(*configPath, &cfg); err != nil {
			return Parsed{}, err
		}
	}
	if err := applyEnv(&cfg, getenv); err != nil {
		return Parsed{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Parsed{}, err
	}

	return Parsed{
		Config:    cfg,
		PrintSpec: *printSpec,
		SpecOut:   *specOut,
		SpecYAML:  *specYAML,
	}, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // operator-provided path
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	var errs []error
	lookup := func(name string) (string, bool) {
		v := strings.TrimSpace(getenv(EnvPrefix + name))
		return v, v != ""
	}

	if v, ok := lookup("ADDRESS"); ok {
		cfg.Server.Address = v
	}
	if v, ok := lookup("PORT"); ok {
		n, err := strconv.Atoi(v)
		errs = append(errs, envErr("PORT", err))
		cfg.Server.Port = n
	}
	if v, ok := lookup("REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		errs = append(errs, envErr("REQUEST_TIMEOUT", err))
		cfg.Server.RequestTimeout = d
	}
	if v, ok := lookup("MAX_BODY_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		errs = append(errs, envErr("MAX_BODY_BYTES", err))
		cfg.Server.MaxBodyBytes = n
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		cfg.Log.Format = v
	}
	if v, ok := lookup("METRICS_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		errs = append(errs, envErr("METRICS_ENABLED", err))
		cfg.Metrics.Enabled = b
	}
	if v, ok := lookup("METRICS_PATH"); ok {
		cfg.Metrics.Path = v
	}
	if v, ok := lookup("RATE_LIMIT_RPS"); ok {
		f, err := strconv.ParseFloat(v, 64)
		errs = append(errs, envErr("RATE_LIMIT_RPS", err))
		cfg.RateLimit.RPS = f
	}
	if v, ok := lookup("RATE_LIMIT_BURST"); ok {
		n, err := strconv.Atoi(v)
		errs = append(errs, envErr("RATE_LIMIT_BURST", err))
		cfg.RateLimit.Burst = n
	}
	if v, ok := lookup("CORS_ORIGINS"); ok {
		cfg.CORS.Origins = splitCSV(v)
	}
	if v, ok := lookup("PPROF_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		errs = append(errs, envErr("PPROF_ENABLED", err))
		cfg.Profiling.Enabled = b
	}

	return errors.Join(errs...)
}

func envErr(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
}

func splitCSV(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range 1-65535", c.Server.Port))
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		errs = append(errs, errors.New("server.readHeaderTimeout must be positive"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdownTimeout must be positive"))
	}
	if c.Server.RequestTimeout < 0 {
		errs = append(errs, errors.New("server.requestTimeout must not be negative"))
	}
	if c.Server.MaxBodyBytes < 0 {
		errs = append(errs, errors.New("server.maxBodyBytes must not be negative"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q: want debug|info|warn|error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want json|text", c.Log.Format))
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path %q must start with /", c.Metrics.Path))
	}
	if c.Profiling.Enabled && !strings.HasPrefix(c.Profiling.Path, "/") {
		errs = append(errs, fmt.Errorf("profiling.path %q must start with /", c.Profiling.Path))
	}
	if c.RateLimit.RPS < 0 {
		errs = append(errs, errors.New("rateLimit.rps must not be negative"))
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("rateLimit.burst must be at least 1"))
	}
	return errors.Join(errs...)
}
