package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	gh "github.com/johnqtcg/downloads-badge/internal/github"
)

// EnvPrefix prefixes every environment variable read by the loader.
const EnvPrefix = "BADGE"

const (
	keyAddr            = "addr"
	keyEndpoints       = "endpoints"
	keyAttemptTimeout  = "attempt-timeout"
	keyUserAgent       = "user-agent"
	keyLogLevel        = "log-level"
	keyLogFormat       = "log-format"
	keyGzip            = "gzip"
	keyShutdownTimeout = "shutdown-timeout"
)

const (
	// LogFormatJSON writes one JSON object per log line.
	LogFormatJSON = "json"
	// LogFormatConsole writes human readable log lines.
	LogFormatConsole = "console"
)

// Config represents normalized runtime configuration for the badge server.
type Config struct {
	Addr            string
	Endpoints       []string
	AttemptTimeout  time.Duration
	UserAgent       string
	LogLevel        zerolog.Level
	LogFormat       string
	Gzip            bool
	ShutdownTimeout time.Duration
}

// Loader loads configuration from parsed flags and environment variables.
type Loader interface {
	Load(flags *pflag.FlagSet) (Config, error)
}

// NewLoader constructs the default configuration loader.
func NewLoader() Loader {
	return &viperLoader{}
}

// RegisterFlags declares every configuration flag with its default.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(keyAddr, ":8080", "HTTP listen address")
	flags.StringSlice(keyEndpoints, gh.DefaultEndpoints, "GitHub API base URLs, tried in order")
	flags.Duration(keyAttemptTimeout, gh.DefaultAttemptTimeout, "timeout for one request to one base URL")
	flags.String(keyUserAgent, gh.DefaultUserAgent, "User-Agent sent upstream")
	flags.String(keyLogLevel, zerolog.LevelInfoValue, "log level (trace, debug, info, warn, error)")
	flags.String(keyLogFormat, LogFormatJSON, "log format (json or console)")
	flags.Bool(keyGzip, true, "gzip responses for clients that accept it")
	flags.Duration(keyShutdownTimeout, 5*time.Second, "graceful shutdown timeout")
}

type viperLoader struct{}

func (l *viperLoader) Load(flags *pflag.FlagSet) (Config, error) {
	_ = l

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return Config{}, WrapError("bind flags", err)
	}

	cfg := Config{
		Addr:            strings.TrimSpace(v.GetString(keyAddr)),
		Endpoints:       stringList(v, keyEndpoints),
		AttemptTimeout:  v.GetDuration(keyAttemptTimeout),
		UserAgent:       strings.TrimSpace(v.GetString(keyUserAgent)),
		LogFormat:       strings.ToLower(strings.TrimSpace(v.GetString(keyLogFormat))),
		Gzip:            v.GetBool(keyGzip),
		ShutdownTimeout: v.GetDuration(keyShutdownTimeout),
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(v.GetString(keyLogLevel))))
	if err != nil {
		return Config{}, WrapError("validate", NewValidationError(keyLogLevel, err.Error()))
	}
	cfg.LogLevel = level

	if err := validate(cfg); err != nil {
		return Config{}, WrapError("validate", err)
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Addr == "" {
		return NewValidationError(keyAddr, "must not be empty")
	}
	if len(cfg.Endpoints) == 0 {
		return NewValidationError(keyEndpoints, "at least one base URL is required")
	}
	for _, endpoint := range cfg.Endpoints {
		if err := validateEndpoint(endpoint); err != nil {
			return err
		}
	}
	if cfg.AttemptTimeout <= 0 {
		return NewValidationError(keyAttemptTimeout, "must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		return NewValidationError(keyShutdownTimeout, "must be positive")
	}
	if cfg.UserAgent == "" {
		return NewValidationError(keyUserAgent, "must not be empty")
	}
	if cfg.LogFormat != LogFormatJSON && cfg.LogFormat != LogFormatConsole {
		return NewValidationError(keyLogFormat, fmt.Sprintf("must be %s or %s", LogFormatJSON, LogFormatConsole))
	}
	return nil
}

func validateEndpoint(endpoint string) error {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return NewValidationError(keyEndpoints, fmt.Sprintf("parse %q: %v", endpoint, errors.Unwrap(err)))
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return NewValidationError(keyEndpoints, fmt.Sprintf("%q must be an absolute http(s) URL", endpoint))
	}
	return nil
}

// stringList reads a list that may come from a flag ([]string) or the environment (comma separated).
func stringList(v *viper.Viper, key string) []string {
	var items []string
	switch raw := v.Get(key).(type) {
	case string:
		items = strings.Split(raw, ",")
	default:
		items = v.GetStringSlice(key)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
