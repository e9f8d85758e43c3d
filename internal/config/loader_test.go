package config

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	gh "github.com/johnqtcg/downloads-badge/internal/github"
)

func parseFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()

	flags := pflag.NewFlagSet("badgeweb", pflag.ContinueOnError)
	RegisterFlags(flags)
	if err := flags.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return flags
}

func TestLoaderDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader().Load(parseFlags(t))
	if err != nil {
		t.Fatalf("Load error = %v, want nil", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("Addr = %q, want :8080", cfg.Addr)
	}
	if !slices.Equal(cfg.Endpoints, gh.DefaultEndpoints) {
		t.Fatalf("Endpoints = %v, want %v", cfg.Endpoints, gh.DefaultEndpoints)
	}
	if cfg.AttemptTimeout != 10*time.Second {
		t.Fatalf("AttemptTimeout = %s, want 10s", cfg.AttemptTimeout)
	}
	if cfg.UserAgent != gh.DefaultUserAgent {
		t.Fatalf("UserAgent = %q, want %q", cfg.UserAgent, gh.DefaultUserAgent)
	}
	if cfg.LogLevel != zerolog.InfoLevel || cfg.LogFormat != LogFormatJSON {
		t.Fatalf("log = (%s,%s), want (info,json)", cfg.LogLevel, cfg.LogFormat)
	}
	if !cfg.Gzip {
		t.Fatal("Gzip = false, want true")
	}
}

func TestLoaderFlags(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader().Load(parseFlags(t,
		"--addr", "127.0.0.1:9000",
		"--endpoints", "https://one.test,https://two.test",
		"--attempt-timeout", "3s",
		"--log-level", "debug",
		"--log-format", "console",
		"--gzip=false",
	))
	if err != nil {
		t.Fatalf("Load error = %v, want nil", err)
	}
	if cfg.Addr != "127.0.0.1:9000" {
		t.Fatalf("Addr = %q, want 127.0.0.1:9000", cfg.Addr)
	}
	if want := []string{"https://one.test", "https://two.test"}; !slices.Equal(cfg.Endpoints, want) {
		t.Fatalf("Endpoints = %v, want %v", cfg.Endpoints, want)
	}
	if cfg.AttemptTimeout != 3*time.Second {
		t.Fatalf("AttemptTimeout = %s, want 3s", cfg.AttemptTimeout)
	}
	if cfg.LogLevel != zerolog.DebugLevel || cfg.LogFormat != LogFormatConsole {
		t.Fatalf("log = (%s,%s), want (debug,console)", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.Gzip {
		t.Fatal("Gzip = true, want false")
	}
}

func TestLoaderEnv(t *testing.T) {
	t.Setenv("BADGE_ENDPOINTS", "https://env-one.test, https://env-two.test")
	t.Setenv("BADGE_ATTEMPT_TIMEOUT", "2s")
	t.Setenv("BADGE_USER_AGENT", "env-agent/1.0")

	cfg, err := NewLoader().Load(parseFlags(t))
	if err != nil {
		t.Fatalf("Load error = %v, want nil", err)
	}
	if want := []string{"https://env-one.test", "https://env-two.test"}; !slices.Equal(cfg.Endpoints, want) {
		t.Fatalf("Endpoints = %v, want %v", cfg.Endpoints, want)
	}
	if cfg.AttemptTimeout != 2*time.Second {
		t.Fatalf("AttemptTimeout = %s, want 2s", cfg.AttemptTimeout)
	}
	if cfg.UserAgent != "env-agent/1.0" {
		t.Fatalf("UserAgent = %q, want env-agent/1.0", cfg.UserAgent)
	}
}

func TestLoaderFlagOverridesEnv(t *testing.T) {
	t.Setenv("BADGE_ADDR", ":7000")

	cfg, err := NewLoader().Load(parseFlags(t, "--addr", ":7001"))
	if err != nil {
		t.Fatalf("Load error = %v, want nil", err)
	}
	if cfg.Addr != ":7001" {
		t.Fatalf("Addr = %q, want :7001", cfg.Addr)
	}
}

func TestLoaderRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name      string
		args      []string
		wantField string
	}{
		{name: "relative endpoint", args: []string{"--endpoints", "api.github.com"}, wantField: "endpoints"},
		{name: "ftp endpoint", args: []string{"--endpoints", "ftp://api.github.com"}, wantField: "endpoints"},
		{name: "zero timeout", args: []string{"--attempt-timeout", "0s"}, wantField: "attempt-timeout"},
		{name: "unknown log format", args: []string{"--log-format", "xml"}, wantField: "log-format"},
		{name: "unknown log level", args: []string{"--log-level", "loud"}, wantField: "log-level"},
		{name: "empty user agent", args: []string{"--user-agent", " "}, wantField: "user-agent"},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewLoader().Load(parseFlags(t, tc.args...))
			if err == nil {
				t.Fatal("Load error = nil, want error")
			}

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Load error = %T, want *ValidationError", err)
			}
			if vErr.Field != tc.wantField {
				t.Fatalf("ValidationError.Field = %q, want %q", vErr.Field, tc.wantField)
			}
			if err.Error() == vErr.Error() {
				t.Fatalf("Load error = %q, want wrapped error context", err)
			}
		})
	}
}
