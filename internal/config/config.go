package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for statebridge.
type Config struct {
	// Server configuration
	HTTPPort int    `env:"APP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// State store configuration
	Store StoreConfig

	// Dapr sidecar configuration
	Dapr DaprConfig

	// Telemetry configuration
	Telemetry TelemetryConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// StoreConfig holds the logical state store configuration.
type StoreConfig struct {
	Name string `env:"STATESTORE_NAME" envDefault:"statestore"`
}

// DaprConfig holds sidecar connection and probe configuration. The
// presence of DAPR_GRPC_PORT, even set to an empty value, is the
// signal that a sidecar is expected; without it the service goes
// straight to the in-memory backend.
type DaprConfig struct {
	// Present records whether DAPR_GRPC_PORT was set at all.
	Present bool `env:"-"`

	GRPCPort string `env:"DAPR_GRPC_PORT"`
	HTTPPort string `env:"DAPR_HTTP_PORT" envDefault:"3500"`

	ProbeInterval time.Duration `env:"DAPR_PROBE_INTERVAL" envDefault:"500ms"`
	ProbeTimeout  time.Duration `env:"DAPR_PROBE_TIMEOUT" envDefault:"2s"`
	ProbeDeadline time.Duration `env:"DAPR_PROBE_DEADLINE" envDefault:"15s"`
	DialTimeout   time.Duration `env:"DAPR_DIAL_TIMEOUT" envDefault:"5s"`
}

// TelemetryConfig holds OpenTelemetry export configuration.
type TelemetryConfig struct {
	ExporterEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName      string `env:"OTEL_SERVICE_NAME" envDefault:"statebridge"`
}

// TimeoutConfig holds process lifecycle timeouts.
type TimeoutConfig struct {
	Shutdown time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// Load reads configuration from environment variables. A `.env` file in
// the working directory is loaded first when present; real environment
// variables take precedence over file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	_, cfg.Dapr.Present = os.LookupEnv("DAPR_GRPC_PORT")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	if c.Store.Name == "" {
		return fmt.Errorf("state store name is required")
	}

	if c.Dapr.ProbeInterval <= 0 {
		return fmt.Errorf("probe interval must be positive")
	}
	if c.Dapr.ProbeDeadline < c.Dapr.ProbeInterval {
		return fmt.Errorf("probe deadline %s is shorter than the probe interval %s",
			c.Dapr.ProbeDeadline, c.Dapr.ProbeInterval)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetHTTPAddr returns the HTTP server address.
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// SidecarExpected reports whether a Dapr sidecar should be probed at
// startup.
func (d DaprConfig) SidecarExpected() bool {
	return d.Present
}

// GRPCTarget returns the sidecar's gRPC address on loopback. The port
// defaults to 3500 when DAPR_GRPC_PORT is set but empty.
func (d DaprConfig) GRPCTarget() string {
	port := d.GRPCPort
	if port == "" {
		port = "3500"
	}
	return net.JoinHostPort("127.0.0.1", port)
}

// HealthURL returns the sidecar's outbound health endpoint.
func (d DaprConfig) HealthURL() string {
	return fmt.Sprintf("http://127.0.0.1:%s/v1.0/healthz/outbound", d.HTTPPort)
}
