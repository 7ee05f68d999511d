package redisclient

import (
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"
)

// Endpoint is one host/port address.
type Endpoint struct {
	Host string
	Port int
}

// Addr renders the endpoint as host:port.
func (e Endpoint) Addr() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// String returns a human-readable rendering of the endpoint
func (e Endpoint) String() string {
	return e.Addr()
}

// SentinelConfig describes a monitored high-availability deployment: an
// ordered list of sentinel endpoints tracking a named service, and the
// wait applied between failed discovery attempts.
type SentinelConfig struct {
	// Endpoints are tried in order on every discovery round
	Endpoints []Endpoint

	// ServiceName is the master name the sentinels monitor
	ServiceName string

	// WaitBetweenFailures is slept after a role mismatch before the whole
	// endpoint scan restarts, to avoid hot-looping during a failover window
	WaitBetweenFailures time.Duration
}

// config holds the immutable configuration of a connection attempt
type config struct {
	// Server topology: exactly one of addr (single endpoint) or sentinel
	addr     *Endpoint
	sentinel *SentinelConfig

	// Credentials
	username string
	password string

	// Logical database index; 0 means the server default
	database int

	// TLS settings; nil means plain TCP
	tlsConfig *tls.Config

	// Observability
	logger  Logger
	metrics MetricsCollector
}

// defaultConfig returns a configuration with sensible defaults
func defaultConfig() *config {
	return &config{
		addr:    &Endpoint{Host: "localhost", Port: 6379},
		logger:  nopLogger{},
		metrics: nopMetrics{},
	}
}

// validate rejects configurations no connection attempt could satisfy
func (c *config) validate() error {
	if c.sentinel != nil {
		if len(c.sentinel.Endpoints) == 0 {
			return fmt.Errorf("%w: sentinel configuration needs at least one endpoint", ErrInvalidConfig)
		}
		if c.sentinel.ServiceName == "" {
			return fmt.Errorf("%w: sentinel configuration needs a service name", ErrInvalidConfig)
		}
	}
	if c.database < 0 {
		return fmt.Errorf("%w: database index must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Option represents a configuration option for a connection
type Option func(*config) error

// WithAddr sets a single server endpoint.
//
// Example:
//
//	WithAddr("redis.example.com", 6379)
func WithAddr(host string, port int) Option {
	return func(c *config) error {
		if host == "" {
			return fmt.Errorf("%w: empty host", ErrInvalidConfig)
		}
		c.addr = &Endpoint{Host: host, Port: port}
		c.sentinel = nil
		return nil
	}
}

// WithSentinel sets a monitored topology. The master address is resolved
// through the sentinel endpoints at connect time.
//
// Example:
//
//	WithSentinel(redisclient.SentinelConfig{
//		Endpoints:           []redisclient.Endpoint{{Host: "s1", Port: 26379}, {Host: "s2", Port: 26379}},
//		ServiceName:         "mymaster",
//		WaitBetweenFailures: 250 * time.Millisecond,
//	})
func WithSentinel(sc SentinelConfig) Option {
	return func(c *config) error {
		c.sentinel = &sc
		c.addr = nil
		return nil
	}
}

// WithAuth sets authentication credentials. An empty username selects the
// legacy single-argument AUTH form.
func WithAuth(username, password string) Option {
	return func(c *config) error {
		c.username = username
		c.password = password
		return nil
	}
}

// WithDatabase sets the logical database selected after connecting.
// Database 0 is the server default and skips the SELECT step.
func WithDatabase(db int) Option {
	return func(c *config) error {
		if db < 0 {
			return fmt.Errorf("%w: database index must not be negative", ErrInvalidConfig)
		}
		c.database = db
		return nil
	}
}

// WithTLS enables TLS on the server connection using the given configuration.
func WithTLS(tlsConfig *tls.Config) Option {
	return func(c *config) error {
		c.tlsConfig = tlsConfig
		return nil
	}
}

// WithLogger sets a custom logger
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return fmt.Errorf("%w: nil logger", ErrInvalidConfig)
		}
		c.logger = logger
		return nil
	}
}

// WithMetrics sets a metrics collector
func WithMetrics(metrics MetricsCollector) Option {
	return func(c *config) error {
		if metrics == nil {
			return fmt.Errorf("%w: nil metrics collector", ErrInvalidConfig)
		}
		c.metrics = metrics
		return nil
	}
}
