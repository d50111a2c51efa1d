package core

import (
	"fmt"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
)

// Credentials holds the API key pair for one client. The public key is
// sent as a header; the private key is only ever used as an HMAC key and
// never transmitted. Credentials are immutable for the client lifetime.
type Credentials struct {
	// PublicKey is sent in the X-MBX-APIKEY header.
	PublicKey string `json:"binance_public_key" validate:"required"`
	// PrivateKey is the HMAC-SHA256 signing key.
	PrivateKey string `json:"binance_private_key" validate:"required"`
}

// LoadCredentials reads a JSON credentials file with the
// binance_public_key / binance_private_key fields.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	var creds Credentials
	if err := sonic.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials file: %w", err)
	}
	if err := validate.Struct(&creds); err != nil {
		return nil, fmt.Errorf("invalid credentials file: %w", err)
	}
	return &creds, nil
}

// Config carries the process-wide tunables for a client. It replaces the
// original's mutable globals: set once at construction, read by every
// request, never mutated afterwards.
type Config struct {
	// BaseDomain is the exchange's base domain, switchable between the
	// international and regional deployments.
	BaseDomain string `json:"base_domain" validate:"required,hostname"`

	Credentials *Credentials `json:"credentials,omitempty"`

	// Timeout bounds a single HTTP attempt, not the whole retry loop.
	Timeout time.Duration `json:"timeout" validate:"min=1ms"`
	// RetryCount is the default number of retries after the first attempt.
	RetryCount int `json:"retry_count" validate:"min=0"`
	// RetryInterval is the default pause between attempts.
	RetryInterval time.Duration `json:"retry_interval" validate:"min=0"`

	// ProxyURL routes all requests through a forward proxy when set.
	ProxyURL string `json:"proxy_url" validate:"omitempty,url"`

	// Verbose traces successful requests too; failures are always traced.
	Verbose bool `json:"verbose"`
	// FullTrace logs complete response bodies on the console instead of
	// a truncated prefix. Error traces are always complete.
	FullTrace bool `json:"full_trace"`
	// TraceFilePath enables an append-only file trace of every request.
	TraceFilePath string `json:"trace_file_path"`

	RateLimitRequests int           `json:"rate_limit_requests" validate:"min=1"`
	RateLimitPeriod   time.Duration `json:"rate_limit_period" validate:"min=1ms"`

	// BreakerEnabled guards the request loop with a circuit breaker.
	// Off by default so the plain retry semantics stay unchanged.
	BreakerEnabled          bool          `json:"breaker_enabled"`
	BreakerFailThreshold    int           `json:"breaker_fail_threshold"`
	BreakerSuccessThreshold int           `json:"breaker_success_threshold"`
	BreakerCooldown         time.Duration `json:"breaker_cooldown"`
}

// DefaultConfig returns a Config with the exchange's production domain,
// 10s timeout, 3 retries with no pause, and the documented 1200
// weight/minute budget.
func DefaultConfig() *Config {
	return &Config{
		BaseDomain:    "binance.com",
		Timeout:       10 * time.Second,
		RetryCount:    3,
		RetryInterval: 0,

		RateLimitRequests: 1200,
		RateLimitPeriod:   time.Minute,

		BreakerFailThreshold:    5,
		BreakerSuccessThreshold: 2,
		BreakerCooldown:         30 * time.Second,
	}
}

var validate = validator.New()

// Validate checks the configuration, including breaker settings when the
// breaker is enabled.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.BreakerEnabled {
		if c.BreakerFailThreshold <= 0 {
			return fmt.Errorf("BreakerFailThreshold must be positive when enabled")
		}
		if c.BreakerSuccessThreshold <= 0 {
			return fmt.Errorf("BreakerSuccessThreshold must be positive when enabled")
		}
		if c.BreakerCooldown <= 0 {
			return fmt.Errorf("BreakerCooldown must be positive when enabled")
		}
	}
	return nil
}

// WithCredentials sets the API credentials and returns the config for chaining.
func (c *Config) WithCredentials(creds *Credentials) *Config {
	c.Credentials = creds
	return c
}

// WithBaseDomain switches the exchange base domain and returns the config
// for chaining.
func (c *Config) WithBaseDomain(domain string) *Config {
	c.BaseDomain = domain
	return c
}

// WithRetry sets the default retry budget and interval and returns the
// config for chaining.
func (c *Config) WithRetry(count int, interval time.Duration) *Config {
	c.RetryCount = count
	c.RetryInterval = interval
	return c
}

// WithProxy routes requests through the given forward proxy and returns
// the config for chaining.
func (c *Config) WithProxy(url string) *Config {
	c.ProxyURL = url
	return c
}

// WithTrace configures console verbosity and the optional file trace and
// returns the config for chaining.
func (c *Config) WithTrace(verbose, full bool, filePath string) *Config {
	c.Verbose = verbose
	c.FullTrace = full
	c.TraceFilePath = filePath
	return c
}
