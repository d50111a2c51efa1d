// Package binance is a client for the exchange's authenticated REST and
// streaming APIs. The request engine signs, sends and retries calls; the
// listen-key operations manage streaming session tokens; everything else
// is a thin typed mapping over the engine.
package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"github.com/sukidesuka/binance-go/internal/breaker"
	"github.com/sukidesuka/binance-go/internal/ratelimit"
	"github.com/sukidesuka/binance-go/internal/trace"
	"github.com/sukidesuka/binance-go/pkg/core"
)

// ErrBreakerOpen is returned when the circuit breaker rejects a request
// before any network call is made.
var ErrBreakerOpen = fmt.Errorf("circuit breaker is open")

// Client talks to the exchange. It holds no per-request mutable state
// besides the shared connection pool, so concurrent calls never block
// one another. Credentials are immutable for the client lifetime.
type Client struct {
	cfg     *core.Config
	creds   *core.Credentials
	http    *resty.Client
	logger  zerolog.Logger
	tracer  *trace.Tracer
	limiter *ratelimit.Limiter
	breaker *breaker.Breaker

	// baseURL, when set, replaces the https://{area}.{domain} scheme for
	// every request. Used for the testnet and in tests.
	baseURL string

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeSource replaces the wall clock used for request timestamps.
// Intended for tests.
func WithTimeSource(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithBaseURL routes every request to one base URL regardless of area,
// for mirror deployments such as the spot testnet.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// New creates a Client from the given configuration.
func New(cfg *core.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	httpClient := resty.New()
	httpClient.SetTimeout(cfg.Timeout)
	if cfg.ProxyURL != "" {
		httpClient.SetProxy(cfg.ProxyURL)
	}

	c := &Client{
		cfg:     cfg,
		creds:   cfg.Credentials,
		http:    httpClient,
		logger:  zerolog.Nop(),
		limiter: ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitPeriod),
		now:     time.Now,
		sleep:   sleepContext,
	}
	if cfg.BreakerEnabled {
		c.breaker = breaker.New(breaker.Config{
			FailThreshold:    cfg.BreakerFailThreshold,
			SuccessThreshold: cfg.BreakerSuccessThreshold,
			Cooldown:         cfg.BreakerCooldown,
		})
	}
	for _, opt := range opts {
		opt(c)
	}

	c.tracer = trace.New(trace.Config{
		Verbose:  cfg.Verbose,
		Full:     cfg.FullTrace,
		FilePath: cfg.TraceFilePath,
	}, c.logger)

	return c, nil
}

// Close releases the connection pool and the trace file.
func (c *Client) Close() error {
	if err := c.tracer.Close(); err != nil {
		return err
	}
	return c.http.Close()
}

// Do signs, sends and retries one request. On 200 it returns the
// response; on any other status it consumes retry attempts, waiting the
// retry interval between them and refreshing the timestamp each time,
// then fails with *core.RejectedError. Transport-level errors abort
// immediately without consuming the budget.
//
// All non-200 responses count against the budget identically; the engine
// makes no retryable/non-retryable distinction by status code.
func (c *Client) Do(ctx context.Context, req *core.Request) (*core.Response, error) {
	method := strings.ToUpper(req.Method)
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut:
	default:
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidMethod, req.Method)
	}

	if req.Signed && c.creds == nil {
		return nil, core.ErrNoCredentials
	}

	retries := req.RetryCount
	interval := req.RetryInterval
	if retries == core.RetryInherit {
		retries = c.cfg.RetryCount
		interval = c.cfg.RetryInterval
	}

	attempts := 0
	for {
		attempts++

		// A stale timestamp is a common rejection cause, so it is
		// refreshed on every attempt, not just the first.
		if req.AutoTimestamp && req.Params != nil {
			req.Params.Set("timestamp", strconv.FormatInt(c.now().UnixMilli(), 10))
		}

		query := req.RawQuery
		if req.Params != nil {
			query = req.Params.Encode()
		}

		sent := query
		if req.Signed {
			sent = query + "&signature=" + c.sign(query)
		}
		url := c.buildURL(req.Area, req.Path, req.Test, sent)

		resp, err := c.attempt(ctx, method, url, req.Weight)
		if err != nil {
			return nil, err
		}

		status := resp.StatusCode()
		body := resp.Bytes()
		c.tracer.Record(method, url, status, body)

		if status == http.StatusOK {
			c.record(true)
			return &core.Response{StatusCode: status, Body: body}, nil
		}
		c.record(false)

		if retries <= 0 {
			return nil, &core.RejectedError{
				StatusCode: status,
				Body:       string(body),
				Attempts:   attempts,
			}
		}
		retries--

		if err := c.sleep(ctx, interval); err != nil {
			return nil, err
		}
	}
}

func (c *Client) attempt(ctx context.Context, method, url string, weight int) (*resty.Response, error) {
	if c.breaker != nil && !c.breaker.Allow() {
		return nil, ErrBreakerOpen
	}
	if err := c.limiter.Wait(ctx, weight); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	r := c.http.R().SetContext(ctx)
	if c.creds != nil {
		r.SetHeader("X-MBX-APIKEY", c.creds.PublicKey)
	}

	var resp *resty.Response
	var err error
	switch method {
	case http.MethodGet:
		resp, err = r.Get(url)
	case http.MethodPost:
		resp, err = r.Post(url)
	default:
		resp, err = r.Put(url)
	}
	if err != nil {
		c.record(false)
		c.logger.Error().Err(err).Str("method", method).Str("url", url).Msg("http request failed")
		return nil, fmt.Errorf("http request: %w", err)
	}
	return resp, nil
}

// buildURL composes the target URL. The query is appended verbatim: it
// has already been canonicalized and signed, and must reach the wire
// byte-identical.
func (c *Client) buildURL(area, path string, test bool, query string) string {
	var sb strings.Builder
	if c.baseURL != "" {
		sb.WriteString(c.baseURL)
	} else {
		sb.WriteString("https://")
		sb.WriteString(area)
		sb.WriteByte('.')
		sb.WriteString(c.cfg.BaseDomain)
	}
	sb.WriteString(path)
	if test {
		sb.WriteString("/test")
	}
	sb.WriteByte('?')
	sb.WriteString(query)
	return sb.String()
}

func (c *Client) sign(payload string) string {
	mac := hmac.New(sha256.New, []byte(c.creds.PrivateKey))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (c *Client) record(success bool) {
	if c.breaker != nil {
		c.breaker.Record(success)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
