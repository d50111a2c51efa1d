package core

import (
	"time"

	"github.com/bytedance/sonic"
)

// RetryInherit makes a request use the client-wide retry settings.
const RetryInherit = -1

// Request describes a single exchange call. It is constructed per call
// and never shared; retry state lives inside the engine's loop, not here.
type Request struct {
	// Area is the subdomain selecting the backend cluster, e.g. AreaAPI
	// for spot or AreaFuturesAPI for futures.
	Area string
	// Path is the endpoint path, e.g. "/api/v3/order".
	Path string
	// Method is the HTTP method; only GET, POST and PUT are accepted.
	Method string
	// Params is the ordered parameter set. Its encoding is both the
	// signed payload and the transmitted query.
	Params *Params
	// RawQuery, when non-empty and Params is nil, is used verbatim as
	// the canonical query string.
	RawQuery string
	// Test appends "/test" to the path for dry-run order endpoints.
	Test bool
	// Signed appends the HMAC signature to the query. Some endpoints
	// reject unexpected parameters, so it must be off for those.
	Signed bool
	// AutoTimestamp injects a fresh millisecond timestamp before every
	// attempt, including retries.
	AutoTimestamp bool
	// Weight is the documented request weight for rate limiting.
	Weight int
	// RetryCount is the number of retries after the first attempt, or
	// RetryInherit to use the client configuration.
	RetryCount int
	// RetryInterval is the pause between attempts.
	RetryInterval time.Duration
}

// NewRequest creates a request for the given method, area and path with
// signing enabled and client-level retry settings.
func NewRequest(method, area, path string) *Request {
	return &Request{
		Area:       area,
		Path:       path,
		Method:     method,
		Params:     NewParams(),
		Signed:     true,
		Weight:     1,
		RetryCount: RetryInherit,
	}
}

// SetParam stores a query parameter and returns the request for chaining.
func (r *Request) SetParam(key, value string) *Request {
	if r.Params == nil {
		r.Params = NewParams()
	}
	r.Params.Set(key, value)
	return r
}

// SetRawQuery uses a pre-serialized canonical query string instead of
// Params. AutoTimestamp has no effect on a raw query.
func (r *Request) SetRawQuery(raw string) *Request {
	r.RawQuery = raw
	r.Params = nil
	return r
}

// SetTest marks the request as a dry run.
func (r *Request) SetTest(test bool) *Request {
	r.Test = test
	return r
}

// SetSigned toggles signature transmission.
func (r *Request) SetSigned(signed bool) *Request {
	r.Signed = signed
	return r
}

// SetAutoTimestamp toggles per-attempt timestamp injection.
func (r *Request) SetAutoTimestamp(auto bool) *Request {
	r.AutoTimestamp = auto
	return r
}

// SetWeight sets the documented request weight.
func (r *Request) SetWeight(weight int) *Request {
	r.Weight = weight
	return r
}

// SetRetry overrides the client-level retry budget and interval.
func (r *Request) SetRetry(count int, interval time.Duration) *Request {
	r.RetryCount = count
	r.RetryInterval = interval
	return r
}

// Response is a successful exchange reply.
type Response struct {
	// StatusCode is the HTTP status, always 200 for responses returned
	// by the engine.
	StatusCode int
	// Body is the raw JSON body.
	Body []byte
}

// Unmarshal decodes the response body into v.
func (r *Response) Unmarshal(v any) error {
	return sonic.Unmarshal(r.Body, v)
}
