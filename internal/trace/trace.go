// Package trace records the outcome of every exchange request. Failures
// are always surfaced to the operator in full; successes are traced only
// when verbosity asks for them. An optional append-only file receives
// every request regardless of console settings, so the durable trail is
// independent of the retry decision.
package trace

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// consoleTruncate is the body prefix length logged for successful
// requests when full tracing is off.
const consoleTruncate = 50

// Config controls what the tracer writes where.
type Config struct {
	// Verbose traces successful requests on the console as well.
	Verbose bool
	// Full logs complete bodies for successful traces. Failure traces
	// are always complete.
	Full bool
	// FilePath enables the append-only file trail when non-empty.
	FilePath string
}

// Tracer writes request traces to a logger and optionally to a file.
// Safe for concurrent use.
type Tracer struct {
	cfg    Config
	logger zerolog.Logger

	mu      sync.Mutex
	file    io.WriteCloser
	fileLog zerolog.Logger
}

// New creates a tracer. The file trail is opened lazily on first use so
// a tracer with no file path never touches the filesystem.
func New(cfg Config, logger zerolog.Logger) *Tracer {
	return &Tracer{cfg: cfg, logger: logger}
}

// Record traces one request attempt. Non-200 outcomes are logged at
// error level with the full body; successes at debug level, truncated
// unless full tracing is on.
func (t *Tracer) Record(method, url string, status int, body []byte) {
	failed := status != 200

	if failed {
		t.logger.Error().
			Str("method", method).
			Str("url", url).
			Int("status", status).
			Str("body", string(body)).
			Msg("exchange request failed")
	} else if t.cfg.Verbose {
		shown := body
		if !t.cfg.Full && len(shown) > consoleTruncate {
			shown = shown[:consoleTruncate]
		}
		t.logger.Debug().
			Str("method", method).
			Str("url", url).
			Int("status", status).
			Str("body", string(shown)).
			Msg("exchange request")
	}

	if t.cfg.FilePath != "" {
		t.appendToFile(method, url, status, body)
	}
}

func (t *Tracer) appendToFile(method, url string, status int, body []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil {
		f, err := os.OpenFile(t.cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			t.logger.Error().Err(err).Str("path", t.cfg.FilePath).Msg("open trace file")
			return
		}
		t.file = f
		t.fileLog = zerolog.New(f).With().Timestamp().Logger()
	}

	t.fileLog.Log().
		Str("method", method).
		Str("url", url).
		Int("status", status).
		Str("body", string(body)).
		Msg("request trace")
}

// Close releases the file trail if one was opened.
func (t *Tracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file = nil
	return err
}
