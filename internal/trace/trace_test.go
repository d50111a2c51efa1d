package trace

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracer_FailureAlwaysLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	tracer := New(Config{}, logger)
	tracer.Record("POST", "https://api.binance.com/api/v3/order?x=1", 418, []byte(`{"code":-1003}`))

	assert.Contains(t, buf.String(), "exchange request failed")
	assert.Contains(t, buf.String(), `-1003`)
}

func TestTracer_SuccessSilentByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	tracer := New(Config{}, logger)
	tracer.Record("GET", "https://api.binance.com/api/v3/time?", 200, []byte(`{}`))

	assert.Empty(t, buf.String())
}

func TestTracer_VerboseTruncatesSuccessBody(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	long := bytes.Repeat([]byte("a"), 200)
	tracer := New(Config{Verbose: true}, logger)
	tracer.Record("GET", "https://api.binance.com/x?", 200, long)

	assert.Contains(t, buf.String(), string(long[:consoleTruncate]))
	assert.NotContains(t, buf.String(), string(long))
}

func TestTracer_VerboseFullBody(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	long := bytes.Repeat([]byte("b"), 200)
	tracer := New(Config{Verbose: true, Full: true}, logger)
	tracer.Record("GET", "https://api.binance.com/x?", 200, long)

	assert.Contains(t, buf.String(), string(long))
}

func TestTracer_FileTrail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	tracer := New(Config{FilePath: path}, zerolog.Nop())

	tracer.Record("GET", "https://api.binance.com/a?", 200, []byte(`{"ok":1}`))
	tracer.Record("POST", "https://api.binance.com/b?", 500, []byte(`{"ok":0}`))
	require.NoError(t, tracer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "https://api.binance.com/a?")
	assert.Contains(t, string(data), "https://api.binance.com/b?")
	assert.Equal(t, 2, bytes.Count(data, []byte("request trace")))
}

func TestTracer_FileTrail_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")

	first := New(Config{FilePath: path}, zerolog.Nop())
	first.Record("GET", "https://api.binance.com/a?", 200, nil)
	require.NoError(t, first.Close())

	second := New(Config{FilePath: path}, zerolog.Nop())
	second.Record("GET", "https://api.binance.com/b?", 200, nil)
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, bytes.Count(data, []byte("request trace")))
}

func TestTracer_Close_NoFile(t *testing.T) {
	tracer := New(Config{}, zerolog.Nop())
	assert.NoError(t, tracer.Close())
}
