package core

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest_Defaults(t *testing.T) {
	req := NewRequest(http.MethodGet, AreaAPI, "/api/v3/account")

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, AreaAPI, req.Area)
	assert.Equal(t, "/api/v3/account", req.Path)
	assert.True(t, req.Signed)
	assert.False(t, req.Test)
	assert.False(t, req.AutoTimestamp)
	assert.Equal(t, 1, req.Weight)
	assert.Equal(t, RetryInherit, req.RetryCount)
	require.NotNil(t, req.Params)
	assert.Equal(t, 0, req.Params.Len())
}

func TestRequest_Chaining(t *testing.T) {
	req := NewRequest(http.MethodPost, AreaFuturesAPI, "/fapi/v1/order").
		SetParam("symbol", "BTCUSDT").
		SetParam("side", "BUY").
		SetTest(true).
		SetSigned(false).
		SetAutoTimestamp(true).
		SetWeight(5).
		SetRetry(2, 100*time.Millisecond)

	assert.Equal(t, "symbol=BTCUSDT&side=BUY", req.Params.Encode())
	assert.True(t, req.Test)
	assert.False(t, req.Signed)
	assert.True(t, req.AutoTimestamp)
	assert.Equal(t, 5, req.Weight)
	assert.Equal(t, 2, req.RetryCount)
	assert.Equal(t, 100*time.Millisecond, req.RetryInterval)
}

func TestRequest_SetRawQuery_ClearsParams(t *testing.T) {
	req := NewRequest(http.MethodGet, AreaAPI, "/api/v3/ticker/price").
		SetParam("symbol", "BTCUSDT").
		SetRawQuery("symbol=ETHUSDT&limit=5")

	assert.Nil(t, req.Params)
	assert.Equal(t, "symbol=ETHUSDT&limit=5", req.RawQuery)
}

func TestResponse_Unmarshal(t *testing.T) {
	resp := &Response{StatusCode: 200, Body: []byte(`{"listenKey":"abc123"}`)}

	var payload struct {
		ListenKey string `json:"listenKey"`
	}
	require.NoError(t, resp.Unmarshal(&payload))
	assert.Equal(t, "abc123", payload.ListenKey)
}
