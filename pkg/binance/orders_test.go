package binance

import (
	"context"
	"net/http"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sukidesuka/binance-go/pkg/core"
)

type orderCapture struct {
	path   string
	params url.Values
}

func orderHandler(t *testing.T, captured *orderCapture, infoCalls *atomic.Int32) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/exchangeInfo", func(w http.ResponseWriter, r *http.Request) {
		if infoCalls != nil {
			infoCalls.Add(1)
		}
		w.Write([]byte(spotExchangeInfo))
	})
	mux.HandleFunc("/fapi/v1/exchangeInfo", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(futuresExchangeInfo))
	})
	mux.HandleFunc("/fapi/v1/ticker/price", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"50000"}`))
	})
	capture := func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.params = r.URL.Query()
		w.Write([]byte(`{"orderId":123}`))
	}
	mux.HandleFunc("/api/v3/order", capture)
	mux.HandleFunc("/api/v3/order/test", capture)
	mux.HandleFunc("/fapi/v1/order", capture)
	mux.HandleFunc("/sapi/v1/margin/order", capture)
	return mux
}

func TestTradeMarket_SpotTestOrder(t *testing.T) {
	var captured orderCapture
	client := newTestClient(t, testConfig(), orderHandler(t, &captured, nil))

	_, err := client.TradeMarket(context.Background(), MarketOrder{
		Symbol: "btcusdt",
		Mode:   core.ModeSpot,
		Side:   core.SideBuy,
		Amount: core.FloatQuantity(0.123456789),
		Test:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/v3/order/test", captured.path)
	assert.Equal(t, "BTCUSDT", captured.params.Get("symbol"))
	assert.Equal(t, "BUY", captured.params.Get("side"))
	assert.Equal(t, "MARKET", captured.params.Get("type"))
	assert.Equal(t, "0.12345678", captured.params.Get("quantity"), "floored at spot precision 8")
	assert.NotEmpty(t, captured.params.Get("timestamp"))
	assert.NotEmpty(t, captured.params.Get("signature"))
	assert.Empty(t, captured.params.Get("isIsolated"))
}

func TestTradeMarket_ExactAmountSkipsPrecisionLookup(t *testing.T) {
	var captured orderCapture
	var infoCalls atomic.Int32
	client := newTestClient(t, testConfig(), orderHandler(t, &captured, &infoCalls))

	_, err := client.TradeMarket(context.Background(), MarketOrder{
		Symbol: "BTCUSDT",
		Mode:   core.ModeSpot,
		Side:   core.SideSell,
		Amount: core.ExactQuantity("0.5"),
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/v3/order", captured.path)
	assert.Equal(t, "0.5", captured.params.Get("quantity"))
	assert.Equal(t, int32(0), infoCalls.Load(), "exact amounts need no precision lookup")
}

func TestTradeMarket_FuturesVolumeMode(t *testing.T) {
	var captured orderCapture
	client := newTestClient(t, testConfig(), orderHandler(t, &captured, nil))

	_, err := client.TradeMarket(context.Background(), MarketOrder{
		Symbol:     "BTCUSDT",
		Mode:       core.ModeFutures,
		Side:       core.SideBuy,
		Amount:     core.FloatQuantity(100),
		VolumeMode: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "/fapi/v1/order", captured.path)
	// 100 USDT at 50000 converts to 0.002, floored at max precision.
	assert.Equal(t, "0.002", captured.params.Get("quantity"))
	assert.Empty(t, captured.params.Get("quoteOrderQty"))
}

func TestTradeMarket_SpotVolumeMode(t *testing.T) {
	var captured orderCapture
	client := newTestClient(t, testConfig(), orderHandler(t, &captured, nil))

	_, err := client.TradeMarket(context.Background(), MarketOrder{
		Symbol:     "BTCUSDT",
		Mode:       core.ModeSpot,
		Side:       core.SideBuy,
		Amount:     core.FloatQuantity(250.5),
		VolumeMode: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/v3/order", captured.path)
	assert.Equal(t, "250.5", captured.params.Get("quoteOrderQty"))
	assert.Empty(t, captured.params.Get("quantity"))
}

func TestTradeMarket_MarginFlags(t *testing.T) {
	var captured orderCapture
	client := newTestClient(t, testConfig(), orderHandler(t, &captured, nil))

	_, err := client.TradeMarket(context.Background(), MarketOrder{
		Symbol: "BTCUSDT",
		Mode:   core.ModeCrossMargin,
		Side:   core.SideSell,
		Amount: core.ExactQuantity("1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "/sapi/v1/margin/order", captured.path)
	assert.Equal(t, "FALSE", captured.params.Get("isIsolated"))

	_, err = client.TradeMarket(context.Background(), MarketOrder{
		Symbol: "BTCUSDT",
		Mode:   core.ModeIsolatedMargin,
		Side:   core.SideSell,
		Amount: core.ExactQuantity("1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "TRUE", captured.params.Get("isIsolated"))
}

func TestTradeMarket_Validation(t *testing.T) {
	client := newTestClient(t, testConfig(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := client.TradeMarket(context.Background(), MarketOrder{
		Symbol: "BTCUSDT",
		Mode:   core.AccountMode(42),
		Side:   core.SideBuy,
		Amount: core.ExactQuantity("1"),
	})
	assert.ErrorIs(t, err, core.ErrInvalidMode)

	_, err = client.TradeMarket(context.Background(), MarketOrder{
		Symbol: "BTCUSDT",
		Mode:   core.ModeSpot,
		Side:   core.OrderSide(42),
		Amount: core.ExactQuantity("1"),
	})
	assert.ErrorIs(t, err, core.ErrInvalidSide)
}
