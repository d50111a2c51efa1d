package binance

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sukidesuka/binance-go/pkg/core"
)

// listenKeyEndpoint returns the fixed (area, path) pair serving listen
// keys for an account mode. The create and keep-alive operations share
// the endpoint; only the HTTP method differs.
func listenKeyEndpoint(mode core.AccountMode) (area, path string) {
	switch mode {
	case core.ModeSpot:
		return core.AreaAPI, "/api/v3/userDataStream"
	case core.ModeCrossMargin:
		return core.AreaAPI, "/sapi/v1/userDataStream"
	case core.ModeIsolatedMargin:
		return core.AreaAPI, "/sapi/v1/userDataStream/isolated"
	default:
		return core.AreaFuturesAPI, "/fapi/v1/listenKey"
	}
}

func validateListenKeyArgs(mode core.AccountMode, symbol string) error {
	if err := mode.Validate(); err != nil {
		return err
	}
	if mode == core.ModeIsolatedMargin && symbol == "" {
		return core.ErrMissingSymbol
	}
	return nil
}

// CreateListenKey opens a streaming session token scoped to the given
// account mode. The symbol is mandatory for isolated margin and ignored
// otherwise. The token expires server-side (documented ~60 minutes)
// unless extended with KeepAliveListenKey; scheduling the renewal is the
// caller's job.
func (c *Client) CreateListenKey(ctx context.Context, mode core.AccountMode, symbol string) (string, error) {
	if err := validateListenKeyArgs(mode, symbol); err != nil {
		return "", err
	}

	area, path := listenKeyEndpoint(mode)
	req := core.NewRequest(http.MethodPost, area, path).SetSigned(false)
	if mode == core.ModeIsolatedMargin {
		req.SetParam("symbol", strings.ToUpper(symbol))
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return "", err
	}

	var payload struct {
		ListenKey string `json:"listenKey"`
	}
	if err := resp.Unmarshal(&payload); err != nil {
		return "", fmt.Errorf("decode listen key: %w", err)
	}
	return payload.ListenKey, nil
}

// KeepAliveListenKey extends the server-side expiry of an existing
// listen key. The key itself stays valid and unchanged; only its
// deadline moves. The exchange recommends renewing every 30 minutes.
func (c *Client) KeepAliveListenKey(ctx context.Context, mode core.AccountMode, key, symbol string) error {
	if err := validateListenKeyArgs(mode, symbol); err != nil {
		return err
	}

	area, path := listenKeyEndpoint(mode)
	req := core.NewRequest(http.MethodPut, area, path).
		SetSigned(false).
		SetParam("listenKey", key)
	if mode == core.ModeIsolatedMargin {
		req.SetParam("symbol", strings.ToUpper(symbol))
	}

	_, err := c.Do(ctx, req)
	return err
}
