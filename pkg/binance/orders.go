package binance

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sukidesuka/binance-go/pkg/core"
	"github.com/sukidesuka/binance-go/pkg/decfmt"
)

// MarketOrder describes a market order for TradeMarket.
type MarketOrder struct {
	// Symbol is the trading pair, upper-cased before sending.
	Symbol string
	// Mode selects the account placing the order.
	Mode core.AccountMode
	// Side is the order direction.
	Side core.OrderSide
	// Amount is the order size: base quantity normally, quote notional
	// in volume mode. Float amounts are floored at the instrument's
	// precision before sending so an order never over-commits.
	Amount core.Quantity
	// Test routes the order to the dry-run endpoint; it is validated
	// but never reaches the matching engine.
	Test bool
	// VolumeMode sizes the order by notional value instead of quantity.
	// On futures the notional is converted to a quantity via the latest
	// price, which can drift; keep headroom in the account.
	VolumeMode bool
}

func marketOrderEndpoint(mode core.AccountMode) (area, path string) {
	switch mode {
	case core.ModeSpot:
		return core.AreaAPI, "/api/v3/order"
	case core.ModeFutures:
		return core.AreaFuturesAPI, "/fapi/v1/order"
	default:
		return core.AreaAPI, "/sapi/v1/margin/order"
	}
}

// TradeMarket places a market order on any of the four account modes and
// returns the exchange's decoded reply.
func (c *Client) TradeMarket(ctx context.Context, order MarketOrder) (*core.Response, error) {
	if err := order.Mode.Validate(); err != nil {
		return nil, err
	}
	if err := order.Side.Validate(); err != nil {
		return nil, err
	}
	symbol := strings.ToUpper(order.Symbol)

	amount := order.Amount
	if order.Mode == core.ModeFutures && order.VolumeMode {
		// Futures has no notional order parameter, so the notional is
		// converted to a quantity at the latest price.
		price, err := c.GetLatestPrice(ctx, symbol, core.MarketFutures)
		if err != nil {
			return nil, err
		}
		notional, err := quantityValue(amount)
		if err != nil {
			return nil, err
		}
		amount = core.FloatQuantity(notional / price)
	}

	qty, err := c.resolveOrderAmount(ctx, symbol, order.Mode, amount, order.VolumeMode)
	if err != nil {
		return nil, err
	}

	area, path := marketOrderEndpoint(order.Mode)
	req := core.NewRequest(http.MethodPost, area, path).
		SetTest(order.Test).
		SetAutoTimestamp(true).
		SetParam("symbol", symbol).
		SetParam("side", order.Side.String()).
		SetParam("type", "MARKET")

	// Spot and margin accept the notional directly; futures was already
	// converted above.
	if order.VolumeMode && order.Mode != core.ModeFutures {
		req.SetParam("quoteOrderQty", qty)
	} else {
		req.SetParam("quantity", qty)
	}

	switch order.Mode {
	case core.ModeCrossMargin:
		req.SetParam("isIsolated", "FALSE")
	case core.ModeIsolatedMargin:
		req.SetParam("isIsolated", "TRUE")
	}

	return c.Do(ctx, req)
}

// resolveOrderAmount renders the amount as a wire string. Exact amounts
// pass through; float amounts are floored at the looked-up instrument
// precision, or at maximum precision in volume mode where the value is a
// notional rather than a quantity.
func (c *Client) resolveOrderAmount(ctx context.Context, symbol string, mode core.AccountMode, amount core.Quantity, volumeMode bool) (string, error) {
	if amount.IsExact() {
		return amount.Resolve(0, decfmt.Floor), nil
	}
	if volumeMode {
		return amount.Resolve(decfmt.MaxPrecision, decfmt.Floor), nil
	}

	market := core.MarketFutures
	if mode == core.ModeSpot {
		market = core.MarketSpot
	}
	precision, err := c.GetSymbolPrecision(ctx, symbol, market)
	if err != nil {
		return "", err
	}
	return amount.Resolve(precision, decfmt.Floor), nil
}

func quantityValue(q core.Quantity) (float64, error) {
	if !q.IsExact() {
		return q.Float(), nil
	}
	s := q.Resolve(0, decfmt.Floor)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("notional amount: %w", &decfmt.FormatError{Input: s, Err: err})
	}
	return v, nil
}
