package binance

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sukidesuka/binance-go/pkg/core"
)

// IsolatedBalance is one isolated-margin pair's holdings. Isolated
// accounts are per-pair, so both legs are reported together.
type IsolatedBalance struct {
	// BaseAsset and QuoteAsset are the leg asset names.
	BaseAsset  string
	QuoteAsset string
	// Base and Quote are the leg amounts.
	Base  float64
	Quote float64
}

type marginAsset struct {
	Asset    string `json:"asset"`
	Free     string `json:"free"`
	Borrowed string `json:"borrowed"`
}

type isolatedPair struct {
	Symbol     string      `json:"symbol"`
	BaseAsset  marginAsset `json:"baseAsset"`
	QuoteAsset marginAsset `json:"quoteAsset"`
}

func parseAmount(field, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return v, nil
}

// GetAllAssetAmount returns every non-zero free asset amount for the
// spot, cross-margin or futures account, keyed by asset. Futures reports
// wallet assets (USDT, BNB, ...), not positions; see GetFuturePositions
// for those. Isolated margin is per-pair; use GetIsolatedAssetAmount.
func (c *Client) GetAllAssetAmount(ctx context.Context, mode core.AccountMode) (map[string]float64, error) {
	switch mode {
	case core.ModeSpot:
		return c.spotAssets(ctx)
	case core.ModeCrossMargin:
		return c.crossMarginAssets(ctx, false)
	case core.ModeFutures:
		return c.futuresAssets(ctx)
	case core.ModeIsolatedMargin:
		return nil, fmt.Errorf("isolated margin balances are per-pair, use GetIsolatedAssetAmount: %w", core.ErrInvalidMode)
	default:
		return nil, core.ErrInvalidMode
	}
}

// GetAssetAmount returns the free amount of one asset in the spot,
// cross-margin or futures account. Absent assets report zero.
func (c *Client) GetAssetAmount(ctx context.Context, asset string, mode core.AccountMode) (float64, error) {
	assets, err := c.GetAllAssetAmount(ctx, mode)
	if err != nil {
		return 0, err
	}
	return assets[strings.ToUpper(asset)], nil
}

// GetIsolatedAssetAmount returns the non-zero holdings of every
// isolated-margin pair, keyed by pair symbol.
func (c *Client) GetIsolatedAssetAmount(ctx context.Context) (map[string]IsolatedBalance, error) {
	return c.isolatedAssets(ctx, false)
}

// GetBorrowedAssetAmount returns every non-zero borrowed amount in the
// cross-margin account, keyed by asset.
func (c *Client) GetBorrowedAssetAmount(ctx context.Context) (map[string]float64, error) {
	return c.crossMarginAssets(ctx, true)
}

// GetIsolatedBorrowedAmount returns the non-zero borrowed amounts of
// every isolated-margin pair, keyed by pair symbol.
func (c *Client) GetIsolatedBorrowedAmount(ctx context.Context) (map[string]IsolatedBalance, error) {
	return c.isolatedAssets(ctx, true)
}

func (c *Client) spotAssets(ctx context.Context) (map[string]float64, error) {
	req := core.NewRequest(http.MethodGet, core.AreaAPI, "/api/v3/account").
		SetAutoTimestamp(true).
		SetWeight(10)

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	var account struct {
		Balances []struct {
			Asset string `json:"asset"`
			Free  string `json:"free"`
		} `json:"balances"`
	}
	if err := resp.Unmarshal(&account); err != nil {
		return nil, fmt.Errorf("decode spot account: %w", err)
	}

	assets := make(map[string]float64)
	for _, b := range account.Balances {
		free, err := parseAmount("balance", b.Free)
		if err != nil {
			return nil, err
		}
		if free != 0 {
			assets[b.Asset] = free
		}
	}
	return assets, nil
}

func (c *Client) futuresAssets(ctx context.Context) (map[string]float64, error) {
	req := core.NewRequest(http.MethodGet, core.AreaFuturesAPI, "/fapi/v2/balance").
		SetAutoTimestamp(true).
		SetWeight(5)

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	var balances []struct {
		Asset             string `json:"asset"`
		MaxWithdrawAmount string `json:"maxWithdrawAmount"`
	}
	if err := resp.Unmarshal(&balances); err != nil {
		return nil, fmt.Errorf("decode futures balances: %w", err)
	}

	assets := make(map[string]float64)
	for _, b := range balances {
		amount, err := parseAmount("balance", b.MaxWithdrawAmount)
		if err != nil {
			return nil, err
		}
		if amount != 0 {
			assets[b.Asset] = amount
		}
	}
	return assets, nil
}

func (c *Client) crossMarginAssets(ctx context.Context, borrowed bool) (map[string]float64, error) {
	req := core.NewRequest(http.MethodGet, core.AreaAPI, "/sapi/v1/margin/account").
		SetAutoTimestamp(true).
		SetWeight(10)

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	var account struct {
		UserAssets []marginAsset `json:"userAssets"`
	}
	if err := resp.Unmarshal(&account); err != nil {
		return nil, fmt.Errorf("decode margin account: %w", err)
	}

	assets := make(map[string]float64)
	for _, a := range account.UserAssets {
		field := a.Free
		if borrowed {
			field = a.Borrowed
		}
		amount, err := parseAmount("margin asset", field)
		if err != nil {
			return nil, err
		}
		if amount != 0 {
			assets[a.Asset] = amount
		}
	}
	return assets, nil
}

func (c *Client) isolatedAssets(ctx context.Context, borrowed bool) (map[string]IsolatedBalance, error) {
	req := core.NewRequest(http.MethodGet, core.AreaAPI, "/sapi/v1/margin/isolated/account").
		SetAutoTimestamp(true).
		SetWeight(10)

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	var account struct {
		Assets []isolatedPair `json:"assets"`
	}
	if err := resp.Unmarshal(&account); err != nil {
		return nil, fmt.Errorf("decode isolated account: %w", err)
	}

	pairs := make(map[string]IsolatedBalance)
	for _, p := range account.Assets {
		baseField, quoteField := p.BaseAsset.Free, p.QuoteAsset.Free
		if borrowed {
			baseField, quoteField = p.BaseAsset.Borrowed, p.QuoteAsset.Borrowed
		}
		base, err := parseAmount("isolated base", baseField)
		if err != nil {
			return nil, err
		}
		quote, err := parseAmount("isolated quote", quoteField)
		if err != nil {
			return nil, err
		}
		if base == 0 && quote == 0 {
			continue
		}
		pairs[p.Symbol] = IsolatedBalance{
			BaseAsset:  p.BaseAsset.Asset,
			QuoteAsset: p.QuoteAsset.Asset,
			Base:       base,
			Quote:      quote,
		}
	}
	return pairs, nil
}

// GetFuturePositions returns every non-zero futures position, keyed by
// symbol. Long positions are positive, shorts negative.
func (c *Client) GetFuturePositions(ctx context.Context) (map[string]float64, error) {
	positions, err := c.futuresPositions(ctx)
	if err != nil {
		return nil, err
	}
	nonZero := make(map[string]float64)
	for symbol, amount := range positions {
		if amount != 0 {
			nonZero[symbol] = amount
		}
	}
	return nonZero, nil
}

// GetFuturePosition returns the signed position size for one symbol.
// Returns core.ErrNotFound when the exchange does not report the symbol.
func (c *Client) GetFuturePosition(ctx context.Context, symbol string) (float64, error) {
	symbol = strings.ToUpper(symbol)
	positions, err := c.futuresPositions(ctx)
	if err != nil {
		return 0, err
	}
	amount, ok := positions[symbol]
	if !ok {
		return 0, fmt.Errorf("position for %s: %w", symbol, core.ErrNotFound)
	}
	return amount, nil
}

func (c *Client) futuresPositions(ctx context.Context) (map[string]float64, error) {
	req := core.NewRequest(http.MethodGet, core.AreaFuturesAPI, "/fapi/v2/account").
		SetAutoTimestamp(true).
		SetWeight(5)

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	var account struct {
		Positions []struct {
			Symbol      string `json:"symbol"`
			PositionAmt string `json:"positionAmt"`
		} `json:"positions"`
	}
	if err := resp.Unmarshal(&account); err != nil {
		return nil, fmt.Errorf("decode futures account: %w", err)
	}

	positions := make(map[string]float64, len(account.Positions))
	for _, p := range account.Positions {
		amount, err := parseAmount("position", p.PositionAmt)
		if err != nil {
			return nil, err
		}
		positions[p.Symbol] = amount
	}
	return positions, nil
}
