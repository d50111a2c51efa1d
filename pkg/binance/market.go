package binance

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/sukidesuka/binance-go/pkg/core"
)

func marketArea(market core.MarketType) string {
	if market == core.MarketFutures {
		return core.AreaFuturesAPI
	}
	return core.AreaAPI
}

type tickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

func tickerPricePath(market core.MarketType) string {
	if market == core.MarketFutures {
		return "/fapi/v1/ticker/price"
	}
	return "/api/v3/ticker/price"
}

// GetLatestPrice returns the latest traded price for one symbol on the
// given market side.
func (c *Client) GetLatestPrice(ctx context.Context, symbol string, market core.MarketType) (float64, error) {
	if err := market.Validate(); err != nil {
		return 0, err
	}

	req := core.NewRequest(http.MethodGet, marketArea(market), tickerPricePath(market)).
		SetSigned(false).
		SetParam("symbol", strings.ToUpper(symbol))

	resp, err := c.Do(ctx, req)
	if err != nil {
		return 0, err
	}

	var ticker tickerPrice
	if err := resp.Unmarshal(&ticker); err != nil {
		return 0, fmt.Errorf("decode ticker: %w", err)
	}
	price, err := strconv.ParseFloat(ticker.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", ticker.Price, err)
	}
	return price, nil
}

// GetAllLatestPrices returns the latest traded price of every symbol on
// the given market side, keyed by symbol.
func (c *Client) GetAllLatestPrices(ctx context.Context, market core.MarketType) (map[string]float64, error) {
	if err := market.Validate(); err != nil {
		return nil, err
	}

	req := core.NewRequest(http.MethodGet, marketArea(market), tickerPricePath(market)).
		SetSigned(false).
		SetWeight(2)

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	var tickers []tickerPrice
	if err := resp.Unmarshal(&tickers); err != nil {
		return nil, fmt.Errorf("decode tickers: %w", err)
	}

	prices := make(map[string]float64, len(tickers))
	for _, t := range tickers {
		price, err := strconv.ParseFloat(t.Price, 64)
		if err != nil {
			return nil, fmt.Errorf("parse price %q for %s: %w", t.Price, t.Symbol, err)
		}
		prices[t.Symbol] = price
	}
	return prices, nil
}

// GetSymbolPrecision looks up the order quantity precision for a symbol:
// the base asset precision on spot, the contract quantity precision on
// futures. Returns core.ErrNotFound when the exchange does not list the
// symbol.
func (c *Client) GetSymbolPrecision(ctx context.Context, symbol string, market core.MarketType) (int, error) {
	if err := market.Validate(); err != nil {
		return 0, err
	}
	symbol = strings.ToUpper(symbol)

	path := "/api/v3/exchangeInfo"
	if market == core.MarketFutures {
		path = "/fapi/v1/exchangeInfo"
	}
	req := core.NewRequest(http.MethodGet, marketArea(market), path).
		SetSigned(false).
		SetWeight(10)

	resp, err := c.Do(ctx, req)
	if err != nil {
		return 0, err
	}

	var info struct {
		Symbols []struct {
			Symbol             string `json:"symbol"`
			BaseAssetPrecision int    `json:"baseAssetPrecision"`
			QuantityPrecision  int    `json:"quantityPrecision"`
		} `json:"symbols"`
	}
	if err := resp.Unmarshal(&info); err != nil {
		return 0, fmt.Errorf("decode exchange info: %w", err)
	}

	for _, s := range info.Symbols {
		if s.Symbol != symbol {
			continue
		}
		if market == core.MarketFutures {
			return s.QuantityPrecision, nil
		}
		return s.BaseAssetPrecision, nil
	}
	return 0, fmt.Errorf("precision for %s: %w", symbol, core.ErrNotFound)
}

// GetMinSymbolPrecision returns the lower of the spot and futures
// precisions for a symbol, for sizing positions opened on both sides.
func (c *Client) GetMinSymbolPrecision(ctx context.Context, symbol string) (int, error) {
	spot, err := c.GetSymbolPrecision(ctx, symbol, core.MarketSpot)
	if err != nil {
		return 0, err
	}
	futures, err := c.GetSymbolPrecision(ctx, symbol, core.MarketFutures)
	if err != nil {
		return 0, err
	}
	return min(spot, futures), nil
}
