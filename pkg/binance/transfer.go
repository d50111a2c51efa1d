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

// Universal transfer types accepted by TransferAsset. The constants
// cover the account pairs this client trades across; the endpoint
// accepts any type string the exchange documents.
const (
	TransferMainToMargin   = "MAIN_MARGIN"
	TransferMarginToMain   = "MARGIN_MAIN"
	TransferMainToFutures  = "MAIN_UMFUTURE"
	TransferFuturesToMain  = "UMFUTURE_MAIN"
	TransferMarginToFuture = "MARGIN_UMFUTURE"
	TransferFutureToMargin = "UMFUTURE_MARGIN"
)

// TransferAsset moves an asset between the caller's own accounts via
// the universal transfer endpoint. Float amounts are rendered at
// maximum precision with half-even rounding; use ExactQuantity to
// transfer a pre-formatted amount verbatim.
func (c *Client) TransferAsset(ctx context.Context, transferType, asset string, amount core.Quantity) error {
	if transferType == "" {
		return fmt.Errorf("transfer type must not be empty")
	}

	req := core.NewRequest(http.MethodPost, core.AreaAPI, "/sapi/v1/asset/transfer").
		SetAutoTimestamp(true).
		SetParam("type", strings.ToUpper(transferType)).
		SetParam("asset", strings.ToUpper(asset)).
		SetParam("amount", amount.Resolve(decfmt.MaxPrecision, decfmt.HalfEven))

	_, err := c.Do(ctx, req)
	return err
}

// SetBNBBurn sets whether spot trading fees and margin interest are
// paid in BNB at a discount.
func (c *Client) SetBNBBurn(ctx context.Context, spot, interest bool) error {
	req := core.NewRequest(http.MethodPost, core.AreaAPI, "/sapi/v1/bnbBurn").
		SetAutoTimestamp(true).
		SetParam("spotBNBBurn", strconv.FormatBool(spot)).
		SetParam("interestBNBBurn", strconv.FormatBool(interest))

	_, err := c.Do(ctx, req)
	return err
}

// GetBNBBurn reports the current BNB fee-burn switches for spot trading
// and margin interest.
func (c *Client) GetBNBBurn(ctx context.Context) (spot, interest bool, err error) {
	req := core.NewRequest(http.MethodGet, core.AreaAPI, "/sapi/v1/bnbBurn").
		SetAutoTimestamp(true)

	resp, err := c.Do(ctx, req)
	if err != nil {
		return false, false, err
	}

	var status struct {
		SpotBNBBurn     bool `json:"spotBNBBurn"`
		InterestBNBBurn bool `json:"interestBNBBurn"`
	}
	if err := resp.Unmarshal(&status); err != nil {
		return false, false, fmt.Errorf("decode bnb burn status: %w", err)
	}
	return status.SpotBNBBurn, status.InterestBNBBurn, nil
}
