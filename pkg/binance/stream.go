package binance

import (
	"context"
	"fmt"

	"github.com/sukidesuka/binance-go/internal/ws"
	"github.com/sukidesuka/binance-go/pkg/core"
)

// StreamURL builds the streaming endpoint for a market side and topic.
// The topic is a raw stream name such as "btcusdt@aggTrade" or a listen
// key for account-scoped events.
func (c *Client) StreamURL(market core.MarketType, topic string) (string, error) {
	switch market {
	case core.MarketSpot:
		return fmt.Sprintf("wss://stream.%s:9443/ws/%s", c.cfg.BaseDomain, topic), nil
	case core.MarketFutures:
		return fmt.Sprintf("wss://fstream.%s/ws/%s", c.cfg.BaseDomain, topic), nil
	default:
		return "", core.ErrInvalidMode
	}
}

// ConnectStream opens a long-lived stream connection for one topic and
// returns the duplex handle. Reconnection on drop and listen-key renewal
// are caller responsibilities; the connection only answers protocol
// pings by itself.
func (c *Client) ConnectStream(ctx context.Context, market core.MarketType, topic string) (*ws.Conn, error) {
	url, err := c.StreamURL(market, topic)
	if err != nil {
		return nil, err
	}
	return ws.Dial(ctx, url, ws.Options{Logger: c.logger})
}
