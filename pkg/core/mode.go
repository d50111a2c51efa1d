package core

// Areas are the subdomains serving each backend cluster.
const (
	// AreaAPI serves spot, margin and wallet endpoints.
	AreaAPI = "api"
	// AreaFuturesAPI serves USDT-margined futures endpoints.
	AreaFuturesAPI = "fapi"
	// AreaDeliveryAPI serves coin-margined delivery endpoints.
	AreaDeliveryAPI = "dapi"
)

// MarketType selects the spot or futures side of the exchange.
type MarketType int

const (
	MarketSpot MarketType = iota
	MarketFutures
)

func (m MarketType) String() string {
	switch m {
	case MarketSpot:
		return "SPOT"
	case MarketFutures:
		return "FUTURES"
	default:
		return "UNKNOWN"
	}
}

// Validate reports whether the market type is one of the closed set.
func (m MarketType) Validate() error {
	switch m {
	case MarketSpot, MarketFutures:
		return nil
	default:
		return ErrInvalidMode
	}
}

// AccountMode selects which account an operation acts on.
type AccountMode int

const (
	ModeSpot AccountMode = iota
	ModeCrossMargin
	ModeIsolatedMargin
	ModeFutures
)

func (m AccountMode) String() string {
	switch m {
	case ModeSpot:
		return "MAIN"
	case ModeCrossMargin:
		return "MARGIN"
	case ModeIsolatedMargin:
		return "ISOLATED"
	case ModeFutures:
		return "FUTURE"
	default:
		return "UNKNOWN"
	}
}

// Validate reports whether the account mode is one of the closed set.
func (m AccountMode) Validate() error {
	switch m {
	case ModeSpot, ModeCrossMargin, ModeIsolatedMargin, ModeFutures:
		return nil
	default:
		return ErrInvalidMode
	}
}

// MarketType maps the account mode to the market side it trades on.
func (m AccountMode) MarketType() MarketType {
	if m == ModeFutures {
		return MarketFutures
	}
	return MarketSpot
}

// OrderSide is the direction of an order.
type OrderSide int

const (
	SideBuy OrderSide = iota
	SideSell
)

func (s OrderSide) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Validate reports whether the side is BUY or SELL.
func (s OrderSide) Validate() error {
	switch s {
	case SideBuy, SideSell:
		return nil
	default:
		return ErrInvalidSide
	}
}
