package book

import (
	"github.com/shopspring/decimal"
)

// Order is a buy or sell intent. Volume is the remaining unfilled
// amount and is decremented in place while the order rests on the
// book; all other fields are fixed at load time.
type Order struct {
	Sequence int64           `json:"sequence"`
	IsBuy    bool            `json:"is_buy"`
	Price    decimal.Decimal `json:"price"`
	Volume   decimal.Decimal `json:"volume"`
	Date     string          `json:"date"` // Calendar date, yyyy-mm-dd.
}

// Trade records one execution. Taker and Maker are value snapshots of
// the two contributing orders taken before volumes are decremented,
// so later book mutations do not alias into history. Maker is the
// price-setting side.
type Trade struct {
	Quantity decimal.Decimal `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Taker    Order           `json:"taker"`
	Maker    Order           `json:"maker"`
}

// DailyStats accumulates every observable quantity for one trading
// day. Slices only grow while their day is current and are frozen
// once the book rolls over to a later date.
type DailyStats struct {
	// Resting liquidity on each side at day end, post eviction.
	LimitBuys  []Order `json:"limit_orders_buy"`
	LimitSells []Order `json:"limit_orders_sell"`

	// Aggressor orders that traded, per trade.
	MarketBuys  []Order `json:"market_orders_buy"`
	MarketSells []Order `json:"market_orders_sell"`

	Trades []Trade `json:"executed_orders"`

	// Top of book after each ingested order, recorded only when both
	// sides are non-empty.
	BidPrices []decimal.Decimal `json:"bid_price"`
	AskPrices []decimal.Decimal `json:"ask_price"`
	Spreads   []decimal.Decimal `json:"bid_ask_spread"`
	MidPrices []decimal.Decimal `json:"mid_price"`

	// Relative gap between a newly resting order's price and the best
	// price on its own side, combined and per side.
	RateDistances    []decimal.Decimal `json:"rate_distance"`
	BidRateDistances []decimal.Decimal `json:"bid_rate_distance"`
	AskRateDistances []decimal.Decimal `json:"ask_rate_distance"`

	// Trade price deviation from the mid-price, per trade.
	DeltaP []decimal.Decimal `json:"delta_p"`

	// Full aggressor volume per market order, pre decrement.
	MarketVolumes []decimal.Decimal `json:"market_order_volumes"`

	// Resting orders evicted for staleness.
	EvictedBuys  []Order `json:"old_buy_orders"`
	EvictedSells []Order `json:"old_sell_orders"`
}
