// Package book implements a continuous double-auction limit order
// book replayed from a sequential stream of buy/sell intents. It
// reconstructs executed trades and per-day microstructure statistics
// (spread, mid-price, rate distance, market-order impact) and evicts
// resting quotes that have gone stale.
package book

import (
	"sort"
	"time"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/shopspring/decimal"
)

const dateFormat = "2006-01-02"

// defaultTTLDays is the time-to-live of a resting quote. The
// underlying informal-market quotes go stale after about a week.
const defaultTTLDays = 7

// Precondition violations. The book rejects the offending order
// without mutating any state.
var (
	ErrInvalidPrice   = errors.New("order price not positive", j.C("ERR_7d1f3a9c2b8e4650"))
	ErrInvalidVolume  = errors.New("order volume not positive", j.C("ERR_0c6b2e8f4a1d3795"))
	ErrDateRegression = errors.New("order date regression", j.C("ERR_5e9a1c7d3f2b8064"))
	ErrBadDate        = errors.New("unparseable order date", j.C("ERR_2f8c4b6a9e0d1573"))
)

var two = decimal.NewFromInt(2)

// Book is a two-sided limit order book plus the per-day statistics it
// accumulates. It is exclusively owned by one replay; there is exactly
// one logical writer and no locking.
type Book struct {
	bids []*Order // price descending, sequence ascending
	asks []*Order // price ascending, sequence ascending

	current string // date of the most recently advanced-to order
	days    map[string]*DailyStats

	ttl          int
	matchThrough bool
}

type Option func(*Book)

// WithTTL overrides the seven day time-to-live after which resting
// orders are evicted as stale.
func WithTTL(days int) Option {
	return func(b *Book) {
		b.ttl = days
	}
}

// WithMatchThrough changes the partial-fill policy: instead of
// re-resting a partially filled aggressor on its own side, the
// remainder keeps matching against the opposite side until it no
// longer crosses.
func WithMatchThrough() Option {
	return func(b *Book) {
		b.matchThrough = true
	}
}

func New(opts ...Option) *Book {
	b := &Book{
		ttl:  defaultTTLDays,
		days: make(map[string]*DailyStats),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Ingest processes one order: day rollover if its date advances, then
// cross-or-rest against the opposite side, then residual-crossing
// resolution, then a top-of-book observation. Orders must arrive with
// non-decreasing dates and positive price and volume; violations are
// rejected before any state changes.
func (b *Book) Ingest(o *Order) error {
	if o.Price.Sign() <= 0 {
		return errors.Wrap(ErrInvalidPrice, "", j.MKV{"seq": o.Sequence, "price": o.Price})
	}
	if o.Volume.Sign() <= 0 {
		return errors.Wrap(ErrInvalidVolume, "", j.MKV{"seq": o.Sequence, "volume": o.Volume})
	}
	if b.current != "" && o.Date < b.current {
		return errors.Wrap(ErrDateRegression, "", j.MKV{
			"seq": o.Sequence, "date": o.Date, "current": b.current})
	}

	if b.current == "" || o.Date > b.current {
		if err := b.advance(o.Date); err != nil {
			return err
		}
	}

	b.cross(o)

	// The book may only be crossed transiently, as a side effect of
	// the partial-fill re-resting policy. A loop, not an if: batch
	// inputs could leave it crossed more than once over.
	for b.crossed() {
		b.executeResidual(o.IsBuy)
	}

	b.recordPrices()
	return nil
}

// Finalize closes out the current day the same way a rollover would:
// stale quotes are evicted and the surviving resting liquidity is
// snapshotted into the day's stats. Without it the last day of a run
// has no day-end snapshot.
func (b *Book) Finalize() error {
	if b.current == "" {
		return nil
	}
	cutoff, err := staleCutoff(b.current, b.ttl)
	if err != nil {
		return err
	}
	b.evictStale(b.current, cutoff)
	b.snapshotResting(b.current)
	return nil
}

// advance rolls the book over to date. Eviction runs first, against
// the incoming date, so stale quotes never appear in the outgoing
// day's resting snapshot.
func (b *Book) advance(date string) error {
	cutoff, err := staleCutoff(date, b.ttl)
	if err != nil {
		return err
	}
	if b.current != "" {
		b.evictStale(date, cutoff)
		b.snapshotResting(b.current)
	}
	b.current = date
	return nil
}

// evictStale removes resting orders dated before cutoff from both
// sides, recording them on the given date. Survivors keep their
// relative order.
func (b *Book) evictStale(date, cutoff string) {
	day := b.day(date)
	b.bids = evictSide(b.bids, cutoff, &day.EvictedBuys)
	b.asks = evictSide(b.asks, cutoff, &day.EvictedSells)
}

func evictSide(side []*Order, cutoff string, into *[]Order) []*Order {
	kept := side[:0]
	for _, o := range side {
		if o.Date < cutoff {
			*into = append(*into, *o)
			continue
		}
		kept = append(kept, o)
	}
	return kept
}

// snapshotResting captures the entire resting book into the given
// day's stats as its day-end unexecuted liquidity.
func (b *Book) snapshotResting(date string) {
	day := b.day(date)
	for _, o := range b.bids {
		day.LimitBuys = append(day.LimitBuys, *o)
	}
	for _, o := range b.asks {
		day.LimitSells = append(day.LimitSells, *o)
	}
}

// recordPrices appends the current top of book to the day's series.
// An empty side means no observation for this tick, not an error.
func (b *Book) recordPrices() {
	if len(b.bids) == 0 || len(b.asks) == 0 {
		return
	}
	bid, ask := b.bids[0].Price, b.asks[0].Price

	day := b.day(b.current)
	day.BidPrices = append(day.BidPrices, bid)
	day.AskPrices = append(day.AskPrices, ask)
	day.Spreads = append(day.Spreads, ask.Sub(bid))
	day.MidPrices = append(day.MidPrices, bid.Add(ask).Div(two))
}

func (b *Book) day(date string) *DailyStats {
	ds, ok := b.days[date]
	if !ok {
		ds = new(DailyStats)
		b.days[date] = ds
	}
	return ds
}

// Days returns the accumulated per-day statistics. The map is owned
// by the book for the lifetime of the run; callers should read it
// once ingestion is done.
func (b *Book) Days() map[string]*DailyStats {
	return b.days
}

// Dates returns the dates that had at least one order, ascending.
func (b *Book) Dates() []string {
	dates := make([]string, 0, len(b.days))
	for date := range b.days {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// CurrentDate returns the book's processing date, empty before the
// first order.
func (b *Book) CurrentDate() string {
	return b.current
}

// BestBid returns a snapshot of the top bid, if any.
func (b *Book) BestBid() (Order, bool) {
	if len(b.bids) == 0 {
		return Order{}, false
	}
	return *b.bids[0], true
}

// BestAsk returns a snapshot of the top ask, if any.
func (b *Book) BestAsk() (Order, bool) {
	if len(b.asks) == 0 {
		return Order{}, false
	}
	return *b.asks[0], true
}

// Depth returns the number of resting orders on each side.
func (b *Book) Depth() (bids, asks int) {
	return len(b.bids), len(b.asks)
}

// Bids returns a snapshot of the resting bid side in priority order.
func (b *Book) Bids() []Order {
	return snapshotSide(b.bids)
}

// Asks returns a snapshot of the resting ask side in priority order.
func (b *Book) Asks() []Order {
	return snapshotSide(b.asks)
}

func snapshotSide(side []*Order) []Order {
	res := make([]Order, 0, len(side))
	for _, o := range side {
		res = append(res, *o)
	}
	return res
}

// staleCutoff returns the date ttl days before date. Resting orders
// dated strictly before it are stale.
func staleCutoff(date string, ttl int) (string, error) {
	t, err := time.Parse(dateFormat, date)
	if err != nil {
		return "", errors.Wrap(ErrBadDate, "", j.KV("date", date))
	}
	return t.AddDate(0, 0, -ttl).Format(dateFormat), nil
}
