package book

import (
	"github.com/shopspring/decimal"
)

// cross matches the incoming aggressor against the best resting order
// on the opposite side, or rests it on its own side if it does not
// cross. The resting order sets the execution price.
func (b *Book) cross(o *Order) {
	for {
		opp := b.side(!o.IsBuy)
		if len(*opp) == 0 || !crosses(o, (*opp)[0]) {
			b.rest(o)
			return
		}

		r := (*opp)[0]
		qty := decimal.Min(o.Volume, r.Volume)
		price := r.Price

		day := b.day(b.current)
		day.DeltaP = append(day.DeltaP, price.Sub(b.midOr(price)))
		day.MarketVolumes = append(day.MarketVolumes, o.Volume)
		day.Trades = append(day.Trades, Trade{
			Quantity: qty,
			Price:    price,
			Taker:    *o,
			Maker:    *r,
		})
		b.recordMarket(day, o)

		switch balance := o.Volume.Cmp(r.Volume); {
		case balance > 0:
			// Maker consumed, aggressor remainder continues.
			*opp = (*opp)[1:]
			o.Volume = o.Volume.Sub(qty)
			if b.matchThrough {
				continue
			}
			// Default policy: the remainder rests on the aggressor's
			// own side, which can leave the book transiently crossed.
			b.insert(o)
		case balance < 0:
			// Aggressor filled, maker stays with reduced volume.
			r.Volume = r.Volume.Sub(qty)
		default:
			// Both filled exactly.
			*opp = (*opp)[1:]
		}
		return
	}
}

// rest inserts o on its own side. The rate distance is measured
// against the best own-side price before insertion.
func (b *Book) rest(o *Order) {
	own := b.side(o.IsBuy)
	if len(*own) > 0 {
		best := (*own)[0].Price
		var rd decimal.Decimal
		if o.IsBuy {
			rd = best.Sub(o.Price).Div(best)
		} else {
			rd = o.Price.Sub(best).Div(best)
		}

		day := b.day(b.current)
		day.RateDistances = append(day.RateDistances, rd)
		if o.IsBuy {
			day.BidRateDistances = append(day.BidRateDistances, rd)
		} else {
			day.AskRateDistances = append(day.AskRateDistances, rd)
		}
	}
	b.insert(o)
}

// executeResidual trades the two top-of-book orders against each
// other while the book is crossed. The side opposite the triggering
// order is the maker and sets the price.
func (b *Book) executeResidual(takerIsBuy bool) {
	bid, ask := b.bids[0], b.asks[0]
	qty := decimal.Min(bid.Volume, ask.Volume)

	price := ask.Price
	taker, maker := bid, ask
	if !takerIsBuy {
		price = bid.Price
		taker, maker = ask, bid
	}

	day := b.day(b.current)
	day.Trades = append(day.Trades, Trade{
		Quantity: qty,
		Price:    price,
		Taker:    *taker,
		Maker:    *maker,
	})

	switch balance := bid.Volume.Cmp(ask.Volume); {
	case balance > 0:
		b.asks = b.asks[1:]
		bid.Volume = bid.Volume.Sub(qty)
	case balance < 0:
		b.bids = b.bids[1:]
		ask.Volume = ask.Volume.Sub(qty)
	default:
		b.bids = b.bids[1:]
		b.asks = b.asks[1:]
	}
}

// insert places o on its own side keeping (price, sequence) priority:
// bids best price first descending, asks ascending, arrival order
// within a price level.
func (b *Book) insert(o *Order) {
	side := b.side(o.IsBuy)

	idx := len(*side)
	for i, r := range *side {
		if beats(o, r) {
			idx = i
			break
		}
	}

	s := append([]*Order(nil), (*side)[:idx]...)
	s = append(s, o)
	s = append(s, (*side)[idx:]...)
	*side = s
}

func (b *Book) side(isBuy bool) *[]*Order {
	if isBuy {
		return &b.bids
	}
	return &b.asks
}

// crossed reports whether the top of book satisfies bid >= ask.
func (b *Book) crossed() bool {
	return len(b.bids) > 0 && len(b.asks) > 0 &&
		b.bids[0].Price.Cmp(b.asks[0].Price) >= 0
}

// crosses reports whether aggressor o trades against resting order r
// on the opposite side.
func crosses(o, r *Order) bool {
	if o.IsBuy {
		return o.Price.Cmp(r.Price) >= 0
	}
	return o.Price.Cmp(r.Price) <= 0
}

// beats reports whether o has strictly better price priority than
// resting order r on the same side. Equal prices do not beat, so
// insertion lands after existing orders at the level and sequence
// order is preserved.
func beats(o, r *Order) bool {
	if o.IsBuy {
		return o.Price.Cmp(r.Price) > 0
	}
	return o.Price.Cmp(r.Price) < 0
}

// midOr returns the mid-price if both sides are quoted, else the
// fallback (the trade price, when computing delta p).
func (b *Book) midOr(fallback decimal.Decimal) decimal.Decimal {
	if len(b.bids) == 0 || len(b.asks) == 0 {
		return fallback
	}
	return b.bids[0].Price.Add(b.asks[0].Price).Div(two)
}

func (b *Book) recordMarket(day *DailyStats, o *Order) {
	if o.IsBuy {
		day.MarketBuys = append(day.MarketBuys, *o)
	} else {
		day.MarketSells = append(day.MarketSells, *o)
	}
}
