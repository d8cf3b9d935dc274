// Package analytics derives plottable time series from the per-day
// statistics the book accumulates: OHLC candles, mean spreads, mean
// executed volumes and close prices. The derivation consumes the
// stats map read-only; it is not part of the matching core.
package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"fxlob/book"
)

// Candle is one day's OHLC of executed trade prices.
type Candle struct {
	Date  string
	Open  decimal.Decimal
	High  decimal.Decimal
	Low   decimal.Decimal
	Close decimal.Decimal
}

// Point is a dated scalar observation.
type Point struct {
	Date  string
	Value decimal.Decimal
}

// OHLC derives per-day candles from executed trades in event order.
// Days without trades produce no candle.
func OHLC(days map[string]*book.DailyStats) []Candle {
	var res []Candle
	for _, date := range sortedDates(days) {
		tl := days[date].Trades
		if len(tl) == 0 {
			continue
		}

		c := Candle{
			Date:  date,
			Open:  tl[0].Price,
			High:  tl[0].Price,
			Low:   tl[0].Price,
			Close: tl[len(tl)-1].Price,
		}
		for _, t := range tl[1:] {
			if t.Price.GreaterThan(c.High) {
				c.High = t.Price
			}
			if t.Price.LessThan(c.Low) {
				c.Low = t.Price
			}
		}
		res = append(res, c)
	}
	return res
}

// MeanSpread returns the per-day mean of the recorded bid-ask
// spreads. Days without a two-sided quote produce no point.
func MeanSpread(days map[string]*book.DailyStats) []Point {
	var res []Point
	for _, date := range sortedDates(days) {
		if p, ok := mean(days[date].Spreads); ok {
			res = append(res, Point{Date: date, Value: p})
		}
	}
	return res
}

// MeanExecutedVolume returns the per-day mean traded quantity.
func MeanExecutedVolume(days map[string]*book.DailyStats) []Point {
	var res []Point
	for _, date := range sortedDates(days) {
		tl := days[date].Trades
		if len(tl) == 0 {
			continue
		}
		var sum decimal.Decimal
		for _, t := range tl {
			sum = sum.Add(t.Quantity)
		}
		res = append(res, Point{
			Date:  date,
			Value: sum.Div(decimal.NewFromInt(int64(len(tl)))),
		})
	}
	return res
}

// ClosePrices returns the last executed price per day within the
// inclusive date range.
func ClosePrices(days map[string]*book.DailyStats, start, end string) []Point {
	var res []Point
	for _, date := range sortedDates(days) {
		if date < start || date > end {
			continue
		}
		tl := days[date].Trades
		if len(tl) == 0 {
			continue
		}
		res = append(res, Point{Date: date, Value: tl[len(tl)-1].Price})
	}
	return res
}

func mean(dl []decimal.Decimal) (decimal.Decimal, bool) {
	if len(dl) == 0 {
		return decimal.Decimal{}, false
	}
	var sum decimal.Decimal
	for _, v := range dl {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(dl)))), true
}

func sortedDates(days map[string]*book.DailyStats) []string {
	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}
