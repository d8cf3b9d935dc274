// Package loader reads scraped order files and turns them into the
// replay stream the book consumes: dates ascending, arrival order
// within a date, sequence numbers assigned in that order.
package loader

import (
	"os"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/shopspring/decimal"

	"fxlob/book"
)

// BuyTag marks a buy intent in the scraped messages; any other tag
// is a sell.
const BuyTag = "compro"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// raw is one scraped message: {"sign": "compro", "price": 105, "volume": 2}.
type raw struct {
	Sign   string          `json:"sign"`
	Price  decimal.Decimal `json:"price"`
	Volume decimal.Decimal `json:"volume"`
}

// Load reads an orders file, a JSON object keyed by ISO calendar
// date with that day's messages in arrival order.
func Load(path string) ([]*book.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read orders file", j.KV("path", path))
	}
	ol, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "", j.KV("path", path))
	}
	return ol, nil
}

// Parse decodes an orders document. Messages with non-positive
// volume are dropped here so they never reach the book; sequence
// numbers count only the orders that survive the filter.
func Parse(data []byte) ([]*book.Order, error) {
	var byDate map[string][]raw
	if err := json.Unmarshal(data, &byDate); err != nil {
		return nil, errors.Wrap(err, "decode orders file")
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	var (
		res []*book.Order
		seq int64
	)
	for _, date := range dates {
		for _, r := range byDate[date] {
			if r.Volume.Sign() <= 0 {
				continue
			}
			seq++
			res = append(res, &book.Order{
				Sequence: seq,
				IsBuy:    r.Sign == BuyTag,
				Price:    r.Price,
				Volume:   r.Volume,
				Date:     date,
			})
		}
	}
	return res, nil
}
