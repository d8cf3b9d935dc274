// Package gen provides functionality for generating order streams easily.
package gen

import (
	"math/rand"
	"time"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/shopspring/decimal"

	"fxlob/book"
)

// Request defines an order generation request.
type Request struct {
	Rand  *rand.Rand // Rand for deterministic behaviour
	Count int        // Number of orders to create

	StartDate string // First trading date (yyyy-mm-dd)
	Days      int    // Calendar days to spread the orders over

	BuyProb float64 // Probability an order is a buy

	Price       float64 // Price to aim at
	PriceStdDev float64 // Standard deviation price fuzz (10% of price is good start)

	Volume       float64 // Volume to aim at
	VolumeStdDev float64 // Standard deviation volume fuzz

	Scale int32 // Decimal scale for prices and volumes
}

// GenOrders creates random orders based on the request values, in
// non-decreasing date order with sequence numbers starting at 1.
func GenOrders(req Request) ([]*book.Order, error) {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, errors.Wrap(err, "parse start date", j.KV("date", req.StartDate))
	}

	days := req.Days
	if days < 1 {
		days = 1
	}
	perDay := req.Count / days
	if perDay < 1 {
		perDay = 1
	}

	res := make([]*book.Order, 0, req.Count)
	for seq := 1; seq <= req.Count; seq++ {
		day := (seq - 1) / perDay
		if day >= days {
			day = days - 1
		}

		res = append(res, &book.Order{
			Sequence: int64(seq),
			IsBuy:    req.Rand.Float64() < req.BuyProb,
			Price:    fuzz(req.Rand, req.Price, req.PriceStdDev, req.Scale),
			Volume:   fuzz(req.Rand, req.Volume, req.VolumeStdDev, req.Scale),
			Date:     start.AddDate(0, 0, day).Format("2006-01-02"),
		})
	}
	return res, nil
}

// fuzz samples a normal around aim, falling back to aim itself when
// the sample rounds to zero or below.
func fuzz(r *rand.Rand, aim, stdDev float64, scale int32) decimal.Decimal {
	d := decimal.NewFromFloat(r.NormFloat64()*stdDev + aim).Round(scale)
	if d.Sign() <= 0 {
		return decimal.NewFromFloat(aim).Round(scale)
	}
	return d
}
