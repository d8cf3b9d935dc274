// Package fxlob replays a day-ordered stream of buy and sell intents
// through a limit order book and persists one statistics record per
// trading day for the analytics pipeline.
package fxlob

import (
	"context"
	"database/sql"

	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"

	"fxlob/book"
	"fxlob/db/stats"
	"fxlob/loader"
)

// Run loads the configured orders file, replays it through a fresh
// book and persists one stats row per trading day. A nil dbc skips
// persistence, leaving all stats on the returned book. An error
// aborts the whole run; there are no partial-batch semantics.
func Run(ctx context.Context, dbc *sql.DB, cfg Config, opts ...Option) (*book.Book, error) {
	s := &state{
		snap:     func(*book.Book) {},
		countInc: func() {},
	}
	for _, opt := range opts {
		opt(s)
	}

	orders, err := loader.Load(cfg.OrdersPath)
	if err != nil {
		return nil, err
	}

	var bopts []book.Option
	if cfg.TTLDays > 0 {
		bopts = append(bopts, book.WithTTL(cfg.TTLDays))
	}
	if cfg.MatchThrough {
		bopts = append(bopts, book.WithMatchThrough())
	}
	b := book.New(bopts...)

	for _, o := range orders {
		if err := b.Ingest(o); err != nil {
			return nil, errors.Wrap(err, "ingest failed", j.KV("seq", o.Sequence))
		}
		s.countInc()
		s.snap(b)
	}
	if err := b.Finalize(); err != nil {
		return nil, err
	}

	var trades int
	for _, date := range b.Dates() {
		ds := b.Days()[date]
		trades += len(ds.Trades)

		if dbc == nil {
			continue
		}
		if _, err := stats.Create(ctx, dbc, date, cfg.Currency, ds); err != nil {
			return nil, err
		}
	}

	log.Info(ctx, "replay complete", j.MKV{
		"orders": len(orders),
		"days":   len(b.Dates()),
		"trades": trades,
	})

	return b, nil
}

type Option func(*state)

// WithSnap registers a callback invoked with the book after every
// ingested order.
func WithSnap(f func(*book.Book)) Option {
	return func(s *state) {
		prev := s.snap
		s.snap = func(b *book.Book) {
			prev(b)
			f(b)
		}
	}
}

// WithMetrics wires replay progress into m and the package prometheus
// collectors.
func WithMetrics(m *Metrics) Option {
	return func(s *state) {
		s.countInc = m.incOrders
		prev := s.snap
		s.snap = func(b *book.Book) {
			prev(b)
			bids, asks := b.Depth()
			bookDepth.WithLabelValues("bid").Set(float64(bids))
			bookDepth.WithLabelValues("ask").Set(float64(asks))
		}
	}
}

// state encapsulates the replay driver callbacks.
type state struct {
	snap     func(*book.Book)
	countInc func()
}
