// Package stats persists one row per trading day: a few summary
// columns for cheap querying plus the full statistics document as
// JSON for the analytics pipeline.
package stats

import (
	"context"
	"database/sql"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/shopspring/decimal"

	"fxlob/book"
)

var ErrDayNotFound = errors.New("day not found", j.C("ERR_9b4e2d7f1c8a3066"))

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Day is one persisted trading day.
type Day struct {
	ID        int64
	Date      string
	Currency  string
	Trades    int
	Volume    decimal.Decimal // Total executed volume.
	Raw       []byte          // Full DailyStats document.
	CreatedAt time.Time
}

// Create persists the stats record for one trading day and returns
// the row id.
func Create(ctx context.Context, dbc *sql.DB, date, currency string, ds *book.DailyStats) (int64, error) {
	raw, err := json.Marshal(ds)
	if err != nil {
		return 0, errors.Wrap(err, "marshal daily stats", j.KV("date", date))
	}

	var volume decimal.Decimal
	for _, t := range ds.Trades {
		volume = volume.Add(t.Quantity)
	}

	var id int64
	err = dbc.QueryRowContext(ctx,
		`insert into daily_stats (date, currency, trades, volume, raw, created_at)
		 values ($1, $2, $3, $4, $5, $6)
		 returning id`,
		date, currency, len(ds.Trades), volume, raw, time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert daily stats", j.KV("date", date))
	}

	return id, nil
}

// Lookup returns the persisted day for a date.
func Lookup(ctx context.Context, dbc *sql.DB, date string) (*Day, error) {
	row := dbc.QueryRowContext(ctx,
		`select id, date, currency, trades, volume, raw, created_at
		 from daily_stats
		 where date = $1`,
		date)

	var day Day
	err := row.Scan(&day.ID, &day.Date, &day.Currency, &day.Trades,
		&day.Volume, &day.Raw, &day.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(ErrDayNotFound, "", j.KV("date", date))
	} else if err != nil {
		return nil, errors.Wrap(err, "lookup daily stats", j.KV("date", date))
	}

	return &day, nil
}

// ListDates returns the persisted dates in ascending order.
func ListDates(ctx context.Context, dbc *sql.DB) ([]string, error) {
	rows, err := dbc.QueryContext(ctx,
		`select date from daily_stats order by date asc`)
	if err != nil {
		return nil, errors.Wrap(err, "list dates")
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, errors.Wrap(err, "scan date")
		}
		dates = append(dates, date)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list dates")
	}

	return dates, nil
}

// Stats unmarshals the day's full statistics document.
func (d *Day) Stats() (*book.DailyStats, error) {
	var ds book.DailyStats
	if err := json.Unmarshal(d.Raw, &ds); err != nil {
		return nil, errors.Wrap(err, "unmarshal daily stats", j.KV("date", d.Date))
	}
	return &ds, nil
}
