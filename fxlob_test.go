package fxlob

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/luno/jettison/jtest"
	"github.com/stretchr/testify/require"

	"fxlob/book"
)

const testOrders = `{
	"2021-07-23": [
		{"sign": "vendo", "price": 100, "volume": 10},
		{"sign": "compro", "price": 105, "volume": 4},
		{"sign": "compro", "price": 90, "volume": 0}
	],
	"2021-07-24": [
		{"sign": "compro", "price": 95, "volume": 5}
	]
}`

func writeOrders(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "all_orders.json")
	require.NoError(t, os.WriteFile(path, []byte(testOrders), 0644))
	return path
}

func TestRun(t *testing.T) {
	dbc, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer dbc.Close()

	mock.ExpectQuery(`insert into daily_stats`).
		WithArgs("2021-07-23", "USD", 1, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`insert into daily_stats`).
		WithArgs("2021-07-24", "USD", 0, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	cfg := Config{OrdersPath: writeOrders(t), Currency: "USD"}

	var (
		m     Metrics
		snaps int
	)
	b, err := Run(context.Background(), dbc, cfg,
		WithMetrics(&m),
		WithSnap(func(*book.Book) { snaps++ }),
	)
	jtest.Require(t, nil, err)

	// The zero-volume order is filtered by the loader.
	require.Equal(t, int64(3), m.Count())
	require.Equal(t, 3, snaps)

	require.Equal(t, []string{"2021-07-23", "2021-07-24"}, b.Dates())
	require.Len(t, b.Days()["2021-07-23"].Trades, 1)

	// The buy crossed and partially filled the resting ask.
	ask, ok := b.BestAsk()
	require.True(t, ok)
	require.Equal(t, "6", ask.Volume.String())

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunNoDatabase(t *testing.T) {
	cfg := Config{OrdersPath: writeOrders(t), Currency: "USD"}

	b, err := Run(context.Background(), nil, cfg)
	jtest.Require(t, nil, err)
	require.Len(t, b.Dates(), 2)

	// Final snapshot covers the last day's resting liquidity.
	require.Len(t, b.Days()["2021-07-24"].LimitBuys, 1)
	require.Len(t, b.Days()["2021-07-24"].LimitSells, 1)
}

func TestRunMissingFile(t *testing.T) {
	_, err := Run(context.Background(), nil, Config{OrdersPath: "does/not/exist.json"})
	require.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"orders_path: /data/all_orders.json\ncurrency: EUR\nttl_days: 14\n"), 0644))

	cfg, err := LoadConfig(path)
	jtest.Require(t, nil, err)
	require.Equal(t, "/data/all_orders.json", cfg.OrdersPath)
	require.Equal(t, "EUR", cfg.Currency)
	require.Equal(t, 14, cfg.TTLDays)
	require.False(t, cfg.MatchThrough)

	t.Setenv("CURRENCY", "USD")
	t.Setenv("MATCH_THROUGH", "1")
	cfg, err = LoadConfig(path)
	jtest.Require(t, nil, err)
	require.Equal(t, "USD", cfg.Currency)
	require.True(t, cfg.MatchThrough)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	jtest.Require(t, nil, err)
	require.Equal(t, "USD", cfg.Currency)
	require.Equal(t, 0, cfg.TTLDays)
}
