// Command replay runs one order-book replay: it loads an orders
// file, feeds it through the book and persists the per-day stats.
package main

import (
	"context"
	"database/sql"
	"flag"
	"os"

	_ "github.com/lib/pq"
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"

	"fxlob"
)

var configPath = flag.String("config", "", "path to yaml config file")

func main() {
	flag.Parse()
	ctx := context.Background()

	if err := run(ctx); err != nil {
		log.Error(ctx, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := fxlob.LoadConfig(*configPath)
	if err != nil {
		return err
	}
	if cfg.OrdersPath == "" {
		return errors.New("orders path not configured")
	}

	var dbc *sql.DB
	if cfg.DatabaseURL == "" {
		log.Info(ctx, "no database configured, skipping persistence")
	} else {
		dbc, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "open database")
		}
		defer dbc.Close()

		if err := dbc.PingContext(ctx); err != nil {
			return errors.Wrap(err, "ping database")
		}
	}

	var m fxlob.Metrics
	_, err = fxlob.Run(ctx, dbc, cfg, fxlob.WithMetrics(&m))
	if err != nil {
		return err
	}

	log.Info(ctx, "done", j.KV("orders", m.Count()))
	return nil
}
