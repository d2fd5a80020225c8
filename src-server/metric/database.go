package metric

import (
	"context"
	"log/slog"
	"time"

	"calgrid/src-server/utils"
)

// Probe the database with an empty read every tickerInterval.
func databaseEmptyRead(as *utils.AppState, tickerInterval time.Duration) {
	const name = "calgrid_database_empty_read_microsec"
	gauge := register(name, "The latency of an empty database read in microseconds")
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(name, gauge)
				return
			case <-ticker.C:
				latency, err := as.Store.Ping(context.Background())
				if err != nil {
					slog.Error("can't get database latency", "error", err)
					continue
				}
				gauge.Set(float64(latency.Microseconds()))
			}
		}
	}()
}

// Number of stored events.
func eventCount(as *utils.AppState, tickerInterval time.Duration) {
	const name = "calgrid_events_total"
	gauge := register(name, "The number of stored events")
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		ticker := time.NewTicker(tickerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(name, gauge)
				return
			case <-ticker.C:
				count, err := as.Store.Count(context.Background())
				if err != nil {
					slog.Error("can't count events", "error", err)
					continue
				}
				gauge.Set(float64(count))
			}
		}
	}()
}
