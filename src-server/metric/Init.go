package metric

import (
	"log/slog"
	"time"

	"calgrid/src-server/utils"

	"github.com/prometheus/client_golang/prometheus"
)

// Register a gauge, tolerating one already registered by an earlier Init.
func register(name, help string) prometheus.Gauge {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	})
	if err := prometheus.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing
			}
		}
		slog.Error("can't register metric", "name", name, "error", err)
		return gauge
	}
	slog.Debug("metric registered", "name", name)
	gauge.Set(0)
	return gauge
}

func unregister(name string, gauge prometheus.Gauge) {
	switch prometheus.Unregister(gauge) {
	case true:
		slog.Debug("metric unregistered", "name", name)
	case false:
		slog.Warn("metric not registered", "name", name)
	}
}

// Gauge fed by a channel of latencies, reset to 0 when nothing arrives for
// clearInterval.
func fromChan(as *utils.AppState, name, help string, ch <-chan float64, clearInterval time.Duration) {
	gauge := register(name, help)
	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		clearTicker := time.NewTicker(clearInterval)
		defer clearTicker.Stop()
		for {
			select {
			case <-*gracefulShutdownCh:
				unregister(name, gauge)
				return
			case latency := <-ch:
				gauge.Set(latency)
				clearTicker.Reset(clearInterval)
			case <-clearTicker.C:
				gauge.Set(0)
			}
		}
	}()
}

// Every sample in calgrid_* gauges is in microseconds.
func Init(as *utils.AppState) {
	tickerInterval := as.Config.GetMetricCollectionInterval()
	clearTickerInterval := tickerInterval * 2

	databaseEmptyRead(as, tickerInterval)
	fromChan(as,
		"calgrid_database_read_microsec",
		"The latency of an event list query in microseconds",
		as.MetricChans.DatabaseRead, clearTickerInterval)
	fromChan(as,
		"calgrid_database_write_microsec",
		"The latency of an event insert or delete in microseconds",
		as.MetricChans.DatabaseWrite, clearTickerInterval)
	eventCount(as, tickerInterval)
}
