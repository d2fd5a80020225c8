package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calgrid/src-server/calendar"
	"calgrid/src-server/metric"
	"calgrid/src-server/model"
	"calgrid/src-server/route"
	"calgrid/src-server/scheduler"
	"calgrid/src-server/utils"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// LOG_LEVEL from the environment until the config is loaded
var logLevel = new(slog.LevelVar)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	logLevel.Set(utils.ParseLogLevel(os.Getenv("LOG_LEVEL")))
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	// config, database, stores and notifier all live in the AppState
	as := utils.NewAppState()
	logLevel.Set(as.Config.GetLogLevel())

	go metric.Init(as)

	if _, err := scheduler.Digest(as); err != nil {
		slog.Error("can't start daily digest", "error", err)
		os.Exit(1)
	}

	renderer := calendar.NewRenderer(as.ViewStore,
		calendar.WithLocation(as.Config.GetLocation()),
		calendar.WithOnCreate(func(e model.Event) {
			route.Announce(as, e)
		}),
	)

	muxer := http.NewServeMux()
	muxer.Handle("GET /metrics", promhttp.Handler())
	route.Health(muxer)
	route.Events(muxer, as)
	route.Ical(muxer, as)
	route.Calendar(muxer, renderer)

	server := &http.Server{
		Addr:              ":" + as.Config.GetPort(),
		Handler:           route.LogMiddleware(muxer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// http server
	go func() {
		slog.Info("app is now running, press Ctrl+C to exit", "port", as.Config.GetPort())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("cannot start HTTP server", "error", err)
			as.AppCloseSignalChan <- syscall.SIGTERM
		}
	}()

	signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-as.AppCloseSignalChan

	slog.Info("Gracefully shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Warn("can't shut down HTTP server cleanly", "error", err)
	}
	as.GracefulShutdown()
}
