package utils

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sync"

	"calgrid/src-server/client"
	"calgrid/src-server/model"
	"calgrid/src-server/notify"
	"calgrid/src-server/store"

	"github.com/olebedev/when"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type AppState struct {
	Config *Config
	RawDB  *sql.DB
	BunDB  *bun.DB

	// backs the REST API
	Store *store.BunStore
	// what the calendar page reads and writes; Store itself, or the REST
	// API of another instance when EVENTS_API_URL is set
	ViewStore store.EventStore

	When        *when.Parser
	Notifier    notify.Notifier
	MetricChans *MetricChans

	AppCloseSignalChan chan os.Signal

	shutdownMu    sync.Mutex
	shutdownChans []chan struct{}
}

func NewAppState() *AppState {
	as := &AppState{
		AppCloseSignalChan: make(chan os.Signal, 1),
		MetricChans:        NewMetricChans(),
		When:               NewWhen(),
	}

	// env
	as.Config = NewConfig()

	// database
	var err error
	dsn := as.Config.GetDatabasePath() + "?mode=rwc"
	if as.Config.GetDatabasePath() == ":memory:" {
		dsn = ":memory:"
	}
	as.RawDB, err = sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		slog.Error("cannot open sqlite database", "error", err)
		os.Exit(1)
	}
	if dsn == ":memory:" {
		// every connection to :memory: is a separate database
		as.RawDB.SetMaxOpenConns(1)
	}
	as.RawDB.SetMaxIdleConns(8)

	as.BunDB = bun.NewDB(as.RawDB, sqlitedialect.New())
	as.BunDB.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithVerbose(true),
		bundebug.FromEnv("BUNDEBUG"),
	))

	if err := model.CreateSchema(context.Background(), as.BunDB); err != nil {
		slog.Error("can't create database schema", "error", err)
		os.Exit(1)
	}

	as.Store = store.NewBunStore(as.BunDB, store.WithObserver(as.MetricChans.Observe))
	if as.Config.GetSeedSampleData() {
		added, err := as.Store.Seed(context.Background())
		if err != nil {
			slog.Error("can't seed sample events", "error", err)
			os.Exit(1)
		}
		slog.Info("sample events seeded", "count", added)
	}

	as.ViewStore = as.Store
	if apiURL := as.Config.GetEventsAPIURL(); apiURL != "" {
		slog.Info("calendar page uses a remote events API", "url", apiURL)
		as.ViewStore = client.New(apiURL)
	}

	as.Notifier = notify.Nop{}
	if webhookURL := as.Config.GetDiscordWebhookURL(); webhookURL != "" {
		discord, err := notify.NewDiscord(webhookURL)
		if err != nil {
			slog.Error("invalid DISCORD_WEBHOOK_URL", "error", err)
			os.Exit(1)
		}
		as.Notifier = discord
	}

	return as
}

// A channel closed when the app shuts down.
func (as *AppState) CreateGracefulShutdownChan() *chan struct{} {
	as.shutdownMu.Lock()
	defer as.shutdownMu.Unlock()
	ch := make(chan struct{})
	as.shutdownChans = append(as.shutdownChans, ch)
	return &ch
}

// Close every shutdown channel, then the database.
func (as *AppState) GracefulShutdown() {
	as.shutdownMu.Lock()
	for _, ch := range as.shutdownChans {
		close(ch)
	}
	as.shutdownChans = nil
	as.shutdownMu.Unlock()

	if as.BunDB != nil {
		if err := as.BunDB.Close(); err != nil {
			slog.Warn("can't close database", "error", err)
		}
	}
}
