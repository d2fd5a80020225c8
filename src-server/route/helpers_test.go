package route

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"calgrid/src-server/calendar"
	"calgrid/src-server/model"
	"calgrid/src-server/notify"
	"calgrid/src-server/store"
	"calgrid/src-server/utils"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// 2025-11-25 10:30 UTC
var testNow = time.Date(2025, time.November, 25, 10, 30, 0, 0, time.UTC)

// An AppState over an in-memory database, without touching the environment.
func newTestAppState(t *testing.T) *utils.AppState {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	bundb := bun.NewDB(sqldb, sqlitedialect.New())
	require.NoError(t, model.CreateSchema(context.Background(), bundb))

	as := &utils.AppState{
		Config:             utils.DefaultConfig().WithLocation(time.UTC).WithDatabasePath(":memory:"),
		RawDB:              sqldb,
		BunDB:              bundb,
		When:               utils.NewWhen(),
		Notifier:           notify.Nop{},
		MetricChans:        utils.NewMetricChans(),
		AppCloseSignalChan: make(chan os.Signal, 1),
	}
	as.Store = store.NewBunStore(bundb, store.WithObserver(as.MetricChans.Observe))
	as.ViewStore = as.Store
	t.Cleanup(as.GracefulShutdown)
	return as
}

// Every route mounted the way main does it.
func newTestServer(t *testing.T, as *utils.AppState) *httptest.Server {
	t.Helper()
	renderer := calendar.NewRenderer(as.ViewStore,
		calendar.WithLocation(time.UTC),
		calendar.WithNow(func() time.Time { return testNow }),
	)
	muxer := http.NewServeMux()
	Health(muxer)
	Events(muxer, as)
	Ical(muxer, as)
	Calendar(muxer, renderer)
	server := httptest.NewServer(LogMiddleware(muxer))
	t.Cleanup(server.Close)
	return server
}

// Client that reports redirects instead of following them.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
