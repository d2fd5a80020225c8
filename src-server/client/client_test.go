package client_test

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"calgrid/src-server/client"
	"calgrid/src-server/model"
	"calgrid/src-server/notify"
	"calgrid/src-server/route"
	"calgrid/src-server/store"
	"calgrid/src-server/utils"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// A client against a real events API backed by an in-memory database.
func newTestClient(t *testing.T) (*client.Client, *store.BunStore) {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)
	bundb := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { bundb.Close() })
	require.NoError(t, model.CreateSchema(context.Background(), bundb))

	as := &utils.AppState{
		Config:      utils.DefaultConfig(),
		BunDB:       bundb,
		Store:       store.NewBunStore(bundb),
		When:        utils.NewWhen(),
		Notifier:    notify.Nop{},
		MetricChans: utils.NewMetricChans(),
	}
	as.ViewStore = as.Store

	muxer := http.NewServeMux()
	route.Events(muxer, as)
	server := httptest.NewServer(muxer)
	t.Cleanup(server.Close)
	return client.New(server.URL, client.WithHTTPClient(server.Client())), as.Store
}

func TestClient_RoundTrip(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	created, err := c.CreateEvent(ctx, store.NewEvent{Date: "2025-11-18", Title: "Code Review", Time: "10:00"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	events, err := c.ListEvents(ctx, mo.Some("2025-11-18"))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, created.ID, events[0].ID)
	assert.Equal(t, "10:00", events[0].Time)

	require.NoError(t, c.DeleteEvent(ctx, created.ID))

	events, err = c.ListEvents(ctx, mo.None[string]())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestClient_ValidationError(t *testing.T) {
	c, s := newTestClient(t)

	_, err := c.CreateEvent(context.Background(), store.NewEvent{Date: "2025-11-18"})
	var validationErr *store.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, store.MsgDateAndTitleRequired, validationErr.Msg)

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestClient_DeleteMissing(t *testing.T) {
	c, _ := newTestClient(t)

	err := c.DeleteEvent(context.Background(), "nope")
	var notFound *store.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "nope", notFound.ID)
}

func TestClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"disk full"}`))
	}))
	defer server.Close()

	_, err := client.New(server.URL).ListEvents(context.Background(), mo.None[string]())
	var unavailable *store.UnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, "(*Client).ListEvents", unavailable.Op)
	assert.Contains(t, err.Error(), "disk full")
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := client.New(url).CreateEvent(context.Background(), store.NewEvent{Date: "2025-11-18", Title: "Call"})
	var unavailable *store.UnavailableError
	assert.True(t, errors.As(err, &unavailable))
}
