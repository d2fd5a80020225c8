package scheduler

import (
	"context"
	"errors"
	"testing"

	"calgrid/src-server/model"
	"calgrid/src-server/store"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	events []model.Event
	err    error
}

func (m *memStore) ListEvents(_ context.Context, date mo.Option[string]) ([]model.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []model.Event{}
	for _, e := range m.events {
		if d, ok := date.Get(); !ok || d == e.Date {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) CreateEvent(context.Context, store.NewEvent) (model.Event, error) {
	return model.Event{}, errors.New("not implemented")
}

func (m *memStore) DeleteEvent(context.Context, string) error {
	return errors.New("not implemented")
}

type recordingNotifier struct {
	date   string
	events []model.Event
}

func (r *recordingNotifier) EventCreated(context.Context, model.Event) error { return nil }

func (r *recordingNotifier) Digest(_ context.Context, date string, events []model.Event) error {
	r.date = date
	r.events = events
	return nil
}

func TestSendDigest(t *testing.T) {
	s := &memStore{events: model.SampleEvents()}
	n := &recordingNotifier{}

	count, err := SendDigest(context.Background(), s, n, "2025-11-25")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, "2025-11-25", n.date)
	titles := []string{}
	for _, e := range n.events {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"Sprint Planning", "Design Review", "Client Call"}, titles)
}

func TestSendDigestEmptyDay(t *testing.T) {
	n := &recordingNotifier{}
	count, err := SendDigest(context.Background(), &memStore{events: model.SampleEvents()}, n, "2025-11-01")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, n.events)
}

func TestSendDigestStoreError(t *testing.T) {
	n := &recordingNotifier{}
	_, err := SendDigest(context.Background(), &memStore{err: &store.UnavailableError{Op: "list", Err: errors.New("down")}}, n, "2025-11-25")
	var unavailable *store.UnavailableError
	assert.ErrorAs(t, err, &unavailable)
	assert.Empty(t, n.date)
}
