package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"calgrid/src-server/model"

	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/uptrace/bun"
)

type OpKind string

const (
	OpRead  OpKind = "read"
	OpWrite OpKind = "write"
)

// BunStore keeps events in a SQL database through bun.
type BunStore struct {
	db  bun.IDB
	now func() time.Time
	// observe receives the latency of every successful query
	observe func(kind OpKind, latency time.Duration)
}

type Option func(*BunStore)

// Report query latency, e.g. to the metric channels.
func WithObserver(fn func(kind OpKind, latency time.Duration)) Option {
	return func(s *BunStore) {
		s.observe = fn
	}
}

// Override the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *BunStore) {
		s.now = now
	}
}

func NewBunStore(db bun.IDB, opts ...Option) *BunStore {
	s := &BunStore{
		db:      db,
		now:     func() time.Time { return time.Now().UTC() },
		observe: func(OpKind, time.Duration) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ EventStore = (*BunStore)(nil)

func (s *BunStore) ListEvents(ctx context.Context, date mo.Option[string]) ([]model.Event, error) {
	start := time.Now()
	eventModels := make([]model.Event, 0)
	query := s.db.NewSelect().Model(&eventModels)
	if d, ok := date.Get(); ok {
		query = query.Where("date = ?", d)
	} else {
		query = query.Order("date ASC")
	}
	if err := query.
		Order("created_at ASC").
		OrderExpr("rowid ASC").
		Scan(ctx); err != nil {
		return nil, &UnavailableError{Op: "(*BunStore).ListEvents", Err: err}
	}
	s.observe(OpRead, time.Since(start))
	return eventModels, nil
}

func (s *BunStore) CreateEvent(ctx context.Context, in NewEvent) (model.Event, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.Event{}, err
	}

	start := time.Now()
	eventModel := model.Event{
		ID:          uuid.NewString(),
		Date:        in.Date,
		Title:       in.Title,
		Time:        in.Time,
		Duration:    in.Duration,
		Description: in.Description,
		CreatedAt:   s.now(),
	}
	if err := eventModel.Insert(ctx, s.db); err != nil {
		return model.Event{}, &UnavailableError{Op: "(*BunStore).CreateEvent", Err: err}
	}
	s.observe(OpWrite, time.Since(start))
	slog.Debug("event created", "id", eventModel.ID, "date", eventModel.Date)
	return eventModel, nil
}

// ImportEvents stores every event or none of them. The whole batch is
// validated before the first insert.
func (s *BunStore) ImportEvents(ctx context.Context, in []NewEvent) ([]model.Event, error) {
	normalized := make([]NewEvent, 0, len(in))
	for i := range in {
		newEvent := in[i].Normalize()
		if err := newEvent.Validate(); err != nil {
			return nil, err
		}
		normalized = append(normalized, newEvent)
	}

	start := time.Now()
	eventModels := make([]model.Event, 0, len(normalized))
	if err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, newEvent := range normalized {
			eventModel := model.Event{
				ID:          uuid.NewString(),
				Date:        newEvent.Date,
				Title:       newEvent.Title,
				Time:        newEvent.Time,
				Duration:    newEvent.Duration,
				Description: newEvent.Description,
				CreatedAt:   s.now(),
			}
			if err := eventModel.Insert(ctx, tx); err != nil {
				return err
			}
			eventModels = append(eventModels, eventModel)
		}
		return nil
	}); err != nil {
		return nil, &UnavailableError{Op: "(*BunStore).ImportEvents", Err: err}
	}
	s.observe(OpWrite, time.Since(start))
	slog.Debug("events imported", "count", len(eventModels))
	return eventModels, nil
}

func (s *BunStore) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		return &NotFoundError{ID: id}
	}

	start := time.Now()
	res, err := s.db.NewDelete().
		Model((*model.Event)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return &UnavailableError{Op: "(*BunStore).DeleteEvent", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &UnavailableError{Op: "(*BunStore).DeleteEvent", Err: err}
	}
	if affected == 0 {
		return &NotFoundError{ID: id}
	}
	s.observe(OpWrite, time.Since(start))
	slog.Debug("event deleted", "id", id)
	return nil
}

// Number of stored events.
func (s *BunStore) Count(ctx context.Context) (int, error) {
	count, err := s.db.NewSelect().
		Model((*model.Event)(nil)).
		Count(ctx)
	if err != nil {
		return 0, &UnavailableError{Op: "(*BunStore).Count", Err: err}
	}
	return count, nil
}

// Probe the database with a query that matches nothing.
func (s *BunStore) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if _, err := s.db.NewSelect().
		Model((*model.Event)(nil)).
		Where("id = ?", "").
		Exists(ctx); err != nil {
		return 0, fmt.Errorf("(*BunStore).Ping: %w", err)
	}
	return time.Since(start), nil
}

// Insert the sample events when the store is empty. Returns how many were added.
func (s *BunStore) Seed(ctx context.Context) (int, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("(*BunStore).Seed: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	added := 0
	for _, sample := range model.SampleEvents() {
		if _, err := s.CreateEvent(ctx, NewEvent{
			Date:        sample.Date,
			Title:       sample.Title,
			Time:        sample.Time,
			Duration:    sample.Duration,
			Description: sample.Description,
		}); err != nil {
			return added, fmt.Errorf("(*BunStore).Seed: %w", err)
		}
		added++
	}
	return added, nil
}
