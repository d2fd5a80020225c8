// Package store persists calendar events.
//
// EventStore is implemented by BunStore (SQLite through bun) and by
// client.Client (the REST API over HTTP), so anything that renders or
// schedules against events works the same with a local or a remote store.
package store

import (
	"context"
	"strings"

	"calgrid/src-server/model"

	"github.com/samber/mo"
)

type EventStore interface {
	// List events on date, or every event ordered by date when date is None.
	// An empty result is not an error.
	ListEvents(ctx context.Context, date mo.Option[string]) ([]model.Event, error)
	// Persist a new event and return it with its id and creation time.
	CreateEvent(ctx context.Context, in NewEvent) (model.Event, error)
	// Remove an event permanently.
	DeleteEvent(ctx context.Context, id string) error
}

// NewEvent is the input of CreateEvent.
type NewEvent struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Time        string `json:"time,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// Trim surrounding whitespace on every field.
func (n NewEvent) Normalize() NewEvent {
	return NewEvent{
		Date:        strings.TrimSpace(n.Date),
		Title:       strings.TrimSpace(n.Title),
		Time:        strings.TrimSpace(n.Time),
		Duration:    strings.TrimSpace(n.Duration),
		Description: strings.TrimSpace(n.Description),
	}
}

// Validate returns a *ValidationError describing the first problem found.
func (n NewEvent) Validate() error {
	switch {
	case n.Date == "" || n.Title == "":
		return &ValidationError{Msg: MsgDateAndTitleRequired}
	case !model.IsValidDate(n.Date):
		return &ValidationError{Msg: "date must be a valid YYYY-MM-DD date"}
	case n.Time != "" && !model.IsValidClock(n.Time):
		return &ValidationError{Msg: "time must be HH:MM (24h)"}
	}
	return nil
}

// Date filter helper: an empty string means no filter.
func DateFilter(date string) mo.Option[string] {
	if date == "" {
		return mo.None[string]()
	}
	return mo.Some(date)
}
