package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"calgrid/src-server/model"
	"calgrid/src-server/store"

	"github.com/samber/mo"
)

var ErrDuplicateSubmission = errors.New("form was already submitted")

var weekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DayCell is one square of the grid. It is derived on every rebuild.
type DayCell struct {
	Day      int
	Date     string
	Active   bool
	Today    bool
	Events   []model.Event
	Conflict ConflictLevel
}

// Page is everything needed to draw a month.
type Page struct {
	View     View
	Title    string
	Weekdays []string
	Cells    []DayCell
	Prev     View
	Next     View
	// non-fatal problem to show above the grid
	Notice string
}

// Rows of seven cells.
func (p Page) Weeks() [][]DayCell {
	weeks := make([][]DayCell, 0, len(p.Cells)/DaysPerWeek)
	for i := 0; i+DaysPerWeek <= len(p.Cells); i += DaysPerWeek {
		weeks = append(weeks, p.Cells[i:i+DaysPerWeek])
	}
	return weeks
}

// Project lays events onto the grid of v. It has no side effects: the same
// view, events and today always give the same page.
func Project(v View, events []model.Event, today string) Page {
	grid := ComputeGrid(v.Year, v.Month)
	index := NewEventIndex(events)
	cells := make([]DayCell, 0, grid.Cells())

	prevYear, prevMonth := AddMonths(v.Year, v.Month, -1)
	prevDays := DaysIn(prevYear, prevMonth)
	for i := 0; i < grid.LeadingCount; i++ {
		day := prevDays - grid.LeadingCount + 1 + i
		cells = append(cells, DayCell{
			Day:    day,
			Date:   DateString(prevYear, prevMonth, day),
			Events: []model.Event{},
		})
	}

	for day := 1; day <= grid.DaysInMonth; day++ {
		date := DateString(v.Year, v.Month, day)
		dayEvents := index.EventsOn(date)
		cells = append(cells, DayCell{
			Day:      day,
			Date:     date,
			Active:   true,
			Today:    date == today,
			Events:   dayEvents,
			Conflict: ClassifyConflict(len(dayEvents)),
		})
	}

	nextYear, nextMonth := AddMonths(v.Year, v.Month, 1)
	for day := 1; day <= grid.TrailingCount; day++ {
		cells = append(cells, DayCell{
			Day:    day,
			Date:   DateString(nextYear, nextMonth, day),
			Events: []model.Event{},
		})
	}

	return Page{
		View:     v,
		Title:    fmt.Sprintf("%s %d", time.Month(v.Month+1), v.Year),
		Weekdays: weekdayNames,
		Cells:    cells,
		Prev:     v.Prev(),
		Next:     v.Next(),
	}
}

// Renderer rebuilds pages from an EventStore and applies SUBMIT and DELETE.
type Renderer struct {
	store store.EventStore
	guard *SubmitGuard
	loc   *time.Location
	now   func() time.Time

	// called with every event added through Submit
	onCreate func(model.Event)
}

type RendererOption func(*Renderer)

// Location used to decide which cell is today.
func WithLocation(loc *time.Location) RendererOption {
	return func(r *Renderer) {
		r.loc = loc
	}
}

func WithNow(now func() time.Time) RendererOption {
	return func(r *Renderer) {
		r.now = now
	}
}

func WithOnCreate(fn func(model.Event)) RendererOption {
	return func(r *Renderer) {
		r.onCreate = fn
	}
}

func NewRenderer(s store.EventStore, opts ...RendererOption) *Renderer {
	r := &Renderer{
		store:    s,
		guard:    NewSubmitGuard(5 * time.Minute),
		loc:      time.Local,
		now:      time.Now,
		onCreate: func(model.Event) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Today's date string in the renderer's location.
func (r *Renderer) Today() string {
	return r.now().In(r.loc).Format(model.DateLayout)
}

// The view for the current month.
func (r *Renderer) Current() View {
	return ViewAt(r.now().In(r.loc))
}

func (r *Renderer) NewToken() string {
	return r.guard.NewToken()
}

// Rebuild fetches every event and projects v. A failed fetch still yields
// a drawable page, empty and carrying a notice, alongside the error.
func (r *Renderer) Rebuild(ctx context.Context, v View) (Page, error) {
	events, err := r.store.ListEvents(ctx, mo.None[string]())
	if err != nil {
		page := Project(v, nil, r.Today())
		page.Notice = "Could not load events. Showing an empty calendar."
		return page, fmt.Errorf("(*Renderer).Rebuild: %w", err)
	}
	return Project(v, events, r.Today()), nil
}

// Submit sends the draft to the store. On success the prompt is closed; on
// any failure the prompt stays open with the draft as typed and an error.
func (r *Renderer) Submit(ctx context.Context, v View, draft store.NewEvent, token string) (View, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return v.RejectPrompt(draft, token, err.Error()), err
	}

	if !r.guard.Begin(token) {
		slog.Debug("duplicate submission refused", "token", token)
		return v.ClosePrompt(), ErrDuplicateSubmission
	}

	created, err := r.store.CreateEvent(ctx, draft)
	if err != nil {
		r.guard.Abort(token)
		msg := "Could not save the event, please try again."
		var validationErr *store.ValidationError
		if errors.As(err, &validationErr) {
			msg = validationErr.Msg
		}
		return v.RejectPrompt(draft, token, msg), fmt.Errorf("(*Renderer).Submit: %w", err)
	}
	r.guard.Finish(token)
	r.onCreate(created)

	slog.Info("event added from calendar", "id", created.ID, "date", created.Date)
	return v.ClosePrompt(), nil
}

// Delete removes an event. The view is returned unchanged either way.
func (r *Renderer) Delete(ctx context.Context, v View, id string) (View, error) {
	if err := r.store.DeleteEvent(ctx, id); err != nil {
		return v, fmt.Errorf("(*Renderer).Delete: %w", err)
	}
	return v, nil
}
