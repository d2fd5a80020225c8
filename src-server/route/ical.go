package route

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"calgrid/src-server/model"
	"calgrid/src-server/store"
	"calgrid/src-server/utils"

	"github.com/emersion/go-ical"
)

const icalProdID = "-//calgrid//Calendar//EN"

// max accepted .ics upload
const maxIcalBytes = 4 << 20

func Ical(muxer *http.ServeMux, as *utils.AppState) {
	// every event as an iCalendar feed
	muxer.HandleFunc("GET /events.ics", func(w http.ResponseWriter, r *http.Request) {
		events, err := as.Store.ListEvents(r.Context(), store.DateFilter(""))
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		var buf bytes.Buffer
		if err := ical.NewEncoder(&buf).Encode(ToIcalCalendar(events, as.Config.GetLocation())); err != nil {
			writeStoreError(w, r, fmt.Errorf("encode calendar: %w", err))
			return
		}
		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	})

	// create one event per VEVENT in the uploaded .ics body, all or nothing
	muxer.HandleFunc("POST /events/import", func(w http.ResponseWriter, r *http.Request) {
		cal, err := ical.NewDecoder(io.LimitReader(r.Body, maxIcalBytes)).Decode()
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid iCalendar body")
			return
		}
		newEvents, err := FromIcalCalendar(cal, as.Config.GetLocation())
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		created, err := as.Store.ImportEvents(r.Context(), newEvents)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	})
}

// Events without a time become all-day VEVENTs.
func ToIcalCalendar(events []model.Event, loc *time.Location) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, icalProdID)
	cal.Props.SetText(ical.PropVersion, "2.0")

	for i := range events {
		e := events[i]
		start, err := e.Start(loc)
		if err != nil {
			continue
		}
		vevent := ical.NewEvent()
		vevent.Props.SetText(ical.PropUID, e.ID)
		vevent.Props.SetText(ical.PropSummary, e.Title)
		vevent.Props.SetDateTime(ical.PropDateTimeStamp, e.CreatedAt.UTC())
		if e.Time == "" {
			vevent.Props.SetDate(ical.PropDateTimeStart, start)
		} else {
			vevent.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
		}
		if e.Description != "" {
			vevent.Props.SetText(ical.PropDescription, e.Description)
		}
		if e.Duration != "" {
			vevent.Props.SetText("X-CALGRID-DURATION", e.Duration)
		}
		cal.Children = append(cal.Children, vevent.Component)
	}
	return cal
}

// Map each VEVENT to a NewEvent. A VEVENT without a summary or a start is
// a validation error for the whole calendar.
func FromIcalCalendar(cal *ical.Calendar, loc *time.Location) ([]store.NewEvent, error) {
	events := cal.Events()
	newEvents := make([]store.NewEvent, 0, len(events))
	for i, vevent := range events {
		summary, err := vevent.Props.Text(ical.PropSummary)
		if err != nil || strings.TrimSpace(summary) == "" {
			return nil, &store.ValidationError{Msg: fmt.Sprintf("event %d has no summary", i+1)}
		}
		startProp := vevent.Props.Get(ical.PropDateTimeStart)
		if startProp == nil {
			return nil, &store.ValidationError{Msg: fmt.Sprintf("event %d has no start", i+1)}
		}
		start, err := vevent.DateTimeStart(loc)
		if err != nil {
			return nil, &store.ValidationError{Msg: fmt.Sprintf("event %d has an invalid start: %v", i+1, err)}
		}
		start = start.In(loc)

		newEvent := store.NewEvent{
			Date:  start.Format(model.DateLayout),
			Title: summary,
		}
		if startProp.ValueType() != ical.ValueDate {
			newEvent.Time = start.Format(model.ClockLayout)
		}
		if description, err := vevent.Props.Text(ical.PropDescription); err == nil {
			newEvent.Description = description
		}
		if duration, err := vevent.Props.Text("X-CALGRID-DURATION"); err == nil {
			newEvent.Duration = duration
		}
		if err := newEvent.Normalize().Validate(); err != nil {
			var validationErr *store.ValidationError
			if errors.As(err, &validationErr) {
				validationErr.Msg = fmt.Sprintf("event %d: %s", i+1, validationErr.Msg)
			}
			return nil, err
		}
		newEvents = append(newEvents, newEvent)
	}
	return newEvents, nil
}
