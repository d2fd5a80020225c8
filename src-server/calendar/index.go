package calendar

import "calgrid/src-server/model"

// EventIndex groups events by their date string, keeping the input order
// within a day.
type EventIndex struct {
	byDate map[string][]model.Event
}

func NewEventIndex(events []model.Event) EventIndex {
	byDate := make(map[string][]model.Event)
	for _, e := range events {
		byDate[e.Date] = append(byDate[e.Date], e)
	}
	return EventIndex{byDate: byDate}
}

// Events on date in input order. Never nil.
func (idx EventIndex) EventsOn(date string) []model.Event {
	events, ok := idx.byDate[date]
	if !ok {
		return []model.Event{}
	}
	return events
}
