package calendar

import (
	"time"

	"calgrid/src-server/store"
)

// View is the renderer state. Every transition returns a new value and
// leaves the receiver untouched.
type View struct {
	Year   int
	Month  int // 0..11
	Prompt Prompt
}

// Prompt is the add-event form.
type Prompt struct {
	Open  bool
	Draft store.NewEvent
	// one-time token guarding against double submission
	Token string
	// set when the last submit failed; the draft is kept as typed
	Err string
}

type Action int

const (
	ActionPrev Action = iota
	ActionNext
	ActionOpenPrompt
	ActionClosePrompt
)

// The view of the month containing t.
func ViewAt(t time.Time) View {
	return View{Year: t.Year(), Month: int(t.Month()) - 1}
}

// Build a view from possibly out-of-range input, e.g. month 12 or -1.
func NewView(year, month int) View {
	y, m := AddMonths(year, 0, month)
	return View{Year: y, Month: m}
}

func (v View) Prev() View {
	v.Year, v.Month = AddMonths(v.Year, v.Month, -1)
	v.Prompt = Prompt{}
	return v
}

func (v View) Next() View {
	v.Year, v.Month = AddMonths(v.Year, v.Month, 1)
	v.Prompt = Prompt{}
	return v
}

// Open the add-event form pre-filled with date.
func (v View) OpenPrompt(date, token string) View {
	v.Prompt = Prompt{
		Open:  true,
		Draft: store.NewEvent{Date: date},
		Token: token,
	}
	return v
}

// Dismiss the form without side effects.
func (v View) ClosePrompt() View {
	v.Prompt = Prompt{}
	return v
}

// Keep the form open with what the user typed and an error to show.
func (v View) RejectPrompt(draft store.NewEvent, token, msg string) View {
	v.Prompt = Prompt{
		Open:  true,
		Draft: draft,
		Token: token,
		Err:   msg,
	}
	return v
}

// Apply a navigation or prompt action. SUBMIT is effectful and lives on
// the Renderer.
func (v View) Apply(action Action, date, token string) View {
	switch action {
	case ActionPrev:
		return v.Prev()
	case ActionNext:
		return v.Next()
	case ActionOpenPrompt:
		return v.OpenPrompt(date, token)
	case ActionClosePrompt:
		return v.ClosePrompt()
	default:
		return v
	}
}

// Whether date falls inside the viewed month.
func (v View) Contains(date string) bool {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	return t.Year() == v.Year && int(t.Month())-1 == v.Month
}
