package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"calgrid/src-server/model"
	"calgrid/src-server/store"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// matches the part of a date phrase that names a clock time
var clockPhraseRegex = regexp.MustCompile(`(?i)\b\d{1,2}(:\d{2})?\s*(am|pm|a\.m\.|p\.m\.)|\b\d{1,2}:\d{2}\b|\bnoon\b|\bmidnight\b`)

func NewWhen() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// Turn free text like "dentist tomorrow at 3pm" into a NewEvent. The date
// phrase is cut out of the text and the rest becomes the title. base is
// "now" in the user's timezone.
func ParseQuickAdd(w *when.Parser, text string, base time.Time) (store.NewEvent, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return store.NewEvent{}, &store.ValidationError{Msg: "text is required"}
	}

	result, err := w.Parse(text, base)
	if err != nil {
		return store.NewEvent{}, fmt.Errorf("ParseQuickAdd: %w", err)
	}
	if result == nil {
		return store.NewEvent{}, &store.ValidationError{Msg: "no date found in text"}
	}

	rest := text[:result.Index] + " " + text[result.Index+len(result.Text):]
	newEvent := store.NewEvent{
		Date:  result.Time.Format(model.DateLayout),
		Title: CleanupString(rest),
	}
	if clockPhraseRegex.MatchString(result.Text) {
		newEvent.Time = result.Time.Format(model.ClockLayout)
	}
	if newEvent.Title == "" {
		return store.NewEvent{}, &store.ValidationError{Msg: store.MsgDateAndTitleRequired}
	}
	return newEvent, nil
}
