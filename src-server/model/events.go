package model

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/uptrace/bun"
)

const (
	// DateLayout is the only accepted date format, zero padded.
	DateLayout = "2006-01-02"
	// ClockLayout is the accepted time-of-day format, 24h zero padded.
	ClockLayout = "15:04"
)

var (
	dateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string `bun:"id,pk" json:"id"`                 // assigned by the store
	Date        string `bun:"date,notnull" json:"date"`        // required, YYYY-MM-DD
	Title       string `bun:"title,notnull" json:"title"`      // required
	Time        string `bun:"time" json:"time,omitempty"`      // HH:MM
	Duration    string `bun:"duration" json:"duration,omitempty"`
	Description string `bun:"description" json:"description,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"` // assigned by the store
}

// Check that the date is a real calendar date in YYYY-MM-DD.
func IsValidDate(date string) bool {
	if !dateRegex.MatchString(date) {
		return false
	}
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

// Check that the clock is HH:MM in 24h.
func IsValidClock(clock string) bool {
	return clockRegex.MatchString(clock)
}

// Insert a new event row. ID and CreatedAt must already be set.
func (e *Event) Insert(ctx context.Context, db bun.IDB) error {
	switch {
	case e.ID == "":
		return fmt.Errorf("(*Event).Insert: event id is blank")
	case e.Title == "":
		return fmt.Errorf("(*Event).Insert: title is blank")
	case !IsValidDate(e.Date):
		return fmt.Errorf("(*Event).Insert: date %q is invalid", e.Date)
	case e.Time != "" && !IsValidClock(e.Time):
		return fmt.Errorf("(*Event).Insert: time %q is invalid", e.Time)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if _, err := db.NewInsert().
		Model(e).
		Exec(ctx); err != nil {
		return fmt.Errorf("(*Event).Insert: %w", err)
	}
	return nil
}

// When the event starts, in loc. All-day events start at midnight.
func (e *Event) Start(loc *time.Location) (time.Time, error) {
	if e.Time == "" {
		return time.ParseInLocation(DateLayout, e.Date, loc)
	}
	return time.ParseInLocation(DateLayout+" "+ClockLayout, e.Date+" "+e.Time, loc)
}

func (e *Event) ToDiscordEmbed() *discordgo.MessageEmbed {
	when := e.Date
	if e.Time != "" {
		when += " " + e.Time
	}
	embed := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Description,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Date",
				Value:  when,
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: e.ID,
		},
	}
	if e.Duration != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Duration",
			Value:  e.Duration,
			Inline: true,
		})
	}
	return embed
}
