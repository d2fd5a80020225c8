package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"calgrid/src-server/model"
	"calgrid/src-server/notify"
	"calgrid/src-server/store"
	"calgrid/src-server/utils"

	"github.com/robfig/cron/v3"
)

// Give up on a digest that takes longer than this.
const digestTimeout = time.Minute

// Post the events of date to n.
func SendDigest(ctx context.Context, s store.EventStore, n notify.Notifier, date string) (int, error) {
	events, err := s.ListEvents(ctx, store.DateFilter(date))
	if err != nil {
		return 0, fmt.Errorf("SendDigest: %w", err)
	}
	if err := n.Digest(ctx, date, events); err != nil {
		return 0, fmt.Errorf("SendDigest: %w", err)
	}
	return len(events), nil
}

// Digest starts a cron job posting today's events on DIGEST_CRON. It stops
// when the app shuts down.
func Digest(as *utils.AppState) (*cron.Cron, error) {
	loc := as.Config.GetLocation()
	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(as.Config.GetDigestCron(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
		defer cancel()
		today := time.Now().In(loc).Format(model.DateLayout)
		count, err := SendDigest(ctx, as.ViewStore, as.Notifier, today)
		if err != nil {
			slog.Error("can't send daily digest", "date", today, "error", err)
			return
		}
		slog.Info("daily digest sent", "date", today, "events", count)
	}); err != nil {
		return nil, fmt.Errorf("Digest: %w", err)
	}
	c.Start()

	gracefulShutdownCh := as.CreateGracefulShutdownChan()
	go func() {
		<-*gracefulShutdownCh
		<-c.Stop().Done()
		slog.Debug("digest scheduler stopped")
	}()
	return c, nil
}
