package client

import (
	"context"
	"errors"
	"log/slog"

	"github.com/eleven-am/caption-backend/internal/feed"
	"github.com/eleven-am/caption-backend/internal/realtime"
)

const historyPageSize = 20

// ErrSubscriptionClosed is returned by Watch when the server ends the
// realtime subscription while the viewer still wants it.
var ErrSubscriptionClosed = errors.New("subscription closed by server")

// Viewer keeps a live caption feed for one session at a time: it seeds
// from a history page and then applies broadcast events as they arrive.
type Viewer struct {
	api    *API
	feed   *feed.Feed
	logger *slog.Logger
}

func NewViewer(api *API, logger *slog.Logger) *Viewer {
	return &Viewer{
		api:    api,
		feed:   feed.New(),
		logger: logger.With("component", "viewer"),
	}
}

func (v *Viewer) Feed() *feed.Feed { return v.feed }

// Watch follows sessionID until the context ends or the subscription
// drops. Each call resets the feed, so switching sessions is a matter of
// letting the previous Watch return (its subscription closes with it)
// and calling Watch again.
func (v *Viewer) Watch(ctx context.Context, sessionID string) error {
	v.feed.BeginLoad()

	sub, err := realtime.Dial(ctx, v.api.BaseURL(), sessionID, v.logger)
	if err != nil {
		v.feed.Fail(err.Error())
		return err
	}
	defer sub.Close()

	history, err := v.api.History(ctx, sessionID, "", historyPageSize)
	if err != nil {
		v.feed.Fail(err.Error())
		return err
	}
	v.feed.SeedHistory(history.Captions)
	v.logger.Info("feed ready", "session_id", sessionID, "seeded", len(history.Captions))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-sub.Events():
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				v.feed.Fail(ErrSubscriptionClosed.Error())
				return ErrSubscriptionClosed
			}
			if v.feed.Apply(event) {
				v.logger.Info("caption",
					"caption_id", event.ID,
					"caption", event.Caption,
					"request_id", event.RequestID)
			}
		}
	}
}
