package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/eleven-am/caption-backend/internal/dto"
	"github.com/redis/go-redis/v9"
)

const sessionChannel = "session:%s:captions"

// ChannelFor returns the broadcast channel for a session. One topic per
// session; there is no cross-session ordering.
func ChannelFor(sessionID string) string {
	return fmt.Sprintf(sessionChannel, sessionID)
}

// Broadcaster publishes caption events to a session's channel. Delivery
// guarantees are whatever the pub/sub provider offers; a publish failure
// after the caption is persisted is logged by the caller, never rolled
// back.
type Broadcaster struct {
	redis  *redis.Client
	logger *slog.Logger
}

func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redis:  redisClient,
		logger: logger.With("component", "broadcaster"),
	}
}

func (b *Broadcaster) Publish(ctx context.Context, sessionID string, event *dto.CaptionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal caption event: %w", err)
	}

	if err := b.redis.Publish(ctx, ChannelFor(sessionID), data).Err(); err != nil {
		return fmt.Errorf("publish caption: %w", err)
	}

	b.logger.Debug("published caption",
		"session_id", sessionID,
		"caption_id", event.ID,
		"request_id", event.RequestID)
	return nil
}
