package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/eleven-am/caption-backend/internal/capture"
	"github.com/eleven-am/caption-backend/internal/dto"
	"github.com/eleven-am/caption-backend/internal/shared"
)

// Pipeline pushes captured frames through upload and caption submission,
// one frame at a time. While a frame is in flight the capturer's own
// backpressure drops new ticks, so a slow upload thins the stream
// instead of queueing it. A failed step drops that frame and the loop
// moves on.
type Pipeline struct {
	api       *API
	sessionID string
	logger    *slog.Logger
}

func NewPipeline(api *API, sessionID string, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		api:       api,
		sessionID: sessionID,
		logger:    logger.With("component", "pipeline", "session_id", sessionID),
	}
}

// Run consumes frames until the channel closes or the context ends.
func (p *Pipeline) Run(ctx context.Context, frames <-chan *capture.Frame) {
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			resp, err := p.processFrame(ctx, frame)
			if err != nil {
				p.logger.Warn("frame dropped", "error", err)
				continue
			}
			p.logger.Info("caption received",
				"caption_id", resp.ID,
				"request_id", resp.RequestID,
				"server_ms", resp.ProcessingTime)
		}
	}
}

func (p *Pipeline) processFrame(ctx context.Context, frame *capture.Frame) (*dto.CaptionResponse, error) {
	start := time.Now()
	requestID := shared.NewID("req")

	slot, err := p.api.RequestUploadSlot(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.api.Transfer(ctx, slot.UploadURL, frame.Data); err != nil {
		return nil, err
	}
	uploaded := time.Now()

	resp, err := p.api.SubmitCaption(ctx, dto.CaptionRequest{
		Path:      slot.Path,
		Session:   p.sessionID,
		Timestamp: frame.Timestamp.Format(time.RFC3339),
		RequestID: requestID,
	})
	if err != nil {
		return nil, err
	}

	p.logger.Debug("frame processed",
		"request_id", requestID,
		"path", slot.Path,
		"upload_ms", uploaded.Sub(start).Milliseconds(),
		"total_ms", time.Since(start).Milliseconds())
	return resp, nil
}
