package caption

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/eleven-am/caption-backend/internal/dto"
	"github.com/eleven-am/caption-backend/internal/inference"
	"github.com/eleven-am/caption-backend/internal/session"
	"github.com/eleven-am/caption-backend/internal/shared"
	"github.com/labstack/echo/v4"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Publisher pushes a persisted caption onto the session's broadcast
// channel.
type Publisher interface {
	Publish(ctx context.Context, sessionID string, event *dto.CaptionEvent) error
}

// URLResolver composes the public retrieval URL for a stored image path.
type URLResolver interface {
	PublicURL(path string) string
}

type Handler struct {
	store     *Store
	sessions  *session.Store
	generator inference.Generator
	publisher Publisher
	urls      URLResolver
	logger    *slog.Logger
}

func NewHandler(store *Store, sessions *session.Store, generator inference.Generator, publisher Publisher, urls URLResolver, logger *slog.Logger) *Handler {
	return &Handler{
		store:     store,
		sessions:  sessions,
		generator: generator,
		publisher: publisher,
		urls:      urls,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/caption", h.Submit)
	g.GET("/history", h.History)
}

func validateCaptionRequest(req *dto.CaptionRequest) (time.Time, []dto.ValidationError) {
	var fields []dto.ValidationError

	if req.Path == "" {
		fields = append(fields, dto.ValidationError{Field: "path", Message: "path is required"})
	}
	if req.Session == "" {
		fields = append(fields, dto.ValidationError{Field: "session", Message: "session is required"})
	}

	timestamp := time.Now().UTC()
	if req.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			fields = append(fields, dto.ValidationError{Field: "timestamp", Message: "timestamp must be RFC3339"})
		} else {
			timestamp = parsed.UTC()
		}
	}

	return timestamp, fields
}

// @Summary      Caption an uploaded frame
// @Description  Generates a caption for the uploaded image, persists it under the session, and broadcasts it on the session's realtime channel
// @Tags         caption
// @Accept       json
// @Produce      json
// @Param        request  body      dto.CaptionRequest  true  "Frame path and session"
// @Success      200      {object}  dto.CaptionResponse
// @Failure      400      {object}  shared.APIError
// @Failure      500      {object}  shared.APIError
// @Router       /caption [post]
func (h *Handler) Submit(c echo.Context) error {
	start := time.Now()
	ctx := c.Request().Context()

	var req dto.CaptionRequest
	if err := c.Bind(&req); err != nil {
		return shared.BadRequest("invalid_request", "invalid request body")
	}

	timestamp, fields := validateCaptionRequest(&req)
	if len(fields) > 0 {
		return shared.NewAPIError("invalid_request", "invalid request data").
			WithDetails(fields).
			ToHTTP(http.StatusBadRequest)
	}

	imageURL := h.urls.PublicURL(req.Path)

	// prompt and model resolve per request; nothing here mutates shared
	// configuration
	raw, err := h.generator.Generate(ctx, inference.Request{
		ImageURL: imageURL,
		Model:    req.Model,
		Prompt:   inference.ResolvePrompt(req.Prompt),
	})
	if err != nil {
		h.logger.Error("caption generation failed", "error", err, "session", req.Session, "request_id", req.RequestID)
		return shared.InternalError("caption_failed", "failed to generate caption")
	}

	formatted := Format(raw)
	rendered := formatted.Render()

	if err := h.sessions.EnsureExists(ctx, req.Session); err != nil {
		h.logger.Error("failed to ensure session", "error", err, "session", req.Session)
		return shared.InternalError("session_failed", "failed to create session")
	}

	record := &Caption{
		SessionID:    req.Session,
		Timestamp:    timestamp,
		ImagePath:    req.Path,
		ImageURL:     imageURL,
		Thoughts:     formatted.Thoughts,
		Observations: formatted.Observations,
		Text:         rendered,
	}
	if err := h.store.Create(ctx, record); err != nil {
		h.logger.Error("failed to persist caption", "error", err, "session", req.Session)
		return shared.InternalError("persist_failed", "failed to store caption")
	}

	event := &dto.CaptionEvent{
		ID:           record.ID,
		Caption:      rendered,
		Thoughts:     formatted.Thoughts,
		Observations: formatted.Observations,
		ImageURL:     imageURL,
		Timestamp:    timestamp.Format(time.RFC3339),
		RequestID:    req.RequestID,
	}
	if err := h.publisher.Publish(ctx, req.Session, event); err != nil {
		// the caption is already persisted; the viewer will still see it
		// on the next history load
		h.logger.Error("failed to broadcast caption", "error", err, "session", req.Session, "caption_id", record.ID)
	}

	return c.JSON(http.StatusOK, dto.CaptionResponse{
		Success:        true,
		ID:             record.ID,
		Caption:        rendered,
		Thoughts:       formatted.Thoughts,
		Observations:   formatted.Observations,
		RawCaption:     raw,
		ImageURL:       imageURL,
		RequestID:      req.RequestID,
		ProcessingTime: time.Since(start).Milliseconds(),
	})
}

// @Summary      List caption history
// @Description  Returns a session's captions newest-first with cursor pagination
// @Tags         caption
// @Produce      json
// @Param        session  query     string  true   "Session identifier"
// @Param        cursor   query     string  false  "Caption id to continue after"
// @Param        limit    query     int     false  "Page size (default 20, max 100)"
// @Success      200      {object}  dto.HistoryResponse
// @Failure      400      {object}  shared.APIError
// @Failure      500      {object}  shared.APIError
// @Router       /history [get]
func (h *Handler) History(c echo.Context) error {
	sessionID := c.QueryParam("session")
	if sessionID == "" {
		return shared.NewAPIError("invalid_request", "invalid query parameters").
			WithDetails([]dto.ValidationError{{Field: "session", Message: "session is required"}}).
			ToHTTP(http.StatusBadRequest)
	}

	limit := defaultHistoryLimit
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 1 || l > maxHistoryLimit {
			return shared.NewAPIError("invalid_request", "invalid query parameters").
				WithDetails([]dto.ValidationError{{Field: "limit", Message: "limit must be between 1 and 100"}}).
				ToHTTP(http.StatusBadRequest)
		}
		limit = l
	}

	cursor := c.QueryParam("cursor")

	// fetch one row past the page so an exactly-full final page reports
	// end of data instead of a dangling cursor
	captions, err := h.store.ListBySession(c.Request().Context(), sessionID, cursor, limit+1)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewAPIError("invalid_request", "invalid query parameters").
				WithDetails([]dto.ValidationError{{Field: "cursor", Message: "cursor does not name a caption in this session"}}).
				ToHTTP(http.StatusBadRequest)
		}
		h.logger.Error("failed to list history", "error", err, "session", sessionID)
		return shared.InternalError("history_failed", "failed to retrieve history")
	}

	var nextCursor *string
	if len(captions) > limit {
		captions = captions[:limit]
		last := captions[len(captions)-1].ID
		nextCursor = &last
	}

	records := make([]dto.CaptionRecord, len(captions))
	for i, row := range captions {
		records[i] = dto.CaptionRecord{
			ID:           row.ID,
			SessionID:    row.SessionID,
			Timestamp:    row.Timestamp,
			ImagePath:    row.ImagePath,
			ImageURL:     row.ImageURL,
			Thoughts:     row.Thoughts,
			Observations: row.Observations,
			Caption:      row.Text,
		}
	}

	return c.JSON(http.StatusOK, dto.HistoryResponse{
		Captions:   records,
		NextCursor: nextCursor,
	})
}
