package storage

import (
	"log/slog"
	"net/http"

	"github.com/eleven-am/caption-backend/internal/dto"
	"github.com/eleven-am/caption-backend/internal/shared"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	client *Client
	logger *slog.Logger
}

func NewHandler(client *Client, logger *slog.Logger) *Handler {
	return &Handler{
		client: client,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	// echo answers 405 on its own for other methods on this path
	g.GET("/signed-upload", h.SignedUpload)
}

// @Summary      Provision an upload slot
// @Description  Ensures the frame bucket exists and issues a single-use signed upload URL together with the public retrieval URL
// @Tags         storage
// @Produce      json
// @Success      200  {object}  dto.SignedUploadResponse
// @Failure      500  {object}  shared.APIError
// @Router       /signed-upload [get]
func (h *Handler) SignedUpload(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.client.EnsureBucket(ctx); err != nil {
		h.logger.Error("failed to ensure bucket", "error", err, "bucket", h.client.Bucket())
		return shared.InternalError("bucket_failed", "failed to create bucket")
	}

	path := "frames/" + uuid.NewString() + ".jpg"

	uploadURL, err := h.client.CreateSignedUploadURL(ctx, path)
	if err != nil {
		h.logger.Error("failed to create signed url", "error", err, "path", path)
		return shared.InternalError("sign_failed", "failed to create signed URL")
	}

	return c.JSON(http.StatusOK, dto.SignedUploadResponse{
		UploadURL: uploadURL,
		Path:      path,
		GetURL:    h.client.PublicURL(path),
	})
}
