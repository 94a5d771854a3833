// Package capture turns a live video source into a lossy stream of
// JPEG-encoded frames at a configured rate and quality.
package capture

import (
	"context"
	"image"
)

// Source is a live video stream. Acquire opens the underlying device
// (preferring an environment-facing camera where the device offers one),
// Frame renders the current video frame, and Release frees the hardware
// regardless of how the capturer exits.
type Source interface {
	Acquire(ctx context.Context) error
	Frame(ctx context.Context) (image.Image, error)
	Release() error
}
