package capture

import (
	"bytes"
	"context"
	"image/jpeg"
	"log/slog"
	"sync"
	"time"
)

// Frame is one encoded capture.
type Frame struct {
	Data      []byte
	Timestamp time.Time
	Width     int
	Height    int
}

type Config struct {
	Source   Source
	Interval time.Duration
	Quality  int
	Logger   *slog.Logger
}

// Capturer ticks at a fixed interval and emits JPEG frames. At most one
// capture is in flight per capturer; a tick that lands while the
// previous frame is still rendering or encoding is dropped, never
// queued.
type Capturer struct {
	source   Source
	interval time.Duration
	quality  int
	logger   *slog.Logger
	frames   chan *Frame
	done     chan struct{}

	wg       sync.WaitGroup
	mu       sync.Mutex
	inFlight bool
	stopped  bool
}

func NewCapturer(cfg Config) *Capturer {
	if cfg.Interval == 0 {
		cfg.Interval = 2 * time.Second
	}
	if cfg.Quality == 0 {
		cfg.Quality = 80
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Capturer{
		source:   cfg.Source,
		interval: cfg.Interval,
		quality:  cfg.Quality,
		logger:   cfg.Logger.With("component", "capturer"),
		frames:   make(chan *Frame, 1),
		done:     make(chan struct{}),
	}
}

// Start acquires the video source. Acquisition failures are terminal and
// come back classified.
func (c *Capturer) Start(ctx context.Context) error {
	if err := c.source.Acquire(ctx); err != nil {
		return ClassifyAcquireError(err)
	}
	return nil
}

// Frames delivers encoded captures. The channel closes when Run returns.
func (c *Capturer) Frames() <-chan *Frame {
	return c.frames
}

// Run ticks until the context is cancelled or Stop is called, then
// releases the source.
func (c *Capturer) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	defer func() {
		c.Stop()
		close(c.done)
		c.wg.Wait()
		close(c.frames)
		c.release()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if c.isStopped() {
				return
			}
			c.captureTick(ctx, now)
		}
	}
}

// captureTick starts one capture unless another is already in flight.
func (c *Capturer) captureTick(ctx context.Context, now time.Time) {
	c.mu.Lock()
	if c.stopped || c.inFlight {
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			c.mu.Lock()
			c.inFlight = false
			c.mu.Unlock()
		}()

		img, err := c.source.Frame(ctx)
		if err != nil {
			c.logger.Debug("frame render failed", "error", err)
			return
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.quality}); err != nil {
			c.logger.Debug("jpeg encode failed", "error", err)
			return
		}

		frame := &Frame{
			Data:      buf.Bytes(),
			Timestamp: now.UTC(),
			Width:     img.Bounds().Dx(),
			Height:    img.Bounds().Dy(),
		}

		select {
		case c.frames <- frame:
		case <-ctx.Done():
		case <-c.done:
		}
	}()
}

func (c *Capturer) isStopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

// Stop makes Run exit on its next tick. Safe to call more than once.
func (c *Capturer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
}

func (c *Capturer) release() {
	if err := c.source.Release(); err != nil {
		c.logger.Warn("failed to release source", "error", err)
	}
}
