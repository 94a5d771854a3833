package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"strings"

	"github.com/eleven-am/caption-backend/internal/dto"
	"github.com/gorilla/websocket"
)

// Subscriber is the viewer side of the session channel: it dials the
// server's realtime endpoint and delivers decoded caption events until the
// context ends or the server closes the connection.
type Subscriber struct {
	ws     *websocket.Conn
	logger *slog.Logger
	events chan *dto.CaptionEvent
}

// Dial opens a subscription to sessionID against baseURL (an http:// or
// https:// server address). A non-success handshake is returned to the
// caller as-is so it can surface the provider status.
func Dial(ctx context.Context, baseURL, sessionID string, logger *slog.Logger) (*Subscriber, error) {
	wsURL, err := websocketURL(baseURL, sessionID)
	if err != nil {
		return nil, err
	}

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}

	s := &Subscriber{
		ws:     ws,
		logger: logger.With("component", "subscriber", "session_id", sessionID),
		events: make(chan *dto.CaptionEvent, 16),
	}

	go s.readLoop(ctx)
	return s, nil
}

func websocketURL(baseURL, sessionID string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/realtime/" + sessionID
	return u.String(), nil
}

// Events yields broadcast captions in arrival order. The channel closes
// when the subscription ends.
func (s *Subscriber) Events() <-chan *dto.CaptionEvent {
	return s.events
}

func (s *Subscriber) Close() error {
	return s.ws.Close()
}

func (s *Subscriber) readLoop(ctx context.Context) {
	defer close(s.events)
	defer s.ws.Close()

	for {
		_, payload, err := s.ws.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Error("subscription read failed", "error", err)
			}
			return
		}

		var event dto.CaptionEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			s.logger.Error("failed to decode caption event", "error", err)
			continue
		}

		select {
		case s.events <- &event:
		case <-ctx.Done():
			return
		}
	}
}
