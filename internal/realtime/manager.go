package realtime

import (
	"context"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Manager multiplexes one Redis subscription per session across all
// WebSocket viewers of that session. The subscription opens when the first
// viewer attaches and closes when the last one detaches, so a session
// switch never leaves a stale subscription delivering duplicates.
type Manager struct {
	redis  *redis.Client
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]*fanout

	ctx    context.Context
	cancel context.CancelFunc
}

type fanout struct {
	conns  map[*Conn]struct{}
	cancel context.CancelFunc
}

func NewManager(redisClient *redis.Client, logger *slog.Logger) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		redis:    redisClient,
		logger:   logger.With("component", "realtime-manager"),
		sessions: make(map[string]*fanout),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (m *Manager) Attach(sessionID string, conn *Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.sessions[sessionID]
	if !ok {
		ctx, cancel := context.WithCancel(m.ctx)
		f = &fanout{
			conns:  make(map[*Conn]struct{}),
			cancel: cancel,
		}
		m.sessions[sessionID] = f
		go m.pump(ctx, sessionID, f)
	}

	f.conns[conn] = struct{}{}
	m.logger.Debug("viewer attached", "session_id", sessionID, "viewers", len(f.conns))
}

func (m *Manager) Detach(sessionID string, conn *Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.sessions[sessionID]
	if !ok {
		return
	}

	delete(f.conns, conn)
	if len(f.conns) == 0 {
		f.cancel()
		delete(m.sessions, sessionID)
		m.logger.Debug("last viewer detached, unsubscribed", "session_id", sessionID)
	}
}

func (m *Manager) SubscriptionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ViewerCount returns the total number of attached connections across
// all sessions.
func (m *Manager) ViewerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, f := range m.sessions {
		total += len(f.conns)
	}
	return total
}

func (m *Manager) Close() {
	m.cancel()
}

func (m *Manager) pump(ctx context.Context, sessionID string, f *fanout) {
	defer m.drop(sessionID, f)

	channel := ChannelFor(sessionID)
	pubsub := m.redis.Subscribe(ctx, channel)
	defer pubsub.Close()

	m.logger.Info("subscribed to session channel", "session_id", sessionID, "channel", channel)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			m.logger.Error("receive broadcast", "error", err, "session_id", sessionID)
			return
		}

		m.deliver(sessionID, []byte(msg.Payload))
	}
}

// drop removes the session entry when its pump ends. A pump that dies on a
// receive error must not leave its fanout registered: attached viewers are
// closed so they can reconnect, and the next attach opens a fresh
// subscription instead of fanning out from a dead one.
func (m *Manager) drop(sessionID string, f *fanout) {
	m.mu.Lock()
	current, ok := m.sessions[sessionID]
	if !ok || current != f {
		m.mu.Unlock()
		return
	}
	delete(m.sessions, sessionID)
	conns := make([]*Conn, 0, len(f.conns))
	for conn := range f.conns {
		conns = append(conns, conn)
	}
	m.mu.Unlock()

	f.cancel()
	for _, conn := range conns {
		_ = conn.Close()
	}
}

func (m *Manager) deliver(sessionID string, payload []byte) {
	m.mu.Lock()
	f, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return
	}
	conns := make([]*Conn, 0, len(f.conns))
	for conn := range f.conns {
		conns = append(conns, conn)
	}
	m.mu.Unlock()

	for _, conn := range conns {
		conn.Send(payload)
	}
}
