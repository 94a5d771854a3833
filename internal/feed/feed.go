// Package feed holds the client-side caption feed: an ordered,
// duplicate-free sequence of captions seeded from one history page and
// extended by realtime broadcast events.
package feed

import (
	"sync"
	"time"

	"github.com/eleven-am/caption-backend/internal/dto"
)

type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Item is one displayed caption. History records and broadcast events
// both normalize into it.
type Item struct {
	ID           string
	Caption      string
	Thoughts     string
	Observations string
	ImageURL     string
	Timestamp    time.Time
	RequestID    string
}

func itemFromRecord(r dto.CaptionRecord) Item {
	return Item{
		ID:           r.ID,
		Caption:      r.Caption,
		Thoughts:     r.Thoughts,
		Observations: r.Observations,
		ImageURL:     r.ImageURL,
		Timestamp:    r.Timestamp,
	}
}

func itemFromEvent(e *dto.CaptionEvent) Item {
	ts, _ := time.Parse(time.RFC3339, e.Timestamp)
	return Item{
		ID:           e.ID,
		Caption:      e.Caption,
		Thoughts:     e.Thoughts,
		Observations: e.Observations,
		ImageURL:     e.ImageURL,
		Timestamp:    ts,
		RequestID:    e.RequestID,
	}
}

// Feed is safe for concurrent use; the subscriber goroutine applies
// events while the renderer reads snapshots.
type Feed struct {
	mu     sync.Mutex
	state  State
	status string
	items  []Item
	seen   map[string]struct{}
}

func New() *Feed {
	return &Feed{state: StateUninitialized, seen: make(map[string]struct{})}
}

// BeginLoad resets the feed for a (new) session and enters loading.
// Callers must tear down the previous subscription first so events from
// the old session cannot land in the fresh state.
func (f *Feed) BeginLoad() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateLoading
	f.status = ""
	f.items = nil
	f.seen = make(map[string]struct{})
}

// SeedHistory installs one newest-first history page as the initial
// feed, reversed to oldest-first so later events append at the end, and
// enters ready. Events applied during loading are kept; the seed is
// placed before them and deduplicated by id.
func (f *Feed) SeedHistory(records []dto.CaptionRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()

	seeded := make([]Item, 0, len(records)+len(f.items))
	seen := make(map[string]struct{}, len(records)+len(f.items))
	for i := len(records) - 1; i >= 0; i-- {
		item := itemFromRecord(records[i])
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		seeded = append(seeded, item)
	}
	for _, item := range f.items {
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		seeded = append(seeded, item)
	}

	f.items = seeded
	f.seen = seen
	f.state = StateReady
}

// Apply merges one broadcast event. Delivery is at-least-once, so a
// payload whose id is already present is discarded; otherwise it appends
// in arrival order. Reports whether the event was appended.
func (f *Feed) Apply(event *dto.CaptionEvent) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == StateUninitialized || f.state == StateError {
		return false
	}
	if _, ok := f.seen[event.ID]; ok {
		return false
	}
	f.seen[event.ID] = struct{}{}
	f.items = append(f.items, itemFromEvent(event))
	return true
}

// Fail records a subscription failure with the provider-reported status.
func (f *Feed) Fail(status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateError
	f.status = status
}

func (f *Feed) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Status returns the provider status recorded by Fail, empty otherwise.
func (f *Feed) Status() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Items returns a snapshot of the feed, oldest first.
func (f *Feed) Items() []Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Item, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}
