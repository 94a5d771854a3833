package caption

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eleven-am/caption-backend/internal/dto"
	"github.com/eleven-am/caption-backend/internal/inference"
	"github.com/eleven-am/caption-backend/internal/session"
	"github.com/labstack/echo/v4"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeGenerator struct {
	raw     string
	err     error
	lastReq inference.Request
}

func (g *fakeGenerator) Generate(_ context.Context, req inference.Request) (string, error) {
	g.lastReq = req
	if g.err != nil {
		return "", g.err
	}
	return g.raw, nil
}

type fakePublisher struct {
	sessions []string
	events   []*dto.CaptionEvent
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, sessionID string, event *dto.CaptionEvent) error {
	if p.err != nil {
		return p.err
	}
	p.sessions = append(p.sessions, sessionID)
	p.events = append(p.events, event)
	return nil
}

type fakeURLs struct{}

func (fakeURLs) PublicURL(path string) string {
	return "https://storage.example.com/storage/v1/object/public/vision-images/" + path
}

func newTestHandler(t *testing.T) (*Handler, *fakeGenerator, *fakePublisher, *session.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	sessions := session.NewStore(db)
	if err := sessions.Migrate(); err != nil {
		t.Fatalf("failed to migrate sessions: %v", err)
	}
	store := NewStore(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("failed to migrate captions: %v", err)
	}

	gen := &fakeGenerator{raw: "The scene is calm. A cat sits on a windowsill."}
	pub := &fakePublisher{}
	h := NewHandler(store, sessions, gen, pub, fakeURLs{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return h, gen, pub, sessions
}

func postCaption(t *testing.T, h *Handler, body any) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/caption", strings.NewReader(string(payload)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, h.Submit(c)
}

func getHistory(t *testing.T, h *Handler, query string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/history?"+query, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, h.History(c)
}

func TestHandler_Submit_PersistsAndBroadcasts(t *testing.T) {
	h, _, pub, sessions := newTestHandler(t)

	rec, err := postCaption(t, h, dto.CaptionRequest{
		Path:      "frames/abc.jpg",
		Session:   "sess-1",
		RequestID: "req-7",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var resp dto.CaptionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success")
	}
	if resp.Thoughts != "The scene is calm." {
		t.Errorf("unexpected thoughts: %q", resp.Thoughts)
	}
	if resp.Observations != "A cat sits on a windowsill." {
		t.Errorf("unexpected observations: %q", resp.Observations)
	}
	if resp.RawCaption != "The scene is calm. A cat sits on a windowsill." {
		t.Errorf("unexpected raw caption: %q", resp.RawCaption)
	}
	if !strings.Contains(resp.ImageURL, "frames/abc.jpg") {
		t.Errorf("expected image url to embed the path, got %q", resp.ImageURL)
	}
	if resp.RequestID != "req-7" {
		t.Errorf("expected request id to round-trip, got %q", resp.RequestID)
	}

	// the session row is created on first caption, not up front
	if _, err := sessions.GetByID(context.Background(), "sess-1"); err != nil {
		t.Errorf("expected session to exist after submit: %v", err)
	}

	stored, err := h.store.GetByID(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("expected caption to be persisted: %v", err)
	}
	if stored.SessionID != "sess-1" {
		t.Errorf("expected session sess-1, got %s", stored.SessionID)
	}

	if len(pub.events) != 1 {
		t.Fatalf("expected 1 broadcast event, got %d", len(pub.events))
	}
	if pub.sessions[0] != "sess-1" {
		t.Errorf("expected broadcast on sess-1, got %s", pub.sessions[0])
	}
	if pub.events[0].ID != resp.ID {
		t.Errorf("expected event id %s, got %s", resp.ID, pub.events[0].ID)
	}
	if pub.events[0].RequestID != "req-7" {
		t.Errorf("expected event request id req-7, got %q", pub.events[0].RequestID)
	}
}

func TestHandler_Submit_ValidationErrors(t *testing.T) {
	h, _, pub, _ := newTestHandler(t)

	_, err := postCaption(t, h, dto.CaptionRequest{Timestamp: "not-a-time"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	httpErr := err.(*echo.HTTPError)
	if httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, httpErr.Code)
	}
	if len(pub.events) != 0 {
		t.Error("expected no broadcast on validation failure")
	}
}

func TestHandler_Submit_GeneratorFailure(t *testing.T) {
	h, gen, pub, _ := newTestHandler(t)
	gen.err = errors.New("model unavailable")

	_, err := postCaption(t, h, dto.CaptionRequest{Path: "frames/a.jpg", Session: "sess-1"})
	if err == nil {
		t.Fatal("expected error when generation fails")
	}
	httpErr := err.(*echo.HTTPError)
	if httpErr.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, httpErr.Code)
	}

	count, err := h.store.CountBySession(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 0 {
		t.Error("expected no caption persisted when generation fails")
	}
	if len(pub.events) != 0 {
		t.Error("expected no broadcast when generation fails")
	}
}

func TestHandler_Submit_ResolvesPromptAndModel(t *testing.T) {
	h, gen, _, _ := newTestHandler(t)

	_, err := postCaption(t, h, dto.CaptionRequest{
		Path:    "frames/a.jpg",
		Session: "sess-1",
		Prompt:  "brief",
		Model:   "yorickvp/llava-13b:custom",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.lastReq.Prompt != inference.ResolvePrompt("brief") {
		t.Errorf("expected brief prompt to be resolved, got %q", gen.lastReq.Prompt)
	}
	if gen.lastReq.Model != "yorickvp/llava-13b:custom" {
		t.Errorf("expected model override to pass through, got %q", gen.lastReq.Model)
	}
	if !strings.Contains(gen.lastReq.ImageURL, "frames/a.jpg") {
		t.Errorf("expected image url to embed the path, got %q", gen.lastReq.ImageURL)
	}
}

func TestHandler_Submit_BroadcastFailureStillSucceeds(t *testing.T) {
	h, _, pub, _ := newTestHandler(t)
	pub.err = errors.New("redis down")

	rec, err := postCaption(t, h, dto.CaptionRequest{Path: "frames/a.jpg", Session: "sess-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 despite broadcast failure, got %d", rec.Code)
	}

	count, err := h.store.CountBySession(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("failed to count: %v", err)
	}
	if count != 1 {
		t.Error("expected caption persisted despite broadcast failure")
	}
}

func seedHistory(t *testing.T, h *Handler, sessionID string, n int) {
	t.Helper()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		c := &Caption{
			SessionID: sessionID,
			Timestamp: base.Add(time.Duration(i) * time.Second),
			ImagePath: fmt.Sprintf("frames/%03d.jpg", i),
			Text:      fmt.Sprintf("Observations: frame %d", i),
		}
		if err := h.store.Create(context.Background(), c); err != nil {
			t.Fatalf("failed to seed caption %d: %v", i, err)
		}
	}
}

func TestHandler_History_DefaultLimit(t *testing.T) {
	h, _, _, _ := newTestHandler(t)
	seedHistory(t, h, "sess-1", 21)

	rec, err := getHistory(t, h, "session=sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp dto.HistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Captions) != 20 {
		t.Fatalf("expected 20 captions, got %d", len(resp.Captions))
	}
	if resp.NextCursor == nil {
		t.Fatal("expected nextCursor on a full page")
	}
	if *resp.NextCursor != resp.Captions[19].ID {
		t.Errorf("expected cursor %s, got %s", resp.Captions[19].ID, *resp.NextCursor)
	}

	rec, err = getHistory(t, h, "session=sess-1&cursor="+*resp.NextCursor)
	if err != nil {
		t.Fatalf("unexpected error on second page: %v", err)
	}
	var second dto.HistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &second); err != nil {
		t.Fatalf("failed to decode second page: %v", err)
	}
	if len(second.Captions) != 1 {
		t.Errorf("expected 1 caption on second page, got %d", len(second.Captions))
	}
	if second.NextCursor != nil {
		t.Error("expected no cursor on a short page")
	}
}

func TestHandler_History_ExactPageBoundary(t *testing.T) {
	h, _, _, _ := newTestHandler(t)
	seedHistory(t, h, "sess-1", 20)

	rec, err := getHistory(t, h, "session=sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp dto.HistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Captions) != 20 {
		t.Fatalf("expected 20 captions, got %d", len(resp.Captions))
	}
	// exactly one full page means end of data, not another round trip
	if resp.NextCursor != nil {
		t.Errorf("expected no cursor when the data fits the page, got %s", *resp.NextCursor)
	}
}

func TestHandler_History_InvalidParams(t *testing.T) {
	h, _, _, _ := newTestHandler(t)
	seedHistory(t, h, "sess-1", 3)

	cases := []struct {
		name  string
		query string
	}{
		{"missing session", "limit=10"},
		{"limit zero", "session=sess-1&limit=0"},
		{"limit too large", "session=sess-1&limit=101"},
		{"limit not a number", "session=sess-1&limit=many"},
		{"unknown cursor", "session=sess-1&cursor=missing"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := getHistory(t, h, tc.query)
			if err == nil {
				t.Fatal("expected error")
			}
			httpErr := err.(*echo.HTTPError)
			if httpErr.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, httpErr.Code)
			}
		})
	}
}

func TestHandler_History_EmptySession(t *testing.T) {
	h, _, _, _ := newTestHandler(t)

	rec, err := getHistory(t, h, "session=sess-none")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp dto.HistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Captions) != 0 {
		t.Errorf("expected no captions, got %d", len(resp.Captions))
	}
	if resp.NextCursor != nil {
		t.Error("expected no cursor for an empty session")
	}
}
