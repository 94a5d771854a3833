package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/eleven-am/caption-backend/internal/capture"
	"github.com/eleven-am/caption-backend/internal/dto"
)

// fakeServer implements the slices of the API the client touches.
type fakeServer struct {
	mu        sync.Mutex
	uploads   map[string][]byte
	captions  []dto.CaptionRequest
	history   []dto.CaptionRecord
	failSlots bool
}

func newFakeServer() *fakeServer {
	return &fakeServer{uploads: make(map[string][]byte)}
}

func (f *fakeServer) handler(baseURL func() string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/signed-upload", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failSlots {
			http.Error(w, `{"code":"storage_failed"}`, http.StatusInternalServerError)
			return
		}
		path := "frames/slot-" + time.Now().Format("150405.000000000") + ".jpg"
		json.NewEncoder(w).Encode(dto.SignedUploadResponse{
			UploadURL: baseURL() + "/upload/" + path,
			Path:      path,
			GetURL:    baseURL() + "/public/" + path,
		})
	})

	mux.HandleFunc("/upload/", func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "image/jpeg" {
			http.Error(w, "wrong content type", http.StatusBadRequest)
			return
		}
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.uploads[strings.TrimPrefix(r.URL.Path, "/upload/")] = body
		f.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/api/caption", func(w http.ResponseWriter, r *http.Request) {
		var req dto.CaptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.captions = append(f.captions, req)
		f.mu.Unlock()
		json.NewEncoder(w).Encode(dto.CaptionResponse{
			Success:   true,
			ID:        "cap-1",
			Caption:   "Observations: A test frame.",
			ImageURL:  baseURL() + "/public/" + req.Path,
			RequestID: req.RequestID,
		})
	})

	mux.HandleFunc("/api/history", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(dto.HistoryResponse{Captions: f.history})
	})

	return mux
}

func startFakeServer(t *testing.T) (*fakeServer, *API) {
	t.Helper()
	f := newFakeServer()
	var srv *httptest.Server
	srv = httptest.NewServer(f.handler(func() string { return srv.URL }))
	t.Cleanup(srv.Close)
	return f, NewAPI(Config{BaseURL: srv.URL})
}

func TestAPI_RequestUploadSlot_DistinctPaths(t *testing.T) {
	_, api := startFakeServer(t)

	first, err := api.RequestUploadSlot(context.Background())
	if err != nil {
		t.Fatalf("failed to request slot: %v", err)
	}
	second, err := api.RequestUploadSlot(context.Background())
	if err != nil {
		t.Fatalf("failed to request second slot: %v", err)
	}

	if first.Path == second.Path {
		t.Errorf("expected distinct paths, both were %s", first.Path)
	}
	for _, slot := range []*dto.SignedUploadResponse{first, second} {
		if !strings.HasPrefix(slot.Path, "frames/") {
			t.Errorf("expected path under frames/, got %s", slot.Path)
		}
	}
}

func TestAPI_Transfer_SendsJPEGContentType(t *testing.T) {
	f, api := startFakeServer(t)

	slot, err := api.RequestUploadSlot(context.Background())
	if err != nil {
		t.Fatalf("failed to request slot: %v", err)
	}
	payload := []byte{0xFF, 0xD8, 0x01, 0x02}
	if err := api.Transfer(context.Background(), slot.UploadURL, payload); err != nil {
		t.Fatalf("failed to transfer: %v", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if string(f.uploads[slot.Path]) != string(payload) {
		t.Error("expected uploaded bytes to round-trip")
	}
}

func TestAPI_SubmitCaption_ErrorsOnFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"caption_failed"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	api := NewAPI(Config{BaseURL: srv.URL})
	_, err := api.SubmitCaption(context.Background(), dto.CaptionRequest{Path: "frames/a.jpg", Session: "s1"})
	if err == nil {
		t.Fatal("expected error on 500 response")
	}
	if !strings.Contains(err.Error(), "caption_failed") {
		t.Errorf("expected server message in error, got %v", err)
	}
}

func TestPipeline_ProcessesFramesEndToEnd(t *testing.T) {
	f, api := startFakeServer(t)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewPipeline(api, "sess-1", logger)

	frames := make(chan *capture.Frame, 2)
	frames <- &capture.Frame{Data: []byte{0xFF, 0xD8, 0x01}, Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	frames <- &capture.Frame{Data: []byte{0xFF, 0xD8, 0x02}, Timestamp: time.Date(2025, 6, 1, 12, 0, 2, 0, time.UTC)}
	close(frames)

	p.Run(context.Background(), frames)

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.captions) != 2 {
		t.Fatalf("expected 2 caption submissions, got %d", len(f.captions))
	}
	if len(f.uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(f.uploads))
	}
	for _, req := range f.captions {
		if req.Session != "sess-1" {
			t.Errorf("expected session sess-1, got %s", req.Session)
		}
		if req.RequestID == "" {
			t.Error("expected a correlation id on every submission")
		}
		if _, err := time.Parse(time.RFC3339, req.Timestamp); err != nil {
			t.Errorf("expected RFC3339 timestamp, got %q", req.Timestamp)
		}
		if _, ok := f.uploads[req.Path]; !ok {
			t.Errorf("caption submitted for path %s with no matching upload", req.Path)
		}
	}
}

func TestPipeline_DropsFrameOnSlotFailure(t *testing.T) {
	f, api := startFakeServer(t)
	f.failSlots = true

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewPipeline(api, "sess-1", logger)

	frames := make(chan *capture.Frame, 1)
	frames <- &capture.Frame{Data: []byte{0xFF, 0xD8}, Timestamp: time.Now()}
	close(frames)

	p.Run(context.Background(), frames)

	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.captions) != 0 {
		t.Error("expected no caption submission when the slot request fails")
	}
	if len(f.uploads) != 0 {
		t.Error("expected no upload when the slot request fails")
	}
}
