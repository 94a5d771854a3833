package client

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetOrCreateSessionID_StableAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")

	first, err := GetOrCreateSessionID(path)
	if err != nil {
		t.Fatalf("failed to create session id: %v", err)
	}
	if first == "" {
		t.Fatal("expected a non-empty session id")
	}

	second, err := GetOrCreateSessionID(path)
	if err != nil {
		t.Fatalf("failed to read session id back: %v", err)
	}
	if second != first {
		t.Errorf("expected stable id, got %s then %s", first, second)
	}
}

func TestGetOrCreateSessionID_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state", "session")

	id, err := GetOrCreateSessionID(path)
	if err != nil {
		t.Fatalf("failed to create session id: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty session id")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected session file to exist: %v", err)
	}
}

func TestGetOrCreateSessionID_TrimsStoredValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	if err := os.WriteFile(path, []byte("  sess-abc \n"), 0o600); err != nil {
		t.Fatalf("failed to seed session file: %v", err)
	}

	id, err := GetOrCreateSessionID(path)
	if err != nil {
		t.Fatalf("failed to read session id: %v", err)
	}
	if id != "sess-abc" {
		t.Errorf("expected sess-abc, got %q", id)
	}
}

func TestGetOrCreateSessionID_RegeneratesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	if err := os.WriteFile(path, []byte("\n"), 0o600); err != nil {
		t.Fatalf("failed to seed session file: %v", err)
	}

	id, err := GetOrCreateSessionID(path)
	if err != nil {
		t.Fatalf("failed to create session id: %v", err)
	}
	if id == "" {
		t.Error("expected a fresh id for an empty file")
	}
}
