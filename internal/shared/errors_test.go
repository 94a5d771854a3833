package shared

import (
	"net/http"
	"strings"
	"testing"
)

func TestNewAPIError(t *testing.T) {
	err := NewAPIError("bad_input", "input was bad")
	if err.Code != "bad_input" {
		t.Errorf("expected code 'bad_input', got %s", err.Code)
	}
	if err.Message != "input was bad" {
		t.Errorf("expected message 'input was bad', got %s", err.Message)
	}
	if err.Details != nil {
		t.Error("details should be nil by default")
	}
}

func TestAPIError_WithDetails(t *testing.T) {
	details := []map[string]string{{"field": "session", "message": "required"}}
	err := NewAPIError("invalid_request", "invalid").WithDetails(details)
	if err.Details == nil {
		t.Fatal("details should be set")
	}
}

func TestAPIError_ToHTTP(t *testing.T) {
	httpErr := NewAPIError("not_found", "missing").ToHTTP(http.StatusNotFound)
	if httpErr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", httpErr.Code)
	}
	apiErr, ok := httpErr.Message.(*APIError)
	if !ok {
		t.Fatal("message should carry the APIError")
	}
	if apiErr.Code != "not_found" {
		t.Errorf("expected code 'not_found', got %s", apiErr.Code)
	}
}

func TestErrorHelpers_StatusCodes(t *testing.T) {
	if BadRequest("c", "m").Code != http.StatusBadRequest {
		t.Error("BadRequest should map to 400")
	}
	if NotFound("c", "m").Code != http.StatusNotFound {
		t.Error("NotFound should map to 404")
	}
	if MethodNotAllowed("c", "m").Code != http.StatusMethodNotAllowed {
		t.Error("MethodNotAllowed should map to 405")
	}
	if Conflict("c", "m").Code != http.StatusConflict {
		t.Error("Conflict should map to 409")
	}
	if InternalError("c", "m").Code != http.StatusInternalServerError {
		t.Error("InternalError should map to 500")
	}
}

func TestNewID(t *testing.T) {
	id := NewID("cap_")
	if !strings.HasPrefix(id, "cap_") {
		t.Errorf("expected prefix 'cap_', got %s", id)
	}
	if len(id) != len("cap_")+32 {
		t.Errorf("expected 32 hex chars after prefix, got %d", len(id)-len("cap_"))
	}
	if id == NewID("cap_") {
		t.Error("ids should be unique")
	}
}
