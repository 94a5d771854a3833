package dto

import "time"

type CaptionRequest struct {
	Path      string `json:"path" example:"frames/9f1c2d3e.jpg"`
	Session   string `json:"session" example:"b7a9e2c4-1f6d-4f3a-9c8b-2d5e7f0a1b3c"`
	Timestamp string `json:"timestamp,omitempty" example:"2025-06-01T12:00:00Z"`
	RequestID string `json:"requestId,omitempty" example:"req_a1b2c3d4"`
	Model     string `json:"model,omitempty" example:"yorickvp/llava-13b"`
	Prompt    string `json:"prompt,omitempty" example:"detailed"`
}

type CaptionResponse struct {
	Success        bool   `json:"success" example:"true"`
	ID             string `json:"id" example:"0d9e8f7a-6b5c-4d3e-2f1a-0b9c8d7e6f5a"`
	Caption        string `json:"caption" example:"Observations: A cat sits on a mat."`
	Thoughts       string `json:"thoughts,omitempty"`
	Observations   string `json:"observations"`
	RawCaption     string `json:"rawCaption,omitempty"`
	ImageURL       string `json:"imageUrl"`
	RequestID      string `json:"requestId,omitempty"`
	ProcessingTime int64  `json:"processingTime,omitempty" example:"2140"`
}

type CaptionRecord struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"sessionId"`
	Timestamp    time.Time `json:"timestamp"`
	ImagePath    string    `json:"imagePath"`
	ImageURL     string    `json:"imageUrl"`
	Thoughts     string    `json:"thoughts,omitempty"`
	Observations string    `json:"observations"`
	Caption      string    `json:"caption"`
}

type HistoryResponse struct {
	Captions   []CaptionRecord `json:"captions"`
	NextCursor *string         `json:"nextCursor"`
}

// CaptionEvent is the payload broadcast on a session's realtime channel
// for every persisted caption.
type CaptionEvent struct {
	ID           string `json:"id"`
	Caption      string `json:"caption"`
	Thoughts     string `json:"thoughts,omitempty"`
	Observations string `json:"observations"`
	ImageURL     string `json:"imageUrl"`
	Timestamp    string `json:"timestamp"`
	RequestID    string `json:"requestId,omitempty"`
}
