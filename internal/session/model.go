package session

import "time"

// Session groups the captions produced by one browsing context. The id is
// client-generated and opaque; rows are created lazily on the first caption
// write and never deleted.
type Session struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
}
