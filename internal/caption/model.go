package caption

import "time"

// Caption is the persisted description of one captured frame. Rows are
// written once by the caption handler and never updated; Text carries the
// rendered display form while Thoughts/Observations keep the structure.
type Caption struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"not null;index:idx_session_timestamp" json:"sessionId"`
	Timestamp time.Time `gorm:"not null;index:idx_session_timestamp" json:"timestamp"`

	ImagePath string `gorm:"not null" json:"imagePath"`
	ImageURL  string `gorm:"not null" json:"imageUrl"`

	Thoughts     string `json:"thoughts,omitempty"`
	Observations string `gorm:"not null" json:"observations"`
	Text         string `gorm:"column:caption;not null" json:"caption"`

	CreatedAt time.Time `json:"created_at"`
}
