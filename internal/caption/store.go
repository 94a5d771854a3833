package caption

import (
	"context"
	"errors"
	"time"

	"github.com/eleven-am/caption-backend/internal/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Caption{})
}

func (s *Store) Create(ctx context.Context, c *Caption) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now().UTC()
	}
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *Store) GetByID(ctx context.Context, id string) (*Caption, error) {
	var c Caption
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListBySession returns up to limit captions for a session, newest first.
// Ordering is timestamp descending with id descending as the tiebreaker;
// the cursor names a caption id and positions the page strictly after that
// row within the same ordering.
func (s *Store) ListBySession(ctx context.Context, sessionID, cursor string, limit int) ([]*Caption, error) {
	q := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit)

	if cursor != "" {
		var pivot Caption
		err := s.db.WithContext(ctx).
			Where("id = ? AND session_id = ?", cursor, sessionID).
			First(&pivot).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		q = q.Where("timestamp < ? OR (timestamp = ? AND id < ?)",
			pivot.Timestamp, pivot.Timestamp, pivot.ID)
	}

	var captions []*Caption
	if err := q.Find(&captions).Error; err != nil {
		return nil, err
	}
	return captions, nil
}

func (s *Store) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Caption{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}
