package session

import (
	"context"
	"errors"

	"github.com/eleven-am/caption-backend/internal/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Session{})
}

func (s *Store) GetByID(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// EnsureExists creates the session row if it is absent. Concurrent callers
// may race on the insert; the conflict clause makes the losing insert a
// no-op rather than an error.
func (s *Store) EnsureExists(ctx context.Context, id string) error {
	sess := Session{ID: id}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&sess).Error
}
