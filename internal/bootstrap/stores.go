package bootstrap

import (
	"github.com/eleven-am/caption-backend/internal/caption"
	"github.com/eleven-am/caption-backend/internal/session"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideSessionStore(db *gorm.DB) *session.Store {
	return session.NewStore(db)
}

func ProvideCaptionStore(db *gorm.DB) *caption.Store {
	return caption.NewStore(db)
}

func RunMigrations(sessionStore *session.Store, captionStore *caption.Store) error {
	if err := sessionStore.Migrate(); err != nil {
		return err
	}
	return captionStore.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideSessionStore,
		ProvideCaptionStore,
	),
	fx.Invoke(RunMigrations),
)
