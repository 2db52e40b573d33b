package bootstrap

import (
	"github.com/eleven-am/maskwatch/internal/history"
	"github.com/eleven-am/maskwatch/internal/session"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideJobStore(db *gorm.DB) *history.Store {
	return history.NewStore(db)
}

func ProvideSessionStore(redisClient *redis.Client) *session.Store {
	return session.NewStore(redisClient)
}

func RunMigrations(jobStore *history.Store) error {
	return jobStore.Migrate()
}

var StoresModule = fx.Options(
	fx.Provide(
		ProvideJobStore,
		ProvideSessionStore,
	),
	fx.Invoke(RunMigrations),
)
