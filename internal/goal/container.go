package goal

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/finsight-app/finsight-api/internal/user"
)

type Container struct {
	Handler *Handler
	Service GoalService
}

func NewContainer(db *gorm.DB, rdb *redis.Client, userService user.Service) *Container {
	ledger := NewLedgerRepository(db)
	index := NewRedisIndex(rdb)
	service := NewService(ledger, index)
	handler := NewHandler(service, userService)

	return &Container{
		Handler: handler,
		Service: service,
	}
}
