package container

import (
	"context"
	"log"
	"os"

	"github.com/finsight-app/finsight-api/internal/auth"
	"github.com/finsight-app/finsight-api/internal/config"
	"github.com/finsight-app/finsight-api/internal/goal"
	"github.com/finsight-app/finsight-api/internal/user"
)

type Container struct {
	UserContainer *user.UserContainer
	GoalContainer *goal.Container
}

func New() *Container {
	config.Init()
	auth.Init()
	config.InitCrypto()

	ctx := context.Background()

	dsn := os.Getenv("DATABASE_DSN")
	if err := config.Connect(ctx, dsn); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	if err := config.DB.AutoMigrate(&user.User{}, &goal.GoalRecord{}); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	if err := config.ConnectRedis(ctx); err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}

	userContainer := user.NewUserContainer(config.DB)
	goalContainer := goal.NewContainer(config.DB, config.Redis, userContainer.Service)

	return &Container{
		UserContainer: userContainer,
		GoalContainer: goalContainer,
	}
}
