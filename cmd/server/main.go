package main

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/finsight-app/finsight-api/internal/config"
	"github.com/finsight-app/finsight-api/internal/container"
	"github.com/finsight-app/finsight-api/internal/router"
)

func main() {
	c := container.New()

	r := router.New(router.RouterConfig{
		UserHandler: c.UserContainer.Handler,
		GoalHandler: c.GoalContainer.Handler,
	})

	addr := ":" + config.Getenv("PORT", "8080")
	logrus.WithField("addr", addr).Info("Starting server")
	if err := http.ListenAndServe(addr, r); err != nil {
		logrus.WithError(err).Fatal("Server stopped")
	}
}
