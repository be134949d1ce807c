package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"

	"github.com/finsight-app/finsight-api/internal/container"
	"github.com/finsight-app/finsight-api/internal/router"
)

var chiLambda *chiadapter.ChiLambda

func handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return chiLambda.ProxyWithContext(ctx, req)
}

func main() {
	c := container.New()

	r := router.New(router.RouterConfig{
		UserHandler: c.UserContainer.Handler,
		GoalHandler: c.GoalContainer.Handler,
	})

	chiLambda = chiadapter.New(r)
	lambda.Start(handler)
}
