package main

import (
	"context"
	"fmt"

	"apigw-custom-response/internal/handlers"
	"apigw-custom-response/internal/models"
	"apigw-custom-response/pkg/lambda"

	awslambda "github.com/aws/aws-lambda-go/lambda"
)

func init() {
	// Fail the cold start instead of every invocation when configuration is broken
	if _, err := lambda.GetContainerManager().GetContainer(context.Background()); err != nil {
		panic("Failed to initialize container: " + err.Error())
	}
}

func handler(ctx context.Context, event *models.GatewayEvent) (*models.ResponseDraft, error) {
	container, err := lambda.GetContainerManager().GetContainer(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get container: %w", err)
	}

	return handlers.NewComposeHandler(container.Composer).HandleInvoke(ctx, event)
}

func main() {
	awslambda.Start(handler)
}
