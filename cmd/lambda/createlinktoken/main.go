package main

import (
	"context"
	"log"

	awslambda "github.com/aws/aws-lambda-go/lambda"

	"bract/internal/app"
	"bract/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	deps, err := app.NewDependencies(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize dependencies: %v", err)
	}

	awslambda.Start(deps.LinkHandler.HandleCreateLinkToken)
}
