// Command shelf-lambda runs the operation dispatcher behind API Gateway.
// SHELF_OPERATIONS selects all operations, only commands or only queries.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/jacentio/shelf/apigw"
	"github.com/jacentio/shelf/internal/app"
	"github.com/jacentio/shelf/internal/config"
	"github.com/jacentio/shelf/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.RequireRemote(); err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}

	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("wire application: %v", err)
	}

	lambda.Start(apigw.NewHandler(a.Dispatcher, logger).Handle)
}
