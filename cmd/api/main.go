package main

import (
	"context"
	"log"

	"user-list-service/cmd/api/app"
	"user-list-service/cmd/api/server"
)

func main() {
	ctx, stop := server.WithSignal(context.Background())
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("application exited with error: %v", err)
	}
}

func run(ctx context.Context) error {
	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}
