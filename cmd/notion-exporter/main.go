package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/caetanosauer/notion-exporter/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	// Pick up NOTION_TOKEN and LOG_LEVEL from a local .env if present
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
