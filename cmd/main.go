package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/admin/zodira/astro-api/internal/app"
)

const (
	appName   = "zodira_astro"
	envPrefix = "ZODIRA"
)

func main() {
	cfg, err := app.NewEnvConfig(envPrefix)
	if err != nil {
		panic(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.New(appName, cfg).Run(ctx); err != nil {
		panic(err)
	}
}
