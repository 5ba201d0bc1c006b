// Package main is the entry point for the todo CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"todo/internal/backend/todoapi"
	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return todoapi.New(ctx, cfg)
	}

	auth := func(cfg *config.Config) service.Authenticator {
		return todoapi.NewAuthClient(cfg)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory, auth)
	dispatcher.Stdin = os.Stdin

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
