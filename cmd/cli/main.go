package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/networth-tracker/networth/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
