package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"uffetcher/internal/cli"
)

func main() {
	// Cancel the command context on interrupt for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
