package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ryosukesatoh/narrative-radar/internal/logger"
)

// Version is set via -ldflags at build time.
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	logger.Stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "narrative-radar: %v\n", err)
		os.Exit(1)
	}
}
