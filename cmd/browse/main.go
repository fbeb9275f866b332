package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/filmcat/internal/browse"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := browse.Execute(ctx, os.Args[1:]); err != nil {
		os.Stderr.WriteString("filmcat-browse: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
