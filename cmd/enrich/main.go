package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/filmcat/internal/enrich"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := enrich.Execute(ctx, os.Args[1:]); err != nil {
		os.Stderr.WriteString("filmcat-enrich: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
