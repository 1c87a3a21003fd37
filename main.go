package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"scryfallprices/internal/commands"
)

func main() {
	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A first interrupt cancels the run, which checkpoints what was gathered
	// so far. Handling is then reset so a second one kills the process.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		signal.Stop(sigChan)
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	commands.ExecuteContext(ctx)
}
