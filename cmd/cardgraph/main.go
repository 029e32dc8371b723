// Command cardgraph compiles type cards into a GraphQL schema.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/syssam/cardgraph/cmd/cardgraph/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.New().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
