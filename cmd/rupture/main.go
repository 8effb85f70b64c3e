// Command rupture builds the 3D fault rupture figure of an earthquake: the
// fault blocks, the focal mechanism beachball and the block animation.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/soypat/rupture/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// execute runs the root command and flushes spans whether or not the
// command failed. Cobra skips post-run hooks after an error.
func execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	observability.ShutdownWithTimeout(context.Background(), shutdownTracing, logger)
	shutdownTracing = nil
	return err
}
