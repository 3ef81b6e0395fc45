// Package main is the entry point for the loom CI runner.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.loomci.dev/loom/cmd/loom/commands"
	"go.loomci.dev/loom/internal/app"
	"go.loomci.dev/loom/internal/core/domain"
	_ "go.loomci.dev/loom/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Cancel in-flight jobs on interrupt; they are reported as skipped.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed.
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	cli := commands.New(components.App)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrPipelineFailed) {
			// The per-job summary has already been logged.
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
