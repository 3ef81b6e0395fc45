// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.loomci.dev/loom/internal/adapters/config"
	_ "go.loomci.dev/loom/internal/adapters/logger"
	_ "go.loomci.dev/loom/internal/adapters/shell"
	_ "go.loomci.dev/loom/internal/adapters/telemetry"
	_ "go.loomci.dev/loom/internal/adapters/workspace"
	// Register app and engine nodes.
	_ "go.loomci.dev/loom/internal/app"
	_ "go.loomci.dev/loom/internal/engine/runner"
	_ "go.loomci.dev/loom/internal/engine/scheduler"
)
