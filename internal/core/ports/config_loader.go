// Package ports defines the core interfaces for the application.
package ports

import "go.loomci.dev/loom/internal/core/domain"

// ConfigLoader defines the interface for loading the workflow declaration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the declaration from the given file path and returns the
	// validated workflow. An empty path means the default file in the
	// working directory.
	Load(path string) (*domain.Workflow, error)
}
