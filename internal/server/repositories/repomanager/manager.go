// Package repomanager wires concrete repositories to a storage backend and
// owns the database handle and schema migrations.
package repomanager

import (
	"context"

	"github.com/avolkovs/secretlink/internal/server/repositories/secrets"
)

type RepositoryManager interface {
	// RunMigrations brings the schema up to date. A no-op for backends
	// without one.
	RunMigrations(ctx context.Context) error

	// Secrets returns the secret repository.
	Secrets() secrets.Repository

	// Close releases the underlying storage handle.
	Close() error
}
