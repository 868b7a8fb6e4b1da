package repomanager

import (
	"context"

	"github.com/avolkovs/secretlink/internal/server/repositories/secrets"
)

// InMemoryRepositoryManager backs the dev store mode and tests.
type InMemoryRepositoryManager struct {
	secrets secrets.Repository
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Secrets() secrets.Repository {
	return m.secrets
}

func (m *InMemoryRepositoryManager) Close() error {
	return nil
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{secrets: secrets.NewInMemoryRepository()}
}
