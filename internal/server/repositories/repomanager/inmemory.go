package repomanager

import (
	"context"
	"database/sql"

	"github.com/mapsketch/mapsketch/internal/dbx"
	"github.com/mapsketch/mapsketch/internal/server/repositories/documents"
	"github.com/mapsketch/mapsketch/internal/server/repositories/users"
)

// InMemoryRepositoryManager vends map-backed repositories. The same instances
// are returned on every call so state is shared across services; migrations
// are a no-op. Intended for tests and local development without a database.
type InMemoryRepositoryManager struct {
	users     *users.InMemoryRepository
	documents *documents.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:     users.NewInMemoryRepository(),
		documents: documents.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Documents(db dbx.DBTX) documents.Repository {
	return m.documents
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}
