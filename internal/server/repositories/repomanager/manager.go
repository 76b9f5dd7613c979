package repomanager

import (
	"context"
	"database/sql"

	"github.com/mapsketch/mapsketch/internal/dbx"
	"github.com/mapsketch/mapsketch/internal/server/repositories/documents"
	"github.com/mapsketch/mapsketch/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Documents(db dbx.DBTX) documents.Repository
}
