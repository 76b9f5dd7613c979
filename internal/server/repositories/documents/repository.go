package documents

import (
	"context"

	"github.com/mapsketch/mapsketch/internal/server/models"
)

type Repository interface {
	// Save stores the payload under (owner, name), replacing any previous
	// payload atomically.
	Save(ctx context.Context, owner, name string, payload []byte) error

	// Load returns the payload stored under (owner, name).
	Load(ctx context.Context, owner, name string) ([]byte, error)

	// List returns the owner's document names, newest first.
	List(ctx context.Context, owner string) ([]string, error)

	// ListAll returns every stored document across all owners, newest first.
	ListAll(ctx context.Context) ([]models.DocumentInfo, error)
}
