package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mapsketch/mapsketch/internal/common"
	"github.com/mapsketch/mapsketch/internal/geojson"
	"github.com/mapsketch/mapsketch/internal/server/config"
	"github.com/mapsketch/mapsketch/internal/server/models"
	"github.com/mapsketch/mapsketch/internal/server/repositories/repomanager"
)

type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
}

func NewDocumentService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *DocumentService {
	return &DocumentService{db: db, repomanager: m, config: cfg}
}

// Save validates the payload as GeoJSON and stores it under (owner, name),
// replacing any previous version atomically.
func (s *DocumentService) Save(ctx context.Context, owner, name string, payload []byte) error {
	if name == "" {
		return fmt.Errorf("%w: document name is required", common.ErrInvalidInput)
	}
	if err := geojson.Validate(payload); err != nil {
		return err
	}

	repo := s.repomanager.Documents(s.db)
	return repo.Save(ctx, owner, name, payload)
}

// Load returns the payload stored under (owner, name).
func (s *DocumentService) Load(ctx context.Context, owner, name string) ([]byte, error) {
	repo := s.repomanager.Documents(s.db)
	return repo.Load(ctx, owner, name)
}

// List returns the owner's document names, newest first.
func (s *DocumentService) List(ctx context.Context, owner string) ([]string, error) {
	repo := s.repomanager.Documents(s.db)
	return repo.List(ctx, owner)
}

// ListAll returns every stored document across all owners, newest first.
// Callers are responsible for admin gating.
func (s *DocumentService) ListAll(ctx context.Context) ([]models.DocumentInfo, error) {
	repo := s.repomanager.Documents(s.db)
	return repo.ListAll(ctx)
}
