package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mapsketch/mapsketch/internal/common"
	"github.com/mapsketch/mapsketch/internal/dbx"
	"github.com/mapsketch/mapsketch/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, owner, name string, payload []byte) error {

	query :=
		`INSERT INTO documents (owner, name, payload)
         VALUES ($1, $2, $3)
		 ON CONFLICT (owner, name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
		 `

	if _, err := r.db.ExecContext(ctx, query, owner, name, payload); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Load(ctx context.Context, owner, name string) ([]byte, error) {
	query :=
		`SELECT payload FROM documents
		 WHERE owner = $1 AND name = $2
		 `

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, owner, name).Scan(&payload)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return payload, nil
}

func (r *PostgresRepository) List(ctx context.Context, owner string) ([]string, error) {
	query :=
		`SELECT name FROM documents
		 WHERE owner = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return names, nil
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]models.DocumentInfo, error) {
	query :=
		`SELECT owner, name, created_at FROM documents
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var infos []models.DocumentInfo
	for rows.Next() {
		var info models.DocumentInfo
		if err := rows.Scan(&info.Owner, &info.Name, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return infos, nil
}
