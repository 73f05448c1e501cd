package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/example/sitterbot/internal/db"
)

// Postgres stores each collection as a single jsonb row, replaced in full
// on every save.
type Postgres struct {
	db *db.DB
}

func NewPostgres(d *db.DB) *Postgres {
	return &Postgres{db: d}
}

func (s *Postgres) Load(ctx context.Context, collection string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(ctx, `SELECT data FROM collections WHERE name=$1`, collection).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", collection, err)
	}
	return data, nil
}

func (s *Postgres) Save(ctx context.Context, collection string, data []byte) error {
	err := s.db.Exec(ctx, `
INSERT INTO collections(name, data, updated_at) VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET data=EXCLUDED.data, updated_at=now()`,
		collection, data)
	if err != nil {
		return fmt.Errorf("save %s: %w", collection, err)
	}
	return nil
}
