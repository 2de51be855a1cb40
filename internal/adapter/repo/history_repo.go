package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"imageforge/internal/domain"
)

// HistoryRepositoryPG implements domain.HistoryRepository on PostgreSQL.
type HistoryRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a generation-history repository.
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepositoryPG {
	return &HistoryRepositoryPG{pool: pool}
}

// Record inserts a finished generation.
func (r *HistoryRepositoryPG) Record(ctx context.Context, rec *domain.HistoryRecord) error {
	query := `
INSERT INTO generations (id, request_id, prompt, style_key, quality, mode, origin, seed, job_id, artifact_path)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`
	_, err := r.pool.Exec(ctx, query,
		rec.ID,
		rec.RequestID,
		rec.Prompt,
		rec.StyleKey,
		rec.Quality,
		rec.Mode,
		rec.Origin,
		int64(rec.Seed),
		nullableString(rec.JobID),
		rec.ArtifactPath,
	)
	return err
}

// GetByID fetches one generation record.
func (r *HistoryRepositoryPG) GetByID(ctx context.Context, id string) (*domain.HistoryRecord, error) {
	query := `
SELECT id, request_id, prompt, style_key, quality, mode, origin, seed, COALESCE(job_id, ''), artifact_path, created_at
FROM generations
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, id)
	var rec domain.HistoryRecord
	var seed int64
	if err := row.Scan(
		&rec.ID,
		&rec.RequestID,
		&rec.Prompt,
		&rec.StyleKey,
		&rec.Quality,
		&rec.Mode,
		&rec.Origin,
		&seed,
		&rec.JobID,
		&rec.ArtifactPath,
		&rec.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	rec.Seed = uint32(seed)
	return &rec, nil
}

var _ domain.HistoryRepository = (*HistoryRepositoryPG)(nil)

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
