package postgres

import (
	"context"
	"database/sql"

	"ranch-pregcheck/internal/domain/seasons"
)

const currentSeasonKey = "current_breeding_season"

type SeasonsRepo struct {
	db *sql.DB
}

func NewSeasonsRepo(db *sql.DB) *SeasonsRepo {
	return &SeasonsRepo{db: db}
}

func (r *SeasonsRepo) Get(ctx context.Context) (int, error) {
	var year int
	err := r.db.QueryRowContext(ctx, `
		SELECT value::int FROM settings WHERE key = $1
	`, currentSeasonKey).Scan(&year)
	if err == sql.ErrNoRows {
		return 0, seasons.ErrNotSet
	}
	if err != nil {
		return 0, err
	}
	return year, nil
}

func (r *SeasonsRepo) Set(ctx context.Context, year int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2::text)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`, currentSeasonKey, year)
	return err
}
