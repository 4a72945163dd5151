package sqlite

import (
	"context"
	"database/sql"
	"strconv"

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
	var raw string
	err := r.db.QueryRowContext(ctx, `
		SELECT value FROM settings WHERE key = ?
	`, currentSeasonKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return 0, seasons.ErrNotSet
	}
	if err != nil {
		return 0, err
	}

	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, seasons.ErrNotSet
	}
	return year, nil
}

func (r *SeasonsRepo) Set(ctx context.Context, year int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, currentSeasonKey, strconv.Itoa(year))
	return err
}
