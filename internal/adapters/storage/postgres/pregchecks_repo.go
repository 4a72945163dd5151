package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"ranch-pregcheck/internal/domain/pregchecks"
)

type PregChecksRepo struct {
	db *sql.DB
}

func NewPregChecksRepo(db *sql.DB) *PregChecksRepo {
	return &PregChecksRepo{db: db}
}

const pregCheckColumns = `id, cow_id, breeding_season, check_date, is_pregnant,
	recheck, should_sell, comments, created_at, last_modified`

const pregCheckOrder = `ORDER BY check_date DESC NULLS LAST, created_at DESC`

func (r *PregChecksRepo) Create(ctx context.Context, p pregchecks.PregCheck) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pregchecks (`+pregCheckColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		p.ID,
		p.CowID,
		p.BreedingSeason,
		toNullDate(p.CheckDate),
		toNullBool(p.IsPregnant),
		p.Recheck,
		p.ShouldSell,
		p.Comments,
		p.CreatedAt,
		p.LastModified,
	)
	return err
}

func (r *PregChecksRepo) Update(ctx context.Context, p pregchecks.PregCheck) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pregchecks
		SET cow_id = $2, breeding_season = $3, check_date = $4, is_pregnant = $5,
			recheck = $6, should_sell = $7, comments = $8, last_modified = $9
		WHERE id = $1
	`,
		p.ID,
		p.CowID,
		p.BreedingSeason,
		toNullDate(p.CheckDate),
		toNullBool(p.IsPregnant),
		p.Recheck,
		p.ShouldSell,
		p.Comments,
		p.LastModified,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pregchecks.ErrNotFound
	}
	return nil
}

func (r *PregChecksRepo) GetByID(ctx context.Context, id string) (pregchecks.PregCheck, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pregchecks.PregCheck{}, pregchecks.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+pregCheckColumns+` FROM pregchecks WHERE id = $1
	`, id)

	p, err := scanPregCheck(row)
	if err == sql.ErrNoRows {
		return pregchecks.PregCheck{}, pregchecks.ErrNotFound
	}
	return p, err
}

func (r *PregChecksRepo) ListBySeason(ctx context.Context, season int, limit int) ([]pregchecks.PregCheck, error) {
	query := `SELECT ` + pregCheckColumns + ` FROM pregchecks WHERE breeding_season = $1 ` + pregCheckOrder
	args := []any{season}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPregChecks(rows)
}

func (r *PregChecksRepo) ListByCows(ctx context.Context, cowIDs []string) ([]pregchecks.PregCheck, error) {
	if len(cowIDs) == 0 {
		return []pregchecks.PregCheck{}, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+pregCheckColumns+` FROM pregchecks
		WHERE cow_id = ANY($1) `+pregCheckOrder,
		cowIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPregChecks(rows)
}

func (r *PregChecksRepo) CountByCowAndSeason(ctx context.Context, cowID string, season int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM pregchecks WHERE cow_id = $1 AND breeding_season = $2
	`, cowID, season).Scan(&n)
	return n, err
}

func (r *PregChecksRepo) LastCreated(ctx context.Context) (pregchecks.PregCheck, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+pregCheckColumns+` FROM pregchecks
		ORDER BY created_at DESC LIMIT 1
	`)

	p, err := scanPregCheck(row)
	if err == sql.ErrNoRows {
		return pregchecks.PregCheck{}, pregchecks.ErrNotFound
	}
	return p, err
}

func (r *PregChecksRepo) LatestSeason(ctx context.Context) (int, error) {
	var season sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT MAX(breeding_season) FROM pregchecks
	`).Scan(&season)
	if err != nil {
		return 0, err
	}
	if !season.Valid {
		return 0, pregchecks.ErrNotFound
	}
	return int(season.Int64), nil
}

func (r *PregChecksRepo) ListAll(ctx context.Context) ([]pregchecks.PregCheck, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+pregCheckColumns+` FROM pregchecks `+pregCheckOrder)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPregChecks(rows)
}

func scanPregCheck(sc interface{ Scan(...any) error }) (pregchecks.PregCheck, error) {
	var (
		p  pregchecks.PregCheck
		cd sql.NullTime
		ip sql.NullBool
	)
	if err := sc.Scan(
		&p.ID,
		&p.CowID,
		&p.BreedingSeason,
		&cd,
		&ip,
		&p.Recheck,
		&p.ShouldSell,
		&p.Comments,
		&p.CreatedAt,
		&p.LastModified,
	); err != nil {
		return pregchecks.PregCheck{}, err
	}
	if cd.Valid {
		t := cd.Time
		p.CheckDate = &t
	}
	if ip.Valid {
		b := ip.Bool
		p.IsPregnant = &b
	}
	return p, nil
}

func collectPregChecks(rows *sql.Rows) ([]pregchecks.PregCheck, error) {
	out := make([]pregchecks.PregCheck, 0)
	for rows.Next() {
		p, err := scanPregCheck(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// check_date es DATE, lo pasamos como NullTime para simplificar
func toNullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func toNullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
