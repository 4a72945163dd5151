package sqlite

import (
	"context"
	"database/sql"
	"strings"

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

// Orden del listado: check_date desc con los sin-fecha al final, y
// created_at desc como desempate.
const pregCheckOrder = `ORDER BY check_date IS NULL ASC, check_date DESC, created_at DESC`

func (r *PregChecksRepo) Create(ctx context.Context, p pregchecks.PregCheck) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pregchecks (`+pregCheckColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID,
		p.CowID,
		p.BreedingSeason,
		dateToDB(p.CheckDate),
		boolPtrToDB(p.IsPregnant),
		p.Recheck,
		p.ShouldSell,
		p.Comments,
		timeToDB(p.CreatedAt),
		timeToDB(p.LastModified),
	)
	return err
}

func (r *PregChecksRepo) Update(ctx context.Context, p pregchecks.PregCheck) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pregchecks
		SET cow_id = ?, breeding_season = ?, check_date = ?, is_pregnant = ?,
			recheck = ?, should_sell = ?, comments = ?, last_modified = ?
		WHERE id = ?
	`,
		p.CowID,
		p.BreedingSeason,
		dateToDB(p.CheckDate),
		boolPtrToDB(p.IsPregnant),
		p.Recheck,
		p.ShouldSell,
		p.Comments,
		timeToDB(p.LastModified),
		p.ID,
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
		SELECT `+pregCheckColumns+` FROM pregchecks WHERE id = ?
	`, id)

	p, err := scanPregCheckInto(row)
	if err == sql.ErrNoRows {
		return pregchecks.PregCheck{}, pregchecks.ErrNotFound
	}
	return p, err
}

func (r *PregChecksRepo) ListBySeason(ctx context.Context, season int, limit int) ([]pregchecks.PregCheck, error) {
	query := `SELECT ` + pregCheckColumns + ` FROM pregchecks WHERE breeding_season = ? ` + pregCheckOrder
	args := []any{season}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPregChecks(rows)
}

func (r *PregChecksRepo) ListByCows(ctx context.Context, cowIDs []string) ([]pregchecks.PregCheck, error) {
	if len(cowIDs) == 0 {
		return []pregchecks.PregCheck{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(cowIDs)), ",")
	args := make([]any, 0, len(cowIDs))
	for _, id := range cowIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+pregCheckColumns+` FROM pregchecks
		WHERE cow_id IN (`+placeholders+`) `+pregCheckOrder,
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPregChecks(rows)
}

func (r *PregChecksRepo) CountByCowAndSeason(ctx context.Context, cowID string, season int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM pregchecks WHERE cow_id = ? AND breeding_season = ?
	`, cowID, season).Scan(&n)
	return n, err
}

func (r *PregChecksRepo) LastCreated(ctx context.Context) (pregchecks.PregCheck, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+pregCheckColumns+` FROM pregchecks
		ORDER BY created_at DESC LIMIT 1
	`)

	p, err := scanPregCheckInto(row)
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
	return scanPregChecks(rows)
}

func scanPregCheckInto(sc rowScanner) (pregchecks.PregCheck, error) {
	var (
		p            pregchecks.PregCheck
		checkDate    sql.NullString
		isPregnant   sql.NullInt64
		createdAt    string
		lastModified string
	)
	if err := sc.Scan(
		&p.ID,
		&p.CowID,
		&p.BreedingSeason,
		&checkDate,
		&isPregnant,
		&p.Recheck,
		&p.ShouldSell,
		&p.Comments,
		&createdAt,
		&lastModified,
	); err != nil {
		return pregchecks.PregCheck{}, err
	}
	p.CheckDate = dateFromDB(checkDate)
	p.IsPregnant = boolPtrFromDB(isPregnant)
	p.CreatedAt = timeFromDB(createdAt)
	p.LastModified = timeFromDB(lastModified)
	return p, nil
}

func scanPregChecks(rows *sql.Rows) ([]pregchecks.PregCheck, error) {
	out := make([]pregchecks.PregCheck, 0)
	for rows.Next() {
		p, err := scanPregCheckInto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
