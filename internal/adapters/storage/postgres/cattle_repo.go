package postgres

import (
	"context"
	"database/sql"
	"strings"

	"ranch-pregcheck/internal/domain/cattle"
)

type CattleRepo struct {
	db *sql.DB
}

func NewCattleRepo(db *sql.DB) *CattleRepo {
	return &CattleRepo{db: db}
}

const cowColumns = `id, ear_tag_id, birth_year, rfid, comments, created_at, updated_at`

func (r *CattleRepo) Create(ctx context.Context, c cattle.Cow) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cows (`+cowColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		c.ID,
		c.EarTagID,
		toNullInt(c.BirthYear),
		c.RFID,
		c.Comments,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *CattleRepo) Update(ctx context.Context, c cattle.Cow) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cows
		SET ear_tag_id = $2, birth_year = $3, rfid = $4, comments = $5, updated_at = $6
		WHERE id = $1
	`,
		c.ID,
		c.EarTagID,
		toNullInt(c.BirthYear),
		c.RFID,
		c.Comments,
		c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return cattle.ErrNotFound
	}
	return nil
}

func (r *CattleRepo) GetByID(ctx context.Context, id string) (cattle.Cow, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return cattle.Cow{}, cattle.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+cowColumns+` FROM cows WHERE id = $1
	`, id)
	return scanCowRow(row)
}

func (r *CattleRepo) ListByEarTag(ctx context.Context, earTagID string) ([]cattle.Cow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+cowColumns+` FROM cows
		WHERE ear_tag_id = $1
		ORDER BY created_at ASC
	`, earTagID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCows(rows)
}

func (r *CattleRepo) ListByEarTagAndYear(ctx context.Context, earTagID string, birthYear int) ([]cattle.Cow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+cowColumns+` FROM cows
		WHERE ear_tag_id = $1 AND birth_year = $2
		ORDER BY created_at ASC
	`, earTagID, birthYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCows(rows)
}

func (r *CattleRepo) GetByRFID(ctx context.Context, rfid string) (cattle.Cow, error) {
	rfid = strings.TrimSpace(rfid)
	if rfid == "" {
		return cattle.Cow{}, cattle.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+cowColumns+` FROM cows WHERE rfid = $1 AND rfid != ''
	`, rfid)
	return scanCowRow(row)
}

func scanCow(sc interface{ Scan(...any) error }) (cattle.Cow, error) {
	var (
		c  cattle.Cow
		by sql.NullInt64
	)
	if err := sc.Scan(
		&c.ID,
		&c.EarTagID,
		&by,
		&c.RFID,
		&c.Comments,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return cattle.Cow{}, err
	}
	if by.Valid {
		v := int(by.Int64)
		c.BirthYear = &v
	}
	return c, nil
}

func scanCowRow(row *sql.Row) (cattle.Cow, error) {
	c, err := scanCow(row)
	if err == sql.ErrNoRows {
		return cattle.Cow{}, cattle.ErrNotFound
	}
	return c, err
}

func collectCows(rows *sql.Rows) ([]cattle.Cow, error) {
	out := make([]cattle.Cow, 0)
	for rows.Next() {
		c, err := scanCow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func toNullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
