package sqlite

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
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		c.ID,
		c.EarTagID,
		intPtrToDB(c.BirthYear),
		c.RFID,
		c.Comments,
		timeToDB(c.CreatedAt),
		timeToDB(c.UpdatedAt),
	)
	return err
}

func (r *CattleRepo) Update(ctx context.Context, c cattle.Cow) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cows
		SET ear_tag_id = ?, birth_year = ?, rfid = ?, comments = ?, updated_at = ?
		WHERE id = ?
	`,
		c.EarTagID,
		intPtrToDB(c.BirthYear),
		c.RFID,
		c.Comments,
		timeToDB(c.UpdatedAt),
		c.ID,
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
		SELECT `+cowColumns+` FROM cows WHERE id = ?
	`, id)
	return scanCow(row)
}

func (r *CattleRepo) ListByEarTag(ctx context.Context, earTagID string) ([]cattle.Cow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+cowColumns+` FROM cows
		WHERE ear_tag_id = ?
		ORDER BY created_at ASC
	`, earTagID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCows(rows)
}

func (r *CattleRepo) ListByEarTagAndYear(ctx context.Context, earTagID string, birthYear int) ([]cattle.Cow, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+cowColumns+` FROM cows
		WHERE ear_tag_id = ? AND birth_year = ?
		ORDER BY created_at ASC
	`, earTagID, birthYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCows(rows)
}

func (r *CattleRepo) GetByRFID(ctx context.Context, rfid string) (cattle.Cow, error) {
	rfid = strings.TrimSpace(rfid)
	if rfid == "" {
		return cattle.Cow{}, cattle.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+cowColumns+` FROM cows WHERE rfid = ? AND rfid != ''
	`, rfid)
	return scanCow(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCowInto(sc rowScanner) (cattle.Cow, error) {
	var (
		c          cattle.Cow
		birthYear  sql.NullInt64
		createdAt  string
		updatedAt  string
	)
	if err := sc.Scan(
		&c.ID,
		&c.EarTagID,
		&birthYear,
		&c.RFID,
		&c.Comments,
		&createdAt,
		&updatedAt,
	); err != nil {
		return cattle.Cow{}, err
	}
	c.BirthYear = intPtrFromDB(birthYear)
	c.CreatedAt = timeFromDB(createdAt)
	c.UpdatedAt = timeFromDB(updatedAt)
	return c, nil
}

func scanCow(row *sql.Row) (cattle.Cow, error) {
	c, err := scanCowInto(row)
	if err == sql.ErrNoRows {
		return cattle.Cow{}, cattle.ErrNotFound
	}
	return c, err
}

func scanCows(rows *sql.Rows) ([]cattle.Cow, error) {
	out := make([]cattle.Cow, 0)
	for rows.Next() {
		c, err := scanCowInto(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
