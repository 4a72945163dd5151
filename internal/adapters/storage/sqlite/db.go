package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// Open abre (o crea) la base sqlite del escritorio y bootstrapea el
// esquema. El driver es modernc (CGO-free), clave para empaquetar el
// binario en la app de escritorio sin toolchain de C.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Un solo proceso escribe; sqlite igual agradece estos pragmas.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	for _, pragma := range []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA busy_timeout = 5000`,
		`PRAGMA foreign_keys = ON`,
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cows (
			id         TEXT PRIMARY KEY,
			ear_tag_id TEXT NOT NULL DEFAULT '',
			birth_year INTEGER,
			rfid       TEXT NOT NULL DEFAULT '',
			comments   TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cows_ear_tag ON cows(ear_tag_id)`,
		`CREATE INDEX IF NOT EXISTS idx_cows_rfid ON cows(rfid)`,

		`CREATE TABLE IF NOT EXISTS pregchecks (
			id              TEXT PRIMARY KEY,
			cow_id          TEXT NOT NULL DEFAULT '',
			breeding_season INTEGER NOT NULL,
			check_date      TEXT,
			is_pregnant     INTEGER,
			recheck         INTEGER NOT NULL DEFAULT 0,
			should_sell     INTEGER NOT NULL DEFAULT 0,
			comments        TEXT NOT NULL DEFAULT '',
			created_at      TEXT NOT NULL,
			last_modified   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pregchecks_season ON pregchecks(breeding_season)`,
		`CREATE INDEX IF NOT EXISTS idx_pregchecks_cow ON pregchecks(cow_id)`,

		`CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Timestamps y fechas viajan como texto: RFC3339 para instantes, YYYY-MM-DD
// para fechas puras. Evita depender del mapeo de time.Time del driver.

func timeToDB(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func timeFromDB(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func dateToDB(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format("2006-01-02"), Valid: true}
}

func dateFromDB(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s.String)
	if err != nil {
		return nil
	}
	return &t
}

func boolPtrToDB(b *bool) sql.NullInt64 {
	if b == nil {
		return sql.NullInt64{}
	}
	v := int64(0)
	if *b {
		v = 1
	}
	return sql.NullInt64{Int64: v, Valid: true}
}

func boolPtrFromDB(n sql.NullInt64) *bool {
	if !n.Valid {
		return nil
	}
	b := n.Int64 != 0
	return &b
}

func intPtrToDB(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func intPtrFromDB(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
