package maintenance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ranch-pregcheck/internal/platform/logger"

	_ "modernc.org/sqlite"
)

var (
	ErrNoDatabase      = errors.New("database file not found")
	ErrInvalidDatabase = errors.New("uploaded file is not a valid sqlite database")
)

// Service maneja el mantenimiento del archivo sqlite del escritorio:
// info, backup con timestamp y reemplazo con restore automático si el
// swap falla.
type Service struct {
	dbPath     string
	backupsDir string
	log        logger.Logger
	now        func() time.Time
}

func NewService(dbPath string, log logger.Logger) *Service {
	return &Service{
		dbPath:     dbPath,
		backupsDir: filepath.Join(filepath.Dir(dbPath), "backups"),
		log:        log,
		now:        time.Now,
	}
}

type DatabaseInfo struct {
	FileName     string    `json:"file_name"`
	SizeBytes    int64     `json:"size_bytes"`
	TableCount   int       `json:"table_count"`
	LastModified time.Time `json:"last_modified"`
}

func (s *Service) Info(ctx context.Context) (DatabaseInfo, error) {
	fi, err := os.Stat(s.dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DatabaseInfo{}, ErrNoDatabase
		}
		return DatabaseInfo{}, err
	}

	tables, err := countTables(ctx, s.dbPath)
	if err != nil {
		return DatabaseInfo{}, err
	}

	return DatabaseInfo{
		FileName:     filepath.Base(s.dbPath),
		SizeBytes:    fi.Size(),
		TableCount:   tables,
		LastModified: fi.ModTime(),
	}, nil
}

type BackupResult struct {
	BackupName string `json:"backup_name"`
	BackupPath string `json:"backup_path"`
}

// Backup copia el archivo actual a backups/ con timestamp en el nombre.
func (s *Service) Backup(ctx context.Context) (BackupResult, error) {
	if _, err := os.Stat(s.dbPath); err != nil {
		if os.IsNotExist(err) {
			return BackupResult{}, ErrNoDatabase
		}
		return BackupResult{}, err
	}

	if err := os.MkdirAll(s.backupsDir, 0o755); err != nil {
		return BackupResult{}, err
	}

	base := strings.TrimSuffix(filepath.Base(s.dbPath), filepath.Ext(s.dbPath))
	name := fmt.Sprintf("%s_backup_%s.sqlite3", base, s.now().Format("20060102_150405"))
	dst := filepath.Join(s.backupsDir, name)

	if err := copyFile(s.dbPath, dst); err != nil {
		return BackupResult{}, err
	}

	s.log.Info("database backup created", map[string]any{"path": dst})
	return BackupResult{BackupName: name, BackupPath: dst}, nil
}

// Replace valida el archivo subido como base sqlite real, respalda la base
// actual y la reemplaza. Si el swap falla a mitad de camino, restaura el
// backup para no dejar al usuario sin datos.
func (s *Service) Replace(ctx context.Context, upload io.Reader, fileName string) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != ".sqlite3" && ext != ".sqlite" && ext != ".db" {
		return ErrInvalidDatabase
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.dbPath), "upload-*.sqlite3")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, upload); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := validateSQLite(ctx, tmpPath); err != nil {
		return err
	}

	backup, err := s.Backup(ctx)
	if err != nil && !errors.Is(err, ErrNoDatabase) {
		return err
	}

	if err := os.Rename(tmpPath, s.dbPath); err != nil {
		// rename puede fallar cruzando filesystems; copia como fallback
		if copyErr := copyFile(tmpPath, s.dbPath); copyErr != nil {
			if backup.BackupPath != "" {
				if restoreErr := copyFile(backup.BackupPath, s.dbPath); restoreErr != nil {
					s.log.Error("database restore failed", map[string]any{"error": restoreErr.Error()})
				}
			}
			return copyErr
		}
	}

	s.log.Info("database replaced", map[string]any{"file": fileName})
	return nil
}

// validateSQLite exige un esquema sqlite legible y no vacío: abrir el
// archivo y poder contar tablas en sqlite_master.
func validateSQLite(ctx context.Context, path string) error {
	fi, err := os.Stat(path)
	if err != nil || fi.Size() == 0 {
		return ErrInvalidDatabase
	}

	n, err := countTables(ctx, path)
	if err != nil || n == 0 {
		return ErrInvalidDatabase
	}
	return nil
}

func countTables(ctx context.Context, path string) (int, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var n int
	err = db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sqlite_master WHERE type = 'table'
	`).Scan(&n)
	return n, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
