package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"frota/internal/core"
	"frota/internal/source"

	_ "modernc.org/sqlite"
)

// SQLiteRepository is the read-only SQLite source of the fleet table.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var (
	_ source.RowReader = (*SQLiteRepository)(nil)
	_ source.Pinger    = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Info("SQLite source ready", "db_path", dbPath, "schema_version", version)

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReadRows implements source.RowReader with a full-table read.
func (r *SQLiteRepository) ReadRows(ctx context.Context) ([]core.RawRow, error) {
	items, err := r.queries.ListCustosFrota(ctx)
	if err != nil {
		return nil, fmt.Errorf("list custos_frota: %w", err)
	}

	rows := make([]core.RawRow, len(items))
	for i, it := range items {
		spent, err := core.MoneyFromFloat(it.GastoReal)
		if err != nil {
			return nil, &core.DataError{Row: i, Label: it.Mes, Reason: "gasto_real: " + err.Error(), Err: err}
		}
		rows[i] = core.RawRow{
			Label:    it.Mes,
			Spent:    spent,
			Distance: it.KmRodado,
		}
	}

	slog.DebugContext(ctx, "Fleet table read from SQLite", "rows", len(rows))
	return rows, nil
}

// Ping implements source.Pinger.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if _, err := r.queries.CountCustosFrota(ctx); err != nil {
		return fmt.Errorf("count custos_frota: %w", err)
	}
	return nil
}
