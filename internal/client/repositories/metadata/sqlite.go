package metadata

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/cargodesk/internal/dbx"
)

const (
	selectValue = `SELECT value FROM metadata WHERE key = ?`
	upsertValue = `INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	deleteValue = `DELETE FROM metadata WHERE key = ?`
	deleteAll   = `DELETE FROM metadata`
	selectAll   = `SELECT key, value FROM metadata ORDER BY key`
)

// SQLiteRepository keeps metadata in the metadata table created by the
// client migrations.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository binds the repository to a *sql.DB or a *sql.Tx.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey("get", key); err != nil {
		return nil, err
	}

	var value []byte
	switch err := r.db.QueryRowContext(ctx, selectValue, key).Scan(&value); {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, &OpError{Op: "get", Key: key, Err: err}
	}
	if value == nil {
		value = []byte{}
	}
	return value, nil
}

// Set stores value under key. A nil value is stored as empty, keeping the
// key present.
func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := checkKey("set", key); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	if _, err := r.db.ExecContext(ctx, upsertValue, key, value); err != nil {
		return &OpError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	if err := checkKey("delete", key); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, deleteValue, key); err != nil {
		return &OpError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, deleteAll); err != nil {
		return &OpError{Op: "clear", Err: err}
	}
	return nil
}

// List returns every record. A NULL value left by an older schema comes
// back as nil.
func (r *SQLiteRepository) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := r.db.QueryContext(ctx, selectAll)
	if err != nil {
		return nil, &OpError{Op: "list", Err: err}
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err := rows.Scan(&key, &value); err != nil {
			return nil, &OpError{Op: "scan", Err: err}
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, &OpError{Op: "list", Err: err}
	}
	return out, nil
}
