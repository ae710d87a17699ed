package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sandip-2006/diigital-village-hub/internal/db"
)

// SQLiteStorage implements LocalStorageRepo, and so store.Storage, on the
// local_storage table.
type SQLiteStorage struct {
	db db.DBTX
}

// NewSQLiteStorage creates a new SQLiteStorage.
func NewSQLiteStorage(conn db.DBTX) *SQLiteStorage {
	return &SQLiteStorage{db: conn}
}

func (r *SQLiteStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	item, err := r.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return item.Value, true, nil
}

func (r *SQLiteStorage) Get(ctx context.Context, key string) (*StoredItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT key, value, updated_at FROM local_storage WHERE key = ?`, key)

	var item StoredItem
	var updated string
	if err := row.Scan(&item.Key, &item.Value, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("storage item %q: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning storage item: %w", err)
	}
	item.UpdatedAt = parseTime(updated)
	return &item, nil
}

func (r *SQLiteStorage) SetItem(ctx context.Context, key, value string) error {
	query := `INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, key, value, nowUTC()); err != nil {
		return fmt.Errorf("writing storage item: %w", err)
	}
	return nil
}

func (r *SQLiteStorage) RemoveItem(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM local_storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("removing storage item: %w", err)
	}
	return nil
}

func (r *SQLiteStorage) ListByPrefix(ctx context.Context, prefix string) ([]StoredItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value, updated_at FROM local_storage
		 WHERE key LIKE ? ESCAPE '\' ORDER BY key`, likePrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("listing storage items: %w", err)
	}
	defer rows.Close()

	var items []StoredItem
	for rows.Next() {
		var item StoredItem
		var updated string
		if err := rows.Scan(&item.Key, &item.Value, &updated); err != nil {
			return nil, fmt.Errorf("scanning storage item: %w", err)
		}
		item.UpdatedAt = parseTime(updated)
		items = append(items, item)
	}
	return items, rows.Err()
}

// PruneBefore deletes items under prefix last written before cutoff.
// Keys listed in keep are left alone whatever their age.
func (r *SQLiteStorage) PruneBefore(ctx context.Context, prefix string, cutoff time.Time, keep ...string) (int64, error) {
	query := `DELETE FROM local_storage WHERE key LIKE ? ESCAPE '\' AND updated_at < ?`
	args := []any{likePrefix(prefix), cutoff.UTC().Format(time.RFC3339)}
	if len(keep) > 0 {
		query += ` AND key NOT IN (?` + strings.Repeat(`, ?`, len(keep)-1) + `)`
		for _, k := range keep {
			args = append(args, k)
		}
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("pruning storage items: %w", err)
	}
	return res.RowsAffected()
}
