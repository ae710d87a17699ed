package repository

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// StoredItem is one row of the key-value table.
type StoredItem struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

// LocalStorageRepo is durable key-value storage with localStorage
// semantics plus the listing and pruning the server needs.
type LocalStorageRepo interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (*StoredItem, error)
	ListByPrefix(ctx context.Context, prefix string) ([]StoredItem, error)
	PruneBefore(ctx context.Context, prefix string, cutoff time.Time, keep ...string) (int64, error)
}
