package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Sandip-2006/diigital-village-hub/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_SessionWrites mirrors the server: many sessions
// writing their own keys at once while others read.
func TestConcurrentAccess_SessionWrites(t *testing.T) {
	repo := NewSQLiteStorage(newConcurrentTestDB(t))
	ctx := context.Background()

	const sessions = 8
	const writes = 20

	var wg sync.WaitGroup
	errs := make(chan error, sessions*writes*2)
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("village-portal-storage:%d", i)
			for j := 0; j < writes; j++ {
				if err := repo.SetItem(ctx, key, fmt.Sprintf(`{"n":%d}`, j)); err != nil {
					errs <- err
				}
				if _, _, err := repo.GetItem(ctx, key); err != nil {
					errs <- err
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent access: %v", err)
	}

	items, err := repo.ListByPrefix(ctx, "village-portal-storage:")
	require.NoError(t, err)
	assert.Len(t, items, sessions)
	for _, it := range items {
		assert.Equal(t, fmt.Sprintf(`{"n":%d}`, writes-1), it.Value)
	}
}
