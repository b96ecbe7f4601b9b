package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/cardcal/internal/db"
	"github.com/alexanderramin/cardcal/internal/testutil"
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

// TestConcurrentAccess_ReadDuringWrite verifies that calendar reads keep
// seeing complete cards while a single writer allocates numbers and inserts.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()
	uow := db.NewSQLiteUnitOfWork(database)
	cardRepo := NewSQLiteControlCardRepo(database)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
				n, err := NewSQLiteCardSequenceRepo(tx).NextCardNumber(ctx, 2024)
				if err != nil {
					return err
				}
				card := testutil.NewTestCard(fmt.Sprintf("card-%d", i), testutil.WithCardNumber(2024, n))
				return NewSQLiteControlCardRepo(tx).Create(ctx, card)
			})
			if err != nil {
				t.Errorf("writer: card %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				cards, err := cardRepo.List(ctx)
				if err != nil {
					t.Errorf("reader %d: list cards: %v", reader, err)
					return
				}
				for _, c := range cards {
					if c.ID == "" || c.CardNumber == 0 {
						t.Errorf("reader %d: got half-written card", reader)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	cards, err := cardRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cards, 20)
	assert.Equal(t, 20, cards[0].CardNumber)
	assert.Equal(t, 1, cards[19].CardNumber)
}
