package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/cardcal/internal/db"
)

// SQLiteCardSequenceRepo allocates per-year card numbers atomically using
// the card_sequences table.
type SQLiteCardSequenceRepo struct {
	db db.DBTX
}

// NewSQLiteCardSequenceRepo creates a new SQLiteCardSequenceRepo.
func NewSQLiteCardSequenceRepo(conn db.DBTX) *SQLiteCardSequenceRepo {
	return &SQLiteCardSequenceRepo{db: conn}
}

// NextCardNumber returns the next free card number for year and reserves it.
// A year without an allocator row starts after the highest stored number.
func (r *SQLiteCardSequenceRepo) NextCardNumber(ctx context.Context, year int) (int, error) {
	seedQuery := `INSERT OR IGNORE INTO card_sequences (year, next_number)
		SELECT ?, COALESCE(MAX(card_number), 0) + 1
		FROM control_cards WHERE year = ?`
	if _, err := r.db.ExecContext(ctx, seedQuery, year, year); err != nil {
		return 0, fmt.Errorf("seeding card sequence for %d: %w", year, err)
	}

	var next int
	allocQuery := `UPDATE card_sequences
		SET next_number = next_number + 1
		WHERE year = ?
		RETURNING next_number - 1`
	if err := r.db.QueryRowContext(ctx, allocQuery, year).Scan(&next); err != nil {
		return 0, fmt.Errorf("allocating card number for %d: %w", year, err)
	}
	return next, nil
}

// Peek reports the number NextCardNumber would hand out without reserving it.
func (r *SQLiteCardSequenceRepo) Peek(ctx context.Context, year int) (int, error) {
	query := `SELECT MAX(
		COALESCE((SELECT next_number FROM card_sequences WHERE year = ?), 1),
		COALESCE((SELECT MAX(card_number) FROM control_cards WHERE year = ?), 0) + 1)`
	var next int
	if err := r.db.QueryRowContext(ctx, query, year, year).Scan(&next); err != nil {
		return 0, fmt.Errorf("peeking card number for %d: %w", year, err)
	}
	return next, nil
}

// Reserve raises the allocator past number, used when a card is stored with a
// number chosen by hand.
func (r *SQLiteCardSequenceRepo) Reserve(ctx context.Context, year, number int) error {
	query := `INSERT INTO card_sequences (year, next_number) VALUES (?, ?)
		ON CONFLICT(year) DO UPDATE
		SET next_number = MAX(card_sequences.next_number, excluded.next_number)`
	if _, err := r.db.ExecContext(ctx, query, year, number+1); err != nil {
		return fmt.Errorf("reserving card number %d/%d: %w", number, year, err)
	}
	return nil
}
