package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillIssuedOn(db); err != nil {
		return fmt.Errorf("backfilling issued_on: %w", err)
	}
	if err := migrateBackfillCardSequences(db); err != nil {
		return fmt.Errorf("backfilling card sequence allocator state: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user'
		              CHECK(role IN ('admin','user','controller')),
		created_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS control_cards (
		id                    TEXT PRIMARY KEY,
		card_number           INTEGER NOT NULL CHECK(card_number > 0),
		year                  INTEGER NOT NULL,
		executor              TEXT NOT NULL,
		reporter              TEXT NOT NULL,
		summary               TEXT NOT NULL,
		document_reference    TEXT NOT NULL DEFAULT '',
		author_user_id        TEXT REFERENCES users(id) ON DELETE SET NULL,
		executor_user_id      TEXT REFERENCES users(id) ON DELETE SET NULL,
		controller_user_id    TEXT REFERENCES users(id) ON DELETE SET NULL,
		return_to             TEXT,
		execution_deadline    TEXT,
		execution_period_type TEXT
		                      CHECK(execution_period_type IS NULL OR execution_period_type IN ('daily','weekly','monthly')),
		extended_deadline     TEXT,
		resolution            TEXT,
		department            TEXT,
		controller            TEXT,
		created_at            TEXT NOT NULL,
		updated_at            TEXT NOT NULL,
		UNIQUE(year, card_number)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_cards_executor ON control_cards(executor_user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_cards_author ON control_cards(author_user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_cards_deadline ON control_cards(execution_deadline)`,

	// Cards created before the calendar view had no start day.
	`ALTER TABLE control_cards ADD COLUMN issued_on TEXT NOT NULL DEFAULT ''`,

	`CREATE TABLE IF NOT EXISTS card_sequences (
		year        INTEGER PRIMARY KEY,
		next_number INTEGER NOT NULL CHECK(next_number > 0)
	)`,
}

func migrateBackfillIssuedOn(db *sql.DB) error {
	_, err := db.ExecContext(context.Background(),
		`UPDATE control_cards SET issued_on = substr(created_at, 1, 10) WHERE issued_on = ''`)
	if err != nil {
		return fmt.Errorf("updating control_cards: %w", err)
	}
	return nil
}

func migrateBackfillCardSequences(db *sql.DB) error {
	ctx := context.Background()

	// Populate (or raise) next_number for every year that already has cards.
	query := `INSERT INTO card_sequences (year, next_number)
		SELECT year, MAX(card_number) + 1
		FROM control_cards
		GROUP BY year
		ON CONFLICT(year) DO UPDATE
		SET next_number = MAX(card_sequences.next_number, excluded.next_number)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("upserting card sequence rows: %w", err)
	}

	return nil
}
