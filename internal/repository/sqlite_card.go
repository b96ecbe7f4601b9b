package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/cardcal/internal/db"
	"github.com/alexanderramin/cardcal/internal/domain"
)

// SQLiteControlCardRepo implements ControlCardRepo using a SQLite database.
type SQLiteControlCardRepo struct {
	db db.DBTX
}

// NewSQLiteControlCardRepo creates a new SQLiteControlCardRepo.
func NewSQLiteControlCardRepo(conn db.DBTX) *SQLiteControlCardRepo {
	return &SQLiteControlCardRepo{db: conn}
}

const cardColumns = `id, card_number, year, executor, reporter, summary, document_reference,
	author_user_id, executor_user_id, controller_user_id, issued_on,
	return_to, execution_deadline, execution_period_type, extended_deadline,
	resolution, department, controller, created_at, updated_at`

const cardOrder = ` ORDER BY year DESC, card_number DESC`

func (r *SQLiteControlCardRepo) Create(ctx context.Context, c *domain.ControlCard) error {
	query := `INSERT INTO control_cards (` + cardColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.CardNumber,
		c.Year,
		c.Executor,
		c.Reporter,
		c.Summary,
		c.DocumentReference,
		nullableStrToValue(c.AuthorUserID),
		nullableStrToValue(c.ExecutorUserID),
		nullableStrToValue(c.ControllerUserID),
		c.IssuedOn.Format(dateLayout),
		nullableStrToValue(c.ReturnTo),
		nullableTimeToString(c.ExecutionDeadline, dateLayout),
		periodToValue(c.ExecutionPeriodType),
		nullableTimeToString(c.ExtendedDeadline, dateLayout),
		nullableStrToValue(c.Resolution),
		nullableStrToValue(c.Department),
		nullableStrToValue(c.Controller),
		c.CreatedAt.UTC().Format(time.RFC3339),
		c.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("card %s: %w", c.DisplayNumber(), ErrConflict)
		}
		return fmt.Errorf("inserting control card: %w", err)
	}
	return nil
}

func (r *SQLiteControlCardRepo) GetByID(ctx context.Context, id string) (*domain.ControlCard, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM control_cards WHERE id = ?`, id)
	return scanCard(row)
}

func (r *SQLiteControlCardRepo) List(ctx context.Context) ([]*domain.ControlCard, error) {
	return r.query(ctx, `SELECT `+cardColumns+` FROM control_cards`+cardOrder)
}

func (r *SQLiteControlCardRepo) ListByExecutor(ctx context.Context, executorUserID string) ([]*domain.ControlCard, error) {
	return r.query(ctx, `SELECT `+cardColumns+` FROM control_cards WHERE executor_user_id = ?`+cardOrder, executorUserID)
}

func (r *SQLiteControlCardRepo) ListByAuthor(ctx context.Context, authorUserID string) ([]*domain.ControlCard, error) {
	return r.query(ctx, `SELECT `+cardColumns+` FROM control_cards WHERE author_user_id = ?`+cardOrder, authorUserID)
}

func (r *SQLiteControlCardRepo) ListDueBetween(ctx context.Context, from, to time.Time) ([]*domain.ControlCard, error) {
	query := `SELECT ` + cardColumns + ` FROM control_cards
		WHERE COALESCE(extended_deadline, execution_deadline) BETWEEN ? AND ?` + cardOrder
	return r.query(ctx, query, from.Format(dateLayout), to.Format(dateLayout))
}

func (r *SQLiteControlCardRepo) Update(ctx context.Context, c *domain.ControlCard) error {
	query := `UPDATE control_cards SET
		card_number = ?, year = ?, executor = ?, reporter = ?, summary = ?, document_reference = ?,
		executor_user_id = ?, controller_user_id = ?, issued_on = ?,
		return_to = ?, execution_deadline = ?, execution_period_type = ?, extended_deadline = ?,
		resolution = ?, department = ?, controller = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		c.CardNumber,
		c.Year,
		c.Executor,
		c.Reporter,
		c.Summary,
		c.DocumentReference,
		nullableStrToValue(c.ExecutorUserID),
		nullableStrToValue(c.ControllerUserID),
		c.IssuedOn.Format(dateLayout),
		nullableStrToValue(c.ReturnTo),
		nullableTimeToString(c.ExecutionDeadline, dateLayout),
		periodToValue(c.ExecutionPeriodType),
		nullableTimeToString(c.ExtendedDeadline, dateLayout),
		nullableStrToValue(c.Resolution),
		nullableStrToValue(c.Department),
		nullableStrToValue(c.Controller),
		c.UpdatedAt.UTC().Format(time.RFC3339),
		c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("card %s: %w", c.DisplayNumber(), ErrConflict)
		}
		return fmt.Errorf("updating control card: %w", err)
	}
	return requireAffected(res, "control card")
}

func (r *SQLiteControlCardRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM control_cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting control card: %w", err)
	}
	return requireAffected(res, "control card")
}

func (r *SQLiteControlCardRepo) query(ctx context.Context, query string, args ...any) ([]*domain.ControlCard, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing control cards: %w", err)
	}
	defer rows.Close()

	var cards []*domain.ControlCard
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating control cards: %w", err)
	}
	return cards, nil
}

func periodToValue(p *domain.PeriodType) interface{} {
	if p == nil {
		return nil
	}
	return string(*p)
}

func scanCard(row rowScanner) (*domain.ControlCard, error) {
	var c domain.ControlCard
	var issuedOn, createdAt, updatedAt string
	var author, executor, controllerID, returnTo, execDeadline, period, extDeadline,
		resolution, department, controller sql.NullString

	err := row.Scan(
		&c.ID, &c.CardNumber, &c.Year, &c.Executor, &c.Reporter, &c.Summary, &c.DocumentReference,
		&author, &executor, &controllerID, &issuedOn,
		&returnTo, &execDeadline, &period, &extDeadline,
		&resolution, &department, &controller, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("control card: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning control card: %w", err)
	}

	c.AuthorUserID = parseNullableStr(author)
	c.ExecutorUserID = parseNullableStr(executor)
	c.ControllerUserID = parseNullableStr(controllerID)
	c.ReturnTo = parseNullableStr(returnTo)
	c.Resolution = parseNullableStr(resolution)
	c.Department = parseNullableStr(department)
	c.Controller = parseNullableStr(controller)
	c.ExecutionDeadline = parseNullableTime(execDeadline, dateLayout)
	c.ExtendedDeadline = parseNullableTime(extDeadline, dateLayout)
	if period.Valid {
		p := domain.PeriodType(period.String)
		c.ExecutionPeriodType = &p
	}

	if c.IssuedOn, err = time.Parse(dateLayout, issuedOn); err != nil {
		return nil, fmt.Errorf("parsing issued_on: %w", err)
	}
	if c.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if c.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &c, nil
}
