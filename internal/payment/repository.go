package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulsefit/pulsefit/internal/shared"
)

// Repository provides PostgreSQL backed persistence for payment obligations.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const obligationColumns = `
	p.id, p.student_id, s.name, p.amount, p.due_date, p.paid_at, p.status,
	p.created_at, p.updated_at`

func scanObligation(row pgx.Row) (*Obligation, error) {
	var o Obligation
	err := row.Scan(
		&o.ID, &o.StudentID, &o.StudentName, &o.Amount, &o.DueDate, &o.PaidAt,
		&o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts a pending obligation. A second obligation for the same
// student and due date violates uq_payment_period and maps to ErrDuplicate.
func (r *Repository) Create(ctx context.Context, input CreateObligationInput) (*Obligation, error) {
	var studentName string
	err := r.pool.QueryRow(ctx, `SELECT name FROM students WHERE id = $1`, input.StudentID).
		Scan(&studentName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("payment: student %d: %w", input.StudentID, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("payment: lookup student: %w", err)
	}

	query := `
		INSERT INTO payments (student_id, amount, due_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, 'pending', NOW(), NOW())
		RETURNING id, created_at, updated_at`

	var o Obligation
	err = r.pool.QueryRow(ctx, query, input.StudentID, input.Amount, dateOf(input.DueDate)).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("payment: obligation for student %d due %s: %w",
				input.StudentID, dateOf(input.DueDate).Format("2006-01-02"), shared.ErrDuplicate)
		}
		return nil, fmt.Errorf("payment: create obligation: %w", err)
	}

	o.StudentID = input.StudentID
	o.StudentName = studentName
	o.Amount = input.Amount
	o.DueDate = dateOf(input.DueDate)
	o.Status = StatusPending
	return &o, nil
}

// Get retrieves an obligation by ID.
func (r *Repository) Get(ctx context.Context, id int64) (*Obligation, error) {
	query := `
		SELECT` + obligationColumns + `
		FROM payments p
		JOIN students s ON s.id = p.student_id
		WHERE p.id = $1`

	o, err := scanObligation(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("payment: obligation %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("payment: get obligation: %w", err)
	}
	return o, nil
}

// ListByStudent returns obligations for a student, newest due date first.
func (r *Repository) ListByStudent(ctx context.Context, studentID int64) ([]Obligation, error) {
	query := `
		SELECT` + obligationColumns + `
		FROM payments p
		JOIN students s ON s.id = p.student_id
		WHERE p.student_id = $1
		ORDER BY p.due_date DESC`

	return r.listObligations(ctx, query, studentID)
}

// ListDueBefore returns obligations in the given status due strictly before
// the given day.
func (r *Repository) ListDueBefore(ctx context.Context, day time.Time, status Status) ([]Obligation, error) {
	query := `
		SELECT` + obligationColumns + `
		FROM payments p
		JOIN students s ON s.id = p.student_id
		WHERE p.status = $2 AND p.due_date < $1
		ORDER BY p.due_date`

	return r.listObligations(ctx, query, dateOf(day), string(status))
}

func (r *Repository) listObligations(ctx context.Context, query string, args ...any) ([]Obligation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("payment: list obligations: %w", err)
	}
	defer rows.Close()

	var out []Obligation
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, fmt.Errorf("payment: scan obligation: %w", err)
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

// MarkOverdue transitions pending -> overdue. Already overdue or paid rows are
// a no-op, not an error: the sweep may run more than once for the same day.
// The returned bool reports whether a row changed.
func (r *Repository) MarkOverdue(ctx context.Context, id int64) (*Obligation, bool, error) {
	query := `
		UPDATE payments p
		SET status = 'overdue', updated_at = NOW()
		FROM students s
		WHERE p.id = $1 AND p.student_id = s.id AND p.status = 'pending' AND p.paid_at IS NULL
		RETURNING` + obligationColumns

	o, err := scanObligation(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		existing, getErr := r.Get(ctx, id)
		if getErr != nil {
			return nil, false, getErr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("payment: mark overdue: %w", err)
	}
	return o, true, nil
}

// MarkPaid transitions pending or overdue -> paid. Paid is terminal; marking
// an already paid obligation yields ErrInvalidTransition.
func (r *Repository) MarkPaid(ctx context.Context, id int64, paidAt time.Time) (*Obligation, error) {
	query := `
		UPDATE payments p
		SET status = 'paid', paid_at = $2, updated_at = NOW()
		FROM students s
		WHERE p.id = $1 AND p.student_id = s.id AND p.status IN ('pending', 'overdue')
		RETURNING` + obligationColumns

	o, err := scanObligation(r.pool.QueryRow(ctx, query, id, dateOf(paidAt)))
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if probeErr := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM payments WHERE id = $1)`, id,
		).Scan(&exists); probeErr != nil {
			return nil, fmt.Errorf("payment: probe obligation: %w", probeErr)
		}
		if !exists {
			return nil, fmt.Errorf("payment: obligation %d: %w", id, shared.ErrNotFound)
		}
		return nil, fmt.Errorf("payment: obligation %d already paid: %w", id, shared.ErrInvalidTransition)
	}
	if err != nil {
		return nil, fmt.Errorf("payment: mark paid: %w", err)
	}
	return o, nil
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
