package vacation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulsefit/pulsefit/internal/shared"
)

// Repository provides PostgreSQL backed persistence for vacation requests and
// the derived on-vacation flag on teacher records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const requestColumns = `
	r.id, r.teacher_id, t.name, r.start_date, r.end_date, r.reason, r.status,
	r.created_at, r.updated_at`

func scanRequest(row pgx.Row) (*Request, error) {
	var req Request
	err := row.Scan(
		&req.ID, &req.TeacherID, &req.TeacherName, &req.StartDate, &req.EndDate,
		&req.Reason, &req.Status, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create inserts a pending vacation request.
func (r *Repository) Create(ctx context.Context, input CreateRequestInput) (*Request, error) {
	var teacherName string
	err := r.pool.QueryRow(ctx, `SELECT name FROM teachers WHERE id = $1`, input.TeacherID).
		Scan(&teacherName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("vacation: teacher %d: %w", input.TeacherID, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("vacation: lookup teacher: %w", err)
	}

	query := `
		INSERT INTO vacation_requests (teacher_id, start_date, end_date, reason, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'pending', NOW(), NOW())
		RETURNING id, created_at, updated_at`

	var req Request
	err = r.pool.QueryRow(ctx, query,
		input.TeacherID, DateOf(input.StartDate), DateOf(input.EndDate), input.Reason,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("vacation: create request: %w", err)
	}

	req.TeacherID = input.TeacherID
	req.TeacherName = teacherName
	req.StartDate = DateOf(input.StartDate)
	req.EndDate = DateOf(input.EndDate)
	req.Reason = input.Reason
	req.Status = StatusPending
	return &req, nil
}

// GetRequest retrieves a vacation request by ID.
func (r *Repository) GetRequest(ctx context.Context, id int64) (*Request, error) {
	query := `
		SELECT` + requestColumns + `
		FROM vacation_requests r
		JOIN teachers t ON t.id = r.teacher_id
		WHERE r.id = $1`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("vacation: request %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("vacation: get request: %w", err)
	}
	return req, nil
}

// ListByTeacher returns all requests submitted by a teacher.
func (r *Repository) ListByTeacher(ctx context.Context, teacherID int64) ([]Request, error) {
	query := `
		SELECT` + requestColumns + `
		FROM vacation_requests r
		JOIN teachers t ON t.id = r.teacher_id
		WHERE r.teacher_id = $1
		ORDER BY r.start_date DESC`

	return r.listRequests(ctx, query, teacherID)
}

// ListApprovedActiveOn returns approved requests whose range contains the
// given date.
func (r *Repository) ListApprovedActiveOn(ctx context.Context, day time.Time) ([]Request, error) {
	query := `
		SELECT` + requestColumns + `
		FROM vacation_requests r
		JOIN teachers t ON t.id = r.teacher_id
		WHERE r.status = 'approved' AND r.start_date <= $1 AND r.end_date >= $1
		ORDER BY r.teacher_id, r.start_date`

	return r.listRequests(ctx, query, DateOf(day))
}

func (r *Repository) listRequests(ctx context.Context, query string, args ...any) ([]Request, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("vacation: list requests: %w", err)
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("vacation: scan request: %w", err)
		}
		requests = append(requests, *req)
	}
	return requests, rows.Err()
}

// SetApprovalStatus transitions a pending request to approved or rejected.
// The WHERE clause is the guard: a request raced into a terminal status by a
// concurrent writer yields ErrInvalidTransition, an unknown id ErrNotFound.
func (r *Repository) SetApprovalStatus(ctx context.Context, id int64, status Status) (*Request, error) {
	query := `
		UPDATE vacation_requests r
		SET status = $2, updated_at = NOW()
		FROM teachers t
		WHERE r.id = $1 AND r.teacher_id = t.id AND r.status = 'pending'
		RETURNING` + requestColumns

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id, string(status)))
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if probeErr := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM vacation_requests WHERE id = $1)`, id,
		).Scan(&exists); probeErr != nil {
			return nil, fmt.Errorf("vacation: probe request: %w", probeErr)
		}
		if !exists {
			return nil, fmt.Errorf("vacation: request %d: %w", id, shared.ErrNotFound)
		}
		return nil, fmt.Errorf("vacation: request %d is not pending: %w", id, shared.ErrInvalidTransition)
	}
	if err != nil {
		return nil, fmt.Errorf("vacation: set approval status: %w", err)
	}
	return req, nil
}

// SetTeacherOnVacation writes the derived flag. Setting the already stored
// value is a no-op write; the returned bool reports whether a row changed,
// which keeps concurrent sweeps and approvals convergent without locks.
func (r *Repository) SetTeacherOnVacation(ctx context.Context, teacherID int64, flag bool) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE teachers
		SET on_vacation = $2, updated_at = NOW()
		WHERE id = $1 AND on_vacation IS DISTINCT FROM $2`,
		teacherID, flag,
	)
	if err != nil {
		return false, fmt.Errorf("vacation: set teacher flag: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM teachers WHERE id = $1)`, teacherID,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("vacation: probe teacher: %w", err)
	}
	if !exists {
		return false, fmt.Errorf("vacation: teacher %d: %w", teacherID, shared.ErrNotFound)
	}
	return false, nil
}

// ListApprovedByTeacher returns every teacher holding at least one approved
// request, together with the stored flag. Sweep input.
func (r *Repository) ListApprovedByTeacher(ctx context.Context) ([]TeacherVacations, error) {
	query := `
		SELECT t.id, t.name, t.on_vacation,
			r.id, r.start_date, r.end_date, r.reason, r.status, r.created_at, r.updated_at
		FROM teachers t
		JOIN vacation_requests r ON r.teacher_id = t.id
		WHERE r.status = 'approved'
		ORDER BY t.id, r.start_date`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vacation: list approved: %w", err)
	}
	defer rows.Close()

	var out []TeacherVacations
	for rows.Next() {
		var (
			teacherID   int64
			teacherName string
			onVacation  bool
			req         Request
		)
		err := rows.Scan(
			&teacherID, &teacherName, &onVacation,
			&req.ID, &req.StartDate, &req.EndDate, &req.Reason, &req.Status,
			&req.CreatedAt, &req.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("vacation: scan approved: %w", err)
		}
		req.TeacherID = teacherID
		req.TeacherName = teacherName

		if len(out) == 0 || out[len(out)-1].TeacherID != teacherID {
			out = append(out, TeacherVacations{
				TeacherID:   teacherID,
				TeacherName: teacherName,
				OnVacation:  onVacation,
			})
		}
		last := &out[len(out)-1]
		last.Requests = append(last.Requests, req)
	}
	return out, rows.Err()
}
