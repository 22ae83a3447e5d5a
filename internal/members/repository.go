package members

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pulsefit/pulsefit/internal/shared"
)

// Repository provides PostgreSQL backed persistence for teachers and students.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateTeacher inserts a teacher record.
func (r *Repository) CreateTeacher(ctx context.Context, input TeacherInput) (*Teacher, error) {
	query := `
		INSERT INTO teachers (name, phone, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	var t Teacher
	err := r.pool.QueryRow(ctx, query, input.Name, input.Phone).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("members: create teacher: %w", err)
	}
	t.Name = input.Name
	t.Phone = input.Phone
	return &t, nil
}

// GetTeacher retrieves a teacher by ID.
func (r *Repository) GetTeacher(ctx context.Context, id int64) (*Teacher, error) {
	query := `
		SELECT id, name, phone, on_vacation, created_at, updated_at
		FROM teachers
		WHERE id = $1`

	var t Teacher
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&t.ID, &t.Name, &t.Phone, &t.OnVacation, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("members: teacher %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("members: get teacher: %w", err)
	}
	return &t, nil
}

// ListTeachers returns all teachers ordered by name.
func (r *Repository) ListTeachers(ctx context.Context) ([]Teacher, error) {
	query := `
		SELECT id, name, phone, on_vacation, created_at, updated_at
		FROM teachers
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("members: list teachers: %w", err)
	}
	defer rows.Close()

	var teachers []Teacher
	for rows.Next() {
		var t Teacher
		if err := rows.Scan(&t.ID, &t.Name, &t.Phone, &t.OnVacation, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("members: scan teacher: %w", err)
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}

// CreateStudent inserts a student record.
func (r *Repository) CreateStudent(ctx context.Context, input StudentInput) (*Student, error) {
	query := `
		INSERT INTO students (name, phone, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	var s Student
	err := r.pool.QueryRow(ctx, query, input.Name, input.Phone).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("members: create student: %w", err)
	}
	s.Name = input.Name
	s.Phone = input.Phone
	return &s, nil
}

// GetStudent retrieves a student by ID.
func (r *Repository) GetStudent(ctx context.Context, id int64) (*Student, error) {
	query := `
		SELECT id, name, phone, created_at, updated_at
		FROM students
		WHERE id = $1`

	var s Student
	err := r.pool.QueryRow(ctx, query, id).
		Scan(&s.ID, &s.Name, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("members: student %d: %w", id, shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("members: get student: %w", err)
	}
	return &s, nil
}

// ListStudents returns all students ordered by name.
func (r *Repository) ListStudents(ctx context.Context) ([]Student, error) {
	query := `
		SELECT id, name, phone, created_at, updated_at
		FROM students
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("members: list students: %w", err)
	}
	defer rows.Close()

	var students []Student
	for rows.Next() {
		var s Student
		if err := rows.Scan(&s.ID, &s.Name, &s.Phone, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("members: scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}
