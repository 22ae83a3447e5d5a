package members

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/pulsefit/pulsefit/internal/shared"
)

// RepositoryPort defines data access methods for the member registry.
type RepositoryPort interface {
	CreateTeacher(ctx context.Context, input TeacherInput) (*Teacher, error)
	GetTeacher(ctx context.Context, id int64) (*Teacher, error)
	ListTeachers(ctx context.Context) ([]Teacher, error)
	CreateStudent(ctx context.Context, input StudentInput) (*Student, error)
	GetStudent(ctx context.Context, id int64) (*Student, error)
	ListStudents(ctx context.Context) ([]Student, error)
}

// Service handles member registry business logic.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// CreateTeacher registers a new teacher.
func (s *Service) CreateTeacher(ctx context.Context, input TeacherInput) (*Teacher, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return s.repo.CreateTeacher(ctx, input)
}

// GetTeacher returns a teacher by ID.
func (s *Service) GetTeacher(ctx context.Context, id int64) (*Teacher, error) {
	return s.repo.GetTeacher(ctx, id)
}

// ListTeachers returns all teachers.
func (s *Service) ListTeachers(ctx context.Context) ([]Teacher, error) {
	return s.repo.ListTeachers(ctx)
}

// CreateStudent registers a new student.
func (s *Service) CreateStudent(ctx context.Context, input StudentInput) (*Student, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return s.repo.CreateStudent(ctx, input)
}

// GetStudent returns a student by ID.
func (s *Service) GetStudent(ctx context.Context, id int64) (*Student, error) {
	return s.repo.GetStudent(ctx, id)
}

// ListStudents returns all students.
func (s *Service) ListStudents(ctx context.Context) ([]Student, error) {
	return s.repo.ListStudents(ctx)
}
