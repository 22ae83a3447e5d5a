package vacation

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pulsefit/pulsefit/internal/shared"
)

// RepositoryPort defines data access methods for vacation requests.
type RepositoryPort interface {
	Create(ctx context.Context, input CreateRequestInput) (*Request, error)
	GetRequest(ctx context.Context, id int64) (*Request, error)
	ListByTeacher(ctx context.Context, teacherID int64) ([]Request, error)
	ListApprovedActiveOn(ctx context.Context, day time.Time) ([]Request, error)
}

// Service handles the teacher-facing vacation request workflow. Approval and
// rejection go through the reconciler, not this service.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// CreateRequest submits a pending vacation request.
func (s *Service) CreateRequest(ctx context.Context, input CreateRequestInput) (*Request, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	if DateOf(input.EndDate).Before(DateOf(input.StartDate)) {
		return nil, fmt.Errorf("%w: end date before start date", shared.ErrValidation)
	}
	return s.repo.Create(ctx, input)
}

// GetRequest returns a request by ID.
func (s *Service) GetRequest(ctx context.Context, id int64) (*Request, error) {
	return s.repo.GetRequest(ctx, id)
}

// ListByTeacher returns all requests for a teacher.
func (s *Service) ListByTeacher(ctx context.Context, teacherID int64) ([]Request, error) {
	return s.repo.ListByTeacher(ctx, teacherID)
}

// ListActiveOn returns approved requests covering the given day.
func (s *Service) ListActiveOn(ctx context.Context, day time.Time) ([]Request, error) {
	return s.repo.ListApprovedActiveOn(ctx, day)
}
