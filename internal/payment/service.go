package payment

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/pulsefit/pulsefit/internal/shared"
)

// RepositoryPort defines data access methods for payment obligations.
type RepositoryPort interface {
	Create(ctx context.Context, input CreateObligationInput) (*Obligation, error)
	Get(ctx context.Context, id int64) (*Obligation, error)
	ListByStudent(ctx context.Context, studentID int64) ([]Obligation, error)
}

// Service handles obligation creation and reads. Status transitions (overdue,
// paid) go through the reconciler.
type Service struct {
	repo     RepositoryPort
	validate *validator.Validate
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// CreateObligation records a billing obligation for a student.
func (s *Service) CreateObligation(ctx context.Context, input CreateObligationInput) (*Obligation, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}
	return s.repo.Create(ctx, input)
}

// GetObligation returns an obligation by ID.
func (s *Service) GetObligation(ctx context.Context, id int64) (*Obligation, error) {
	return s.repo.Get(ctx, id)
}

// ListByStudent returns obligations for a student.
func (s *Service) ListByStudent(ctx context.Context, studentID int64) ([]Obligation, error) {
	return s.repo.ListByStudent(ctx, studentID)
}
