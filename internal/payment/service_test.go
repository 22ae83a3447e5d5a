package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/pulsefit/internal/shared"
)

type stubRepo struct {
	created *CreateObligationInput
}

func (s *stubRepo) Create(_ context.Context, input CreateObligationInput) (*Obligation, error) {
	s.created = &input
	return &Obligation{ID: 1, StudentID: input.StudentID, Amount: input.Amount, DueDate: input.DueDate, Status: StatusPending}, nil
}

func (s *stubRepo) Get(context.Context, int64) (*Obligation, error) {
	return nil, shared.ErrNotFound
}

func (s *stubRepo) ListByStudent(context.Context, int64) ([]Obligation, error) {
	return nil, nil
}

func TestCreateObligation(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	due := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	ob, err := svc.CreateObligation(context.Background(), CreateObligationInput{
		StudentID: 2,
		Amount:    150,
		DueDate:   due,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, ob.Status)
	assert.Nil(t, ob.PaidAt)
}

func TestCreateObligationRejectsNegativeAmount(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	_, err := svc.CreateObligation(context.Background(), CreateObligationInput{
		StudentID: 2,
		Amount:    -1,
		DueDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Nil(t, repo.created)
}

func TestCreateObligationAllowsZeroAmount(t *testing.T) {
	svc := NewService(&stubRepo{})

	_, err := svc.CreateObligation(context.Background(), CreateObligationInput{
		StudentID: 2,
		Amount:    0,
		DueDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
}

func TestCreateObligationRequiresStudent(t *testing.T) {
	svc := NewService(&stubRepo{})

	_, err := svc.CreateObligation(context.Background(), CreateObligationInput{
		Amount:  150,
		DueDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}
