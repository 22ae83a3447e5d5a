package vacation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/pulsefit/internal/shared"
)

type stubRepo struct {
	created *CreateRequestInput
}

func (s *stubRepo) Create(_ context.Context, input CreateRequestInput) (*Request, error) {
	s.created = &input
	return &Request{ID: 1, TeacherID: input.TeacherID, StartDate: input.StartDate, EndDate: input.EndDate, Status: StatusPending}, nil
}

func (s *stubRepo) GetRequest(context.Context, int64) (*Request, error) {
	return nil, shared.ErrNotFound
}

func (s *stubRepo) ListByTeacher(context.Context, int64) ([]Request, error) {
	return nil, nil
}

func (s *stubRepo) ListApprovedActiveOn(context.Context, time.Time) ([]Request, error) {
	return nil, nil
}

func TestCreateRequest(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	req, err := svc.CreateRequest(context.Background(), CreateRequestInput{
		TeacherID: 1,
		StartDate: date(2024, 7, 1),
		EndDate:   date(2024, 7, 15),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)
	require.NotNil(t, repo.created)
}

func TestCreateRequestRejectsInvertedWindow(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	_, err := svc.CreateRequest(context.Background(), CreateRequestInput{
		TeacherID: 1,
		StartDate: date(2024, 7, 15),
		EndDate:   date(2024, 7, 1),
	})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Nil(t, repo.created)
}

func TestCreateRequestRequiresTeacher(t *testing.T) {
	svc := NewService(&stubRepo{})

	_, err := svc.CreateRequest(context.Background(), CreateRequestInput{
		StartDate: date(2024, 7, 1),
		EndDate:   date(2024, 7, 15),
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateRequestAllowsSingleDay(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	day := time.Date(2024, 7, 1, 14, 0, 0, 0, time.UTC)
	_, err := svc.CreateRequest(context.Background(), CreateRequestInput{
		TeacherID: 1,
		StartDate: day,
		EndDate:   day,
	})
	require.NoError(t, err)
}
