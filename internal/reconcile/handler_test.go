package reconcile

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsefit/pulsefit/internal/payment"
	"github.com/pulsefit/pulsefit/internal/vacation"
)

type stubEnqueuer struct {
	enqueued int
	fail     error
}

func (s *stubEnqueuer) EnqueueDailySweep(context.Context, time.Time) error {
	if s.fail != nil {
		return s.fail
	}
	s.enqueued++
	return nil
}

func newTestRouter(r *Reconciler, enqueuer SweepEnqueuer) http.Handler {
	h := NewHandler(slog.New(slog.DiscardHandler), r, enqueuer)
	router := chi.NewRouter()
	router.Route("/vacations", h.MountVacationRoutes)
	router.Route("/payments", h.MountPaymentRoutes)
	router.Route("/admin", h.MountAdminRoutes)
	return router
}

func TestApproveVacationEndpoint(t *testing.T) {
	vs := newMemVacationStore()
	vs.addTeacher(1, "Alice Nguyen")
	vs.addRequest(vacation.Request{
		ID: 10, TeacherID: 1, TeacherName: "Alice Nguyen",
		StartDate: day("2024-07-01"), EndDate: day("2024-07-15"),
		Status: vacation.StatusPending,
	})
	r := newTestReconciler(vs, newMemPaymentStore(), &memNotifier{}, day("2024-07-05"))
	router := newTestRouter(r, &stubEnqueuer{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/vacations/10/approve", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"approved"`)
	assert.True(t, vs.teachers[1].OnVacation)
}

func TestApproveVacationEndpointConflict(t *testing.T) {
	vs := newMemVacationStore()
	vs.addTeacher(1, "Alice Nguyen")
	vs.addRequest(vacation.Request{
		ID: 10, TeacherID: 1, TeacherName: "Alice Nguyen",
		StartDate: day("2024-07-01"), EndDate: day("2024-07-15"),
		Status: vacation.StatusRejected,
	})
	r := newTestReconciler(vs, newMemPaymentStore(), &memNotifier{}, day("2024-07-05"))
	router := newTestRouter(r, &stubEnqueuer{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/vacations/10/approve", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestApproveVacationEndpointNotFound(t *testing.T) {
	r := newTestReconciler(newMemVacationStore(), newMemPaymentStore(), &memNotifier{}, day("2024-07-05"))
	router := newTestRouter(r, &stubEnqueuer{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/vacations/404/approve", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarkPaidEndpoint(t *testing.T) {
	ps := newMemPaymentStore()
	ps.add(payment.Obligation{
		ID: 5, StudentID: 2, StudentName: "Bob Tran",
		Amount: 150, DueDate: day("2024-01-10"), Status: payment.StatusOverdue,
	})
	r := newTestReconciler(newMemVacationStore(), ps, &memNotifier{}, day("2024-01-12"))
	router := newTestRouter(r, &stubEnqueuer{})

	body := strings.NewReader(`{"paid_at":"2024-01-11"}`)
	req := httptest.NewRequest(http.MethodPost, "/payments/5/pay", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"paid"`)
	assert.Contains(t, rec.Body.String(), `"paid_at":"2024-01-11"`)
}

func TestMarkPaidEndpointBadDate(t *testing.T) {
	r := newTestReconciler(newMemVacationStore(), newMemPaymentStore(), &memNotifier{}, day("2024-01-12"))
	router := newTestRouter(r, &stubEnqueuer{})

	body := strings.NewReader(`{"paid_at":"11-01-2024"}`)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payments/5/pay", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTriggerSweepEndpoint(t *testing.T) {
	r := newTestReconciler(newMemVacationStore(), newMemPaymentStore(), &memNotifier{}, day("2024-01-12"))
	enqueuer := &stubEnqueuer{}
	router := newTestRouter(r, enqueuer)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/sweep", nil))

	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, enqueuer.enqueued)
}

func TestTriggerSweepEndpointWithoutQueue(t *testing.T) {
	r := newTestReconciler(newMemVacationStore(), newMemPaymentStore(), &memNotifier{}, day("2024-01-12"))
	router := newTestRouter(r, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/sweep", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
