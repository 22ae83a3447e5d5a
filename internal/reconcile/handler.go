package reconcile

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pulsefit/pulsefit/internal/payment"
	"github.com/pulsefit/pulsefit/internal/platform/httpx"
	"github.com/pulsefit/pulsefit/internal/vacation"
)

const dateLayout = "2006-01-02"

// SweepEnqueuer schedules a sweep run on the background queue.
type SweepEnqueuer interface {
	EnqueueDailySweep(ctx context.Context, day time.Time) error
}

// Handler exposes the reconciler's transition endpoints. Domain handlers own
// reads and creation; status transitions route through here so every derived
// write goes through one code path.
type Handler struct {
	logger     *slog.Logger
	reconciler *Reconciler
	enqueuer   SweepEnqueuer
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, reconciler *Reconciler, enqueuer SweepEnqueuer) *Handler {
	return &Handler{logger: logger, reconciler: reconciler, enqueuer: enqueuer}
}

// MountVacationRoutes registers approval endpoints under the vacations tree.
func (h *Handler) MountVacationRoutes(r chi.Router) {
	r.Post("/{id}/approve", h.approveVacation)
	r.Post("/{id}/reject", h.rejectVacation)
}

// MountPaymentRoutes registers payment transition endpoints.
func (h *Handler) MountPaymentRoutes(r chi.Router) {
	r.Post("/{id}/pay", h.markPaid)
}

// MountAdminRoutes registers operator endpoints.
func (h *Handler) MountAdminRoutes(r chi.Router) {
	r.Post("/sweep", h.triggerSweep)
}

type requestResponse struct {
	ID          int64           `json:"id"`
	TeacherID   int64           `json:"teacher_id"`
	TeacherName string          `json:"teacher_name"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Reason      string          `json:"reason,omitempty"`
	Status      vacation.Status `json:"status"`
}

func toRequestResponse(req *vacation.Request) requestResponse {
	return requestResponse{
		ID:          req.ID,
		TeacherID:   req.TeacherID,
		TeacherName: req.TeacherName,
		StartDate:   req.StartDate.Format(dateLayout),
		EndDate:     req.EndDate.Format(dateLayout),
		Reason:      req.Reason,
		Status:      req.Status,
	}
}

type obligationResponse struct {
	ID          int64          `json:"id"`
	StudentID   int64          `json:"student_id"`
	StudentName string         `json:"student_name"`
	Amount      float64        `json:"amount"`
	DueDate     string         `json:"due_date"`
	PaidAt      string         `json:"paid_at,omitempty"`
	Status      payment.Status `json:"status"`
}

func toObligationResponse(o *payment.Obligation) obligationResponse {
	resp := obligationResponse{
		ID:          o.ID,
		StudentID:   o.StudentID,
		StudentName: o.StudentName,
		Amount:      o.Amount,
		DueDate:     o.DueDate.Format(dateLayout),
		Status:      o.Status,
	}
	if o.PaidAt != nil {
		resp.PaidAt = o.PaidAt.Format(dateLayout)
	}
	return resp
}

func (h *Handler) approveVacation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	req, err := h.reconciler.ApproveVacation(r.Context(), id)
	if err != nil {
		h.logger.Error("approve vacation", slog.Any("error", err), slog.Int64("request_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRequestResponse(req))
}

func (h *Handler) rejectVacation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	req, err := h.reconciler.RejectVacation(r.Context(), id)
	if err != nil {
		h.logger.Error("reject vacation", slog.Any("error", err), slog.Int64("request_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toRequestResponse(req))
}

type markPaidBody struct {
	PaidAt string `json:"paid_at"`
}

func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var paidAt time.Time
	if r.Body != nil && r.ContentLength != 0 {
		var body markPaidBody
		if err := httpx.DecodeJSON(r, &body); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
			return
		}
		if body.PaidAt != "" {
			parsed, err := time.Parse(dateLayout, body.PaidAt)
			if err != nil {
				httpx.Problem(w, http.StatusBadRequest, "Bad Request", "paid_at must be YYYY-MM-DD")
				return
			}
			paidAt = parsed
		}
	}

	obligation, err := h.reconciler.MarkPaymentPaid(r.Context(), id, paidAt)
	if err != nil {
		h.logger.Error("mark payment paid", slog.Any("error", err), slog.Int64("payment_id", id))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toObligationResponse(obligation))
}

func (h *Handler) triggerSweep(w http.ResponseWriter, r *http.Request) {
	if h.enqueuer == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Service Unavailable", "background queue not configured")
		return
	}

	day := time.Now().UTC()
	if err := h.enqueuer.EnqueueDailySweep(r.Context(), day); err != nil {
		h.logger.Error("enqueue sweep", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Service Unavailable", "could not enqueue sweep")
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{
		"status": "enqueued",
		"day":    day.Format(dateLayout),
	})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid ID")
		return 0, false
	}
	return id, true
}
