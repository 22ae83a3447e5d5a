package payment

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pulsefit/pulsefit/internal/platform/httpx"
)

const dateLayout = "2006-01-02"

// Handler manages payment obligation endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers payment obligation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listObligations)
	r.Post("/", h.createObligation)
	r.Get("/{id}", h.getObligation)
}

type createObligationBody struct {
	StudentID int64   `json:"student_id"`
	Amount    float64 `json:"amount"`
	DueDate   string  `json:"due_date"`
}

type obligationResponse struct {
	ID          int64   `json:"id"`
	StudentID   int64   `json:"student_id"`
	StudentName string  `json:"student_name"`
	Amount      float64 `json:"amount"`
	DueDate     string  `json:"due_date"`
	PaidAt      string  `json:"paid_at,omitempty"`
	Status      Status  `json:"status"`
}

func toResponse(o *Obligation) obligationResponse {
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

func (h *Handler) createObligation(w http.ResponseWriter, r *http.Request) {
	var body createObligationBody
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	dueDate, err := time.Parse(dateLayout, body.DueDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "due_date must be YYYY-MM-DD")
		return
	}

	obligation, err := h.service.CreateObligation(r.Context(), CreateObligationInput{
		StudentID: body.StudentID,
		Amount:    body.Amount,
		DueDate:   dueDate,
	})
	if err != nil {
		h.logger.Error("create obligation", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(obligation))
}

func (h *Handler) getObligation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid obligation ID")
		return
	}

	obligation, err := h.service.GetObligation(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(obligation))
}

func (h *Handler) listObligations(w http.ResponseWriter, r *http.Request) {
	studentID, err := strconv.ParseInt(r.URL.Query().Get("student_id"), 10, 64)
	if err != nil || studentID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "student_id query parameter required")
		return
	}

	obligations, err := h.service.ListByStudent(r.Context(), studentID)
	if err != nil {
		h.logger.Error("list obligations", slog.Any("error", err), slog.Int64("student_id", studentID))
		httpx.RespondError(w, err)
		return
	}
	out := make([]obligationResponse, 0, len(obligations))
	for i := range obligations {
		out = append(out, toResponse(&obligations[i]))
	}
	httpx.JSON(w, http.StatusOK, out)
}
