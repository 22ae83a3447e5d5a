package vacation

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pulsefit/pulsefit/internal/platform/httpx"
)

const dateLayout = "2006-01-02"

// Handler manages vacation request endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers vacation request routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listRequests)
	r.Post("/", h.createRequest)
	r.Get("/active", h.listActive)
	r.Get("/{id}", h.getRequest)
}

type createRequestBody struct {
	TeacherID int64  `json:"teacher_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

type requestResponse struct {
	ID          int64  `json:"id"`
	TeacherID   int64  `json:"teacher_id"`
	TeacherName string `json:"teacher_name"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason,omitempty"`
	Status      Status `json:"status"`
}

func toResponse(req *Request) requestResponse {
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

func (h *Handler) createRequest(w http.ResponseWriter, r *http.Request) {
	var body createRequestBody
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	start, err := time.Parse(dateLayout, body.StartDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, body.EndDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "end_date must be YYYY-MM-DD")
		return
	}

	req, err := h.service.CreateRequest(r.Context(), CreateRequestInput{
		TeacherID: body.TeacherID,
		StartDate: start,
		EndDate:   end,
		Reason:    body.Reason,
	})
	if err != nil {
		h.logger.Error("create vacation request", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(req))
}

func (h *Handler) getRequest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request ID")
		return
	}

	req, err := h.service.GetRequest(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(req))
}

// listActive answers "who is on approved vacation on this day". Defaults to
// today when the date query parameter is absent.
func (h *Handler) listActive(w http.ResponseWriter, r *http.Request) {
	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	requests, err := h.service.ListActiveOn(r.Context(), day)
	if err != nil {
		h.logger.Error("list active vacations", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]requestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, toResponse(&requests[i]))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) listRequests(w http.ResponseWriter, r *http.Request) {
	teacherID, err := strconv.ParseInt(r.URL.Query().Get("teacher_id"), 10, 64)
	if err != nil || teacherID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "teacher_id query parameter required")
		return
	}

	requests, err := h.service.ListByTeacher(r.Context(), teacherID)
	if err != nil {
		h.logger.Error("list vacation requests", slog.Any("error", err), slog.Int64("teacher_id", teacherID))
		httpx.RespondError(w, err)
		return
	}
	out := make([]requestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, toResponse(&requests[i]))
	}
	httpx.JSON(w, http.StatusOK, out)
}
