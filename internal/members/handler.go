package members

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pulsefit/pulsefit/internal/platform/httpx"
)

// Handler manages member registry endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountTeacherRoutes registers teacher routes.
func (h *Handler) MountTeacherRoutes(r chi.Router) {
	r.Get("/", h.listTeachers)
	r.Post("/", h.createTeacher)
	r.Get("/{id}", h.getTeacher)
}

// MountStudentRoutes registers student routes.
func (h *Handler) MountStudentRoutes(r chi.Router) {
	r.Get("/", h.listStudents)
	r.Post("/", h.createStudent)
	r.Get("/{id}", h.getStudent)
}

type teacherResponse struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone,omitempty"`
	OnVacation bool      `json:"on_vacation"`
	CreatedAt  time.Time `json:"created_at"`
}

type studentResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type createMemberRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (h *Handler) createTeacher(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	teacher, err := h.service.CreateTeacher(r.Context(), TeacherInput{Name: req.Name, Phone: req.Phone})
	if err != nil {
		h.logger.Error("create teacher", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toTeacherResponse(teacher))
}

func (h *Handler) getTeacher(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid teacher ID")
		return
	}

	teacher, err := h.service.GetTeacher(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toTeacherResponse(teacher))
}

func (h *Handler) listTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.service.ListTeachers(r.Context())
	if err != nil {
		h.logger.Error("list teachers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]teacherResponse, 0, len(teachers))
	for i := range teachers {
		out = append(out, toTeacherResponse(&teachers[i]))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) createStudent(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}

	student, err := h.service.CreateStudent(r.Context(), StudentInput{Name: req.Name, Phone: req.Phone})
	if err != nil {
		h.logger.Error("create student", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toStudentResponse(student))
}

func (h *Handler) getStudent(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid student ID")
		return
	}

	student, err := h.service.GetStudent(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toStudentResponse(student))
}

func (h *Handler) listStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.service.ListStudents(r.Context())
	if err != nil {
		h.logger.Error("list students", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]studentResponse, 0, len(students))
	for i := range students {
		out = append(out, toStudentResponse(&students[i]))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func toTeacherResponse(t *Teacher) teacherResponse {
	return teacherResponse{
		ID:         t.ID,
		Name:       t.Name,
		Phone:      t.Phone,
		OnVacation: t.OnVacation,
		CreatedAt:  t.CreatedAt,
	}
}

func toStudentResponse(s *Student) studentResponse {
	return studentResponse{
		ID:        s.ID,
		Name:      s.Name,
		Phone:     s.Phone,
		CreatedAt: s.CreatedAt,
	}
}
