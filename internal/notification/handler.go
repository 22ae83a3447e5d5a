package notification

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pulsefit/pulsefit/internal/platform/httpx"
)

// ReaderPort is the persistence surface the notification center needs.
type ReaderPort interface {
	ListByRecipient(ctx context.Context, recipientID int64, onlyUnread bool) ([]Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

// Handler serves the notification center endpoints.
type Handler struct {
	logger *slog.Logger
	repo   ReaderPort
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, repo ReaderPort) *Handler {
	return &Handler{logger: logger, repo: repo}
}

// MountRoutes registers notification routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/{id}/read", h.markRead)
}

type notificationResponse struct {
	ID          uuid.UUID `json:"id"`
	RecipientID *int64    `json:"recipient_id,omitempty"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Category    Category  `json:"category"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	recipientID, err := strconv.ParseInt(r.URL.Query().Get("recipient_id"), 10, 64)
	if err != nil || recipientID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "recipient_id query parameter required")
		return
	}
	onlyUnread := r.URL.Query().Get("unread") == "true"

	notifications, err := h.repo.ListByRecipient(r.Context(), recipientID, onlyUnread)
	if err != nil {
		h.logger.Error("list notifications", slog.Any("error", err), slog.Int64("recipient_id", recipientID))
		httpx.RespondError(w, err)
		return
	}
	out := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, notificationResponse{
			ID:          n.ID,
			RecipientID: n.RecipientID,
			Title:       n.Title,
			Message:     n.Message,
			Category:    n.Category,
			Read:        n.Read,
			CreatedAt:   n.CreatedAt,
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid notification ID")
		return
	}

	if err := h.repo.MarkRead(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
