package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pulsefit/pulsefit/internal/members"
	"github.com/pulsefit/pulsefit/internal/notification"
	"github.com/pulsefit/pulsefit/internal/observability"
	"github.com/pulsefit/pulsefit/internal/payment"
	"github.com/pulsefit/pulsefit/internal/reconcile"
	"github.com/pulsefit/pulsefit/internal/vacation"
	"github.com/pulsefit/pulsefit/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	MembersHandler      *members.Handler
	VacationHandler     *vacation.Handler
	PaymentHandler      *payment.Handler
	NotificationHandler *notification.Handler
	ReconcileHandler    *reconcile.Handler
	JobHandler          *jobs.Handler
	Metrics             *observability.Metrics
}

// NewRouter constructs the chi.Router with Pulsefit defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.MembersHandler != nil {
		r.Route("/teachers", func(r chi.Router) {
			params.MembersHandler.MountTeacherRoutes(r)
		})
		r.Route("/students", func(r chi.Router) {
			params.MembersHandler.MountStudentRoutes(r)
		})
	}
	if params.VacationHandler != nil {
		r.Route("/vacations", func(r chi.Router) {
			params.VacationHandler.MountRoutes(r)
			if params.ReconcileHandler != nil {
				params.ReconcileHandler.MountVacationRoutes(r)
			}
		})
	}
	if params.PaymentHandler != nil {
		r.Route("/payments", func(r chi.Router) {
			params.PaymentHandler.MountRoutes(r)
			if params.ReconcileHandler != nil {
				params.ReconcileHandler.MountPaymentRoutes(r)
			}
		})
	}
	if params.NotificationHandler != nil {
		r.Route("/notifications", func(r chi.Router) {
			params.NotificationHandler.MountRoutes(r)
		})
	}
	if params.ReconcileHandler != nil {
		r.Route("/admin", func(r chi.Router) {
			params.ReconcileHandler.MountAdminRoutes(r)
		})
	}
	if params.JobHandler != nil {
		r.Route("/jobs", func(r chi.Router) {
			params.JobHandler.MountRoutes(r)
		})
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
