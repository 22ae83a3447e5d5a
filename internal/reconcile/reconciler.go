// Package reconcile holds the status reconciliation engine: the only
// component that decides derived vacation/payment state and emits
// notifications. Every target state is recomputed from durable records, and
// every setter it calls is idempotent, so concurrent approvals and sweeps
// converge without locks.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	jobmetrics "github.com/pulsefit/pulsefit/internal/jobs"
	"github.com/pulsefit/pulsefit/internal/notification"
	"github.com/pulsefit/pulsefit/internal/payment"
	"github.com/pulsefit/pulsefit/internal/shared"
	"github.com/pulsefit/pulsefit/internal/vacation"
)

// VacationStore is the vacation record surface the reconciler needs.
type VacationStore interface {
	GetRequest(ctx context.Context, id int64) (*vacation.Request, error)
	SetApprovalStatus(ctx context.Context, id int64, status vacation.Status) (*vacation.Request, error)
	ListApprovedByTeacher(ctx context.Context) ([]vacation.TeacherVacations, error)
	SetTeacherOnVacation(ctx context.Context, teacherID int64, flag bool) (bool, error)
}

// PaymentStore is the payment record surface the reconciler needs.
type PaymentStore interface {
	ListDueBefore(ctx context.Context, day time.Time, status payment.Status) ([]payment.Obligation, error)
	MarkOverdue(ctx context.Context, id int64) (*payment.Obligation, bool, error)
	MarkPaid(ctx context.Context, id int64, paidAt time.Time) (*payment.Obligation, error)
}

// Reconciler computes derived statuses and applies the minimal set of writes
// needed to make the stored state consistent with the underlying records.
type Reconciler struct {
	vacations VacationStore
	payments  PaymentStore
	notifier  notification.Notifier
	logger    *slog.Logger
	metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// New constructs a Reconciler.
func New(vacations VacationStore, payments PaymentStore, notifier notification.Notifier, logger *slog.Logger, metrics *jobmetrics.Metrics) *Reconciler {
	return &Reconciler{
		vacations: vacations,
		payments:  payments,
		notifier:  notifier,
		logger:    logger,
		metrics:   metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// ApproveVacation transitions a pending request to approved. Approving an
// already approved request succeeds without side effects (double-click safe);
// a rejected request yields ErrInvalidTransition. When today falls inside the
// approved window the teacher flag is raised immediately; otherwise the next
// sweep raises it once the window opens.
func (r *Reconciler) ApproveVacation(ctx context.Context, id int64) (*vacation.Request, error) {
	req, err := r.vacations.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	switch req.Status {
	case vacation.StatusApproved:
		return req, nil
	case vacation.StatusRejected:
		return nil, fmt.Errorf("reconcile: approve request %d: %w", id, shared.ErrInvalidTransition)
	}

	updated, err := r.vacations.SetApprovalStatus(ctx, id, vacation.StatusApproved)
	if err != nil {
		return nil, err
	}

	today := vacation.DateOf(r.now())
	if updated.Covers(today) {
		changed, err := r.vacations.SetTeacherOnVacation(ctx, updated.TeacherID, true)
		if err != nil {
			return nil, err
		}
		if changed {
			r.notify(ctx, vacationStarted(updated.TeacherID, updated.TeacherName, today))
			r.addTransitions(string(notification.CategoryVacationStart), 1)
		}
	}
	return updated, nil
}

// RejectVacation transitions a pending request to rejected. Teacher flags are
// never touched: a rejected request contributes nothing to the derived state.
func (r *Reconciler) RejectVacation(ctx context.Context, id int64) (*vacation.Request, error) {
	req, err := r.vacations.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	switch req.Status {
	case vacation.StatusRejected:
		return req, nil
	case vacation.StatusApproved:
		return nil, fmt.Errorf("reconcile: reject request %d: %w", id, shared.ErrInvalidTransition)
	}
	return r.vacations.SetApprovalStatus(ctx, id, vacation.StatusRejected)
}

// MarkPaymentPaid records a manual payment. Paid is terminal: paying an
// already paid obligation yields ErrInvalidTransition. No notification is
// emitted on payment, only on becoming overdue.
func (r *Reconciler) MarkPaymentPaid(ctx context.Context, id int64, paidAt time.Time) (*payment.Obligation, error) {
	if paidAt.IsZero() {
		paidAt = r.now()
	}
	if vacation.DateOf(paidAt).After(vacation.DateOf(r.now())) {
		return nil, fmt.Errorf("reconcile: payment date in the future: %w", shared.ErrValidation)
	}
	return r.payments.MarkPaid(ctx, id, paidAt)
}

// SweepReport summarises one daily sweep run.
type SweepReport struct {
	Day              time.Time
	VacationsStarted int
	VacationsEnded   int
	PaymentsOverdue  int
	Errors           []error
}

// Err joins the per-record errors collected during the sweep.
func (s *SweepReport) Err() error {
	if s == nil {
		return nil
	}
	return errors.Join(s.Errors...)
}

// RunDailySweep recomputes derived state for the given day. Both passes are
// fail-soft: one record's failure is collected in the report and the pass
// moves on. Re-running the sweep for the same day performs zero mutations and
// emits nothing new.
func (r *Reconciler) RunDailySweep(ctx context.Context, today time.Time) *SweepReport {
	day := vacation.DateOf(today)
	report := &SweepReport{Day: day}

	r.sweepVacations(ctx, day, report)
	r.sweepPayments(ctx, day, report)

	r.addTransitions(string(notification.CategoryVacationStart), report.VacationsStarted)
	r.addTransitions(string(notification.CategoryVacationEnd), report.VacationsEnded)
	r.addTransitions(string(notification.CategoryPaymentOverdue), report.PaymentsOverdue)
	return report
}

func (r *Reconciler) sweepVacations(ctx context.Context, day time.Time, report *SweepReport) {
	teachers, err := r.vacations.ListApprovedByTeacher(ctx)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Errorf("list approved vacations: %w", err))
		return
	}

	for _, t := range teachers {
		should := vacation.AnyActiveOn(t.Requests, day)
		if should == t.OnVacation {
			continue
		}
		changed, err := r.vacations.SetTeacherOnVacation(ctx, t.TeacherID, should)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("teacher %d: %w", t.TeacherID, err))
			continue
		}
		if !changed {
			// A concurrent writer already converged on the same state.
			continue
		}
		if should {
			report.VacationsStarted++
			r.notify(ctx, vacationStarted(t.TeacherID, t.TeacherName, day))
		} else {
			report.VacationsEnded++
			r.notify(ctx, vacationEnded(t.TeacherID, t.TeacherName, day))
		}
	}
}

func (r *Reconciler) sweepPayments(ctx context.Context, day time.Time, report *SweepReport) {
	pending, err := r.payments.ListDueBefore(ctx, day, payment.StatusPending)
	if err != nil {
		report.Errors = append(report.Errors, fmt.Errorf("list pending payments: %w", err))
		return
	}

	for _, o := range pending {
		updated, changed, err := r.payments.MarkOverdue(ctx, o.ID)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Errorf("obligation %d: %w", o.ID, err))
			continue
		}
		if !changed {
			continue
		}
		report.PaymentsOverdue++
		r.notify(ctx, paymentOverdue(*updated, day))
	}
}

// notify delivers best-effort: failures are logged, never propagated, so
// status and flag writes stay durable regardless of delivery.
func (r *Reconciler) notify(ctx context.Context, n notification.Notification) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Notify(ctx, n); err != nil {
		r.logger.Warn("notification dropped",
			slog.String("category", string(n.Category)),
			slog.Any("error", err),
		)
	}
}

func (r *Reconciler) addTransitions(kind string, count int) {
	if r.metrics != nil {
		r.metrics.AddTransitions(kind, count)
	}
}

func (r *Reconciler) now() time.Time {
	if r.clock != nil {
		return r.clock()
	}
	return time.Now().UTC()
}

var msgPrinter = message.NewPrinter(language.English)

func vacationStarted(teacherID int64, teacherName string, day time.Time) notification.Notification {
	return notification.Notification{
		RecipientID: &teacherID,
		Title:       "Vacation started",
		Message:     fmt.Sprintf("%s is on vacation as of %s.", teacherName, day.Format("2006-01-02")),
		Category:    notification.CategoryVacationStart,
		CreatedAt:   day,
	}
}

func vacationEnded(teacherID int64, teacherName string, day time.Time) notification.Notification {
	return notification.Notification{
		RecipientID: &teacherID,
		Title:       "Vacation ended",
		Message:     fmt.Sprintf("%s is back from vacation as of %s.", teacherName, day.Format("2006-01-02")),
		Category:    notification.CategoryVacationEnd,
		CreatedAt:   day,
	}
}

func paymentOverdue(o payment.Obligation, day time.Time) notification.Notification {
	studentID := o.StudentID
	return notification.Notification{
		RecipientID: &studentID,
		Title:       "Payment overdue",
		Message: msgPrinter.Sprintf("Payment of %.2f for %s was due on %s and is now overdue.",
			o.Amount, o.StudentName, o.DueDate.Format("2006-01-02")),
		Category:  notification.CategoryPaymentOverdue,
		CreatedAt: day,
	}
}
