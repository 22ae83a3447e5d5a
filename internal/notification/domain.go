package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Category enumerates notification categories emitted by the reconciler.
type Category string

const (
	CategoryVacationStart  Category = "vacation_start"
	CategoryVacationEnd    Category = "vacation_end"
	CategoryPaymentOverdue Category = "payment_overdue"
)

// Notification is created once per detected status transition. Only the Read
// flag mutates afterwards; the reconciler never deletes them.
type Notification struct {
	ID          uuid.UUID
	RecipientID *int64
	Title       string
	Message     string
	Category    Category
	Read        bool
	CreatedAt   time.Time
}

// Notifier delivers notifications emitted by the reconciler. Delivery is
// best-effort from the reconciler's point of view: callers log failures and
// never roll back state on them.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
