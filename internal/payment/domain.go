package payment

import "time"

// Status enumerates payment obligation statuses.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

// Obligation is a billing obligation for a student. Paid is terminal: an
// obligation never leaves paid, and PaidAt is set exactly when it enters it.
type Obligation struct {
	ID          int64
	StudentID   int64
	StudentName string
	Amount      float64
	DueDate     time.Time
	PaidAt      *time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateObligationInput for enrollment billing.
type CreateObligationInput struct {
	StudentID int64     `validate:"required,gt=0"`
	Amount    float64   `validate:"gte=0"`
	DueDate   time.Time `validate:"required"`
}
