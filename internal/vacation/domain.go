package vacation

import "time"

// Status enumerates vacation request statuses.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Request is a teacher vacation request covering an inclusive date range.
// Approved and rejected are terminal; changing dates requires a new request.
type Request struct {
	ID          int64
	TeacherID   int64
	TeacherName string
	StartDate   time.Time
	EndDate     time.Time
	Reason      string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Covers reports whether day falls inside the request's inclusive date range.
func (r Request) Covers(day time.Time) bool {
	d := DateOf(day)
	return !d.Before(DateOf(r.StartDate)) && !d.After(DateOf(r.EndDate))
}

// TeacherVacations groups a teacher's approved requests with the stored
// on-vacation flag, as loaded for a sweep pass.
type TeacherVacations struct {
	TeacherID   int64
	TeacherName string
	OnVacation  bool
	Requests    []Request
}

// AnyActiveOn is the authoritative derivation of the on-vacation flag: true
// iff at least one approved request covers the given day. The flag stored on
// the teacher record is a cache of this function's output and is never
// trusted as an independent source.
func AnyActiveOn(requests []Request, day time.Time) bool {
	for _, r := range requests {
		if r.Status == StatusApproved && r.Covers(day) {
			return true
		}
	}
	return false
}

// DateOf truncates t to a calendar date in UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CreateRequestInput for submitting vacation requests.
type CreateRequestInput struct {
	TeacherID int64     `validate:"required,gt=0"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required"`
	Reason    string    `validate:"omitempty,max=500"`
}
