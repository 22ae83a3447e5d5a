package members

import "time"

// Teacher is a studio instructor. OnVacation is derived state maintained by the
// reconciler; it is a cache of the approved vacation windows, never edited
// directly.
type Teacher struct {
	ID         int64
	Name       string
	Phone      string
	OnVacation bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Student is an enrolled member.
type Student struct {
	ID        int64
	Name      string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TeacherInput for creating teachers.
type TeacherInput struct {
	Name  string `validate:"required,min=2"`
	Phone string `validate:"omitempty,min=6"`
}

// StudentInput for creating students.
type StudentInput struct {
	Name  string `validate:"required,min=2"`
	Phone string `validate:"omitempty,min=6"`
}
