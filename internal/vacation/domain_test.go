package vacation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCoversInclusiveBounds(t *testing.T) {
	req := Request{StartDate: date(2024, 7, 1), EndDate: date(2024, 7, 15)}

	assert.True(t, req.Covers(date(2024, 7, 1)))
	assert.True(t, req.Covers(date(2024, 7, 15)))
	assert.True(t, req.Covers(date(2024, 7, 8)))
	assert.False(t, req.Covers(date(2024, 6, 30)))
	assert.False(t, req.Covers(date(2024, 7, 16)))
}

func TestCoversSingleDayWindow(t *testing.T) {
	req := Request{StartDate: date(2024, 7, 1), EndDate: date(2024, 7, 1)}

	assert.True(t, req.Covers(date(2024, 7, 1)))
	assert.False(t, req.Covers(date(2024, 7, 2)))
}

func TestCoversIgnoresTimeOfDay(t *testing.T) {
	req := Request{StartDate: date(2024, 7, 1), EndDate: date(2024, 7, 15)}

	lateOnLastDay := time.Date(2024, 7, 15, 23, 59, 59, 0, time.UTC)
	assert.True(t, req.Covers(lateOnLastDay))
}

func TestAnyActiveOn(t *testing.T) {
	requests := []Request{
		{StartDate: date(2024, 7, 1), EndDate: date(2024, 7, 5), Status: StatusApproved},
		{StartDate: date(2024, 7, 10), EndDate: date(2024, 7, 12), Status: StatusPending},
		{StartDate: date(2024, 7, 20), EndDate: date(2024, 7, 25), Status: StatusRejected},
	}

	assert.True(t, AnyActiveOn(requests, date(2024, 7, 3)))
	// Pending and rejected requests never count.
	assert.False(t, AnyActiveOn(requests, date(2024, 7, 11)))
	assert.False(t, AnyActiveOn(requests, date(2024, 7, 22)))
	assert.False(t, AnyActiveOn(nil, date(2024, 7, 3)))
}

func TestAnyActiveOnOverlappingWindows(t *testing.T) {
	requests := []Request{
		{StartDate: date(2024, 7, 1), EndDate: date(2024, 7, 10), Status: StatusApproved},
		{StartDate: date(2024, 7, 8), EndDate: date(2024, 7, 20), Status: StatusApproved},
	}

	assert.True(t, AnyActiveOn(requests, date(2024, 7, 9)))
	assert.True(t, AnyActiveOn(requests, date(2024, 7, 15)))
	assert.False(t, AnyActiveOn(requests, date(2024, 7, 21)))
}
