package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDailySweep triggers the daily status reconciliation sweep.
	TaskDailySweep = "reconcile:daily_sweep"
)

// DailySweepPayload carries the sweep day. An empty Day means "today in UTC"
// at execution time, which is what the cron schedule uses.
type DailySweepPayload struct {
	Day string `json:"day,omitempty"`
}

// NewDailySweepTask constructs an Asynq task for the daily sweep. A zero day
// leaves the payload empty so the handler resolves the day when it runs.
func NewDailySweepTask(day time.Time) (*asynq.Task, error) {
	var payload DailySweepPayload
	if !day.IsZero() {
		payload.Day = day.UTC().Format("2006-01-02")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDailySweep, body, asynq.Queue(QueueDefault)), nil
}
