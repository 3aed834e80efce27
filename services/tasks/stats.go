package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeOrderDelivered   = "stats:order_delivered"
	TypeOrderRefunded    = "stats:order_refunded"
	TypeBookingCompleted = "stats:booking_completed"
	TypeReviewAdded      = "stats:review_added"

	StatsQueue    = "stats"
	StatsMaxRetry = 10
)

// StatsPayload names the aggregate a stats job recomputes. Only the fields
// relevant to the task type are set.
type StatsPayload struct {
	OrderID    string `json:"orderId,omitempty"`
	BookingID  string `json:"bookingId,omitempty"`
	ProviderID string `json:"providerId,omitempty"`
	VendorID   string `json:"vendorId,omitempty"`
	ProductID  string `json:"productId,omitempty"`
}

func NewStatsTask(taskType string, payload StatsPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(taskType, b)
	opts := []asynq.Option{asynq.Queue(StatsQueue), asynq.MaxRetry(StatsMaxRetry)}

	return task, opts, nil
}

func ParseStatsPayload(task *asynq.Task) (StatsPayload, error) {
	var p StatsPayload
	err := json.Unmarshal(task.Payload(), &p)
	return p, err
}
