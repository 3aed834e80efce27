package cron

import (
	"context"
	"errors"
	"testing"

	"plantco/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	calls []string
	got   []tasks.StatsPayload
	err   error
}

func (h *recordingHandler) Handle(_ context.Context, taskType string, p tasks.StatsPayload) error {
	h.calls = append(h.calls, taskType)
	h.got = append(h.got, p)
	return h.err
}

func TestStatsMuxRoutesEveryType(t *testing.T) {
	h := &recordingHandler{}
	mux := NewStatsMux(h, zap.NewNop())

	for _, typ := range []string{tasks.TypeOrderDelivered, tasks.TypeOrderRefunded, tasks.TypeBookingCompleted, tasks.TypeReviewAdded} {
		task, _, err := tasks.NewStatsTask(typ, tasks.StatsPayload{OrderID: "o1", ProviderID: "sp1"})
		require.NoError(t, err)
		require.NoError(t, mux.ProcessTask(context.Background(), task))
	}
	assert.Equal(t, []string{tasks.TypeOrderDelivered, tasks.TypeOrderRefunded, tasks.TypeBookingCompleted, tasks.TypeReviewAdded}, h.calls)
	assert.Equal(t, "o1", h.got[0].OrderID)
}

func TestStatsMuxErrors(t *testing.T) {
	h := &recordingHandler{err: errors.New("mongo down")}
	mux := NewStatsMux(h, zap.NewNop())

	task, _, err := tasks.NewStatsTask(tasks.TypeOrderDelivered, tasks.StatsPayload{OrderID: "o1"})
	require.NoError(t, err)
	assert.EqualError(t, mux.ProcessTask(context.Background(), task), "mongo down")

	bad := asynq.NewTask(tasks.TypeOrderDelivered, []byte("{"))
	err = mux.ProcessTask(context.Background(), bad)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Len(t, h.calls, 1)
}
