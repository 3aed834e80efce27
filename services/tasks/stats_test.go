package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStatsTask(t *testing.T) {
	task, opts, err := NewStatsTask(TypeOrderDelivered, StatsPayload{OrderID: "o1"})
	require.NoError(t, err)
	assert.Equal(t, TypeOrderDelivered, task.Type())
	assert.Len(t, opts, 2)

	p, err := ParseStatsPayload(task)
	require.NoError(t, err)
	assert.Equal(t, "o1", p.OrderID)
	assert.Empty(t, p.ProviderID)
}
