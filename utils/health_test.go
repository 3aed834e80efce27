package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHealthMonitorCheck(t *testing.T) {
	m := NewHealthMonitor(zap.NewNop(), 0, map[string]Pinger{
		"mongo": PingFunc(func(context.Context) error { return nil }),
		"redis": PingFunc(func(context.Context) error { return errors.New("down") }),
	})

	st := m.Check(context.Background())
	assert.False(t, st.Healthy)
	assert.True(t, st.Services["mongo"])
	assert.False(t, st.Services["redis"])
	assert.Equal(t, st, m.Status())
}
