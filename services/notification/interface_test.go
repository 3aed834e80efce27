package notification

import (
	"context"
	"errors"
	"testing"

	memoryRepo "plantco/database/repository/memory"
	"plantco/models"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSender struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, m)
	return "msg-1", nil
}

func TestFCMNotifier(t *testing.T) {
	ctx := context.Background()
	store := memoryRepo.NewStore()
	require.NoError(t, store.Users().Create(ctx, &models.User{ID: "u1", Role: models.RoleCustomer, FCMToken: "tok"}))
	require.NoError(t, store.Users().Create(ctx, &models.User{ID: "u2", Role: models.RoleCustomer}))

	sender := &fakeSender{}
	n, err := NewFCMNotifier(store.Users(), sender, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, n.NotifyUser(ctx, "u1", "Order shipped", "On its way", nil))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "tok", sender.sent[0].Token)
	assert.Equal(t, "customer", sender.sent[0].Data["role"])

	require.NoError(t, n.NotifyUser(ctx, "u2", "t", "b", nil))
	assert.Len(t, sender.sent, 1)

	assert.Error(t, n.NotifyUser(ctx, "missing", "t", "b", nil))

	sender.err = errors.New("unavailable")
	assert.Error(t, n.NotifyUser(ctx, "u1", "t", "b", map[string]string{}))
}
