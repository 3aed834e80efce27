package payment

import (
	"context"
	"errors"
	"testing"

	"plantco/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRefunds struct {
	params []*stripe.RefundParams
	err    error
}

func (f *fakeRefunds) New(p *stripe.RefundParams) (*stripe.Refund, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.params = append(f.params, p)
	return &stripe.Refund{ID: "re_1", Status: stripe.RefundStatusSucceeded}, nil
}

func paidOrder(txn string) *models.Order {
	return &models.Order{
		ID:          "o1",
		OrderNumber: "PO-2026-000001",
		Billing: models.BillingInfo{PaymentMethod: models.PaymentMethod{
			Type: models.PaymentCreditCard, Gateway: "stripe", TransactionID: txn,
		}},
	}
}

func TestStripeRefunder(t *testing.T) {
	api := &fakeRefunds{}
	r := NewStripeRefunderWithAPI(api, zap.NewNop())

	id, err := r.Refund(context.Background(), paidOrder("pi_123"))
	require.NoError(t, err)
	assert.Equal(t, "re_1", id)
	require.Len(t, api.params, 1)
	assert.Equal(t, "pi_123", *api.params[0].PaymentIntent)
	assert.Nil(t, api.params[0].Charge)
	assert.Equal(t, "refund-o1", *api.params[0].IdempotencyKey)

	_, err = r.Refund(context.Background(), paidOrder("ch_9"))
	require.NoError(t, err)
	assert.Equal(t, "ch_9", *api.params[1].Charge)
}

func TestStripeRefunderErrors(t *testing.T) {
	r := NewStripeRefunderWithAPI(&fakeRefunds{err: errors.New("card_declined")}, zap.NewNop())
	_, err := r.Refund(context.Background(), paidOrder("pi_1"))
	assert.Error(t, err)

	_, err = r.Refund(context.Background(), paidOrder(""))
	assert.Error(t, err)
}
