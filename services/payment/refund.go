// Package payment talks to the card gateway.
package payment

import (
	"context"
	"fmt"
	"strings"

	"plantco/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

// Refunder returns the money for a gateway-paid order and yields the
// gateway's refund id.
type Refunder interface {
	Refund(ctx context.Context, order *models.Order) (string, error)
}

// RefundAPI is satisfied by the stripe refund client.
type RefundAPI interface {
	New(params *stripe.RefundParams) (*stripe.Refund, error)
}

type StripeRefunder struct {
	api    RefundAPI
	logger *zap.Logger
}

func NewStripeRefunder(key string, logger *zap.Logger) *StripeRefunder {
	sc := &client.API{}
	sc.Init(key, nil)
	return &StripeRefunder{api: sc.Refunds, logger: logger}
}

func NewStripeRefunderWithAPI(api RefundAPI, logger *zap.Logger) *StripeRefunder {
	return &StripeRefunder{api: api, logger: logger}
}

// RefundIdempotencyKey is sent with every refund request for the order, so a
// retried refund never pays out twice.
func RefundIdempotencyKey(orderID string) string {
	return "refund-" + orderID
}

func (r *StripeRefunder) Refund(ctx context.Context, order *models.Order) (string, error) {
	txn := order.Billing.PaymentMethod.TransactionID
	if txn == "" {
		return "", fmt.Errorf("order %s has no gateway transaction", order.ID)
	}

	params := &stripe.RefundParams{}
	params.Context = ctx
	if strings.HasPrefix(txn, "ch_") {
		params.Charge = stripe.String(txn)
	} else {
		params.PaymentIntent = stripe.String(txn)
	}
	params.AddMetadata("orderId", order.ID)
	params.AddMetadata("orderNumber", order.OrderNumber)
	params.SetIdempotencyKey(RefundIdempotencyKey(order.ID))

	ref, err := r.api.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe refund for order %s failed: %w", order.ID, err)
	}
	r.logger.Info("refund issued",
		zap.String("orderId", order.ID),
		zap.String("refundId", ref.ID),
		zap.String("status", string(ref.Status)))
	return ref.ID, nil
}

// NopRefunder succeeds without contacting a gateway. Used when no Stripe key
// is configured.
type NopRefunder struct{}

func (NopRefunder) Refund(_ context.Context, order *models.Order) (string, error) {
	return "", nil
}
