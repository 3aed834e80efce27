package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"plantco/database/repository"
	memoryRepo "plantco/database/repository/memory"
	"plantco/models"
	"plantco/services/events"
	"plantco/services/inventory"
	"plantco/services/stats"
	"plantco/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	customer = models.Principal{ID: "c1", Role: models.RoleCustomer}
	stranger = models.Principal{ID: "c2", Role: models.RoleCustomer}
	vendor1  = models.Principal{ID: "v1", Role: models.RoleVendor}
	vendor2  = models.Principal{ID: "v2", Role: models.RoleVendor}
	admin    = models.Principal{ID: "a1", Role: models.RoleAdmin}
)

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeRefunder struct {
	calls int
	err   error
}

func (f *fakeRefunder) Refund(_ context.Context, o *models.Order) (string, error) {
	f.calls++
	return "re_" + o.ID, f.err
}

type fixture struct {
	store    *memoryRepo.Store
	svc      *DefaultOrderService
	stats    *stats.InlineDispatcher
	events   *recordedEvents
	refunder *fakeRefunder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memoryRepo.NewStore()
	logger := zap.NewNop()

	for _, u := range []models.User{
		{ID: "c1", Role: models.RoleCustomer},
		{ID: "v1", Role: models.RoleVendor, VendorProfile: &models.VendorProfile{}},
		{ID: "v2", Role: models.RoleVendor, VendorProfile: &models.VendorProfile{}},
	} {
		u := u
		require.NoError(t, store.Users().Create(ctx, &u))
	}
	for _, p := range []models.Product{
		{
			ID: "p1", VendorID: "v1", Name: "Monstera", SKU: "PL-1", Type: models.ProductTypePlant,
			Status: models.ProductStatusActive, Price: 20, Images: []string{"m.jpg"}, Inventory: models.NewInventory(10),
			PlantDetails: &models.PlantDetails{CareLevel: "easy", WateringFrequency: "weekly", LightRequirement: "indirect"},
		},
		{
			ID: "p2", VendorID: "v2", Name: "Clay pot", SKU: "AC-1", Type: models.ProductTypeAccessory,
			Status: models.ProductStatusActive, Price: 7.5, Inventory: models.NewInventory(5),
		},
		{
			ID: "p3", VendorID: "v1", Name: "Last fern", Type: models.ProductTypePlant,
			Status: models.ProductStatusActive, Price: 12, Inventory: models.NewInventory(1),
		},
		{
			ID: "p4", VendorID: "v1", Name: "Retired cactus", Status: models.ProductStatusArchived,
			Price: 3, Inventory: models.NewInventory(10),
		},
	} {
		p := p
		require.NoError(t, store.Products().Create(ctx, &p))
	}

	agg := &stats.Aggregator{
		Orders: store.Orders(), Bookings: store.Bookings(), Products: store.Products(),
		Reviews: store.Reviews(), Users: store.Users(), Effects: store.Effects(), Tx: store, Logger: logger,
	}
	f := &fixture{
		store:    store,
		stats:    &stats.InlineDispatcher{Aggregator: agg, Logger: logger},
		events:   &recordedEvents{},
		refunder: &fakeRefunder{},
	}
	f.svc = &DefaultOrderService{
		Orders:   store.Orders(),
		Products: store.Products(),
		Ledger:   inventory.NewLedger(store.Products(), store.Effects(), logger),
		Counter:  store.Counters(),
		Tx:       store,
		Payments: f.refunder,
		Stats:    f.stats,
		Events:   f.events,
		Logger:   logger,
		Now:      func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) },
	}
	return f
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Inventory.Quantity
}

func (f *fixture) vendorSales(t *testing.T, id string) models.VendorStats {
	t.Helper()
	f.stats.Wait()
	u, err := f.store.Users().GetByID(context.Background(), id)
	require.NoError(t, err)
	return u.VendorProfile.Stats
}

func request(subtotal, shipping, tax, discount, total float64, items ...ItemRequest) CreateOrderRequest {
	return CreateOrderRequest{
		Items:   items,
		Pricing: models.Pricing{Subtotal: subtotal, Shipping: shipping, Tax: tax, Discount: discount, Total: total},
		Shipping: models.ShippingInfo{
			Address: models.Address{FirstName: "Ayesha", Street: "1 Garden Rd", City: "Lahore", Country: "PK"},
			Method:  "standard",
		},
		Billing: models.BillingInfo{PaymentMethod: models.PaymentMethod{Type: models.PaymentCOD}},
	}
}

func (f *fixture) place(t *testing.T, productID string, qty int, price float64) *models.Order {
	t.Helper()
	sub := price * float64(qty)
	o, err := f.svc.Create(context.Background(), customer, request(sub, 0, 0, 0, sub, ItemRequest{ProductID: productID, Quantity: qty}))
	require.NoError(t, err)
	return o
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)
	o, err := f.svc.Create(context.Background(), customer, request(67.5, 5, 2.5, 0, 75,
		ItemRequest{ProductID: "p1", Quantity: 3},
		ItemRequest{ProductID: "p2", Quantity: 1},
	))
	require.NoError(t, err)

	assert.Equal(t, "PO-2026-000001", o.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, o.Status)
	assert.Equal(t, models.PaymentStatusPending, o.PaymentStatus)
	assert.Equal(t, []string{"v1", "v2"}, o.VendorIDs)
	assert.Equal(t, 75.0, o.Pricing.Total)
	assert.Equal(t, 5.0, o.Shipping.Cost)
	require.Len(t, o.Timeline, 1)
	assert.Equal(t, models.OrderStatusPending, o.Timeline[0].Status)

	require.Len(t, o.Items, 2)
	assert.Equal(t, 60.0, o.Items[0].TotalPrice)
	assert.Equal(t, "m.jpg", o.Items[0].Snapshot.Image)
	require.NotNil(t, o.Items[0].Snapshot.PlantDetails)
	assert.Equal(t, "easy", o.Items[0].Snapshot.PlantDetails.CareLevel)

	assert.Equal(t, 7, f.stock(t, "p1"))
	assert.Equal(t, 4, f.stock(t, "p2"))
	assert.Contains(t, f.events.types(), events.OrderCreated)
	assert.Contains(t, f.events.types(), events.InventoryLowStock)

	second := f.place(t, "p1", 1, 20)
	assert.Equal(t, "PO-2026-000002", second.OrderNumber)
}

func TestCreateRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateOrderRequest
		kind utils.ErrorKind
		code string
	}{
		{"no items", request(0, 0, 0, 0, 0), utils.KindValidation, utils.CodeInvalidInput},
		{"zero quantity", request(0, 0, 0, 0, 0, ItemRequest{ProductID: "p1"}), utils.KindValidation, utils.CodeInvalidInput},
		{"subtotal mismatch", request(39, 0, 0, 0, 39, ItemRequest{ProductID: "p1", Quantity: 2}), utils.KindValidation, utils.CodePricingMismatch},
		{"total mismatch", request(40, 5, 0, 0, 40, ItemRequest{ProductID: "p1", Quantity: 2}), utils.KindValidation, utils.CodePricingMismatch},
		{"unknown product", request(1, 0, 0, 0, 1, ItemRequest{ProductID: "nope", Quantity: 1}), utils.KindNotFound, utils.CodeProductNotFound},
		{"archived product", request(3, 0, 0, 0, 3, ItemRequest{ProductID: "p4", Quantity: 1}), utils.KindValidation, utils.CodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, customer, tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, utils.KindOf(err))
			assert.Equal(t, tt.code, utils.CodeOf(err))
		})
	}
	assert.Equal(t, 10, f.stock(t, "p1"))
}

func TestCreateIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	// p1 reserves fine, p2 has only 5.
	_, err := f.svc.Create(context.Background(), customer, request(100, 0, 0, 0, 100,
		ItemRequest{ProductID: "p1", Quantity: 2},
		ItemRequest{ProductID: "p2", Quantity: 8},
	))
	assert.Equal(t, utils.CodeInsufficientStock, utils.CodeOf(err))
	assert.Equal(t, 10, f.stock(t, "p1"))
	assert.Equal(t, 5, f.stock(t, "p2"))
}

func TestCreateRollsBackWhenInsertFails(t *testing.T) {
	f := newFixture(t)
	f.store.InjectFailure("orders.Create", errors.New("disk full"))

	_, err := f.svc.Create(context.Background(), customer, request(60, 0, 0, 0, 60, ItemRequest{ProductID: "p1", Quantity: 3}))
	assert.Equal(t, utils.KindInternal, utils.KindOf(err))
	assert.Equal(t, 10, f.stock(t, "p1"))

	page, err := f.svc.ListForCustomer(context.Background(), customer, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	o := f.place(t, "p1", 1, 20)
	assert.Equal(t, "PO-2026-000001", o.OrderNumber)
}

func TestSellOutThenInsufficientStock(t *testing.T) {
	f := newFixture(t)
	f.place(t, "p2", 5, 7.5)
	assert.Equal(t, 0, f.stock(t, "p2"))

	_, err := f.svc.Create(context.Background(), customer, request(7.5, 0, 0, 0, 7.5, ItemRequest{ProductID: "p2", Quantity: 1}))
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))
	assert.Equal(t, utils.CodeInsufficientStock, utils.CodeOf(err))
	assert.Equal(t, 0, f.stock(t, "p2"))
}

func TestConcurrentOrdersForLastUnit(t *testing.T) {
	f := newFixture(t)
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.svc.Create(context.Background(), customer, request(12, 0, 0, 0, 12, ItemRequest{ProductID: "p3", Quantity: 1}))
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case utils.CodeOf(err) == utils.CodeInsufficientStock:
			insufficient++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, 0, f.stock(t, "p3"))
}

func TestTransitionTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, "p1", 2, 20)

	_, err := f.svc.Transition(ctx, vendor1, o.ID, TransitionRequest{Status: models.OrderStatusShipped})
	assert.Equal(t, utils.CodeInvalidTransition, utils.CodeOf(err))

	for _, st := range []models.OrderStatus{models.OrderStatusConfirmed, models.OrderStatusProcessing, models.OrderStatusShipped} {
		o, err = f.svc.Transition(ctx, vendor1, o.ID, TransitionRequest{Status: st, TrackingNumber: "TRK1"})
		require.NoError(t, err, st)
	}
	assert.Equal(t, models.FulfillmentShipped, o.FulfillmentStatus)
	assert.Equal(t, "TRK1", o.Shipping.TrackingNumber)
	assert.Contains(t, o.Timeline[len(o.Timeline)-1].Note, "TRK1")

	_, err = f.svc.Cancel(ctx, customer, o.ID, "")
	assert.Equal(t, utils.CodeInvalidTransition, utils.CodeOf(err))

	o, err = f.svc.MarkDelivered(ctx, vendor1, o.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, o.Status)
	assert.Equal(t, models.PaymentStatusPaid, o.PaymentStatus)
	assert.Equal(t, models.FulfillmentDelivered, o.FulfillmentStatus)
	assert.Len(t, o.Timeline, 5)
	assert.EqualValues(t, 4, o.Version)

	st := f.vendorSales(t, "v1")
	assert.Equal(t, 2, st.TotalSales)
	assert.Equal(t, 40.0, st.TotalRevenue)
	assert.Equal(t, 8, f.stock(t, "p1"))
}

func TestUnknownStatus(t *testing.T) {
	f := newFixture(t)
	o := f.place(t, "p1", 1, 20)
	_, err := f.svc.Transition(context.Background(), admin, o.ID, TransitionRequest{Status: "lost"})
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))
}

func TestCancelRestocks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, "p1", 3, 20)
	assert.Equal(t, 7, f.stock(t, "p1"))

	o, err := f.svc.Cancel(ctx, customer, o.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, o.Status)
	assert.Equal(t, 10, f.stock(t, "p1"))

	_, err = f.svc.Cancel(ctx, admin, o.ID, "")
	assert.Equal(t, utils.CodeInvalidTransition, utils.CodeOf(err))
	assert.Equal(t, 10, f.stock(t, "p1"))
}

func TestRoleGating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, "p1", 1, 20)

	_, err := f.svc.Transition(ctx, customer, o.ID, TransitionRequest{Status: models.OrderStatusConfirmed})
	assert.Equal(t, utils.KindForbidden, utils.KindOf(err))

	_, err = f.svc.Cancel(ctx, stranger, o.ID, "")
	assert.Equal(t, utils.KindForbidden, utils.KindOf(err))

	_, err = f.svc.Transition(ctx, vendor2, o.ID, TransitionRequest{Status: models.OrderStatusConfirmed})
	assert.Equal(t, utils.KindForbidden, utils.KindOf(err))

	_, err = f.svc.Transition(ctx, models.Principal{ID: "sp1", Role: models.RoleServiceProvider}, o.ID, TransitionRequest{Status: models.OrderStatusConfirmed})
	assert.Equal(t, utils.KindForbidden, utils.KindOf(err))

	_, err = f.svc.Transition(ctx, admin, "missing", TransitionRequest{Status: models.OrderStatusConfirmed})
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func deliver(t *testing.T, f *fixture, o *models.Order) *models.Order {
	t.Helper()
	var err error
	for _, st := range []models.OrderStatus{models.OrderStatusConfirmed, models.OrderStatusProcessing, models.OrderStatusShipped, models.OrderStatusDelivered} {
		o, err = f.svc.Transition(context.Background(), admin, o.ID, TransitionRequest{Status: st})
		require.NoError(t, err)
	}
	return o
}

func TestRefund(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := request(40, 0, 0, 0, 40, ItemRequest{ProductID: "p1", Quantity: 2})
	req.Billing.PaymentMethod = models.PaymentMethod{Type: models.PaymentCreditCard, Gateway: "stripe", TransactionID: "pi_1"}
	o, err := f.svc.Create(ctx, customer, req)
	require.NoError(t, err)

	_, err = f.svc.Refund(ctx, admin, o.ID, "")
	assert.Equal(t, utils.CodeInvalidTransition, utils.CodeOf(err))
	assert.Zero(t, f.refunder.calls)

	deliver(t, f, o)
	assert.Equal(t, 2, f.vendorSales(t, "v1").TotalSales)

	_, err = f.svc.Refund(ctx, vendor1, o.ID, "")
	assert.Equal(t, utils.KindForbidden, utils.KindOf(err))

	o, err = f.svc.Refund(ctx, admin, o.ID, "damaged")
	require.NoError(t, err)
	assert.Equal(t, 1, f.refunder.calls)
	assert.Equal(t, models.OrderStatusRefunded, o.Status)
	assert.Equal(t, models.PaymentStatusRefunded, o.PaymentStatus)
	assert.Contains(t, o.Timeline[len(o.Timeline)-1].Note, "re_"+o.ID)
	assert.Equal(t, 10, f.stock(t, "p1"))

	st := f.vendorSales(t, "v1")
	assert.Equal(t, 0, st.TotalSales)
	assert.Equal(t, 0.0, st.TotalRevenue)
}

func TestRefundGatewayFailureLeavesOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := request(20, 0, 0, 0, 20, ItemRequest{ProductID: "p1", Quantity: 1})
	req.Billing.PaymentMethod = models.PaymentMethod{Type: models.PaymentCreditCard, Gateway: "stripe", TransactionID: "pi_2"}
	o, err := f.svc.Create(ctx, customer, req)
	require.NoError(t, err)
	deliver(t, f, o)

	f.refunder.err = errors.New("gateway timeout")
	_, err = f.svc.Refund(ctx, admin, o.ID, "")
	assert.Equal(t, utils.KindInternal, utils.KindOf(err))

	got, err := f.svc.Get(ctx, admin, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, got.Status)
	assert.Equal(t, 9, f.stock(t, "p1"))
}

func TestCashOrderRefundSkipsGateway(t *testing.T) {
	f := newFixture(t)
	o := deliver(t, f, f.place(t, "p1", 1, 20))
	_, err := f.svc.Refund(context.Background(), admin, o.ID, "")
	require.NoError(t, err)
	assert.Zero(t, f.refunder.calls)
}

func TestRefundThroughTransitionCallsGateway(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := request(20, 0, 0, 0, 20, ItemRequest{ProductID: "p1", Quantity: 1})
	req.Billing.PaymentMethod = models.PaymentMethod{Type: models.PaymentCreditCard, Gateway: "stripe", TransactionID: "pi_9"}
	o, err := f.svc.Create(ctx, customer, req)
	require.NoError(t, err)
	deliver(t, f, o)

	_, err = f.svc.Transition(ctx, vendor1, o.ID, TransitionRequest{Status: models.OrderStatusRefunded})
	assert.Equal(t, utils.KindForbidden, utils.KindOf(err))
	assert.Zero(t, f.refunder.calls)

	o, err = f.svc.Transition(ctx, admin, o.ID, TransitionRequest{Status: models.OrderStatusRefunded, Note: "wilted"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.refunder.calls)
	assert.Equal(t, models.OrderStatusRefunded, o.Status)
	assert.Equal(t, models.PaymentStatusRefunded, o.PaymentStatus)
	assert.Contains(t, o.Timeline[len(o.Timeline)-1].Note, "re_"+o.ID)
	assert.Equal(t, 10, f.stock(t, "p1"))
}

func TestTransitionRefundGatewayFailureLeavesOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := request(20, 0, 0, 0, 20, ItemRequest{ProductID: "p1", Quantity: 1})
	req.Billing.PaymentMethod = models.PaymentMethod{Type: models.PaymentDebitCard, Gateway: "stripe", TransactionID: "ch_3"}
	o, err := f.svc.Create(ctx, customer, req)
	require.NoError(t, err)
	deliver(t, f, o)

	f.refunder.err = errors.New("card declined")
	_, err = f.svc.Transition(ctx, admin, o.ID, TransitionRequest{Status: models.OrderStatusRefunded})
	assert.Equal(t, utils.KindInternal, utils.KindOf(err))

	got, err := f.svc.Get(ctx, admin, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, got.Status)
	assert.Equal(t, 9, f.stock(t, "p1"))
}

func TestNonStripeRefundSkipsGateway(t *testing.T) {
	for _, pm := range []models.PaymentMethod{
		{Type: models.PaymentPaypal, Gateway: "paypal", TransactionID: "PAY-1"},
		{Type: models.PaymentApplePay, TransactionID: "ap_1"},
		{Type: models.PaymentGooglePay, Gateway: "stripe", TransactionID: "gp_1"},
		{Type: models.PaymentCreditCard, Gateway: "adyen", TransactionID: "psp_1"},
	} {
		t.Run(string(pm.Type)+"/"+pm.Gateway, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			req := request(20, 0, 0, 0, 20, ItemRequest{ProductID: "p1", Quantity: 1})
			req.Billing.PaymentMethod = pm
			o, err := f.svc.Create(ctx, customer, req)
			require.NoError(t, err)
			deliver(t, f, o)

			o, err = f.svc.Refund(ctx, admin, o.ID, "")
			require.NoError(t, err)
			assert.Zero(t, f.refunder.calls)
			assert.Equal(t, models.OrderStatusRefunded, o.Status)
		})
	}
}

func TestMultiVendorOrderNeedsAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o, err := f.svc.Create(ctx, customer, request(27.5, 0, 0, 0, 27.5,
		ItemRequest{ProductID: "p1", Quantity: 1}, ItemRequest{ProductID: "p2", Quantity: 1}))
	require.NoError(t, err)

	for _, v := range []models.Principal{vendor1, vendor2} {
		_, err = f.svc.Transition(ctx, v, o.ID, TransitionRequest{Status: models.OrderStatusConfirmed})
		assert.Equal(t, utils.KindForbidden, utils.KindOf(err), v.ID)
		_, err = f.svc.Cancel(ctx, v, o.ID, "")
		assert.Equal(t, utils.KindForbidden, utils.KindOf(err), v.ID)
		_, err = f.svc.Get(ctx, v, o.ID)
		require.NoError(t, err, v.ID)
	}

	o, err = f.svc.Transition(ctx, admin, o.ID, TransitionRequest{Status: models.OrderStatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, o.Status)
}

func TestTransitionRetriesVersionConflict(t *testing.T) {
	f := newFixture(t)
	o := f.place(t, "p1", 1, 20)
	f.store.InjectFailure("orders.UpdateStatus", fmt.Errorf("order %s: %w", o.ID, repository.ErrVersionConflict))

	o, err := f.svc.Transition(context.Background(), vendor1, o.ID, TransitionRequest{Status: models.OrderStatusConfirmed})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, o.Status)
	assert.Len(t, o.Timeline, 2)
}

func TestGetAndList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.place(t, "p1", 1, 20)
	f.place(t, "p2", 1, 7.5)

	_, err := f.svc.Get(ctx, customer, o.ID)
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, vendor1, o.ID)
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, vendor2, o.ID)
	assert.Equal(t, utils.KindForbidden, utils.KindOf(err))
	_, err = f.svc.Get(ctx, stranger, o.ID)
	assert.Equal(t, utils.KindForbidden, utils.KindOf(err))
	_, err = f.svc.Get(ctx, admin, "missing")
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))

	page, err := f.svc.ListForCustomer(ctx, customer, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)

	page, err = f.svc.ListForVendor(ctx, vendor1, "", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, o.ID, page.Orders[0].ID)

	_, err = f.svc.ListForVendor(ctx, vendor1, "v2", 1, 10)
	assert.Equal(t, utils.KindForbidden, utils.KindOf(err))
	page, err = f.svc.ListForVendor(ctx, admin, "v2", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	_, err = f.svc.ListForVendor(ctx, customer, "", 1, 10)
	assert.Equal(t, utils.KindForbidden, utils.KindOf(err))
}

func TestCareInstructions(t *testing.T) {
	o := &models.Order{Items: []models.OrderItem{
		{ProductName: "Monstera", ProductType: models.ProductTypePlant, Snapshot: models.ProductSnapshot{
			PlantDetails: &models.PlantDetails{CareLevel: "easy", WateringFrequency: "weekly"},
		}},
		{ProductName: "Clay pot", ProductType: models.ProductTypeAccessory},
		{ProductName: "Fern", ProductType: models.ProductTypePlant},
	}}
	care := CareInstructions(o)
	require.Len(t, care, 2)
	assert.Equal(t, "weekly", care[0].Watering)
	assert.Equal(t, "Monstera (care: easy, water: weekly); Fern", FormatCareInstructions(care))
}
