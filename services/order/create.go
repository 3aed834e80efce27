package order

import (
	"context"
	"fmt"

	"plantco/models"
	"plantco/services/events"
	"plantco/services/inventory"
	"plantco/services/pricing"
	"plantco/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Create reserves stock for every line, locks prices from the products,
// checks the submitted pricing and stores the order in one unit of work. Any
// failure leaves stock untouched.
func (s *DefaultOrderService) Create(ctx context.Context, actor models.Principal, req CreateOrderRequest) (*models.Order, error) {
	if actor.ID == "" {
		return nil, utils.NewForbidden("an authenticated customer is required")
	}
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	var (
		created *models.Order
		lowered []inventory.Movement
	)
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		lowered = nil
		now := s.now()
		id := uuid.New().String()

		items, err := s.lineItems(ctx, req.Items)
		if err != nil {
			return err
		}
		price, err := pricing.CheckOrder(req.Pricing, items)
		if err != nil {
			return err
		}

		for i, it := range items {
			m, err := s.Ledger.Reserve(ctx, id, i, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if m.LowStock() {
				lowered = append(lowered, m)
			}
		}

		seq, err := s.Counter.Next(ctx, fmt.Sprintf("order:%d", now.Year()))
		if err != nil {
			return utils.NewInternal("failed to allocate order number", err)
		}

		shipping := req.Shipping
		shipping.Cost = price.Shipping
		o := &models.Order{
			ID:                id,
			OrderNumber:       fmt.Sprintf("%s-%d-%06d", s.prefix(), now.Year(), seq),
			CustomerID:        actor.ID,
			Status:            models.OrderStatusPending,
			PaymentStatus:     models.PaymentStatusPending,
			FulfillmentStatus: models.FulfillmentUnfulfilled,
			Items:             items,
			VendorIDs:         vendorIDs(items),
			Pricing:           price,
			Discounts:         req.Discounts,
			Shipping:          shipping,
			Billing:           req.Billing,
			Timeline: []models.TimelineEntry{{
				ID:        uuid.New().String(),
				Status:    models.OrderStatusPending,
				Date:      now,
				Note:      "Order created",
				UpdatedBy: actor.ID,
			}},
			CustomerNotes: req.CustomerNotes,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.Orders.Create(ctx, o); err != nil {
			return utils.NewInternal("failed to save order", err)
		}
		created = o
		return nil
	})
	if err != nil {
		s.Logger.Warn("order creation failed", zap.String("customerId", actor.ID), zap.Error(err))
		return nil, asAppError(err, "failed to create order")
	}

	s.Logger.Info("order created",
		zap.String("orderId", created.ID),
		zap.String("orderNumber", created.OrderNumber),
		zap.Float64("total", created.Pricing.Total))

	s.publish(ctx, events.New(events.OrderCreated, created.ID, created))
	for _, m := range lowered {
		s.publish(ctx, events.New(events.InventoryLowStock, m.ProductID, map[string]interface{}{
			"productId": m.ProductID,
			"quantity":  m.Inventory.Quantity,
			"threshold": m.Inventory.LowStockThreshold,
		}))
	}
	s.notify(created.CustomerID, "Order placed",
		fmt.Sprintf("Your order %s has been placed.", created.OrderNumber),
		map[string]string{"type": "order_created", "orderId": created.ID})
	for _, v := range created.VendorIDs {
		s.notify(v, "New order",
			fmt.Sprintf("You have a new order %s.", created.OrderNumber),
			map[string]string{"type": "order_received", "orderId": created.ID})
	}
	return created, nil
}

func validateCreate(req CreateOrderRequest) error {
	if len(req.Items) == 0 {
		return utils.NewValidationError(utils.CodeInvalidInput, "order must contain at least one item")
	}
	for _, it := range req.Items {
		if it.ProductID == "" {
			return utils.NewValidationError(utils.CodeInvalidInput, "every item needs a productId")
		}
		if it.Quantity < 1 {
			return utils.NewValidationError(utils.CodeInvalidInput, "item quantity must be at least 1")
		}
	}
	if pm := req.Billing.PaymentMethod.Type; pm != "" && !pm.Valid() {
		return utils.NewValidationError(utils.CodeInvalidInput, fmt.Sprintf("unsupported payment method %q", pm))
	}
	return nil
}

// lineItems fetches every product in one query and snapshots it into an
// order line.
func (s *DefaultOrderService) lineItems(ctx context.Context, reqs []ItemRequest) ([]models.OrderItem, error) {
	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ProductID)
	}
	products, err := s.Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, utils.NewInternal("failed to load products", err)
	}
	byID := make(map[string]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]models.OrderItem, 0, len(reqs))
	for _, r := range reqs {
		p, ok := byID[r.ProductID]
		if !ok {
			return nil, utils.NewNotFound(utils.CodeProductNotFound, fmt.Sprintf("product %s not found", r.ProductID))
		}
		if p.Status != "" && p.Status != models.ProductStatusActive {
			return nil, utils.NewValidationError(utils.CodeInvalidInput, fmt.Sprintf("product %s is not available", p.ID))
		}
		items = append(items, models.OrderItem{
			ProductID:      p.ID,
			VendorID:       p.VendorID,
			ProductName:    p.Name,
			ProductType:    p.Type,
			SKU:            p.SKU,
			Quantity:       r.Quantity,
			Price:          p.Price,
			CompareAtPrice: p.CompareAtPrice,
			TotalPrice:     pricing.LineTotal(r.Quantity, p.Price),
			Snapshot: models.ProductSnapshot{
				Image:            p.PrimaryImage(),
				PlantDetails:     p.PlantDetails,
				AccessoryDetails: p.AccessoryDetails,
			},
		})
	}
	return items, nil
}

func vendorIDs(items []models.OrderItem) []string {
	seen := map[string]bool{}
	var out []string
	for _, it := range items {
		if !seen[it.VendorID] {
			seen[it.VendorID] = true
			out = append(out, it.VendorID)
		}
	}
	return out
}
