package models

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

var orderNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:    {OrderStatusConfirmed: true, OrderStatusCancelled: true},
	OrderStatusConfirmed:  {OrderStatusProcessing: true, OrderStatusCancelled: true},
	OrderStatusProcessing: {OrderStatusShipped: true, OrderStatusCancelled: true},
	OrderStatusShipped:    {OrderStatusDelivered: true},
	OrderStatusDelivered:  {OrderStatusRefunded: true},
	OrderStatusCancelled:  {},
	OrderStatusRefunded:   {},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	_, ok := orderNext[s]
	return ok
}

// CanTransitionTo reports whether next is a legal edge out of s.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return orderNext[s][next]
}

// Terminal reports whether no edge leaves s.
func (s OrderStatus) Terminal() bool {
	return len(orderNext[s]) == 0
}

type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusPaid              PaymentStatus = "paid"
	PaymentStatusFailed            PaymentStatus = "failed"
	PaymentStatusRefunded          PaymentStatus = "refunded"
	PaymentStatusPartiallyRefunded PaymentStatus = "partially_refunded"
)

type FulfillmentStatus string

const (
	FulfillmentUnfulfilled FulfillmentStatus = "unfulfilled"
	FulfillmentProcessing  FulfillmentStatus = "processing"
	FulfillmentShipped     FulfillmentStatus = "shipped"
	FulfillmentDelivered   FulfillmentStatus = "delivered"
)

type PaymentMethodType string

const (
	PaymentCOD        PaymentMethodType = "cod"
	PaymentCreditCard PaymentMethodType = "credit_card"
	PaymentDebitCard  PaymentMethodType = "debit_card"
	PaymentPaypal     PaymentMethodType = "paypal"
	PaymentApplePay   PaymentMethodType = "apple_pay"
	PaymentGooglePay  PaymentMethodType = "google_pay"
)

func (t PaymentMethodType) Valid() bool {
	switch t {
	case PaymentCOD, PaymentCreditCard, PaymentDebitCard, PaymentPaypal, PaymentApplePay, PaymentGooglePay:
		return true
	}
	return false
}

type DiscountType string

const (
	DiscountPercentage   DiscountType = "percentage"
	DiscountFixed        DiscountType = "fixed"
	DiscountFreeShipping DiscountType = "free_shipping"
)

const DefaultCurrency = "PKR"

// Order is never deleted; Timeline is append-only.
type Order struct {
	ID                string            `bson:"id" json:"id"`
	OrderNumber       string            `bson:"orderNumber" json:"orderNumber"`
	CustomerID        string            `bson:"customerId" json:"customerId"`
	Status            OrderStatus       `bson:"status" json:"status"`
	PaymentStatus     PaymentStatus     `bson:"paymentStatus" json:"paymentStatus"`
	FulfillmentStatus FulfillmentStatus `bson:"fulfillmentStatus" json:"fulfillmentStatus"`
	Items             []OrderItem       `bson:"items" json:"items"`
	VendorIDs         []string          `bson:"vendorIds" json:"vendorIds"` // distinct item vendors, indexed
	Pricing           Pricing           `bson:"pricing" json:"pricing"`
	Discounts         []Discount        `bson:"discounts,omitempty" json:"discounts,omitempty"`
	Shipping          ShippingInfo      `bson:"shipping" json:"shipping"`
	Billing           BillingInfo       `bson:"billing" json:"billing"`
	Timeline          []TimelineEntry   `bson:"timeline" json:"timeline"`
	Notes             string            `bson:"notes,omitempty" json:"notes,omitempty"`
	CustomerNotes     string            `bson:"customerNotes,omitempty" json:"customerNotes,omitempty"`
	Version           int64             `bson:"version" json:"version"`
	CreatedAt         time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// OrderItem holds the product state captured when the order was placed.
type OrderItem struct {
	ProductID      string          `bson:"productId" json:"productId"`
	VendorID       string          `bson:"vendorId" json:"vendorId"`
	ProductName    string          `bson:"productName" json:"productName"`
	ProductType    ProductType     `bson:"productType" json:"productType"`
	SKU            string          `bson:"sku" json:"sku"`
	Quantity       int             `bson:"quantity" json:"quantity"`
	Price          float64         `bson:"price" json:"price"` // unit price at order time
	CompareAtPrice float64         `bson:"compareAtPrice,omitempty" json:"compareAtPrice,omitempty"`
	TotalPrice     float64         `bson:"totalPrice" json:"totalPrice"`
	Snapshot       ProductSnapshot `bson:"productSnapshot" json:"productSnapshot"`
}

type ProductSnapshot struct {
	Image            string            `bson:"image,omitempty" json:"image,omitempty"`
	PlantDetails     *PlantDetails     `bson:"plantDetails,omitempty" json:"plantDetails,omitempty"`
	AccessoryDetails *AccessoryDetails `bson:"accessoryDetails,omitempty" json:"accessoryDetails,omitempty"`
}

// Pricing must satisfy Total == Subtotal + Shipping + Tax - Discount.
type Pricing struct {
	Subtotal float64 `bson:"subtotal" json:"subtotal"`
	Shipping float64 `bson:"shipping" json:"shipping"`
	Tax      float64 `bson:"tax" json:"tax"`
	Discount float64 `bson:"discount" json:"discount"`
	Total    float64 `bson:"total" json:"total"`
	Currency string  `bson:"currency" json:"currency"`
}

type Discount struct {
	Code        string       `bson:"code" json:"code"`
	Type        DiscountType `bson:"type" json:"type"`
	Amount      float64      `bson:"amount" json:"amount"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
}

type Address struct {
	FirstName  string `bson:"firstName" json:"firstName"`
	LastName   string `bson:"lastName" json:"lastName"`
	Company    string `bson:"company,omitempty" json:"company,omitempty"`
	Street     string `bson:"street" json:"street"`
	Apartment  string `bson:"apartment,omitempty" json:"apartment,omitempty"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state,omitempty" json:"state,omitempty"`
	PostalCode string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
	Country    string `bson:"country" json:"country"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
}

type ShippingInfo struct {
	Address        Address `bson:"address" json:"address"`
	Method         string  `bson:"method" json:"method"`
	Cost           float64 `bson:"cost" json:"cost"`
	Carrier        string  `bson:"carrier,omitempty" json:"carrier,omitempty"`
	TrackingNumber string  `bson:"trackingNumber,omitempty" json:"trackingNumber,omitempty"`
}

type PaymentMethod struct {
	Type          PaymentMethodType `bson:"type" json:"type"`
	Last4         string            `bson:"last4,omitempty" json:"last4,omitempty"`
	Brand         string            `bson:"brand,omitempty" json:"brand,omitempty"`
	Gateway       string            `bson:"gateway,omitempty" json:"gateway,omitempty"`
	TransactionID string            `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
}

type BillingInfo struct {
	Address       Address       `bson:"address" json:"address"`
	PaymentMethod PaymentMethod `bson:"paymentMethod" json:"paymentMethod"`
}

type TimelineEntry struct {
	ID        string      `bson:"id" json:"id"`
	Status    OrderStatus `bson:"status" json:"status"`
	Date      time.Time   `bson:"date" json:"date"`
	Note      string      `bson:"note,omitempty" json:"note,omitempty"`
	UpdatedBy string      `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
}

// CanBeCancelled combines the transition table with the explicit rule that
// nothing leaving the warehouse can be cancelled.
func (o *Order) CanBeCancelled() bool {
	switch o.Status {
	case OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return false
	}
	return o.Status.CanTransitionTo(OrderStatusCancelled)
}

// HasVendor reports whether any line item belongs to vendorID.
func (o *Order) HasVendor(vendorID string) bool {
	for _, it := range o.Items {
		if it.VendorID == vendorID {
			return true
		}
	}
	return false
}

// OwnedBy reports whether every line item belongs to vendorID.
func (o *Order) OwnedBy(vendorID string) bool {
	if len(o.Items) == 0 {
		return false
	}
	for _, it := range o.Items {
		if it.VendorID != vendorID {
			return false
		}
	}
	return true
}

// GatewayStripe is the only gateway refunds are issued through.
const GatewayStripe = "stripe"

// PaidByGateway reports whether the order was paid by card through stripe
// and the money has to be returned on refund.
func (o *Order) PaidByGateway() bool {
	pm := o.Billing.PaymentMethod
	if pm.Type != PaymentCreditCard && pm.Type != PaymentDebitCard {
		return false
	}
	return strings.EqualFold(pm.Gateway, GatewayStripe) && pm.TransactionID != ""
}
