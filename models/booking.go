package models

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingAccepted   BookingStatus = "accepted"
	BookingDeclined   BookingStatus = "declined"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
	BookingRejected   BookingStatus = "rejected"
)

var bookingNext = map[BookingStatus]map[BookingStatus]bool{
	BookingPending:    {BookingAccepted: true, BookingDeclined: true, BookingCancelled: true, BookingRejected: true},
	BookingAccepted:   {BookingInProgress: true, BookingCancelled: true, BookingRejected: true},
	BookingInProgress: {BookingCompleted: true, BookingCancelled: true},
	BookingCompleted:  {},
	BookingDeclined:   {},
	BookingCancelled:  {},
	BookingRejected:   {},
}

// ActiveBookingStatuses occupy a provider's calendar.
var ActiveBookingStatuses = []BookingStatus{BookingPending, BookingAccepted, BookingInProgress}

// ParseBookingStatus accepts the canonical names plus "confirmed" for accepted.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	st := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	if st == "confirmed" {
		st = BookingAccepted
	}
	_, ok := bookingNext[st]
	return st, ok
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return bookingNext[s][next]
}

func (s BookingStatus) Terminal() bool {
	return len(bookingNext[s]) == 0
}

type CancelledBy string

const (
	CancelledByCustomer CancelledBy = "customer"
	CancelledByProvider CancelledBy = "provider"
	CancelledByAdmin    CancelledBy = "admin"
)

const (
	CancellationWindow = 24 * time.Hour
	RejectionWindow    = 12 * time.Hour
	MinBookingDuration = 0.5
)

// Booking is a scheduled service appointment between a customer and a provider.
type Booking struct {
	ID                 string              `bson:"id" json:"id"`
	BookingNumber      string              `bson:"bookingNumber" json:"bookingNumber"`
	CustomerID         string              `bson:"customerId" json:"customerId"`
	ProviderID         string              `bson:"providerId" json:"providerId"`
	ServiceID          string              `bson:"serviceId" json:"serviceId"`
	ServiceTitle       string              `bson:"serviceTitle,omitempty" json:"serviceTitle,omitempty"`
	Status             BookingStatus       `bson:"status" json:"status"`
	ScheduledDate      time.Time           `bson:"scheduledDate" json:"scheduledDate"` // UTC midnight
	ScheduledTime      string              `bson:"scheduledTime" json:"scheduledTime"` // "HH:MM", UTC
	ScheduledStart     time.Time           `bson:"scheduledStart" json:"scheduledStart"`
	ScheduledEnd       time.Time           `bson:"scheduledEnd" json:"scheduledEnd"`
	Duration           float64             `bson:"duration" json:"duration"` // hours
	AdditionalServices []AdditionalService `bson:"additionalServices,omitempty" json:"additionalServices,omitempty"`
	PriceBreakdown     PriceBreakdown      `bson:"priceBreakdown" json:"priceBreakdown"`
	PromoCode          string              `bson:"promoCode,omitempty" json:"promoCode,omitempty"`
	Address            string              `bson:"address,omitempty" json:"address,omitempty"`
	CustomerNotes      string              `bson:"customerNotes,omitempty" json:"customerNotes,omitempty"`
	Cancellation       *Cancellation       `bson:"cancellation,omitempty" json:"cancellation,omitempty"`
	CustomerReview     *CustomerReview     `bson:"customerReview,omitempty" json:"customerReview,omitempty"`
	StatusHistory      []BookingTransition `bson:"statusHistory,omitempty" json:"statusHistory,omitempty"`
	Version            int64               `bson:"version" json:"version"`
	CreatedAt          time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type AdditionalService struct {
	ServiceID string  `bson:"serviceId" json:"serviceId"`
	Title     string  `bson:"title" json:"title"`
	Price     float64 `bson:"price" json:"price"`
	Duration  float64 `bson:"durationHours" json:"durationHours"`
}

type PriceBreakdown struct {
	HourlyRate              float64 `bson:"hourlyRate" json:"hourlyRate"`
	BaseDuration            float64 `bson:"baseDuration" json:"baseDuration"`
	BasePrice               float64 `bson:"basePrice" json:"basePrice"`
	ExtraHours              float64 `bson:"extraHours" json:"extraHours"`
	ExtraHoursCost          float64 `bson:"extraHoursCost" json:"extraHoursCost"`
	MinimumChargeAdjustment float64 `bson:"minimumChargeAdjustment" json:"minimumChargeAdjustment"`
	TravelFee               float64 `bson:"travelFee" json:"travelFee"`
	AdditionalServicesTotal float64 `bson:"additionalServicesTotal" json:"additionalServicesTotal"`
	Subtotal                float64 `bson:"subtotal" json:"subtotal"`
	PromoDiscount           float64 `bson:"promoDiscount" json:"promoDiscount"`
	TotalAmount             float64 `bson:"totalAmount" json:"totalAmount"`
	Currency                string  `bson:"currency" json:"currency"`
}

// Cancellation is written once, by cancel or reject.
type Cancellation struct {
	CancelledAt time.Time   `bson:"cancelledAt" json:"cancelledAt"`
	CancelledBy CancelledBy `bson:"cancelledBy" json:"cancelledBy"`
	Reason      string      `bson:"reason" json:"reason"`
}

// CustomerReview is written once, after completion.
type CustomerReview struct {
	Rating     int       `bson:"rating" json:"rating"`
	Comment    string    `bson:"comment,omitempty" json:"comment,omitempty"`
	ReviewedAt time.Time `bson:"reviewedAt" json:"reviewedAt"`
}

type BookingTransition struct {
	From      BookingStatus `bson:"from" json:"from"`
	To        BookingStatus `bson:"to" json:"to"`
	At        time.Time     `bson:"at" json:"at"`
	ChangedBy string        `bson:"changedBy,omitempty" json:"changedBy,omitempty"`
}

func (b *Booking) closedForWindowedChange() bool {
	switch b.Status {
	case BookingInProgress, BookingCompleted, BookingCancelled, BookingRejected, BookingDeclined:
		return true
	}
	return false
}

// CanBeCancelled reports whether the booking is still cancellable at now:
// not started or closed, and at least 24 hours before the scheduled start.
func (b *Booking) CanBeCancelled(now time.Time) bool {
	return b.OpenForChange(now, CancellationWindow)
}

// CanBeRejected is CanBeCancelled with a 12 hour window.
func (b *Booking) CanBeRejected(now time.Time) bool {
	return b.OpenForChange(now, RejectionWindow)
}

// OpenForChange reports whether the booking is neither started nor closed and
// starts at least window after now.
func (b *Booking) OpenForChange(now time.Time, window time.Duration) bool {
	if b.closedForWindowedChange() {
		return false
	}
	return b.ScheduledStart.Sub(now) >= window
}

// Overlaps reports whether [start, end) intersects the booking's interval.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.ScheduledStart.Before(end) && start.Before(b.ScheduledEnd)
}

// InvolvedParty reports whether id is the customer or provider on the booking.
func (b *Booking) InvolvedParty(id string) bool {
	return id != "" && (id == b.CustomerID || id == b.ProviderID)
}
