package models

import (
	"strings"
	"time"
)

// Service is an offering in a provider's catalogue.
type Service struct {
	ID            string    `bson:"id" json:"id"`
	ProviderID    string    `bson:"providerId" json:"providerId"`
	Title         string    `bson:"title" json:"title"`
	Description   string    `bson:"description,omitempty" json:"description,omitempty"`
	ServiceType   string    `bson:"serviceType" json:"serviceType"`         // e.g. "garden_maintenance", "plant_care"
	HourlyRate    float64   `bson:"hourlyRate" json:"hourlyRate"`           // zero falls back to the provider rate
	Price         float64   `bson:"price,omitempty" json:"price,omitempty"` // flat price when booked as an add-on
	DurationHours float64   `bson:"durationHours" json:"durationHours"`     // base duration, default 1
	Currency      string    `bson:"currency" json:"currency"`
	Active        bool      `bson:"active" json:"active"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

// BaseDuration is the duration covered by the base price.
func (s *Service) BaseDuration() float64 {
	if s.DurationHours <= 0 {
		return 1
	}
	return s.DurationHours
}

// AddOnPrice is the price charged when the service is booked as an extra.
func (s *Service) AddOnPrice() float64 {
	if s.Price > 0 {
		return s.Price
	}
	return s.HourlyRate * s.BaseDuration()
}

type PromoType string

const (
	PromoFixed      PromoType = "fixed"
	PromoPercentage PromoType = "percentage"
)

// PromoCode is a booking discount.
type PromoCode struct {
	Code      string     `bson:"code" json:"code"`
	Type      PromoType  `bson:"type" json:"type"`
	Value     float64    `bson:"value" json:"value"`
	Active    bool       `bson:"active" json:"active"`
	ExpiresAt *time.Time `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}

// NormalizePromoCode is the canonical lookup form of a promo code.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Usable reports whether the promo may be applied at now.
func (p *PromoCode) Usable(now time.Time) bool {
	if !p.Active {
		return false
	}
	return p.ExpiresAt == nil || now.Before(*p.ExpiresAt)
}
