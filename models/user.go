// models/user.go
package models

import "time"

// Role is the marketplace role carried by an authenticated principal.
type Role string

const (
	RoleCustomer        Role = "customer"
	RoleVendor          Role = "vendor"
	RoleServiceProvider Role = "service_provider"
	RoleAdmin           Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleServiceProvider, RoleAdmin:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusDisabled  UserStatus = "disabled"
	UserStatusSuspended UserStatus = "suspended"
)

// User represents a platform account. Vendor and provider profiles are only
// present for the matching role.
type User struct {
	ID        string     `bson:"id" json:"id"`
	Name      string     `bson:"name" json:"name"`
	Email     string     `bson:"email" json:"email"`
	Phone     string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Role      Role       `bson:"role" json:"role"`
	Status    UserStatus `bson:"status" json:"status"`
	FCMToken  string     `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`

	VendorProfile          *VendorProfile          `bson:"vendorProfile,omitempty" json:"vendorProfile,omitempty"`
	ServiceProviderProfile *ServiceProviderProfile `bson:"serviceProviderProfile,omitempty" json:"serviceProviderProfile,omitempty"`

	// ScheduleVersion is bumped by every booking written for a provider so that
	// concurrent bookings on the same provider conflict at commit.
	ScheduleVersion int64 `bson:"scheduleVersion" json:"-"`
}

// IsActive reports whether the account may take part in new orders or bookings.
func (u *User) IsActive() bool {
	return u.Status == "" || u.Status == UserStatusActive
}

type VendorProfile struct {
	BusinessName string      `bson:"businessName" json:"businessName"`
	Stats        VendorStats `bson:"stats" json:"stats"`
}

// VendorStats are written only by the stats aggregator.
type VendorStats struct {
	TotalProducts int     `bson:"totalProducts" json:"totalProducts"`
	TotalSales    int     `bson:"totalSales" json:"totalSales"`
	TotalRevenue  float64 `bson:"totalRevenue" json:"totalRevenue"`
	AverageRating float64 `bson:"averageRating" json:"averageRating"`
	TotalReviews  int     `bson:"totalReviews" json:"totalReviews"`
}

type ServiceProviderProfile struct {
	BusinessName string          `bson:"businessName" json:"businessName"`
	ServiceTypes []string        `bson:"serviceTypes,omitempty" json:"serviceTypes,omitempty"`
	Pricing      ProviderPricing `bson:"pricing" json:"pricing"`
	Availability Availability    `bson:"availability" json:"availability"`
	Stats        ProviderStats   `bson:"stats" json:"stats"`
}

type ProviderPricing struct {
	HourlyRate    float64 `bson:"hourlyRate" json:"hourlyRate"`
	MinimumCharge float64 `bson:"minimumCharge" json:"minimumCharge"`
	TravelFee     float64 `bson:"travelFee" json:"travelFee"`
}

// Availability describes the provider's weekly working window.
// WorkingDays holds lowercase weekday names ("monday", ...).
type Availability struct {
	WorkingDays  []string     `bson:"workingDays" json:"workingDays"`
	WorkingHours WorkingHours `bson:"workingHours" json:"workingHours"`
}

// WorkingHours are "HH:MM" wall-clock times in UTC. End <= Start means the
// window wraps past midnight.
type WorkingHours struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// ProviderStats are written only by the stats aggregator.
type ProviderStats struct {
	TotalJobs      int     `bson:"totalJobs" json:"totalJobs"`
	CompletedJobs  int     `bson:"completedJobs" json:"completedJobs"`
	AverageRating  float64 `bson:"averageRating" json:"averageRating"`
	TotalReviews   int     `bson:"totalReviews" json:"totalReviews"`
	ResponseTime   float64 `bson:"responseTime" json:"responseTime"`
	CompletionRate float64 `bson:"completionRate" json:"completionRate"`
}

// DefaultAvailability mirrors the defaults applied to new provider profiles.
func DefaultAvailability() Availability {
	return Availability{
		WorkingDays:  []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		WorkingHours: WorkingHours{Start: "08:00", End: "18:00"},
	}
}
