package models

import "time"

type ProductType string

const (
	ProductTypePlant     ProductType = "plant"
	ProductTypeAccessory ProductType = "accessory"
)

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusArchived ProductStatus = "archived"
)

// Product is a sellable catalogue entry owned by a vendor.
type Product struct {
	ID             string        `bson:"id" json:"id"`
	VendorID       string        `bson:"vendorId" json:"vendorId"`
	Name           string        `bson:"name" json:"name"`
	SKU            string        `bson:"sku" json:"sku"`
	Type           ProductType   `bson:"type" json:"type"`
	Status         ProductStatus `bson:"status" json:"status"`
	Price          float64       `bson:"price" json:"price"`
	CompareAtPrice float64       `bson:"compareAtPrice,omitempty" json:"compareAtPrice,omitempty"`
	Images         []string      `bson:"images,omitempty" json:"images,omitempty"`
	Inventory      Inventory     `bson:"inventory" json:"inventory"`
	ReviewStats    ReviewStats   `bson:"reviewStats" json:"reviewStats"`

	PlantDetails     *PlantDetails     `bson:"plantDetails,omitempty" json:"plantDetails,omitempty"`
	AccessoryDetails *AccessoryDetails `bson:"accessoryDetails,omitempty" json:"accessoryDetails,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PrimaryImage returns the first image or an empty string.
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Inventory is embedded in the product document and mutated only through the
// inventory ledger.
type Inventory struct {
	Quantity          int  `bson:"quantity" json:"quantity"`
	LowStockThreshold int  `bson:"lowStockThreshold" json:"lowStockThreshold"`
	TrackQuantity     bool `bson:"trackQuantity" json:"trackQuantity"`
	AllowBackorder    bool `bson:"allowBackorder" json:"allowBackorder"`
}

const DefaultLowStockThreshold = 5

// NewInventory returns a tracked inventory record with the default threshold.
func NewInventory(quantity int) Inventory {
	return Inventory{
		Quantity:          quantity,
		LowStockThreshold: DefaultLowStockThreshold,
		TrackQuantity:     true,
	}
}

// IsLow reports whether a tracked record sits at or under its threshold.
func (i Inventory) IsLow() bool {
	return i.TrackQuantity && i.Quantity <= i.LowStockThreshold
}

type PlantDetails struct {
	ScientificName    string `bson:"scientificName,omitempty" json:"scientificName,omitempty"`
	CareLevel         string `bson:"careLevel,omitempty" json:"careLevel,omitempty"`                 // easy, moderate, difficult
	LightRequirement  string `bson:"lightRequirement,omitempty" json:"lightRequirement,omitempty"`   // low, medium, bright-indirect, direct
	WateringFrequency string `bson:"wateringFrequency,omitempty" json:"wateringFrequency,omitempty"` // e.g. "weekly"
	Humidity          string `bson:"humidity,omitempty" json:"humidity,omitempty"`
	Temperature       string `bson:"temperature,omitempty" json:"temperature,omitempty"`
	PetFriendly       bool   `bson:"petFriendly" json:"petFriendly"`
	CareInstructions  string `bson:"careInstructions,omitempty" json:"careInstructions,omitempty"`
}

type AccessoryDetails struct {
	Material   string `bson:"material,omitempty" json:"material,omitempty"`
	Dimensions string `bson:"dimensions,omitempty" json:"dimensions,omitempty"`
	Color      string `bson:"color,omitempty" json:"color,omitempty"`
}

// ReviewStats is recomputed from approved reviews.
type ReviewStats struct {
	AverageRating float64        `bson:"averageRating" json:"averageRating"`
	TotalReviews  int            `bson:"totalReviews" json:"totalReviews"`
	Distribution  map[string]int `bson:"distribution,omitempty" json:"distribution,omitempty"`
}

// RatingSummary is the result of a rating aggregation.
type RatingSummary struct {
	Average      float64        `bson:"average" json:"average"`
	Count        int            `bson:"count" json:"count"`
	Distribution map[string]int `bson:"distribution,omitempty" json:"distribution,omitempty"`
}
