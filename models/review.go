package models

import (
	"math"
	"strconv"
	"time"
)

type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
	ReviewFlagged  ReviewStatus = "flagged"
)

func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected, ReviewFlagged:
		return true
	}
	return false
}

// Review is a customer's product review. One per product per customer.
type Review struct {
	ID             string       `bson:"id" json:"id"`
	ProductID      string       `bson:"productId" json:"productId"`
	VendorID       string       `bson:"vendorId" json:"vendorId"`
	CustomerID     string       `bson:"customerId" json:"customerId"`
	Rating         int          `bson:"rating" json:"rating"`
	Title          string       `bson:"title,omitempty" json:"title,omitempty"`
	Comment        string       `bson:"comment,omitempty" json:"comment,omitempty"`
	Status         ReviewStatus `bson:"status" json:"status"`
	ModerationNote string       `bson:"moderationNote,omitempty" json:"moderationNote,omitempty"`
	CreatedAt      time.Time    `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time    `bson:"updatedAt" json:"updatedAt"`
}

// SummarizeRatings builds a summary from per-star counts. Ratings outside
// 1..5 are ignored.
func SummarizeRatings(counts map[int]int) RatingSummary {
	sum := RatingSummary{Distribution: map[string]int{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}}
	total := 0
	for star, n := range counts {
		if star < 1 || star > 5 || n <= 0 {
			continue
		}
		sum.Distribution[strconv.Itoa(star)] = n
		sum.Count += n
		total += star * n
	}
	if sum.Count > 0 {
		sum.Average = math.Round(float64(total)/float64(sum.Count)*100) / 100
	}
	return sum
}
