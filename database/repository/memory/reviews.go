package memoryRepo

import (
	"context"
	"fmt"
	"time"

	"plantco/database/repository"
	"plantco/models"
)

type Reviews struct{ s *Store }

func (r *Reviews) Create(ctx context.Context, rv *models.Review) error {
	defer r.s.lock(ctx)()
	for _, existing := range r.s.reviews {
		if existing.ID == rv.ID || (existing.ProductID == rv.ProductID && existing.CustomerID == rv.CustomerID) {
			return fmt.Errorf("review of %s by %s: %w", rv.ProductID, rv.CustomerID, repository.ErrDuplicate)
		}
	}
	r.s.reviews[rv.ID] = clone(*rv)
	return nil
}

func (r *Reviews) GetByID(ctx context.Context, id string) (*models.Review, error) {
	defer r.s.lock(ctx)()
	rv, ok := r.s.reviews[id]
	if !ok {
		return nil, fmt.Errorf("review %s: %w", id, repository.ErrNotFound)
	}
	out := clone(rv)
	return &out, nil
}

func (r *Reviews) SetStatus(ctx context.Context, id string, status models.ReviewStatus, note string) (*models.Review, error) {
	defer r.s.lock(ctx)()
	stored, ok := r.s.reviews[id]
	if !ok {
		return nil, fmt.Errorf("review %s: %w", id, repository.ErrNotFound)
	}
	rv := clone(stored)
	rv.Status = status
	rv.ModerationNote = note
	rv.UpdatedAt = time.Now().UTC()
	r.s.reviews[id] = clone(rv)
	return &rv, nil
}

func (r *Reviews) ProductRating(ctx context.Context, productID string) (models.RatingSummary, error) {
	return r.rating(ctx, func(rv *models.Review) bool { return rv.ProductID == productID })
}

func (r *Reviews) VendorRating(ctx context.Context, vendorID string) (models.RatingSummary, error) {
	return r.rating(ctx, func(rv *models.Review) bool { return rv.VendorID == vendorID })
}

func (r *Reviews) rating(ctx context.Context, match func(*models.Review) bool) (models.RatingSummary, error) {
	defer r.s.lock(ctx)()
	counts := map[int]int{}
	for _, rv := range r.s.reviews {
		if rv.Status == models.ReviewApproved && match(&rv) {
			counts[rv.Rating]++
		}
	}
	return models.SummarizeRatings(counts), nil
}
