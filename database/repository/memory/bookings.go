package memoryRepo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"plantco/database/repository"
	bookingRepo "plantco/database/repository/booking"
	"plantco/models"
)

type Bookings struct{ s *Store }

func (r *Bookings) Create(ctx context.Context, b *models.Booking) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("bookings.Create"); err != nil {
		return err
	}
	if _, ok := r.s.bookings[b.ID]; ok {
		return fmt.Errorf("booking %s: %w", b.ID, repository.ErrDuplicate)
	}
	r.s.bookings[b.ID] = clone(*b)
	return nil
}

func (r *Bookings) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	defer r.s.lock(ctx)()
	b, ok := r.s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
	}
	out := clone(b)
	return &out, nil
}

func (r *Bookings) FindOverlapping(ctx context.Context, providerID string, start, end time.Time, statuses []models.BookingStatus) ([]models.Booking, error) {
	defer r.s.lock(ctx)()
	var out []models.Booking
	for _, b := range r.s.bookings {
		if b.ProviderID != providerID || !hasStatus(statuses, b.Status) {
			continue
		}
		if b.Overlaps(start, end) {
			out = append(out, clone(b))
		}
	}
	return out, nil
}

func (r *Bookings) Update(ctx context.Context, b *models.Booking, expectedVersion int64) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("bookings.Update"); err != nil {
		return err
	}
	stored, ok := r.s.bookings[b.ID]
	if !ok {
		return fmt.Errorf("booking %s: %w", b.ID, repository.ErrNotFound)
	}
	if stored.Version != expectedVersion {
		return fmt.Errorf("booking %s at version %d: %w", b.ID, expectedVersion, repository.ErrVersionConflict)
	}
	b.Version = expectedVersion + 1
	r.s.bookings[b.ID] = clone(*b)
	return nil
}

func (r *Bookings) SetReview(ctx context.Context, id string, review models.CustomerReview) (*models.Booking, error) {
	defer r.s.lock(ctx)()
	stored, ok := r.s.bookings[id]
	if !ok || stored.Status != models.BookingCompleted || stored.CustomerReview != nil {
		return nil, fmt.Errorf("booking %s not reviewable: %w", id, repository.ErrPreconditionFailed)
	}
	b := clone(stored)
	b.CustomerReview = &review
	b.UpdatedAt = review.ReviewedAt
	b.Version++
	r.s.bookings[id] = clone(b)
	return &b, nil
}

func (r *Bookings) Delete(ctx context.Context, id string) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.bookings[id]; !ok {
		return fmt.Errorf("booking %s: %w", id, repository.ErrNotFound)
	}
	delete(r.s.bookings, id)
	return nil
}

func (r *Bookings) List(ctx context.Context, f bookingRepo.ListFilter) ([]models.Booking, int64, error) {
	defer r.s.lock(ctx)()
	var all []models.Booking
	for _, b := range r.s.bookings {
		if f.CustomerID != "" && b.CustomerID != f.CustomerID {
			continue
		}
		if f.ProviderID != "" && b.ProviderID != f.ProviderID {
			continue
		}
		if len(f.Statuses) > 0 && !hasStatus(f.Statuses, b.Status) {
			continue
		}
		if !f.From.IsZero() && b.ScheduledStart.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !b.ScheduledStart.Before(f.To) {
			continue
		}
		all = append(all, clone(b))
	}
	sort.Slice(all, func(i, j int) bool {
		if f.Ascending {
			return all[i].ScheduledStart.Before(all[j].ScheduledStart)
		}
		return all[i].ScheduledStart.After(all[j].ScheduledStart)
	})
	return paginate(all, f.Page, f.Limit), int64(len(all)), nil
}

func (r *Bookings) ProviderJobStats(ctx context.Context, providerID string) (*bookingRepo.JobStats, error) {
	defer r.s.lock(ctx)()
	stats := &bookingRepo.JobStats{ByStatus: map[models.BookingStatus]int{}}
	for _, b := range r.s.bookings {
		if b.ProviderID != providerID {
			continue
		}
		stats.Total++
		stats.ByStatus[b.Status]++
		if b.Status == models.BookingCompleted {
			stats.Completed++
			stats.Revenue += b.PriceBreakdown.TotalAmount
		}
	}
	return stats, nil
}

func (r *Bookings) ProviderRating(ctx context.Context, providerID string) (models.RatingSummary, error) {
	defer r.s.lock(ctx)()
	counts := map[int]int{}
	for _, b := range r.s.bookings {
		if b.ProviderID == providerID && b.CustomerReview != nil {
			counts[b.CustomerReview.Rating]++
		}
	}
	return models.SummarizeRatings(counts), nil
}

func hasStatus(statuses []models.BookingStatus, st models.BookingStatus) bool {
	for _, s := range statuses {
		if s == st {
			return true
		}
	}
	return false
}
