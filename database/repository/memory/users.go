package memoryRepo

import (
	"context"
	"fmt"
	"time"

	"plantco/database/repository"
	"plantco/models"
)

type Users struct{ s *Store }

func (r *Users) Create(ctx context.Context, u *models.User) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.users[u.ID]; ok {
		return fmt.Errorf("user %s: %w", u.ID, repository.ErrDuplicate)
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	r.s.users[u.ID] = clone(*u)
	return nil
}

func (r *Users) GetByID(ctx context.Context, id string) (*models.User, error) {
	defer r.s.lock(ctx)()
	u, ok := r.s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	out := clone(u)
	return &out, nil
}

func (r *Users) TouchSchedule(ctx context.Context, providerID string) error {
	return r.update(ctx, "users.TouchSchedule", providerID, func(u *models.User) {
		u.ScheduleVersion++
	})
}

func (r *Users) IncVendorSales(ctx context.Context, vendorID string, units int, revenue float64) error {
	return r.update(ctx, "users.IncVendorSales", vendorID, func(u *models.User) {
		vendor(u).Stats.TotalSales += units
		vendor(u).Stats.TotalRevenue += revenue
	})
}

func (r *Users) SetVendorRating(ctx context.Context, vendorID string, average float64, count int) error {
	return r.update(ctx, "users.SetVendorRating", vendorID, func(u *models.User) {
		vendor(u).Stats.AverageRating = average
		vendor(u).Stats.TotalReviews = count
	})
}

func (r *Users) SetProviderJobStats(ctx context.Context, providerID string, total, completed int, completionRate float64) error {
	return r.update(ctx, "users.SetProviderJobStats", providerID, func(u *models.User) {
		p := provider(u)
		p.Stats.TotalJobs = total
		p.Stats.CompletedJobs = completed
		p.Stats.CompletionRate = completionRate
	})
}

func (r *Users) SetProviderRating(ctx context.Context, providerID string, average float64, count int) error {
	return r.update(ctx, "users.SetProviderRating", providerID, func(u *models.User) {
		provider(u).Stats.AverageRating = average
		provider(u).Stats.TotalReviews = count
	})
}

func (r *Users) update(ctx context.Context, op, id string, mutate func(*models.User)) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault(op); err != nil {
		return err
	}
	stored, ok := r.s.users[id]
	if !ok {
		return fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	u := clone(stored)
	mutate(&u)
	u.UpdatedAt = time.Now().UTC()
	r.s.users[id] = u
	return nil
}

// vendor and provider create the embedded profile the way a MongoDB dotted
// $inc or $set would.
func vendor(u *models.User) *models.VendorProfile {
	if u.VendorProfile == nil {
		u.VendorProfile = &models.VendorProfile{}
	}
	return u.VendorProfile
}

func provider(u *models.User) *models.ServiceProviderProfile {
	if u.ServiceProviderProfile == nil {
		u.ServiceProviderProfile = &models.ServiceProviderProfile{}
	}
	return u.ServiceProviderProfile
}
