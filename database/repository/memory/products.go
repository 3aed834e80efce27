package memoryRepo

import (
	"context"
	"fmt"
	"time"

	"plantco/database/repository"
	"plantco/models"
)

type Products struct{ s *Store }

func (r *Products) Create(ctx context.Context, p *models.Product) error {
	defer r.s.lock(ctx)()
	if err := r.s.fault("products.Create"); err != nil {
		return err
	}
	if _, ok := r.s.products[p.ID]; ok {
		return fmt.Errorf("product %s: %w", p.ID, repository.ErrDuplicate)
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.s.products[p.ID] = clone(*p)
	return nil
}

func (r *Products) GetByID(ctx context.Context, id string) (*models.Product, error) {
	defer r.s.lock(ctx)()
	p, ok := r.s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	out := clone(p)
	return &out, nil
}

func (r *Products) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	defer r.s.lock(ctx)()
	if err := r.s.fault("products.GetByIDs"); err != nil {
		return nil, err
	}
	var out []models.Product
	seen := map[string]bool{}
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, clone(p))
		}
	}
	return out, nil
}

func (r *Products) ReserveStock(ctx context.Context, id string, qty int) (*models.Inventory, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("reserve %d units of %s: quantity must be positive", qty, id)
	}
	defer r.s.lock(ctx)()
	if err := r.s.fault("products.ReserveStock"); err != nil {
		return nil, err
	}
	p, ok := r.s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	inv := p.Inventory
	if inv.TrackQuantity && !inv.AllowBackorder && inv.Quantity < qty {
		return nil, fmt.Errorf("product %s: %w", id, repository.ErrInsufficientStock)
	}
	return r.adjust(p, -qty), nil
}

func (r *Products) ReleaseStock(ctx context.Context, id string, qty int) (*models.Inventory, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("release %d units of %s: quantity must be positive", qty, id)
	}
	defer r.s.lock(ctx)()
	if err := r.s.fault("products.ReleaseStock"); err != nil {
		return nil, err
	}
	p, ok := r.s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	return r.adjust(p, qty), nil
}

func (r *Products) adjust(p models.Product, delta int) *models.Inventory {
	p = clone(p)
	if p.Inventory.TrackQuantity {
		p.Inventory.Quantity += delta
	}
	p.UpdatedAt = time.Now().UTC()
	r.s.products[p.ID] = p
	inv := p.Inventory
	return &inv
}

func (r *Products) SetReviewStats(ctx context.Context, id string, stats models.ReviewStats) error {
	defer r.s.lock(ctx)()
	p, ok := r.s.products[id]
	if !ok {
		return fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	p = clone(p)
	p.ReviewStats = stats
	r.s.products[id] = p
	return nil
}
