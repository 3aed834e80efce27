package memoryRepo

import (
	"context"
	"fmt"

	"plantco/database/repository"
	"plantco/models"
)

type Catalog struct{ s *Store }

func (r *Catalog) CreateService(ctx context.Context, svc *models.Service) error {
	defer r.s.lock(ctx)()
	if _, ok := r.s.services[svc.ID]; ok {
		return fmt.Errorf("service %s: %w", svc.ID, repository.ErrDuplicate)
	}
	r.s.services[svc.ID] = clone(*svc)
	return nil
}

func (r *Catalog) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	defer r.s.lock(ctx)()
	svc, ok := r.s.services[id]
	if !ok {
		return nil, fmt.Errorf("service %s: %w", id, repository.ErrNotFound)
	}
	out := clone(svc)
	return &out, nil
}

func (r *Catalog) GetServicesByIDs(ctx context.Context, ids []string) ([]models.Service, error) {
	defer r.s.lock(ctx)()
	var out []models.Service
	for _, id := range ids {
		if svc, ok := r.s.services[id]; ok {
			out = append(out, clone(svc))
		}
	}
	return out, nil
}

func (r *Catalog) CreatePromo(ctx context.Context, p *models.PromoCode) error {
	defer r.s.lock(ctx)()
	p.Code = models.NormalizePromoCode(p.Code)
	if _, ok := r.s.promos[p.Code]; ok {
		return fmt.Errorf("promo %s: %w", p.Code, repository.ErrDuplicate)
	}
	r.s.promos[p.Code] = clone(*p)
	return nil
}

func (r *Catalog) GetPromo(ctx context.Context, code string) (*models.PromoCode, error) {
	defer r.s.lock(ctx)()
	code = models.NormalizePromoCode(code)
	p, ok := r.s.promos[code]
	if !ok {
		return nil, fmt.Errorf("promo %s: %w", code, repository.ErrNotFound)
	}
	out := clone(p)
	return &out, nil
}
