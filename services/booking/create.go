package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"plantco/database/repository"
	"plantco/models"
	"plantco/services/events"
	"plantco/services/pricing"
	"plantco/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Create books a provider's service. The overlap check and the insert run in
// one unit of work that also writes the provider document, so two concurrent
// bookings of the same slot cannot both commit.
func (s *DefaultBookingService) Create(ctx context.Context, actor models.Principal, req CreateBookingRequest) (*models.Booking, error) {
	if actor.Role != models.RoleCustomer {
		return nil, utils.NewForbidden("only customers can book services")
	}
	start, err := ParseSchedule(req.ScheduledDate, req.ScheduledTime)
	if err != nil {
		return nil, err
	}
	if req.Duration < models.MinBookingDuration {
		return nil, utils.NewValidationError(utils.CodeInvalidInput,
			fmt.Sprintf("duration must be at least %.1f hours", models.MinBookingDuration))
	}
	if !start.After(s.now()) {
		return nil, utils.NewValidationError(utils.CodeInvalidInput, "booking must be scheduled in the future")
	}
	end := start.Add(hours(req.Duration))

	var created *models.Booking
	err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		now := s.now()

		provider, err := s.activeProvider(ctx, req.ProviderID)
		if err != nil {
			return err
		}
		profile := provider.ServiceProviderProfile
		av := profile.Availability
		if len(av.WorkingDays) == 0 || av.WorkingHours.Start == "" {
			av = models.DefaultAvailability()
		}
		if err := CheckWorkingWindow(av, start); err != nil {
			return err
		}

		svc, err := s.Catalog.GetServiceByID(ctx, req.ServiceID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && (svc.ProviderID != provider.ID || !svc.Active)) {
			return utils.NewNotFound(utils.CodeNotFound, fmt.Sprintf("service %s not offered by provider %s", req.ServiceID, provider.ID))
		}
		if err != nil {
			return utils.NewInternal("failed to load service", err)
		}

		if err := s.Users.TouchSchedule(ctx, provider.ID); err != nil {
			return utils.NewInternal("failed to lock provider schedule", err)
		}
		clash, err := s.Bookings.FindOverlapping(ctx, provider.ID, start, end, models.ActiveBookingStatuses)
		if err != nil {
			return utils.NewInternal("failed to check provider schedule", err)
		}
		if len(clash) > 0 {
			return utils.NewConflict(utils.CodeSlotUnavailable, "provider is already booked for this time")
		}

		addOns, err := s.additionalServices(ctx, provider.ID, req.AdditionalServices)
		if err != nil {
			return err
		}
		promo, err := s.promo(ctx, req.PromoCode, now)
		if err != nil {
			return err
		}

		rate := svc.HourlyRate
		if rate <= 0 {
			rate = profile.Pricing.HourlyRate
		}
		quote, err := pricing.QuoteBooking(pricing.BookingQuote{
			HourlyRate:    rate,
			BaseDuration:  svc.BaseDuration(),
			Duration:      req.Duration,
			MinimumCharge: profile.Pricing.MinimumCharge,
			TravelFee:     profile.Pricing.TravelFee,
			AddOns:        addOns,
			Promo:         promo,
			Currency:      svc.Currency,
		})
		if err != nil {
			return err
		}

		seq, err := s.Counter.Next(ctx, fmt.Sprintf("booking:%d", now.Year()))
		if err != nil {
			return utils.NewInternal("failed to allocate booking number", err)
		}

		b := &models.Booking{
			ID:                 uuid.New().String(),
			BookingNumber:      fmt.Sprintf("%s-%d-%06d", s.prefix(), now.Year(), seq),
			CustomerID:         actor.ID,
			ProviderID:         provider.ID,
			ServiceID:          svc.ID,
			ServiceTitle:       svc.Title,
			Status:             models.BookingPending,
			ScheduledDate:      start.Truncate(24 * time.Hour),
			ScheduledTime:      start.Format("15:04"),
			ScheduledStart:     start,
			ScheduledEnd:       end,
			Duration:           req.Duration,
			AdditionalServices: addOns,
			PriceBreakdown:     quote,
			Address:            req.Address,
			CustomerNotes:      req.CustomerNotes,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if promo != nil {
			b.PromoCode = promo.Code
		}
		if err := s.Bookings.Create(ctx, b); err != nil {
			return utils.NewInternal("failed to save booking", err)
		}
		created = b
		return nil
	})
	if err != nil {
		s.Logger.Warn("booking creation failed",
			zap.String("customerId", actor.ID), zap.String("providerId", req.ProviderID), zap.Error(err))
		if _, ok := utils.AsAppError(err); ok {
			return nil, err
		}
		return nil, utils.NewInternal("failed to create booking", err)
	}

	s.Logger.Info("booking created",
		zap.String("bookingId", created.ID),
		zap.String("bookingNumber", created.BookingNumber),
		zap.Time("start", created.ScheduledStart))
	s.publish(ctx, events.New(events.BookingCreated, created.ID, created))
	s.notify(created.ProviderID, "New booking request",
		fmt.Sprintf("%s requested for %s %s.", created.ServiceTitle, created.ScheduledStart.Format("2006-01-02"), created.ScheduledTime),
		map[string]string{"type": "booking_created", "bookingId": created.ID})
	return created, nil
}

func (s *DefaultBookingService) activeProvider(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFound(utils.CodeNotFound, fmt.Sprintf("provider %s not found", id))
	}
	if err != nil {
		return nil, utils.NewInternal("failed to load provider", err)
	}
	if u.Role != models.RoleServiceProvider || u.ServiceProviderProfile == nil {
		return nil, utils.NewValidationError(utils.CodeInvalidInput, fmt.Sprintf("user %s is not a service provider", id))
	}
	if !u.IsActive() {
		return nil, utils.NewValidationError(utils.CodeInvalidInput, fmt.Sprintf("provider %s is not active", id))
	}
	return u, nil
}

// additionalServices snapshots the requested extras from the provider's
// catalogue.
func (s *DefaultBookingService) additionalServices(ctx context.Context, providerID string, ids []string) ([]models.AdditionalService, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := s.Catalog.GetServicesByIDs(ctx, ids)
	if err != nil {
		return nil, utils.NewInternal("failed to load additional services", err)
	}
	byID := make(map[string]models.Service, len(found))
	for _, svc := range found {
		byID[svc.ID] = svc
	}
	out := make([]models.AdditionalService, 0, len(ids))
	for _, id := range ids {
		svc, ok := byID[id]
		if !ok || svc.ProviderID != providerID || !svc.Active {
			return nil, utils.NewNotFound(utils.CodeNotFound, fmt.Sprintf("additional service %s not offered by provider", id))
		}
		out = append(out, models.AdditionalService{
			ServiceID: svc.ID,
			Title:     svc.Title,
			Price:     svc.AddOnPrice(),
			Duration:  svc.BaseDuration(),
		})
	}
	return out, nil
}

func (s *DefaultBookingService) promo(ctx context.Context, code string, now time.Time) (*models.PromoCode, error) {
	code = models.NormalizePromoCode(code)
	if code == "" {
		return nil, nil
	}
	p, err := s.Catalog.GetPromo(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewValidationError(utils.CodeInvalidInput, fmt.Sprintf("promo code %s is not valid", code))
	}
	if err != nil {
		return nil, utils.NewInternal("failed to load promo code", err)
	}
	if !p.Usable(now) {
		return nil, utils.NewValidationError(utils.CodeInvalidInput, fmt.Sprintf("promo code %s has expired", code))
	}
	return p, nil
}
