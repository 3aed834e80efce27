package booking

import (
	"context"
	"errors"
	"fmt"

	"plantco/database/repository"
	bookingRepo "plantco/database/repository/booking"
	"plantco/models"
	"plantco/utils"

	"go.uber.org/zap"
)

const listCap = 100

var historyStatuses = []models.BookingStatus{
	models.BookingCompleted, models.BookingCancelled, models.BookingRejected, models.BookingDeclined,
}

// Get returns a booking to the customer, the provider or an admin.
func (s *DefaultBookingService) Get(ctx context.Context, actor models.Principal, bookingID string) (*models.Booking, error) {
	b, err := s.cached(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !b.InvolvedParty(actor.ID) {
		return nil, utils.NewForbidden("not allowed to view this booking")
	}
	return b, nil
}

func (s *DefaultBookingService) cached(ctx context.Context, bookingID string) (*models.Booking, error) {
	key := utils.BookingCachePrefix + bookingID
	if s.Cache != nil {
		var b models.Booking
		found, err := s.Cache.GetJSON(ctx, key, &b)
		if err != nil {
			s.Logger.Warn("booking cache read failed", zap.String("bookingId", bookingID), zap.Error(err))
		}
		if found {
			return &b, nil
		}
	}
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		if err := s.Cache.SetJSON(ctx, key, b); err != nil {
			s.Logger.Warn("booking cache write failed", zap.String("bookingId", bookingID), zap.Error(err))
		}
	}
	return b, nil
}

func (s *DefaultBookingService) load(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFound(utils.CodeNotFound, fmt.Sprintf("booking %s not found", bookingID))
	}
	if err != nil {
		return nil, utils.NewInternal("failed to load booking", err)
	}
	return b, nil
}

// scope restricts a listing to the actor's side of their bookings.
func scope(actor models.Principal, f *bookingRepo.ListFilter) error {
	switch actor.Role {
	case models.RoleCustomer:
		f.CustomerID = actor.ID
	case models.RoleServiceProvider:
		f.ProviderID = actor.ID
	case models.RoleAdmin:
	default:
		return utils.NewForbidden("role has no bookings")
	}
	return nil
}

func (s *DefaultBookingService) ListForUser(ctx context.Context, actor models.Principal, status string, page, limit int) (*BookingPage, error) {
	f := bookingRepo.ListFilter{Page: page, Limit: limit}
	if err := scope(actor, &f); err != nil {
		return nil, err
	}
	if status != "" {
		st, ok := models.ParseBookingStatus(status)
		if !ok {
			return nil, utils.NewValidationError(utils.CodeInvalidInput, fmt.Sprintf("unknown booking status %q", status))
		}
		f.Statuses = []models.BookingStatus{st}
	}
	list, total, err := s.Bookings.List(ctx, f)
	if err != nil {
		return nil, utils.NewInternal("failed to list bookings", err)
	}
	if list == nil {
		list = []models.Booking{}
	}
	skip, size := repository.Page(page, limit)
	return &BookingPage{Bookings: list, Total: total, Page: int(skip/size) + 1, Limit: int(size)}, nil
}

// Upcoming lists pending and accepted bookings that have not started, soonest
// first.
func (s *DefaultBookingService) Upcoming(ctx context.Context, actor models.Principal) ([]models.Booking, error) {
	f := bookingRepo.ListFilter{
		Statuses:  []models.BookingStatus{models.BookingPending, models.BookingAccepted},
		From:      s.now(),
		Ascending: true,
		Limit:     listCap,
	}
	return s.list(ctx, actor, f)
}

// History lists closed bookings, most recent first.
func (s *DefaultBookingService) History(ctx context.Context, actor models.Principal) ([]models.Booking, error) {
	f := bookingRepo.ListFilter{Statuses: historyStatuses, Limit: listCap}
	return s.list(ctx, actor, f)
}

func (s *DefaultBookingService) list(ctx context.Context, actor models.Principal, f bookingRepo.ListFilter) ([]models.Booking, error) {
	if err := scope(actor, &f); err != nil {
		return nil, err
	}
	list, _, err := s.Bookings.List(ctx, f)
	if err != nil {
		return nil, utils.NewInternal("failed to list bookings", err)
	}
	if list == nil {
		list = []models.Booking{}
	}
	return list, nil
}

// Delete hard-deletes a booking. Admin only.
func (s *DefaultBookingService) Delete(ctx context.Context, actor models.Principal, bookingID string) error {
	if !actor.IsAdmin() {
		return utils.NewForbidden("only an admin can delete bookings")
	}
	err := s.Bookings.Delete(ctx, bookingID)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.NewNotFound(utils.CodeNotFound, fmt.Sprintf("booking %s not found", bookingID))
	}
	if err != nil {
		return utils.NewInternal("failed to delete booking", err)
	}
	s.Logger.Info("booking deleted", zap.String("bookingId", bookingID), zap.String("actor", actor.ID))
	s.invalidate(ctx, bookingID)
	return nil
}

func (s *DefaultBookingService) ProviderStats(ctx context.Context, actor models.Principal, providerID string) (*bookingRepo.JobStats, error) {
	if !actor.IsAdmin() && !actor.Is(providerID) {
		return nil, utils.NewForbidden("not allowed to view this provider's stats")
	}
	js, err := s.Bookings.ProviderJobStats(ctx, providerID)
	if err != nil {
		return nil, utils.NewInternal("failed to compute provider stats", err)
	}
	return js, nil
}
