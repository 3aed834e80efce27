// Package review handles customer reviews of products and their moderation.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"plantco/database/repository"
	productRepo "plantco/database/repository/product"
	reviewRepo "plantco/database/repository/review"
	"plantco/models"
	"plantco/services/notification"
	"plantco/services/stats"
	"plantco/services/tasks"
	"plantco/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	Create(ctx context.Context, actor models.Principal, req CreateReviewRequest) (*models.Review, error)
	Moderate(ctx context.Context, actor models.Principal, reviewID string, req ModerateRequest) (*models.Review, error)
	Get(ctx context.Context, reviewID string) (*models.Review, error)
}

type CreateReviewRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Title     string `json:"title,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

type ModerateRequest struct {
	Status models.ReviewStatus `json:"status" binding:"required"`
	Note   string              `json:"note,omitempty"`
}

// Service implements ReviewService. Stats and Notifier may be nil.
type Service struct {
	Reviews  reviewRepo.ReviewRepository
	Products productRepo.ProductRepository
	Stats    stats.Dispatcher
	Notifier notification.Notifier
	Logger   *zap.Logger
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Create stores a pending review. A customer reviews a product at most once.
func (s *Service) Create(ctx context.Context, actor models.Principal, req CreateReviewRequest) (*models.Review, error) {
	if actor.Role != models.RoleCustomer {
		return nil, utils.NewForbidden("only customers can review products")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, utils.NewValidationError(utils.CodeInvalidInput, "rating must be between 1 and 5")
	}
	p, err := s.Products.GetByID(ctx, req.ProductID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFound(utils.CodeProductNotFound, fmt.Sprintf("product %s not found", req.ProductID))
	}
	if err != nil {
		return nil, utils.NewInternal("failed to load product", err)
	}

	now := s.now()
	rv := &models.Review{
		ID:         uuid.New().String(),
		ProductID:  p.ID,
		VendorID:   p.VendorID,
		CustomerID: actor.ID,
		Rating:     req.Rating,
		Title:      strings.TrimSpace(req.Title),
		Comment:    strings.TrimSpace(req.Comment),
		Status:     models.ReviewPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Reviews.Create(ctx, rv); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.NewConflict(utils.CodeAlreadyReviewed, "you have already reviewed this product")
		}
		return nil, utils.NewInternal("failed to save review", err)
	}
	s.Logger.Info("review submitted",
		zap.String("reviewId", rv.ID), zap.String("productId", rv.ProductID), zap.Int("rating", rv.Rating))
	return rv, nil
}

// Moderate approves or rejects a review and recomputes the product and vendor
// ratings, which only count approved reviews.
func (s *Service) Moderate(ctx context.Context, actor models.Principal, reviewID string, req ModerateRequest) (*models.Review, error) {
	if !actor.IsAdmin() {
		return nil, utils.NewForbidden("only admins can moderate reviews")
	}
	if !req.Status.Valid() || req.Status == models.ReviewPending {
		return nil, utils.NewValidationError(utils.CodeInvalidInput, fmt.Sprintf("cannot moderate a review to %q", req.Status))
	}
	rv, err := s.Reviews.SetStatus(ctx, reviewID, req.Status, req.Note)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFound(utils.CodeNotFound, fmt.Sprintf("review %s not found", reviewID))
	}
	if err != nil {
		return nil, utils.NewInternal("failed to moderate review", err)
	}

	s.Logger.Info("review moderated",
		zap.String("reviewId", rv.ID), zap.String("status", string(rv.Status)), zap.String("admin", actor.ID))
	if s.Stats != nil {
		p := tasks.StatsPayload{VendorID: rv.VendorID, ProductID: rv.ProductID}
		if err := s.Stats.Dispatch(ctx, tasks.TypeReviewAdded, p); err != nil {
			s.Logger.Error("failed to dispatch stats job",
				zap.String("type", tasks.TypeReviewAdded), zap.String("reviewId", rv.ID), zap.Error(err))
		}
	}
	if s.Notifier != nil {
		customerID := rv.CustomerID
		body := fmt.Sprintf("Your review was %s.", rv.Status)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.Notifier.NotifyUser(ctx, customerID, "Review update", body,
				map[string]string{"type": "review_moderated", "reviewId": reviewID}); err != nil {
				s.Logger.Warn("failed to send notification", zap.String("userId", customerID), zap.Error(err))
			}
		}()
	}
	return rv, nil
}

func (s *Service) Get(ctx context.Context, reviewID string) (*models.Review, error) {
	rv, err := s.Reviews.GetByID(ctx, reviewID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFound(utils.CodeNotFound, fmt.Sprintf("review %s not found", reviewID))
	}
	if err != nil {
		return nil, utils.NewInternal("failed to load review", err)
	}
	return rv, nil
}
