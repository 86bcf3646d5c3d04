// Package review lets any user rate another user once.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samuelcg20/Apt/internal/apperr"
	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/enrich"
	"github.com/samuelcg20/Apt/internal/events"
	"github.com/samuelcg20/Apt/internal/metrics"
	"github.com/samuelcg20/Apt/internal/pagination"

	"github.com/google/uuid"
)

var (
	ErrSelfReview      = apperr.BadRequest("Cannot review yourself")
	ErrUserNotFound    = apperr.NotFound("User not found")
	ErrAlreadyReviewed = apperr.Conflict("You have already reviewed this user")
	ErrReviewNotFound  = apperr.NotFound("Review not found or unauthorized")
	ErrRatingRange     = apperr.BadRequest("Rating must be between 1 and 5")
)

type Service struct {
	users   domain.UserStore
	reviews domain.ReviewStore
	views   *enrich.Assembler
	events  *events.Emitter
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(stores domain.Stores, emitter *events.Emitter, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		users:   stores.Users,
		reviews: stores.Reviews,
		views:   enrich.New(stores),
		events:  emitter,
		metrics: m,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// IsSelfReview compares the raw revieweeId before any other validation
func IsSelfReview(reviewerID uuid.UUID, rawRevieweeID string) bool {
	id, err := uuid.Parse(strings.TrimSpace(rawRevieweeID))
	return err == nil && id == reviewerID
}

func (s *Service) Create(ctx context.Context, reviewerID uuid.UUID, req CreateRequest) (*domain.ReviewDetails, error) {
	revieweeID, err := uuid.Parse(req.RevieweeID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if revieweeID == reviewerID {
		return nil, ErrSelfReview
	}

	if _, err := s.users.GetByID(ctx, revieweeID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	comment := optionalComment(req.Comment)

	now := s.now()
	r := &domain.Review{
		ID:         uuid.New(),
		ReviewerID: reviewerID,
		RevieweeID: revieweeID,
		Rating:     req.Rating,
		Comment:    comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.metrics.Business.RecordReviewCreated(ctx)
	s.events.Emit(ctx, events.ReviewCreated, reviewerID, r.ID, map[string]interface{}{
		"revieweeId": revieweeID,
		"rating":     r.Rating,
	})

	return s.one(ctx, *r, true, true)
}

func (s *Service) one(ctx context.Context, r domain.Review, reviewer, reviewee bool) (*domain.ReviewDetails, error) {
	views, err := s.views.Reviews(ctx, []domain.Review{r}, reviewer, reviewee)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListForUser returns reviews received by userID with their average
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, page pagination.Params) (*UserReviewsResponse, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	reviews, total, err := s.reviews.List(ctx, domain.ReviewFilter{
		RevieweeID: &userID,
		Offset:     page.Offset(),
		Limit:      page.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	avg, err := s.reviews.AverageRating(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to average ratings: %w", err)
	}

	views, err := s.views.Reviews(ctx, reviews, true, false)
	if err != nil {
		return nil, err
	}
	return &UserReviewsResponse{
		Reviews:       views,
		AverageRating: avg,
		TotalReviews:  total,
		Pagination:    page.Result(total),
	}, nil
}

// ListByReviewer returns reviews written by reviewerID
func (s *Service) ListByReviewer(ctx context.Context, reviewerID uuid.UUID, page pagination.Params) (*ListResponse, error) {
	reviews, total, err := s.reviews.List(ctx, domain.ReviewFilter{
		ReviewerID: &reviewerID,
		Offset:     page.Offset(),
		Limit:      page.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	views, err := s.views.Reviews(ctx, reviews, false, true)
	if err != nil {
		return nil, err
	}
	return &ListResponse{Reviews: views, Pagination: page.Result(total)}, nil
}

func (s *Service) owned(ctx context.Context, reviewerID, id uuid.UUID) (*domain.Review, error) {
	r, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	if r.ReviewerID != reviewerID {
		return nil, ErrReviewNotFound
	}
	return r, nil
}

func (s *Service) Update(ctx context.Context, reviewerID, id uuid.UUID, req UpdateRequest) (*domain.ReviewDetails, error) {
	if req.Rating != nil && (*req.Rating < domain.MinRating || *req.Rating > domain.MaxRating) {
		return nil, ErrRatingRange
	}

	r, err := s.owned(ctx, reviewerID, id)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		r.Rating = *req.Rating
	}
	// an empty comment clears it
	if req.Comment != nil {
		r.Comment = optionalComment(req.Comment)
	}
	r.UpdatedAt = s.now()

	if err := s.reviews.Update(ctx, r); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return s.one(ctx, *r, true, true)
}

func (s *Service) Delete(ctx context.Context, reviewerID, id uuid.UUID) error {
	if _, err := s.owned(ctx, reviewerID, id); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

func optionalComment(c *string) *string {
	if c == nil || *c == "" {
		return nil
	}
	return c
}
