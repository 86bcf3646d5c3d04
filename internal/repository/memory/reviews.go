package memory

import (
	"context"
	"time"

	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/pagination"

	"github.com/google/uuid"
)

type reviewStore struct{ db *DB }

func (s *reviewStore) Create(_ context.Context, review *domain.Review) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.reviews[review.ID]; ok {
		return domain.ErrConflict
	}
	for _, existing := range s.db.reviews {
		if existing.ReviewerID == review.ReviewerID && existing.RevieweeID == review.RevieweeID {
			return domain.ErrConflict
		}
	}

	stamp(&review.CreatedAt)
	stamp(&review.UpdatedAt)

	cp := *review
	s.db.reviews[cp.ID] = &cp
	s.db.track(cp.ID)
	return nil
}

func (s *reviewStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Review, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	r, ok := s.db.reviews[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *reviewStore) List(_ context.Context, filter domain.ReviewFilter) ([]domain.Review, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	matched := make([]domain.Review, 0)
	for _, r := range s.db.reviews {
		if filter.ReviewerID != nil && r.ReviewerID != *filter.ReviewerID {
			continue
		}
		if filter.RevieweeID != nil && r.RevieweeID != *filter.RevieweeID {
			continue
		}
		matched = append(matched, *r)
	}

	newestFirst(s.db, matched, func(r domain.Review) (uuid.UUID, time.Time) { return r.ID, r.CreatedAt })
	return pagination.Window(matched, filter.Offset, filter.Limit), len(matched), nil
}

func (s *reviewStore) AverageRating(_ context.Context, revieweeID uuid.UUID) (float64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	sum, count := 0, 0
	for _, r := range s.db.reviews {
		if r.RevieweeID == revieweeID {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return float64(sum) / float64(count), nil
}

func (s *reviewStore) Update(_ context.Context, review *domain.Review) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.reviews[review.ID]
	if !ok {
		return domain.ErrNotFound
	}
	existing.Rating = review.Rating
	existing.Comment = review.Comment
	existing.UpdatedAt = review.UpdatedAt
	return nil
}

func (s *reviewStore) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.reviews[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.db.reviews, id)
	return nil
}
