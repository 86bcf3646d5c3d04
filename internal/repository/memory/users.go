package memory

import (
	"context"
	"strings"

	"github.com/samuelcg20/Apt/internal/domain"

	"github.com/google/uuid"
)

type userStore struct{ db *DB }

func (s *userStore) Create(_ context.Context, user *domain.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[user.ID]; ok {
		return domain.ErrConflict
	}
	for _, u := range s.db.users {
		if strings.EqualFold(u.Email, user.Email) {
			return domain.ErrConflict
		}
	}

	stamp(&user.CreatedAt)
	cp := *user
	s.db.users[user.ID] = &cp
	s.db.track(user.ID)
	return nil
}

func (s *userStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *userStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, u := range s.db.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}
