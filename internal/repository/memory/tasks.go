package memory

import (
	"context"
	"time"

	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/pagination"

	"github.com/google/uuid"
)

type taskStore struct{ db *DB }

func (s *taskStore) Create(_ context.Context, task *domain.Task) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.tasks[task.ID]; ok {
		return domain.ErrConflict
	}
	if task.Status == "" {
		task.Status = domain.TaskOpen
	}
	stamp(&task.CreatedAt)
	stamp(&task.UpdatedAt)

	cp := *task
	s.db.tasks[cp.ID] = &cp
	s.db.track(cp.ID)
	return nil
}

func (s *taskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	t, ok := s.db.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *taskStore) List(_ context.Context, filter domain.TaskFilter) ([]domain.Task, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	matched := make([]domain.Task, 0)
	for _, t := range s.db.tasks {
		if filter.Domain != nil && t.Domain != *filter.Domain {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.CompanyID != nil && t.CompanyID != *filter.CompanyID {
			continue
		}
		matched = append(matched, *t)
	}

	newestFirst(s.db, matched, func(t domain.Task) (uuid.UUID, time.Time) { return t.ID, t.CreatedAt })
	return pagination.Window(matched, filter.Offset, filter.Limit), len(matched), nil
}

func (s *taskStore) Update(_ context.Context, task *domain.Task) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.tasks[task.ID]
	if !ok || existing.CompanyID != task.CompanyID {
		return domain.ErrNotFound
	}

	createdAt := existing.CreatedAt
	*existing = *task
	existing.CreatedAt = createdAt
	return nil
}

func (s *taskStore) Delete(_ context.Context, id, companyID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.tasks[id]
	if !ok || existing.CompanyID != companyID {
		return domain.ErrNotFound
	}

	for appID, app := range s.db.applications {
		if app.TaskID == id {
			delete(s.db.applications, appID)
		}
	}
	delete(s.db.tasks, id)
	return nil
}
