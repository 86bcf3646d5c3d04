package memory

import (
	"context"
	"time"

	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/pagination"

	"github.com/google/uuid"
)

type applicationStore struct{ db *DB }

func (s *applicationStore) Create(_ context.Context, app *domain.Application) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.applications[app.ID]; ok {
		return domain.ErrConflict
	}
	for _, existing := range s.db.applications {
		if existing.TaskID == app.TaskID && existing.StudentID == app.StudentID {
			return domain.ErrConflict
		}
	}
	if _, ok := s.db.tasks[app.TaskID]; !ok {
		return domain.ErrNotFound
	}

	if app.Status == "" {
		app.Status = domain.ApplicationApplied
	}
	stamp(&app.CreatedAt)
	stamp(&app.UpdatedAt)

	cp := *app
	s.db.applications[cp.ID] = &cp
	s.db.track(cp.ID)
	return nil
}

func (s *applicationStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Application, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	a, ok := s.db.applications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *applicationStore) GetByTaskAndStudent(_ context.Context, taskID, studentID uuid.UUID) (*domain.Application, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, a := range s.db.applications {
		if a.TaskID == taskID && a.StudentID == studentID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *applicationStore) List(_ context.Context, filter domain.ApplicationFilter) ([]domain.Application, int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	matched := make([]domain.Application, 0)
	for _, a := range s.db.applications {
		if filter.TaskID != nil && a.TaskID != *filter.TaskID {
			continue
		}
		if filter.StudentID != nil && a.StudentID != *filter.StudentID {
			continue
		}
		matched = append(matched, *a)
	}

	newestFirst(s.db, matched, func(a domain.Application) (uuid.UUID, time.Time) { return a.ID, a.CreatedAt })
	return pagination.Window(matched, filter.Offset, filter.Limit), len(matched), nil
}

func (s *applicationStore) CountByTask(_ context.Context, taskID uuid.UUID) (int, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	count := 0
	for _, a := range s.db.applications {
		if a.TaskID == taskID {
			count++
		}
	}
	return count, nil
}

func (s *applicationStore) UpdateStatus(_ context.Context, id uuid.UUID, status domain.ApplicationStatus) (*domain.Application, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	a, ok := s.db.applications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()

	cp := *a
	return &cp, nil
}

func (s *applicationStore) Delete(_ context.Context, id uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.applications[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.db.applications, id)
	return nil
}
