package memory

import (
	"context"
	"sort"

	"github.com/samuelcg20/Apt/internal/domain"

	"github.com/google/uuid"
)

type profileStore struct{ db *DB }

func (s *profileStore) Upsert(_ context.Context, profile *domain.StudentProfile) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stamp(&profile.UpdatedAt)

	for _, existing := range s.db.profiles {
		if existing.UserID != profile.UserID {
			continue
		}
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt

		existing.Name = profile.Name
		existing.University = profile.University
		existing.YearOfStudy = profile.YearOfStudy
		existing.Skills = append([]string(nil), profile.Skills...)
		existing.Bio = profile.Bio
		existing.UpdatedAt = profile.UpdatedAt
		return nil
	}

	stamp(&profile.CreatedAt)
	cp := *profile
	cp.Skills = append([]string(nil), profile.Skills...)
	cp.Projects = nil
	s.db.profiles[cp.ID] = &cp
	s.db.track(cp.ID)
	return nil
}

// must hold mu
func (s *profileStore) withProjects(p *domain.StudentProfile) *domain.StudentProfile {
	cp := *p
	cp.Skills = append([]string(nil), p.Skills...)
	cp.Projects = make([]domain.PortfolioProject, 0)
	for _, proj := range s.db.projects {
		if proj.StudentID == p.ID {
			cp.Projects = append(cp.Projects, *proj)
		}
	}
	sort.SliceStable(cp.Projects, func(i, j int) bool {
		a, b := cp.Projects[i], cp.Projects[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return s.db.order[a.ID] < s.db.order[b.ID]
	})
	return &cp
}

func (s *profileStore) GetByID(_ context.Context, id uuid.UUID) (*domain.StudentProfile, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	p, ok := s.db.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.withProjects(p), nil
}

func (s *profileStore) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.StudentProfile, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	for _, p := range s.db.profiles {
		if p.UserID == userID {
			return s.withProjects(p), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *profileStore) CreateProject(_ context.Context, project *domain.PortfolioProject) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.profiles[project.StudentID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := s.db.projects[project.ID]; ok {
		return domain.ErrConflict
	}

	stamp(&project.CreatedAt)
	cp := *project
	s.db.projects[cp.ID] = &cp
	s.db.track(cp.ID)
	return nil
}

func (s *profileStore) UpdateProject(_ context.Context, project *domain.PortfolioProject) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.projects[project.ID]
	if !ok || existing.StudentID != project.StudentID {
		return domain.ErrNotFound
	}
	existing.Title = project.Title
	existing.Description = project.Description
	existing.Link = project.Link
	project.CreatedAt = existing.CreatedAt
	return nil
}

func (s *profileStore) DeleteProject(_ context.Context, studentID, projectID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.projects[projectID]
	if !ok || existing.StudentID != studentID {
		return domain.ErrNotFound
	}
	delete(s.db.projects, projectID)
	return nil
}
