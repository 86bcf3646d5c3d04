// Package profile manages student profiles and their portfolio projects.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/samuelcg20/Apt/internal/apperr"
	"github.com/samuelcg20/Apt/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound        = apperr.NotFound("Profile not found")
	ErrStudentProfileNotFound = apperr.NotFound("Student profile not found")
	ErrProjectNotFound        = apperr.NotFound("Project not found")
)

type Service struct {
	users    domain.UserStore
	profiles domain.ProfileStore
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(stores domain.Stores, logger *slog.Logger) *Service {
	return &Service{
		users:    stores.Users,
		profiles: stores.Profiles,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Upsert creates the caller's profile or replaces its fields
func (s *Service) Upsert(ctx context.Context, userID uuid.UUID, req UpsertRequest) (*domain.StudentProfile, error) {
	now := s.now()
	p := &domain.StudentProfile{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        req.Name,
		University:  req.University,
		YearOfStudy: req.YearOfStudy,
		Skills:      req.Skills,
		Bio:         req.Bio,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}

	saved, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload profile: %w", err)
	}
	s.logger.InfoContext(ctx, "profile saved", "profile_id", saved.ID, "user_id", userID)
	return saved, nil
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*domain.StudentProfile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// GetPublic returns the profile of userID with its owner's summary
func (s *Service) GetPublic(ctx context.Context, userID uuid.UUID) (*domain.StudentDetails, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	createdAt := user.CreatedAt
	return &domain.StudentDetails{
		StudentProfile: *p,
		User:           &domain.UserSummary{ID: user.ID, Email: user.Email, CreatedAt: &createdAt},
	}, nil
}

func (s *Service) ownProfile(ctx context.Context, userID uuid.UUID) (*domain.StudentProfile, error) {
	p, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrStudentProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (s *Service) AddProject(ctx context.Context, userID uuid.UUID, req ProjectRequest) (*domain.PortfolioProject, error) {
	p, err := s.ownProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	project := &domain.PortfolioProject{
		ID:          uuid.New(),
		StudentID:   p.ID,
		Title:       req.Title,
		Description: req.Description,
		Link:        req.link(),
		CreatedAt:   s.now(),
	}
	if err := s.profiles.CreateProject(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

func (s *Service) UpdateProject(ctx context.Context, userID, projectID uuid.UUID, req ProjectRequest) (*domain.PortfolioProject, error) {
	p, err := s.ownProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	project := &domain.PortfolioProject{
		ID:          projectID,
		StudentID:   p.ID,
		Title:       req.Title,
		Description: req.Description,
		Link:        req.link(),
	}
	if err := s.profiles.UpdateProject(ctx, project); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

func (s *Service) DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error {
	p, err := s.ownProfile(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.profiles.DeleteProject(ctx, p.ID, projectID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
