// Package application handles students applying to tasks and companies
// reviewing those applications.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
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
	ErrTaskNotFound           = apperr.NotFound("Task not found")
	ErrTaskNotOpen            = apperr.BadRequest("Task is not open for applications")
	ErrProfileRequired        = apperr.BadRequest("Student profile not found. Please create your profile first.")
	ErrAlreadyApplied         = apperr.Conflict("You have already applied to this task")
	ErrStudentProfileNotFound = apperr.NotFound("Student profile not found")
	ErrTaskNotOwned           = apperr.NotFound("Task not found or unauthorized")
	ErrApplicationNotFound    = apperr.NotFound("Application not found or unauthorized")
	ErrInvalidStatus          = apperr.BadRequest("Invalid status")
)

type Service struct {
	tasks        domain.TaskStore
	profiles     domain.ProfileStore
	applications domain.ApplicationStore
	views        *enrich.Assembler
	events       *events.Emitter
	metrics      *metrics.Metrics
	logger       *slog.Logger
	now          func() time.Time
}

func NewService(stores domain.Stores, emitter *events.Emitter, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		tasks:        stores.Tasks,
		profiles:     stores.Profiles,
		applications: stores.Applications,
		views:        enrich.New(stores),
		events:       emitter,
		metrics:      m,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Apply submits the student's application; checks run in the order
// task exists, task open, profile exists, not yet applied.
func (s *Service) Apply(ctx context.Context, userID, taskID uuid.UUID) (*domain.ApplicationDetails, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if t.Status != domain.TaskOpen {
		return nil, ErrTaskNotOpen
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if _, err := s.applications.GetByTaskAndStudent(ctx, taskID, profile.ID); err == nil {
		return nil, ErrAlreadyApplied
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check application: %w", err)
	}

	now := s.now()
	app := &domain.Application{
		ID:        uuid.New(),
		TaskID:    taskID,
		StudentID: profile.ID,
		Status:    domain.ApplicationApplied,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			return nil, ErrAlreadyApplied
		case errors.Is(err, domain.ErrNotFound):
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.metrics.Business.RecordApplicationSubmitted(ctx)
	s.events.Emit(ctx, events.ApplicationCreated, userID, app.ID, map[string]interface{}{
		"taskId":    taskID,
		"studentId": profile.ID,
	})

	return s.views.Application(ctx, *app, enrich.ApplicationOptions{Student: true, Task: true})
}

func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, page pagination.Params) (*ListResponse, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrStudentProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	apps, total, err := s.applications.List(ctx, domain.ApplicationFilter{
		StudentID: &profile.ID,
		Offset:    page.Offset(),
		Limit:     page.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	views, err := s.views.Applications(ctx, apps, enrich.ApplicationOptions{Task: true})
	if err != nil {
		return nil, err
	}
	return &ListResponse{Applications: views, Pagination: page.Result(total)}, nil
}

func (s *Service) ListForTask(ctx context.Context, companyID, taskID uuid.UUID, page pagination.Params) (*ListResponse, error) {
	if _, err := s.ownedTask(ctx, companyID, taskID); err != nil {
		return nil, err
	}

	apps, total, err := s.applications.List(ctx, domain.ApplicationFilter{
		TaskID: &taskID,
		Offset: page.Offset(),
		Limit:  page.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	views, err := s.views.Applications(ctx, apps, enrich.ApplicationOptions{Student: true})
	if err != nil {
		return nil, err
	}
	return &ListResponse{Applications: views, Pagination: page.Result(total)}, nil
}

func (s *Service) ownedTask(ctx context.Context, companyID, taskID uuid.UUID) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrTaskNotOwned
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if t.CompanyID != companyID {
		return nil, ErrTaskNotOwned
	}
	return t, nil
}

// UpdateStatus lets the company owning the task move an application to any status
func (s *Service) UpdateStatus(ctx context.Context, companyID, applicationID uuid.UUID, status domain.ApplicationStatus) (*domain.ApplicationDetails, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	if _, err := s.ownedTask(ctx, companyID, app.TaskID); err != nil {
		if errors.Is(err, ErrTaskNotOwned) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	updated, err := s.applications.UpdateStatus(ctx, applicationID, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	s.metrics.Business.RecordApplicationStatusChanged(ctx, string(status))
	s.events.Emit(ctx, events.ApplicationStatusChanged, companyID, updated.ID, map[string]interface{}{
		"from": app.Status,
		"to":   status,
	})

	return s.views.Application(ctx, *updated, enrich.ApplicationOptions{Student: true})
}

func (s *Service) Withdraw(ctx context.Context, userID, applicationID uuid.UUID) error {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrStudentProfileNotFound
		}
		return fmt.Errorf("failed to get profile: %w", err)
	}

	app, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("failed to get application: %w", err)
	}
	if app.StudentID != profile.ID {
		return ErrApplicationNotFound
	}

	if err := s.applications.Delete(ctx, applicationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("failed to delete application: %w", err)
	}

	s.events.Emit(ctx, events.ApplicationWithdrawn, userID, applicationID, map[string]interface{}{
		"taskId": app.TaskID,
	})
	return nil
}
