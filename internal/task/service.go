// Package task lets companies post tasks and anyone browse them.
package task

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
	ErrTaskNotFound  = apperr.NotFound("Task not found")
	ErrTaskNotOwned  = apperr.NotFound("Task not found or unauthorized")
	ErrInvalidDomain = apperr.BadRequest("Invalid domain")
	ErrInvalidStatus = apperr.BadRequest("Invalid status")
)

type Service struct {
	tasks   domain.TaskStore
	views   *enrich.Assembler
	events  *events.Emitter
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(stores domain.Stores, emitter *events.Emitter, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		tasks:   stores.Tasks,
		views:   enrich.New(stores),
		events:  emitter,
		metrics: m,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Create(ctx context.Context, companyID uuid.UUID, req CreateRequest) (*domain.TaskDetails, error) {
	now := s.now()
	t := &domain.Task{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Title:        req.Title,
		Description:  req.Description,
		Domain:       req.Domain,
		Duration:     req.Duration,
		Deliverables: req.Deliverables,
		Status:       domain.TaskOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.metrics.Business.RecordTaskCreated(ctx, string(t.Domain))
	s.events.Emit(ctx, events.TaskCreated, companyID, t.ID, map[string]interface{}{
		"title":  t.Title,
		"domain": t.Domain,
	})
	s.logger.InfoContext(ctx, "task created", "task_id", t.ID, "company_id", companyID)

	return s.views.Task(ctx, *t, enrich.TaskOptions{Company: true, Applications: true})
}

// ParseQuery validates the optional domain and status filters
func ParseQuery(rawDomain, rawStatus string, page pagination.Params) (Query, error) {
	q := Query{Page: page}
	if rawDomain != "" {
		d := domain.TaskDomain(rawDomain)
		if !d.Valid() {
			return Query{}, ErrInvalidDomain
		}
		q.Domain = &d
	}
	if rawStatus != "" {
		st := domain.TaskStatus(rawStatus)
		if !st.Valid() {
			return Query{}, ErrInvalidStatus
		}
		q.Status = &st
	}
	return q, nil
}

func (s *Service) List(ctx context.Context, q Query) (*ListResponse, error) {
	tasks, total, err := s.tasks.List(ctx, domain.TaskFilter{
		Domain: q.Domain,
		Status: q.Status,
		Offset: q.Page.Offset(),
		Limit:  q.Page.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	views, err := s.views.Tasks(ctx, tasks, enrich.TaskOptions{Company: true})
	if err != nil {
		return nil, err
	}
	return &ListResponse{Tasks: views, Pagination: q.Page.Result(total)}, nil
}

// ListByCompany returns the company's own tasks with their applications
func (s *Service) ListByCompany(ctx context.Context, companyID uuid.UUID, page pagination.Params) (*ListResponse, error) {
	tasks, total, err := s.tasks.List(ctx, domain.TaskFilter{
		CompanyID: &companyID,
		Offset:    page.Offset(),
		Limit:     page.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	views, err := s.views.Tasks(ctx, tasks, enrich.TaskOptions{Applications: true})
	if err != nil {
		return nil, err
	}
	return &ListResponse{Tasks: views, Pagination: page.Result(total)}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.TaskDetails, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return s.views.Task(ctx, *t, enrich.TaskOptions{Company: true, Applications: true})
}

func (s *Service) Update(ctx context.Context, companyID, id uuid.UUID, req UpdateRequest) (*domain.TaskDetails, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrTaskNotOwned
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if t.CompanyID != companyID {
		return nil, ErrTaskNotOwned
	}

	changed := map[string]interface{}{}
	set := func(field string, dst *string, v string) {
		if v != "" {
			*dst = v
			changed[field] = v
		}
	}
	set("title", &t.Title, req.Title)
	set("description", &t.Description, req.Description)
	set("duration", &t.Duration, req.Duration)
	set("deliverables", &t.Deliverables, req.Deliverables)
	if req.Domain != "" {
		t.Domain = req.Domain
		changed["domain"] = req.Domain
	}
	if req.Status != "" {
		t.Status = req.Status
		changed["status"] = req.Status
	}
	t.UpdatedAt = s.now()

	if err := s.tasks.Update(ctx, t); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrTaskNotOwned
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.events.Emit(ctx, events.TaskUpdated, companyID, t.ID, changed)
	return s.views.Task(ctx, *t, enrich.TaskOptions{Company: true})
}

// Delete removes the task and its applications
func (s *Service) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if err := s.tasks.Delete(ctx, id, companyID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrTaskNotOwned
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.events.Emit(ctx, events.TaskDeleted, companyID, id, nil)
	s.logger.InfoContext(ctx, "task deleted", "task_id", id, "company_id", companyID)
	return nil
}
