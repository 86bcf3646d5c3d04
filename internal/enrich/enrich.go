// Package enrich joins stored records with the related records shown in
// API responses.
package enrich

import (
	"context"
	"errors"
	"fmt"

	"github.com/samuelcg20/Apt/internal/domain"

	"github.com/google/uuid"
)

type Assembler struct {
	users        domain.UserStore
	profiles     domain.ProfileStore
	tasks        domain.TaskStore
	applications domain.ApplicationStore
}

func New(stores domain.Stores) *Assembler {
	return &Assembler{
		users:        stores.Users,
		profiles:     stores.Profiles,
		tasks:        stores.Tasks,
		applications: stores.Applications,
	}
}

// TaskOptions selects which relations a task view carries
type TaskOptions struct {
	Company      bool
	Applications bool
}

// userCache avoids refetching the same user within one response
type userCache map[uuid.UUID]*domain.UserSummary

func (a *Assembler) summary(ctx context.Context, cache userCache, id uuid.UUID) (*domain.UserSummary, error) {
	if s, ok := cache[id]; ok {
		return s, nil
	}
	u, err := a.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cache[id] = nil
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load user %s: %w", id, err)
	}
	s := &domain.UserSummary{ID: u.ID, Email: u.Email}
	cache[id] = s
	return s, nil
}

// User returns the {id, email, role} view of a user, nil if it is gone
func (a *Assembler) User(ctx context.Context, id uuid.UUID) (*domain.UserSummary, error) {
	u, err := a.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load user %s: %w", id, err)
	}
	return u.Summary(), nil
}

func (a *Assembler) student(ctx context.Context, cache userCache, profileID uuid.UUID) (*domain.StudentDetails, error) {
	p, err := a.profiles.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load profile %s: %w", profileID, err)
	}
	user, err := a.summary(ctx, cache, p.UserID)
	if err != nil {
		return nil, err
	}
	return &domain.StudentDetails{StudentProfile: *p, User: user}, nil
}

func (a *Assembler) Task(ctx context.Context, task domain.Task, opts TaskOptions) (*domain.TaskDetails, error) {
	views, err := a.Tasks(ctx, []domain.Task{task}, opts)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Tasks builds task views in the given order
func (a *Assembler) Tasks(ctx context.Context, tasks []domain.Task, opts TaskOptions) ([]domain.TaskDetails, error) {
	cache := userCache{}
	out := make([]domain.TaskDetails, 0, len(tasks))

	for _, t := range tasks {
		view := domain.TaskDetails{Task: t}

		if opts.Company {
			company, err := a.summary(ctx, cache, t.CompanyID)
			if err != nil {
				return nil, err
			}
			view.Company = company
		}

		if opts.Applications {
			apps, _, err := a.applications.List(ctx, domain.ApplicationFilter{TaskID: &t.ID})
			if err != nil {
				return nil, fmt.Errorf("failed to list applications: %w", err)
			}
			view.Applications = make([]domain.ApplicationDetails, 0, len(apps))
			for _, app := range apps {
				student, err := a.student(ctx, cache, app.StudentID)
				if err != nil {
					return nil, err
				}
				view.Applications = append(view.Applications, domain.ApplicationDetails{Application: app, Student: student})
			}
			view.ApplicationCount = len(apps)
		} else {
			count, err := a.applications.CountByTask(ctx, t.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to count applications: %w", err)
			}
			view.ApplicationCount = count
		}

		out = append(out, view)
	}
	return out, nil
}

// ApplicationOptions selects which relations an application view carries
type ApplicationOptions struct {
	Student bool
	// Task includes the task and its company
	Task bool
}

func (a *Assembler) Application(ctx context.Context, app domain.Application, opts ApplicationOptions) (*domain.ApplicationDetails, error) {
	views, err := a.Applications(ctx, []domain.Application{app}, opts)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (a *Assembler) Applications(ctx context.Context, apps []domain.Application, opts ApplicationOptions) ([]domain.ApplicationDetails, error) {
	cache := userCache{}
	out := make([]domain.ApplicationDetails, 0, len(apps))

	for _, app := range apps {
		view := domain.ApplicationDetails{Application: app}

		if opts.Student {
			student, err := a.student(ctx, cache, app.StudentID)
			if err != nil {
				return nil, err
			}
			view.Student = student
		}

		if opts.Task {
			task, err := a.tasks.GetByID(ctx, app.TaskID)
			switch {
			case err == nil:
				company, err := a.summary(ctx, cache, task.CompanyID)
				if err != nil {
					return nil, err
				}
				view.Task = &domain.TaskDetails{Task: *task, Company: company}
			case !errors.Is(err, domain.ErrNotFound):
				return nil, fmt.Errorf("failed to load task %s: %w", app.TaskID, err)
			}
		}

		out = append(out, view)
	}
	return out, nil
}

// Reviews attaches reviewer and/or reviewee summaries
func (a *Assembler) Reviews(ctx context.Context, reviews []domain.Review, reviewer, reviewee bool) ([]domain.ReviewDetails, error) {
	cache := map[uuid.UUID]*domain.UserSummary{}
	load := func(id uuid.UUID) (*domain.UserSummary, error) {
		if s, ok := cache[id]; ok {
			return s, nil
		}
		s, err := a.User(ctx, id)
		if err != nil {
			return nil, err
		}
		cache[id] = s
		return s, nil
	}

	out := make([]domain.ReviewDetails, 0, len(reviews))
	for _, r := range reviews {
		view := domain.ReviewDetails{Review: r}
		var err error
		if reviewer {
			if view.Reviewer, err = load(r.ReviewerID); err != nil {
				return nil, err
			}
		}
		if reviewee {
			if view.Reviewee, err = load(r.RevieweeID); err != nil {
				return nil, err
			}
		}
		out = append(out, view)
	}
	return out, nil
}
