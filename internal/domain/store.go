package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Stores report these two errors so services can stay storage agnostic.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

type UserStore interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type ProfileStore interface {
	// Upsert inserts or updates the profile keyed on UserID. On update the
	// stored ID and CreatedAt are written back into profile.
	Upsert(ctx context.Context, profile *StudentProfile) error
	GetByID(ctx context.Context, id uuid.UUID) (*StudentProfile, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*StudentProfile, error)

	CreateProject(ctx context.Context, project *PortfolioProject) error
	// UpdateProject matches on ID and StudentID
	UpdateProject(ctx context.Context, project *PortfolioProject) error
	DeleteProject(ctx context.Context, studentID, projectID uuid.UUID) error
}

type TaskFilter struct {
	Domain    *TaskDomain
	Status    *TaskStatus
	CompanyID *uuid.UUID
	Offset    int
	Limit     int
}

type TaskStore interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	// List returns the requested window newest first, plus the unpaged total
	List(ctx context.Context, filter TaskFilter) ([]Task, int, error)
	// Update matches on ID and CompanyID
	Update(ctx context.Context, task *Task) error
	// Delete removes the task and its applications
	Delete(ctx context.Context, id, companyID uuid.UUID) error
}

type ApplicationFilter struct {
	TaskID    *uuid.UUID
	StudentID *uuid.UUID
	Offset    int
	Limit     int
}

type ApplicationStore interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*Application, error)
	GetByTaskAndStudent(ctx context.Context, taskID, studentID uuid.UUID) (*Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]Application, int, error)
	CountByTask(ctx context.Context, taskID uuid.UUID) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status ApplicationStatus) (*Application, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReviewFilter struct {
	ReviewerID *uuid.UUID
	RevieweeID *uuid.UUID
	Offset     int
	Limit      int
}

type ReviewStore interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*Review, error)
	List(ctx context.Context, filter ReviewFilter) ([]Review, int, error)
	// AverageRating is 0 when the user has no reviews
	AverageRating(ctx context.Context, revieweeID uuid.UUID) (float64, error)
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Stores bundles one implementation of every port
type Stores struct {
	Users        UserStore
	Profiles     ProfileStore
	Tasks        TaskStore
	Applications ApplicationStore
	Reviews      ReviewStore

	// Ping reports whether the backing store is reachable
	Ping func(ctx context.Context) error
}
