package task

import (
	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/pagination"
)

type CreateRequest struct {
	Title        string            `json:"title" validate:"required"`
	Description  string            `json:"description" validate:"required"`
	Domain       domain.TaskDomain `json:"domain" validate:"required,oneof=MARKETING CODING UIUX FINANCE"`
	Duration     string            `json:"duration" validate:"required"`
	Deliverables string            `json:"deliverables" validate:"required"`
}

// UpdateRequest changes only the non-empty fields
type UpdateRequest struct {
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Domain       domain.TaskDomain `json:"domain" validate:"omitempty,oneof=MARKETING CODING UIUX FINANCE"`
	Duration     string            `json:"duration"`
	Deliverables string            `json:"deliverables"`
	Status       domain.TaskStatus `json:"status" validate:"omitempty,oneof=OPEN CLOSED"`
}

// Query filters the public task list
type Query struct {
	Domain *domain.TaskDomain
	Status *domain.TaskStatus
	Page   pagination.Params
}

type TaskResponse struct {
	Message string              `json:"message,omitempty"`
	Task    *domain.TaskDetails `json:"task"`
}

type ListResponse struct {
	Tasks      []domain.TaskDetails  `json:"tasks"`
	Pagination pagination.Pagination `json:"pagination"`
}
