package application

import (
	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/pagination"
)

type StatusRequest struct {
	Status domain.ApplicationStatus `json:"status"`
}

type ApplicationResponse struct {
	Message     string                     `json:"message"`
	Application *domain.ApplicationDetails `json:"application"`
}

type ListResponse struct {
	Applications []domain.ApplicationDetails `json:"applications"`
	Pagination   pagination.Pagination       `json:"pagination"`
}
