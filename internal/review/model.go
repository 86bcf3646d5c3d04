package review

import (
	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/pagination"
)

type CreateRequest struct {
	RevieweeID string  `json:"revieweeId" validate:"required,uuid"`
	Rating     int     `json:"rating" validate:"required,min=1,max=5"`
	Comment    *string `json:"comment"`
}

// UpdateRequest leaves absent fields unchanged
type UpdateRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type ReviewResponse struct {
	Message string                `json:"message"`
	Review  *domain.ReviewDetails `json:"review"`
}

type UserReviewsResponse struct {
	Reviews       []domain.ReviewDetails `json:"reviews"`
	AverageRating float64                `json:"averageRating"`
	TotalReviews  int                    `json:"totalReviews"`
	Pagination    pagination.Pagination  `json:"pagination"`
}

type ListResponse struct {
	Reviews    []domain.ReviewDetails `json:"reviews"`
	Pagination pagination.Pagination  `json:"pagination"`
}
