package profile

import (
	"strings"

	"github.com/samuelcg20/Apt/internal/domain"
)

type UpsertRequest struct {
	Name        string   `json:"name" validate:"required"`
	University  string   `json:"university" validate:"required"`
	YearOfStudy int      `json:"yearOfStudy" validate:"required,min=1,max=10"`
	Skills      []string `json:"skills" validate:"required,min=1,dive,required"`
	Bio         *string  `json:"bio"`
}

// ProjectRequest accepts an empty link, which is stored as null
type ProjectRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Link        string `json:"link" validate:"omitempty,url"`
}

func (r ProjectRequest) link() *string {
	link := strings.TrimSpace(r.Link)
	if link == "" {
		return nil
	}
	return &link
}

type ProfileResponse struct {
	Message string                 `json:"message,omitempty"`
	Profile *domain.StudentProfile `json:"profile"`
}

type PublicProfileResponse struct {
	Profile *domain.StudentDetails `json:"profile"`
}

type ProjectResponse struct {
	Message string                   `json:"message"`
	Project *domain.PortfolioProject `json:"project"`
}
