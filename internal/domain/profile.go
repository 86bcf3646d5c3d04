package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type StudentProfile struct {
	bun.BaseModel `bun:"table:student_profiles,alias:sp"`

	ID          uuid.UUID          `bun:"id,pk,type:uuid" json:"id"`
	UserID      uuid.UUID          `bun:"user_id,type:uuid,unique,notnull" json:"userId"`
	Name        string             `bun:"name,notnull" json:"name"`
	University  string             `bun:"university,notnull" json:"university"`
	YearOfStudy int                `bun:"year_of_study,notnull" json:"yearOfStudy"`
	Skills      []string           `bun:"skills,array" json:"skills"`
	Bio         *string            `bun:"bio" json:"bio,omitempty"`
	CreatedAt   time.Time          `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt   time.Time          `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
	Projects    []PortfolioProject `bun:"rel:has-many,join:id=student_id" json:"projects"`
}

type PortfolioProject struct {
	bun.BaseModel `bun:"table:portfolio_projects,alias:pp"`

	ID          uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	StudentID   uuid.UUID `bun:"student_id,type:uuid,notnull" json:"studentId"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description,notnull" json:"description"`
	Link        *string   `bun:"link" json:"link"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
