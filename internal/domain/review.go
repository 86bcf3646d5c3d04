package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is one user's rating of another; (reviewer_id, reviewee_id) is unique
type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:r"`

	ID         uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	ReviewerID uuid.UUID `bun:"reviewer_id,type:uuid,notnull,unique:reviews_reviewer_reviewee" json:"reviewerId"`
	RevieweeID uuid.UUID `bun:"reviewee_id,type:uuid,notnull,unique:reviews_reviewer_reviewee" json:"revieweeId"`
	Rating     int       `bun:"rating,notnull" json:"rating"`
	Comment    *string   `bun:"comment" json:"comment"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}
