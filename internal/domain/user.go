package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleCompany Role = "COMPANY"
)

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleCompany
}

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Email        string    `bun:"email,unique,notnull" json:"email"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"` // Never expose password in JSON
	Role         Role      `bun:"role,notnull" json:"role"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

// UserSummary is the public projection embedded in other resources
type UserSummary struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Role      Role       `json:"role,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Email: u.Email, Role: u.Role}
}
