package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type TaskDomain string

const (
	DomainMarketing TaskDomain = "MARKETING"
	DomainCoding    TaskDomain = "CODING"
	DomainUIUX      TaskDomain = "UIUX"
	DomainFinance   TaskDomain = "FINANCE"
)

func (d TaskDomain) Valid() bool {
	switch d {
	case DomainMarketing, DomainCoding, DomainUIUX, DomainFinance:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskOpen   TaskStatus = "OPEN"
	TaskClosed TaskStatus = "CLOSED"
)

func (s TaskStatus) Valid() bool {
	return s == TaskOpen || s == TaskClosed
}

type Task struct {
	bun.BaseModel `bun:"table:tasks,alias:t"`

	ID           uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	CompanyID    uuid.UUID  `bun:"company_id,type:uuid,notnull" json:"companyId"`
	Title        string     `bun:"title,notnull" json:"title"`
	Description  string     `bun:"description,notnull" json:"description"`
	Domain       TaskDomain `bun:"domain,notnull" json:"domain"`
	Duration     string     `bun:"duration,notnull" json:"duration"`
	Deliverables string     `bun:"deliverables,notnull" json:"deliverables"`
	Status       TaskStatus `bun:"status,notnull,default:'OPEN'" json:"status"`
	CreatedAt    time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time  `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}
