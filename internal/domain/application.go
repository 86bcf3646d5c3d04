package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ApplicationStatus string

const (
	ApplicationApplied  ApplicationStatus = "APPLIED"
	ApplicationAccepted ApplicationStatus = "ACCEPTED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationApplied, ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}

// Application links a student profile to a task; (task_id, student_id) is unique
type Application struct {
	bun.BaseModel `bun:"table:applications,alias:a"`

	ID        uuid.UUID         `bun:"id,pk,type:uuid" json:"id"`
	TaskID    uuid.UUID         `bun:"task_id,type:uuid,notnull,unique:applications_task_student" json:"taskId"`
	StudentID uuid.UUID         `bun:"student_id,type:uuid,notnull,unique:applications_task_student" json:"studentId"`
	Status    ApplicationStatus `bun:"status,notnull,default:'APPLIED'" json:"status"`
	CreatedAt time.Time         `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time         `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}
