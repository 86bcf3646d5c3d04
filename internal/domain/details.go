package domain

// Response shapes that join a record with its related records.

type StudentDetails struct {
	StudentProfile
	User *UserSummary `json:"user,omitempty"`
}

type ApplicationDetails struct {
	Application
	Student *StudentDetails `json:"student,omitempty"`
	Task    *TaskDetails    `json:"task,omitempty"`
}

type TaskDetails struct {
	Task
	Company          *UserSummary         `json:"company,omitempty"`
	ApplicationCount int                  `json:"applicationCount"`
	Applications     []ApplicationDetails `json:"applications,omitempty"`
}

type ReviewDetails struct {
	Review
	Reviewer *UserSummary `json:"reviewer,omitempty"`
	Reviewee *UserSummary `json:"reviewee,omitempty"`
}
