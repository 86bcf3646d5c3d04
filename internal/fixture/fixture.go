// Package fixture loads the demo marketplace into a store.
package fixture

import (
	"context"
	"fmt"
	"time"

	"github.com/samuelcg20/Apt/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is shared by every fixture account
const DemoPassword = "password123"

var namespace = uuid.MustParse("6f1c2a4e-5d0b-4f53-9a57-2b9f0d6c8e11")

// ID derives a stable id for a fixture key such as "user_1"
func ID(key string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(key))
}

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ptr(s string) *string { return &s }

type Data struct {
	Users        []domain.User
	Profiles     []domain.StudentProfile
	Projects     []domain.PortfolioProject
	Tasks        []domain.Task
	Applications []domain.Application
	Reviews      []domain.Review
}

// Demo returns the fixture set; password hashes are left empty
func Demo() Data {
	return Data{
		Users: []domain.User{
			{ID: ID("user_1"), Email: "john.doe@nus.edu.sg", Role: domain.RoleStudent, CreatedAt: at("2024-01-15T10:30:00Z")},
			{ID: ID("user_2"), Email: "sarah.wong@ntu.edu.sg", Role: domain.RoleStudent, CreatedAt: at("2024-01-20T14:15:00Z")},
			{ID: ID("user_3"), Email: "mike.chen@company.com", Role: domain.RoleCompany, CreatedAt: at("2024-01-10T09:00:00Z")},
			{ID: ID("user_4"), Email: "lisa.tan@startup.sg", Role: domain.RoleCompany, CreatedAt: at("2024-01-25T16:45:00Z")},
		},
		Profiles: []domain.StudentProfile{
			{
				ID:          ID("profile_1"),
				UserID:      ID("user_1"),
				Name:        "John Doe",
				University:  "National University of Singapore",
				YearOfStudy: 3,
				Skills:      []string{"React", "Node.js", "Python", "UI/UX Design"},
				Bio:         ptr("Passionate computer science student with experience in full-stack development and design."),
				CreatedAt:   at("2024-01-15T10:35:00Z"),
				UpdatedAt:   at("2024-01-15T10:35:00Z"),
			},
			{
				ID:          ID("profile_2"),
				UserID:      ID("user_2"),
				Name:        "Sarah Wong",
				University:  "Nanyang Technological University",
				YearOfStudy: 2,
				Skills:      []string{"JavaScript", "Vue.js", "Data Analysis", "Marketing"},
				Bio:         ptr("Business student with strong technical skills and marketing experience."),
				CreatedAt:   at("2024-01-20T14:20:00Z"),
				UpdatedAt:   at("2024-01-20T14:20:00Z"),
			},
		},
		Projects: []domain.PortfolioProject{
			{
				ID:          ID("project_1"),
				StudentID:   ID("profile_1"),
				Title:       "E-commerce Platform",
				Description: "Built a full-stack e-commerce platform using React and Node.js",
				Link:        ptr("https://github.com/johndoe/ecommerce"),
				CreatedAt:   at("2024-01-16T10:00:00Z"),
			},
			{
				ID:          ID("project_2"),
				StudentID:   ID("profile_1"),
				Title:       "Mobile App Design",
				Description: "Designed a mobile app interface for food delivery service",
				Link:        ptr("https://figma.com/design/foodapp"),
				CreatedAt:   at("2024-01-20T14:00:00Z"),
			},
			{
				ID:          ID("project_3"),
				StudentID:   ID("profile_2"),
				Title:       "Data Visualization Dashboard",
				Description: "Created interactive dashboards for business analytics using Vue.js",
				Link:        ptr("https://github.com/sarahwong/dashboard"),
				CreatedAt:   at("2024-01-22T09:00:00Z"),
			},
		},
		Tasks: []domain.Task{
			{
				ID:           ID("task_1"),
				CompanyID:    ID("user_3"),
				Title:        "Develop Mobile App Landing Page",
				Description:  "We need a modern, responsive landing page for our new mobile app. The page should showcase key features, include a signup form, and be optimized for conversion.",
				Domain:       domain.DomainUIUX,
				Duration:     "2 weeks",
				Deliverables: "Complete landing page with responsive design, contact form, and analytics integration",
				Status:       domain.TaskOpen,
				CreatedAt:    at("2024-01-28T10:00:00Z"),
			},
			{
				ID:           ID("task_2"),
				CompanyID:    ID("user_4"),
				Title:        "Social Media Marketing Campaign",
				Description:  "Create and execute a 4-week social media marketing campaign for our new product launch. Need content creation, scheduling, and performance tracking.",
				Domain:       domain.DomainMarketing,
				Duration:     "4 weeks",
				Deliverables: "Complete marketing strategy, content calendar, and performance report",
				Status:       domain.TaskOpen,
				CreatedAt:    at("2024-01-30T14:30:00Z"),
			},
			{
				ID:           ID("task_3"),
				CompanyID:    ID("user_3"),
				Title:        "Financial Analysis Dashboard",
				Description:  "Build a comprehensive financial dashboard that tracks revenue, expenses, and key metrics. Should include data visualization and export capabilities.",
				Domain:       domain.DomainFinance,
				Duration:     "3 weeks",
				Deliverables: "Interactive dashboard with real-time data, export functionality, and user documentation",
				Status:       domain.TaskClosed,
				CreatedAt:    at("2024-01-15T08:00:00Z"),
			},
			{
				ID:           ID("task_4"),
				CompanyID:    ID("user_4"),
				Title:        "API Development",
				Description:  "Design and build a REST API for our booking service with authentication and documentation.",
				Domain:       domain.DomainCoding,
				Duration:     "3 weeks",
				Deliverables: "Deployed API, OpenAPI document and integration tests",
				Status:       domain.TaskOpen,
				CreatedAt:    at("2024-02-01T09:00:00Z"),
			},
		},
		Applications: []domain.Application{
			{ID: ID("app_1"), TaskID: ID("task_1"), StudentID: ID("profile_1"), Status: domain.ApplicationApplied, CreatedAt: at("2024-01-29T11:00:00Z")},
			{ID: ID("app_2"), TaskID: ID("task_2"), StudentID: ID("profile_2"), Status: domain.ApplicationAccepted, CreatedAt: at("2024-01-31T09:15:00Z")},
		},
		Reviews: []domain.Review{
			{
				ID:         ID("review_1"),
				ReviewerID: ID("user_3"),
				RevieweeID: ID("user_1"),
				Rating:     5,
				Comment:    ptr("Excellent work! John delivered high-quality code and was very responsive to feedback."),
				CreatedAt:  at("2024-02-15T10:00:00Z"),
			},
			{
				ID:         ID("review_2"),
				ReviewerID: ID("user_4"),
				RevieweeID: ID("user_2"),
				Rating:     4,
				Comment:    ptr("Great marketing campaign! Sarah was creative and met all deadlines."),
				CreatedAt:  at("2024-02-20T14:30:00Z"),
			},
		},
	}
}

// Seed writes the demo set through the store ports
func Seed(ctx context.Context, stores domain.Stores, bcryptCost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	data := Demo()
	for i := range data.Users {
		u := data.Users[i]
		u.PasswordHash = string(hash)
		if err := stores.Users.Create(ctx, &u); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.Email, err)
		}
	}
	for i := range data.Profiles {
		if err := stores.Profiles.Upsert(ctx, &data.Profiles[i]); err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}
	}
	for i := range data.Projects {
		if err := stores.Profiles.CreateProject(ctx, &data.Projects[i]); err != nil {
			return fmt.Errorf("failed to seed project: %w", err)
		}
	}
	for i := range data.Tasks {
		t := &data.Tasks[i]
		t.UpdatedAt = t.CreatedAt
		if err := stores.Tasks.Create(ctx, t); err != nil {
			return fmt.Errorf("failed to seed task: %w", err)
		}
	}
	for i := range data.Applications {
		a := &data.Applications[i]
		a.UpdatedAt = a.CreatedAt
		if err := stores.Applications.Create(ctx, a); err != nil {
			return fmt.Errorf("failed to seed application: %w", err)
		}
	}
	for i := range data.Reviews {
		r := &data.Reviews[i]
		r.UpdatedAt = r.CreatedAt
		if err := stores.Reviews.Create(ctx, r); err != nil {
			return fmt.Errorf("failed to seed review: %w", err)
		}
	}
	return nil
}
