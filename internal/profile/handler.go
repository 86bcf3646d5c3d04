package profile

import (
	"log/slog"
	"net/http"

	"github.com/samuelcg20/Apt/internal/auth"
	"github.com/samuelcg20/Apt/internal/httputil"
	"github.com/samuelcg20/Apt/internal/maintenance"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service  *Service
	gate     *maintenance.Gate
	validate *validator.Validate
	logger   *slog.Logger
}

func NewHandler(service *Service, gate *maintenance.Gate, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		gate:     gate,
		validate: httputil.NewValidator(),
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router, authenticate func(http.Handler) http.Handler) {
	router.Route("/users/profile", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authenticate, auth.RequireStudent())
			r.Put("/", h.Upsert)
			r.Get("/", h.Get)
			r.Post("/projects", h.AddProject)
			r.Put("/projects/{projectId}", h.UpdateProject)
			r.Delete("/projects/{projectId}", h.DeleteProject)
		})
		r.Get("/{userId}", h.GetPublic)
	})
}

func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	var req UpsertRequest
	if err := httputil.DecodeAndValidate(r, h.validate, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.gate.Check(maintenance.ProfileUpsert); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	p, err := h.service.Upsert(r.Context(), current.ID, req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, ProfileResponse{Message: "Profile updated successfully", Profile: p})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	p, err := h.service.Get(r.Context(), current.ID)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, ProfileResponse{Profile: p})
}

func (h *Handler) GetPublic(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.URLParamUUID(r, "userId", "user")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	p, err := h.service.GetPublic(r.Context(), userID)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, PublicProfileResponse{Profile: p})
}

func (h *Handler) AddProject(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	var req ProjectRequest
	if err := httputil.DecodeAndValidate(r, h.validate, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.gate.Check(maintenance.ProjectsCreate); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	project, err := h.service.AddProject(r.Context(), current.ID, req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, ProjectResponse{Message: "Project added successfully", Project: project})
}

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	projectID, err := httputil.URLParamUUID(r, "projectId", "project")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	var req ProjectRequest
	if err := httputil.DecodeAndValidate(r, h.validate, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.gate.Check(maintenance.ProjectsUpdate); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	project, err := h.service.UpdateProject(r.Context(), current.ID, projectID, req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, ProjectResponse{Message: "Project updated successfully", Project: project})
}

func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	projectID, err := httputil.URLParamUUID(r, "projectId", "project")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.gate.Check(maintenance.ProjectsDelete); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	if err := h.service.DeleteProject(r.Context(), current.ID, projectID); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithMessage(w, http.StatusOK, "Project deleted successfully", nil)
}
