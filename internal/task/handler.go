package task

import (
	"log/slog"
	"net/http"

	"github.com/samuelcg20/Apt/internal/auth"
	"github.com/samuelcg20/Apt/internal/httputil"
	"github.com/samuelcg20/Apt/internal/maintenance"
	"github.com/samuelcg20/Apt/internal/pagination"

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
	router.Route("/tasks", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, auth.RequireCompany())
			r.Post("/", h.Create)
			r.Get("/company/my-tasks", h.ListMine)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r.URL.Query().Get("domain"), r.URL.Query().Get("status"), pagination.FromRequest(r))
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	resp, err := h.service.List(r.Context(), q)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	resp, err := h.service.ListByCompany(r.Context(), current.ID, pagination.FromRequest(r))
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamUUID(r, "id", "task")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, TaskResponse{Task: t})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	var req CreateRequest
	if err := httputil.DecodeAndValidate(r, h.validate, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.gate.Check(maintenance.TasksCreate); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	t, err := h.service.Create(r.Context(), current.ID, req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, TaskResponse{Message: "Task created successfully", Task: t})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	id, err := httputil.URLParamUUID(r, "id", "task")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	var req UpdateRequest
	if err := httputil.DecodeAndValidate(r, h.validate, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.gate.Check(maintenance.TasksUpdate); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	t, err := h.service.Update(r.Context(), current.ID, id, req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, TaskResponse{Message: "Task updated successfully", Task: t})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	id, err := httputil.URLParamUUID(r, "id", "task")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.gate.Check(maintenance.TasksDelete); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), current.ID, id); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithMessage(w, http.StatusOK, "Task deleted successfully", nil)
}
