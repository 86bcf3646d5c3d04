package application

import (
	"log/slog"
	"net/http"

	"github.com/samuelcg20/Apt/internal/auth"
	"github.com/samuelcg20/Apt/internal/httputil"
	"github.com/samuelcg20/Apt/internal/maintenance"
	"github.com/samuelcg20/Apt/internal/pagination"
	"github.com/samuelcg20/Apt/internal/ratelimit"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service   *Service
	gate      *maintenance.Gate
	limiter   ratelimit.Limiter
	applyRule ratelimit.Rule
	logger    *slog.Logger
}

func NewHandler(service *Service, gate *maintenance.Gate, limiter ratelimit.Limiter, applyRule ratelimit.Rule, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		gate:      gate,
		limiter:   limiter,
		applyRule: applyRule,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router, authenticate func(http.Handler) http.Handler) {
	router.Route("/applications", func(r chi.Router) {
		r.Use(authenticate)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireStudent())
			r.Post("/apply/{taskId}", h.Apply)
			r.Get("/my-applications", h.ListMine)
			r.Delete("/{id}", h.Withdraw)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireCompany())
			r.Get("/task/{taskId}", h.ListForTask)
			r.Put("/{id}/status", h.UpdateStatus)
		})
	})
}

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	taskID, err := httputil.URLParamUUID(r, "taskId", "task")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.gate.Check(maintenance.ApplicationsApply); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if !h.applyRule.Allow(r.Context(), h.limiter, current.ID.String(), taskID.String()) {
		httputil.RespondWithError(w, http.StatusTooManyRequests, "Too many requests")
		return
	}

	app, err := h.service.Apply(r.Context(), current.ID, taskID)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "application submitted", "application_id", app.ID, "task_id", taskID)
	httputil.RespondWithJSON(w, http.StatusCreated, ApplicationResponse{Message: "Application submitted successfully", Application: app})
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	resp, err := h.service.ListMine(r.Context(), current.ID, pagination.FromRequest(r))
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListForTask(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	taskID, err := httputil.URLParamUUID(r, "taskId", "task")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	resp, err := h.service.ListForTask(r.Context(), current.ID, taskID, pagination.FromRequest(r))
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	id, err := httputil.URLParamUUID(r, "id", "application")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	var req StatusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if !req.Status.Valid() {
		httputil.RespondWithServiceError(w, r, h.logger, ErrInvalidStatus)
		return
	}
	if err := h.gate.Check(maintenance.ApplicationsStatus); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	app, err := h.service.UpdateStatus(r.Context(), current.ID, id, req.Status)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, ApplicationResponse{Message: "Application status updated successfully", Application: app})
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	id, err := httputil.URLParamUUID(r, "id", "application")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.gate.Check(maintenance.ApplicationsWithdraw); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	if err := h.service.Withdraw(r.Context(), current.ID, id); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithMessage(w, http.StatusOK, "Application withdrawn successfully", nil)
}
