package review

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
	router.Route("/reviews", func(r chi.Router) {
		r.Get("/user/{userId}", h.ListForUser)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", h.Create)
			r.Get("/my-reviews", h.ListMine)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	var req CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if IsSelfReview(current.ID, req.RevieweeID) {
		httputil.RespondWithServiceError(w, r, h.logger, ErrSelfReview)
		return
	}
	if err := httputil.Validate(h.validate, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.gate.Check(maintenance.ReviewsCreate); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	review, err := h.service.Create(r.Context(), current.ID, req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, ReviewResponse{Message: "Review created successfully", Review: review})
}

func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := httputil.URLParamUUID(r, "userId", "user")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	resp, err := h.service.ListForUser(r.Context(), userID, pagination.FromRequest(r))
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	resp, err := h.service.ListByReviewer(r.Context(), current.ID, pagination.FromRequest(r))
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	id, err := httputil.URLParamUUID(r, "id", "review")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	var req UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.gate.Check(maintenance.ReviewsUpdate); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	review, err := h.service.Update(r.Context(), current.ID, id, req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, ReviewResponse{Message: "Review updated successfully", Review: review})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	current, _ := auth.UserFromContext(r.Context())

	id, err := httputil.URLParamUUID(r, "id", "review")
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}
	if err := h.gate.Check(maintenance.ReviewsDelete); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), current.ID, id); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithMessage(w, http.StatusOK, "Review deleted successfully", nil)
}
