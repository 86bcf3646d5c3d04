package auth

import (
	"log/slog"
	"net/http"

	"github.com/samuelcg20/Apt/internal/httputil"
	"github.com/samuelcg20/Apt/internal/ratelimit"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service        *Service
	validate       *validator.Validate
	limiter        ratelimit.Limiter
	loginRule      ratelimit.Rule
	trustForwarded bool
	logger         *slog.Logger
}

// NewHandler keys login attempts on client IP and email. trustForwarded
// takes the IP from X-Forwarded-For and must only be set behind a proxy.
func NewHandler(service *Service, limiter ratelimit.Limiter, loginRule ratelimit.Rule, trustForwarded bool, logger *slog.Logger) *Handler {
	return &Handler{
		service:        service,
		validate:       httputil.NewValidator(),
		limiter:        limiter,
		loginRule:      loginRule,
		trustForwarded: trustForwarded,
		logger:         logger,
	}
}

// RegisterRoutes mounts /auth. authenticate guards /me and /logout.
func (h *Handler) RegisterRoutes(router chi.Router, authenticate func(http.Handler) http.Handler) {
	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/me", h.Me)
			r.Post("/logout", h.Logout)
		})
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httputil.DecodeAndValidate(r, h.validate, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeAndValidate(r, h.validate, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	ip := ratelimit.ClientIP(r, h.trustForwarded)
	if !h.loginRule.Allow(r.Context(), h.limiter, ip, normalizeEmail(req.Email)) {
		h.logger.WarnContext(r.Context(), "login rate limited", "ip", ip)
		httputil.RespondWithError(w, http.StatusTooManyRequests, "Too many requests")
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user logged in", "user_id", resp.User.ID)
	httputil.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, pair)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	current, ok := UserFromContext(r.Context())
	if !ok {
		httputil.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	resp, err := h.service.Me(r.Context(), current)
	if err != nil {
		httputil.RespondWithServiceError(w, r, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, resp)
}

// Logout is stateless; clients drop their tokens
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	httputil.RespondWithMessage(w, http.StatusOK, "Logout successful", nil)
}
