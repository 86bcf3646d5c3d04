package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samuelcg20/Apt/internal/apperr"
	"github.com/samuelcg20/Apt/internal/domain"
	"github.com/samuelcg20/Apt/internal/events"
	"github.com/samuelcg20/Apt/internal/metrics"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = apperr.Conflict("User already exists")
	ErrInvalidCredentials = apperr.Unauthenticated("Invalid credentials")
	ErrRefreshRequired    = apperr.Unauthenticated("Refresh token required")
	ErrInvalidRefresh     = apperr.Forbidden("Invalid refresh token")
	ErrUserNotFound       = apperr.Forbidden("User not found")
)

type Service struct {
	users      domain.UserStore
	profiles   domain.ProfileStore
	codec      *TokenCodec
	bcryptCost int
	events     *events.Emitter
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

func NewService(stores domain.Stores, codec *TokenCodec, bcryptCost int, emitter *events.Emitter, m *metrics.Metrics, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		users:      stores.Users,
		profiles:   stores.Profiles,
		codec:      codec,
		bcryptCost: bcryptCost,
		events:     emitter,
		metrics:    m,
		logger:     logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         req.Role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.codec.IssuePair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	s.metrics.Business.RecordUserRegistered(ctx, string(user.Role))
	s.events.Emit(ctx, events.UserRegistered, user.ID, user.ID, map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	})
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "role", user.Role)

	return &AuthResponse{
		Message:      "User created successfully",
		User:         publicUser(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.metrics.Business.RecordLogin(ctx, false)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.metrics.Business.RecordLogin(ctx, false)
		return nil, ErrInvalidCredentials
	}

	pair, err := s.codec.IssuePair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	s.metrics.Business.RecordLogin(ctx, true)
	return &AuthResponse{
		Message:      "Login successful",
		User:         publicUser(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

// Refresh rotates a valid refresh token into a new pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return TokenPair{}, ErrRefreshRequired
	}

	claims, ok := s.codec.Verify(refreshToken, KindRefresh)
	if !ok {
		return TokenPair{}, ErrInvalidRefresh
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return TokenPair{}, ErrUserNotFound
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return TokenPair{}, ErrUserNotFound
		}
		return TokenPair{}, fmt.Errorf("failed to look up user: %w", err)
	}

	return s.codec.IssuePair(user.ID, user.Role)
}

func (s *Service) Me(ctx context.Context, current CurrentUser) (*MeResponse, error) {
	user, err := s.users.GetByID(ctx, current.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	me := MeUser{UserSummary: *publicUser(user)}
	if user.Role == domain.RoleStudent {
		profile, err := s.profiles.GetByUserID(ctx, user.ID)
		switch {
		case err == nil:
			me.StudentProfile = profile
		case !errors.Is(err, domain.ErrNotFound):
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
	}
	return &MeResponse{User: me}, nil
}
