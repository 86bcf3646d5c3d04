package auth

import (
	"fmt"
	"time"

	"github.com/samuelcg20/Apt/internal/config"
	"github.com/samuelcg20/Apt/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

type Claims struct {
	Role domain.Role `json:"role,omitempty"`
	Kind TokenKind   `json:"kind"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenCodec signs access and refresh tokens with separate HS256 keys
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenCodec(cfg config.AuthConfig) *TokenCodec {
	return &TokenCodec{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

// WithClock replaces the clock used for issuing and verifying
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	c.now = now
	return c
}

func (c *TokenCodec) IssuePair(subjectID uuid.UUID, role domain.Role) (TokenPair, error) {
	access, err := c.sign(subjectID, role, KindAccess)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := c.sign(subjectID, "", KindRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (c *TokenCodec) sign(subjectID uuid.UUID, role domain.Role, kind TokenKind) (string, error) {
	secret, ttl := c.keyFor(kind)
	now := c.now()

	claims := Claims{
		Role: role,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}

func (c *TokenCodec) keyFor(kind TokenKind) ([]byte, time.Duration) {
	if kind == KindRefresh {
		return c.refreshSecret, c.refreshTTL
	}
	return c.accessSecret, c.accessTTL
}

// Verify reports whether token is a valid, unexpired token of the given kind.
// Every failure collapses to (nil, false).
func (c *TokenCodec) Verify(token string, kind TokenKind) (*Claims, bool) {
	if token == "" {
		return nil, false
	}
	secret, _ := c.keyFor(kind)

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, false
	}
	if claims.Kind != kind || claims.Subject == "" {
		return nil, false
	}
	return claims, true
}
