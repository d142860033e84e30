package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"egunkari/internal/cache"
	"egunkari/internal/config"
	"egunkari/internal/model"
)

// AuthService issues and verifies session tokens. Claims are trusted until the
// token expires; the user store is never consulted on verification.
type AuthService struct {
	config   *config.Config
	denylist cache.SessionDenylist // nil when Redis is not configured
	now      func() time.Time
}

func NewAuthService(cfg *config.Config, denylist cache.SessionDenylist) *AuthService {
	return &AuthService{
		config:   cfg,
		denylist: denylist,
		now:      time.Now,
	}
}

// TokenTTL is how long an issued session stays valid.
func (s *AuthService) TokenTTL() time.Duration {
	return s.config.JWTExpiresIn
}

// Issue signs a session token embedding the user's public identity.
func (s *AuthService) Issue(user model.PublicUser) (string, error) {
	now := s.now()
	claims := model.Claims{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.Username,
		Avatar:   user.Avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.JWTExpiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify decodes a session token. Every failure (malformed, expired, bad
// signature, revoked) is reported as ErrInvalidSession.
func (s *AuthService) Verify(ctx context.Context, tokenString string) (*model.Claims, error) {
	if tokenString == "" {
		return nil, model.ErrInvalidSession
	}

	claims := &model.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, model.ErrInvalidSession
	}

	if s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			log.Printf("[AuthService] Verify denylist check FAILED: jti=%s err=%v", claims.ID, err)
		} else if revoked {
			return nil, model.ErrInvalidSession
		}
	}

	return claims, nil
}

// Revoke denylists the session until it would have expired anyway.
// Without a denylist, logout only clears the cookie.
func (s *AuthService) Revoke(ctx context.Context, claims *model.Claims) error {
	if s.denylist == nil || claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return s.denylist.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
