// Package auth issues and validates the bearer tokens that carry a user's
// identity and farm grants.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	appctx "farmstock/internal/core/context"
	"farmstock/internal/core/id"
)

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration
}

// DefaultJWTConfig returns default JWT configuration.
func DefaultJWTConfig(secret string) JWTConfig {
	return JWTConfig{
		Secret:         secret,
		Issuer:         "farmstock",
		AccessTokenTTL: 12 * time.Hour,
	}
}

// Claims represents JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string   `json:"uid"`
	Email   string   `json:"email,omitempty"`
	Roles   []string `json:"roles,omitempty"`
	FarmIDs []string `json:"farms,omitempty"`
	IsAdmin bool     `json:"adm,omitempty"`
}

// TokenSubject describes who a token is issued for.
type TokenSubject struct {
	UserID  id.ID
	Email   string
	Roles   []string
	FarmIDs []id.ID
	IsAdmin bool
}

// JWTService handles JWT operations.
type JWTService struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTService creates a new JWT service.
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{config: config, now: time.Now}
}

// GenerateAccessToken signs an HS256 access token for the subject.
func (s *JWTService) GenerateAccessToken(sub TokenSubject) (string, time.Time, error) {
	if id.IsNil(sub.UserID) {
		return "", time.Time{}, errors.New("token subject has no user id")
	}

	now := s.now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	farms := make([]string, 0, len(sub.FarmIDs))
	for _, f := range sub.FarmIDs {
		farms = append(farms, f.String())
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   sub.UserID.String(),
			ID:        id.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:  sub.UserID.String(),
		Email:   sub.Email,
		Roles:   sub.Roles,
		FarmIDs: farms,
		IsAdmin: sub.IsAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates a token and returns the user context it carries.
func (s *JWTService) ValidateToken(tokenString string) (*appctx.UserContext, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	},
		jwt.WithIssuer(s.config.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if _, err := id.Parse(claims.UserID); err != nil {
		return nil, fmt.Errorf("invalid user id claim: %w", err)
	}

	return &appctx.UserContext{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Roles:     claims.Roles,
		FarmIDs:   claims.FarmIDs,
		IsAdmin:   claims.IsAdmin,
		SessionID: claims.ID,
	}, nil
}
