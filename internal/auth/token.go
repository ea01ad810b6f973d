// Package auth issues and verifies session tokens and extracts the caller
// identity from HTTP requests.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/bilingual-blog-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the token payload
type Claims struct {
	Role     models.Role `json:"role"`
	Username string      `json:"username"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a manager with the shared secret and token lifetime
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the lifetime of issued tokens
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for user
func (m *TokenManager) Issue(user *models.User) (string, error) {
	now := m.now()
	claims := Claims{
		Role:     user.Role,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses token and returns the identity it carries
func (m *TokenManager) Verify(token string) (*models.Identity, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return &models.Identity{
		UserID:   claims.Subject,
		Role:     claims.Role,
		Username: claims.Username,
	}, nil
}
