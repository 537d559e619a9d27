package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/surendar2011/courseApp/internal/domain/principal"
)

type Claims struct {
	PrincipalID string `json:"sub"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens for exactly one role. The API runs two of
// these, each with its own secret, so a user token can never pass the admin
// gate (and vice versa) even if the claims were forged.
type Manager struct {
	role   principal.Role
	secret []byte
	ttl    time.Duration
}

func NewManager(role principal.Role, secret string, ttl time.Duration) *Manager {
	return &Manager{
		role:   role,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (m *Manager) GenerateToken(principalID string) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		PrincipalID: principalID,
		Role:        string(m.role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			Subject:   principalID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) VerifyToken(tokenStr string) (claims *Claims, err error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256

		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})

	if err != nil {
		return
	}
	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		err = errors.New("invalid token")
		return
	}

	// belt on top of the per-role secret: the embedded role must match too
	if claims.Role != string(m.role) {
		claims = nil
		err = errors.New("wrong role")
		return
	}

	if claims.PrincipalID == "" {
		claims = nil
		err = errors.New("missing subject")
		return
	}

	return
}
