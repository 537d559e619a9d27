package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/surendar2011/courseApp/internal/auth"
	"github.com/surendar2011/courseApp/internal/domain/principal"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

// AuthMiddleware holds one verifier per role. The two gates deliberately use
// different credential conventions: user clients send the raw token in a
// header literally named "token", admin clients send the standard
// "Authorization: Bearer <token>". This asymmetry is part of the wire
// contract, not an accident.
type AuthMiddleware struct {
	user  TokenVerifier
	admin TokenVerifier
}

func NewAuthMiddleware(user, admin TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{user: user, admin: admin}
}

// RequireUser reads the "token" header and verifies it against the user
// secret.
func (m *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("token"))

		m.verify(c, m.user, principal.RoleUser, raw)
	}
}

// RequireAdmin reads the Authorization header (Bearer scheme) and verifies
// it against the admin secret.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c)
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))

		m.verify(c, m.admin, principal.RoleAdmin, raw)
	}
}

func (m *AuthMiddleware) verify(c *gin.Context, verifier TokenVerifier, role principal.Role, raw string) {
	if raw == "" {
		abortUnauthorized(c)
		return
	}

	claims, err := verifier.VerifyToken(raw)

	if err != nil {
		abortUnauthorized(c)
		return
	}

	// Stash the verified identity on the context
	c.Set(CtxPrincipalID, claims.PrincipalID)
	c.Set(CtxRole, string(role))

	c.Next()
}

// every failure mode (missing, malformed, bad signature, wrong role, expired)
// collapses into this single response so callers learn nothing about which
// check tripped
func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": "You are not signed in.",
		},
	})
}

// Optional helpers so handlers don't need to know the magic keys.

func PrincipalIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxPrincipalID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxRole)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
