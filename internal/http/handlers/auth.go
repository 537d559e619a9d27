package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/surendar2011/courseApp/internal/auth"
	"github.com/surendar2011/courseApp/internal/config"
	"github.com/surendar2011/courseApp/internal/domain/principal"
	"github.com/surendar2011/courseApp/internal/security"
)

type PrincipalStore interface {
	Create(ctx context.Context, p principal.Principal) (principal.Principal, error)
	GetByEmail(ctx context.Context, role principal.Role, email string) (principal.Principal, error)
}

type AuthHandler struct {
	principals PrincipalStore
	userJWT    *auth.Manager
	adminJWT   *auth.Manager
}

func NewAuthHandler(principals PrincipalStore, userJWT, adminJWT *auth.Manager) *AuthHandler {
	return &AuthHandler{
		principals: principals,
		userJWT:    userJWT,
		adminJWT:   adminJWT,
	}
}

// role-specific entry points; the flows are identical apart from the role and
// signing secret

func (h *AuthHandler) UserSignUp(ctx *gin.Context) {
	h.signUp(ctx, principal.RoleUser)
}

func (h *AuthHandler) AdminSignUp(ctx *gin.Context) {
	h.signUp(ctx, principal.RoleAdmin)
}

func (h *AuthHandler) UserSignIn(ctx *gin.Context) {
	h.signIn(ctx, principal.RoleUser, h.userJWT)
}

func (h *AuthHandler) AdminSignIn(ctx *gin.Context) {
	h.signIn(ctx, principal.RoleAdmin, h.adminJWT)
}

func (h *AuthHandler) signUp(ctx *gin.Context, role principal.Role) {
	var req principal.SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		RespondInternal(ctx, "Could not sign up")
		return
	}

	p := principal.NewFromSignUpRequest(req, role, hash)

	_, err = h.principals.Create(cctx, p)

	if err != nil {
		if errors.Is(err, principal.ErrEmailTaken) {
			RespondError(ctx, http.StatusBadRequest, "email_taken", "Email is already in use.", nil)
			return
		}

		RespondInternal(ctx, "Could not sign up")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Signed up successfully",
	})
}

func (h *AuthHandler) signIn(ctx *gin.Context, role principal.Role, jwt *auth.Manager) {
	var req principal.SignInRequest

	if !BindJSON(ctx, &req) {
		return
	}
	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	found, err := h.principals.GetByEmail(cctx, role, req.Email)
	if err != nil {
		// unknown email and wrong password produce the same answer
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	err = security.CheckPassword(found.PasswordHash, req.Password)

	if err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	token, err := jwt.GenerateToken(found.ID)

	if err != nil {
		RespondInternal(ctx, "Could not generate token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}
