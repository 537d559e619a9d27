package principal

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Principal struct {
	ID           string    `json:"id"`
	Role         Role      `json:"role"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("principal not found")

// same email may exist once per role, never twice within one
var ErrEmailTaken = errors.New("email already taken")

type SignUpRequest struct {
	Email     string `json:"email" binding:"required,email,max=100"`
	Password  string `json:"password" binding:"required,min=5,max=100"`
	FirstName string `json:"firstName" binding:"required,min=1,max=30"`
	LastName  string `json:"lastName" binding:"required,min=1,max=30"`
}

type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// NormalizeEmail trims whitespace and lowercases so the per-role uniqueness
// check is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// A factory to build a Principal from the incoming DTO (hash is computed by the caller)

func NewFromSignUpRequest(req SignUpRequest, role Role, passwordHash string) Principal {
	now := time.Now().UTC()
	return Principal{
		ID:           uuid.NewString(),
		Role:         role,
		Email:        NormalizeEmail(req.Email),
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
