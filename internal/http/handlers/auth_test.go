package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/surendar2011/courseApp/internal/auth"
	"github.com/surendar2011/courseApp/internal/domain/principal"
	"github.com/surendar2011/courseApp/internal/http/handlers"
	"github.com/surendar2011/courseApp/internal/security"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

func newUUID() string {
	return uuid.NewString()
}

// Fake repository implementation of the handlers.PrincipalStore and
// handlers.PrincipalReader interfaces

type fakePrincipalsRepo struct {
	createFn     func(ctx context.Context, p principal.Principal) (principal.Principal, error)
	getByEmailFn func(ctx context.Context, role principal.Role, email string) (principal.Principal, error)
	getByIDFn    func(ctx context.Context, role principal.Role, id string) (principal.Principal, error)
}

func (f *fakePrincipalsRepo) Create(ctx context.Context, p principal.Principal) (principal.Principal, error) {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}

	return p, nil
}

func (f *fakePrincipalsRepo) GetByEmail(ctx context.Context, role principal.Role, email string) (principal.Principal, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, role, email)
	}

	return principal.Principal{}, principal.ErrNotFound
}

func (f *fakePrincipalsRepo) GetByID(ctx context.Context, role principal.Role, id string) (principal.Principal, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, role, id)
	}

	return principal.Principal{}, principal.ErrNotFound
}

// small helper function which returns the gin engine to mount one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func testManagers() (*auth.Manager, *auth.Manager) {
	userJWT := auth.NewManager(principal.RoleUser, "user-secret", time.Hour)
	adminJWT := auth.NewManager(principal.RoleAdmin, "admin-secret", time.Hour)

	return userJWT, adminJWT
}

// ---Sign up tests

func TestUserSignUpHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakePrincipalsRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{
				"email": "jane@example.com",
				"password": "secret123",
				"firstName": "Jane",
				"lastName": "Doe"
			}`,
			repoSetUp: func(f *fakePrincipalsRepo) {
				f.createFn = func(ctx context.Context, p principal.Principal) (principal.Principal, error) {
					return p, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "duplicate_email",
			body: `{
				"email": "jane@example.com",
				"password": "secret123",
				"firstName": "Jane",
				"lastName": "Doe"
			}`,
			repoSetUp: func(f *fakePrincipalsRepo) {
				f.createFn = func(ctx context.Context, p principal.Principal) (principal.Principal, error) {
					return principal.Principal{}, principal.ErrEmailTaken
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "validation_error",
			body: `{"email": "not-an-email", "password": "x"}`,
			repoSetUp: func(f *fakePrincipalsRepo) {
				// invalid payload, the repo must not be reached
				f.createFn = func(ctx context.Context, p principal.Principal) (principal.Principal, error) {
					panic("Create called for an invalid payload")
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			body: `{
				"email": "jane@example.com",
				"password": "secret123",
				"firstName": "Jane",
				"lastName": "Doe"
			}`,
			repoSetUp: func(f *fakePrincipalsRepo) {
				f.createFn = func(ctx context.Context, p principal.Principal) (principal.Principal, error) {
					return principal.Principal{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakePrincipalsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			userJWT, adminJWT := testManagers()
			h := handlers.NewAuthHandler(repo, userJWT, adminJWT)

			r := setupRouter(http.MethodPost, "/user/signup", h.UserSignUp)

			w := postJSON(t, r, "/user/signup", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestSignUpStoresRoleAndHashedPassword(t *testing.T) {
	var stored principal.Principal

	repo := &fakePrincipalsRepo{
		createFn: func(ctx context.Context, p principal.Principal) (principal.Principal, error) {
			stored = p
			return p, nil
		},
	}

	userJWT, adminJWT := testManagers()
	h := handlers.NewAuthHandler(repo, userJWT, adminJWT)

	r := setupRouter(http.MethodPost, "/admin/signup", h.AdminSignUp)

	w := postJSON(t, r, "/admin/signup", `{
		"email": "  Boss@Example.COM ",
		"password": "secret123",
		"firstName": "Big",
		"lastName": "Boss"
	}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201, body=%s", w.Code, w.Body.String())
	}

	if stored.Role != principal.RoleAdmin {
		t.Errorf("stored role = %q, want %q", stored.Role, principal.RoleAdmin)
	}

	if stored.Email != "boss@example.com" {
		t.Errorf("stored email = %q, want normalized %q", stored.Email, "boss@example.com")
	}

	if stored.PasswordHash == "secret123" || stored.PasswordHash == "" {
		t.Errorf("password was not hashed, got %q", stored.PasswordHash)
	}

	if err := security.CheckPassword(stored.PasswordHash, "secret123"); err != nil {
		t.Errorf("stored hash does not verify against the original password: %v", err)
	}
}

// ---Sign in tests

func TestUserSignInHandler(t *testing.T) {
	hash, err := security.HashPassword("secret123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	knownID := newUUID()

	known := principal.Principal{
		ID:           knownID,
		Role:         principal.RoleUser,
		Email:        "jane@example.com",
		PasswordHash: hash,
	}

	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakePrincipalsRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"email": "jane@example.com", "password": "secret123"}`,
			repoSetUp: func(f *fakePrincipalsRepo) {
				f.getByEmailFn = func(ctx context.Context, role principal.Role, email string) (principal.Principal, error) {
					return known, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "wrong_password",
			body: `{"email": "jane@example.com", "password": "wrong-password"}`,
			repoSetUp: func(f *fakePrincipalsRepo) {
				f.getByEmailFn = func(ctx context.Context, role principal.Role, email string) (principal.Principal, error) {
					return known, nil
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name: "unknown_email",
			body: `{"email": "nobody@example.com", "password": "secret123"}`,
			repoSetUp: func(f *fakePrincipalsRepo) {
				f.getByEmailFn = func(ctx context.Context, role principal.Role, email string) (principal.Principal, error) {
					return principal.Principal{}, principal.ErrNotFound
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "validation_error",
			body:           `{"email": "jane@example.com"}`,
			repoSetUp:      func(f *fakePrincipalsRepo) {},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakePrincipalsRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			userJWT, adminJWT := testManagers()
			h := handlers.NewAuthHandler(repo, userJWT, adminJWT)

			r := setupRouter(http.MethodPost, "/user/signin", h.UserSignIn)

			w := postJSON(t, r, "/user/signin", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode != http.StatusOK {
				return
			}

			// the issued token must verify with the user manager and carry
			// the caller's id

			var got struct {
				Token string `json:"token"`
			}

			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			claims, err := userJWT.VerifyToken(got.Token)

			if err != nil {
				t.Fatalf("issued token does not verify: %v", err)
			}

			if claims.PrincipalID != knownID {
				t.Errorf("token principal id = %q, want %q", claims.PrincipalID, knownID)
			}
		})
	}
}

func TestSignInFailuresAllLookTheSame(t *testing.T) {
	// wrong password and unknown email must not be distinguishable

	hash, err := security.HashPassword("secret123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	repo := &fakePrincipalsRepo{
		getByEmailFn: func(ctx context.Context, role principal.Role, email string) (principal.Principal, error) {
			if email == "jane@example.com" {
				return principal.Principal{
					ID:           newUUID(),
					Role:         principal.RoleUser,
					Email:        email,
					PasswordHash: hash,
				}, nil
			}

			return principal.Principal{}, principal.ErrNotFound
		},
	}

	userJWT, adminJWT := testManagers()
	h := handlers.NewAuthHandler(repo, userJWT, adminJWT)

	r := setupRouter(http.MethodPost, "/user/signin", h.UserSignIn)

	wrongPassword := postJSON(t, r, "/user/signin", `{"email": "jane@example.com", "password": "wrong"}`)
	unknownEmail := postJSON(t, r, "/user/signin", `{"email": "ghost@example.com", "password": "secret123"}`)

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("got statuses %d and %d, want both 401", wrongPassword.Code, unknownEmail.Code)
	}

	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Errorf("failure bodies differ:\n%s\nvs\n%s", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}
