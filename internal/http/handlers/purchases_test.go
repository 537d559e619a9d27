package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/surendar2011/courseApp/internal/domain/course"
	"github.com/surendar2011/courseApp/internal/domain/principal"
	"github.com/surendar2011/courseApp/internal/domain/purchase"
	"github.com/surendar2011/courseApp/internal/http/handlers"
	"github.com/surendar2011/courseApp/internal/notifications"
)

// Fake repository implementation of the handlers.PurchaseStore interface

type fakePurchasesRepo struct {
	createFn     func(ctx context.Context, userID, courseID string) (purchase.Purchase, error)
	listByUserFn func(ctx context.Context, userID string) ([]purchase.Purchase, error)
}

func (f *fakePurchasesRepo) Create(ctx context.Context, userID, courseID string) (purchase.Purchase, error) {
	if f.createFn != nil {
		return f.createFn(ctx, userID, courseID)
	}

	return purchase.New(userID, courseID), nil
}

func (f *fakePurchasesRepo) ListByUser(ctx context.Context, userID string) ([]purchase.Purchase, error) {
	if f.listByUserFn != nil {
		return f.listByUserFn(ctx, userID)
	}

	return []purchase.Purchase{}, nil
}

type fakeNotifier struct {
	sent []notifications.SendPurchaseConfirmationInput
}

func (f *fakeNotifier) SendPurchaseConfirmation(ctx context.Context, in notifications.SendPurchaseConfirmationInput) error {
	f.sent = append(f.sent, in)

	return nil
}

// ---Purchase tests

func TestPurchaseHandler(t *testing.T) {
	userID := newUUID()
	courseID := newUUID()

	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakePurchasesRepo)
		wantStatusCode int
		wantCode       string
	}{
		{
			name: "success",
			body: `{"courseId": "` + courseID + `"}`,
			repoSetUp: func(f *fakePurchasesRepo) {
				f.createFn = func(ctx context.Context, uid, cid string) (purchase.Purchase, error) {
					if uid != userID {
						t.Errorf("user id = %q, want %q", uid, userID)
					}

					if cid != courseID {
						t.Errorf("course id = %q, want %q", cid, courseID)
					}

					return purchase.New(uid, cid), nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "duplicate_purchase",
			body: `{"courseId": "` + courseID + `"}`,
			repoSetUp: func(f *fakePurchasesRepo) {
				f.createFn = func(ctx context.Context, uid, cid string) (purchase.Purchase, error) {
					return purchase.Purchase{}, purchase.ErrAlreadyPurchased
				}
			},
			wantStatusCode: http.StatusConflict,
			wantCode:       "already_purchased",
		},
		{
			name: "course_missing",
			body: `{"courseId": "` + courseID + `"}`,
			repoSetUp: func(f *fakePurchasesRepo) {
				f.createFn = func(ctx context.Context, uid, cid string) (purchase.Purchase, error) {
					return purchase.Purchase{}, course.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
			wantCode:       "not_found",
		},
		{
			name:           "non_uuid_course_id",
			body:           `{"courseId": "42"}`,
			repoSetUp:      func(f *fakePurchasesRepo) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing_course_id",
			body:           `{}`,
			repoSetUp:      func(f *fakePurchasesRepo) {},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakePurchasesRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			courses := &fakeCoursesRepo{}
			principals := &fakePrincipalsRepo{}

			h := handlers.NewPurchasesHandler(repo, courses, principals, nil)

			r := setupAuthedRouter(http.MethodPost, "/course/purchase", userID, h.Purchase)

			w := postJSON(t, r, "/course/purchase", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantCode != "" {
				var resp errorResponse

				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to decode error response: %v", err)
				}

				if resp.Error.Code != tt.wantCode {
					t.Errorf("error code = %q, want %q", resp.Error.Code, tt.wantCode)
				}
			}
		})
	}
}

func TestPurchaseSendsConfirmation(t *testing.T) {
	userID := newUUID()
	bought := sampleCourse(newUUID())

	repo := &fakePurchasesRepo{}

	courses := &fakeCoursesRepo{
		getFn: func(ctx context.Context, id string) (course.Course, error) {
			return bought, nil
		},
	}

	principals := &fakePrincipalsRepo{
		getByIDFn: func(ctx context.Context, role principal.Role, id string) (principal.Principal, error) {
			return principal.Principal{
				ID:        id,
				Role:      role,
				Email:     "jane@example.com",
				FirstName: "Jane",
			}, nil
		},
	}

	notifier := &fakeNotifier{}

	h := handlers.NewPurchasesHandler(repo, courses, principals, notifier)

	r := setupAuthedRouter(http.MethodPost, "/course/purchase", userID, h.Purchase)

	w := postJSON(t, r, "/course/purchase", `{"courseId": "`+bought.ID+`"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201, body=%s", w.Code, w.Body.String())
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("confirmations sent = %d, want 1", len(notifier.sent))
	}

	sent := notifier.sent[0]

	if sent.Email != "jane@example.com" || sent.CourseTitle != bought.Title {
		t.Errorf("confirmation = %+v, want email jane@example.com and title %q", sent, bought.Title)
	}
}

// ---List purchases tests

func TestListOwnPurchasesHandler(t *testing.T) {
	userID := newUUID()

	courseA := sampleCourse(newUUID())
	courseB := sampleCourse(newUUID())

	repo := &fakePurchasesRepo{
		listByUserFn: func(ctx context.Context, uid string) ([]purchase.Purchase, error) {
			if uid != userID {
				t.Errorf("user id = %q, want %q", uid, userID)
			}

			return []purchase.Purchase{
				purchase.New(uid, courseA.ID),
				purchase.New(uid, courseB.ID),
			}, nil
		},
	}

	courses := &fakeCoursesRepo{
		listByIDsFn: func(ctx context.Context, ids []string) ([]course.Course, error) {
			if len(ids) != 2 {
				t.Errorf("resolving %d ids, want 2", len(ids))
			}

			return []course.Course{courseA, courseB}, nil
		},
	}

	h := handlers.NewPurchasesHandler(repo, courses, &fakePrincipalsRepo{}, nil)

	r := setupAuthedRouter(http.MethodGet, "/user/purchases", userID, h.ListOwnPurchases)

	req := httptest.NewRequest(http.MethodGet, "/user/purchases", nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var got struct {
		Purchases  []purchase.Purchase `json:"purchases"`
		CourseData []course.Course     `json:"courseData"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(got.Purchases) != 2 || len(got.CourseData) != 2 {
		t.Errorf("got %d purchases and %d courses, want 2 and 2", len(got.Purchases), len(got.CourseData))
	}
}
