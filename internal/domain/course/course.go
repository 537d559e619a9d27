package course

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Course struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	Price       decimal.Decimal `json:"price"`
	CreatorID   string          `json:"creatorId"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// covers both "does not exist" and "exists but not owned by the acting admin";
// callers must not be able to tell the two apart
var ErrNotFound = errors.New("course not found")

// purchases reference courses; a purchased course cannot be deleted
var ErrHasPurchases = errors.New("course has purchases")

type CreateCourseRequest struct {
	Title       string          `json:"title" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"required,min=1,max=2000"`
	ImageURL    string          `json:"imageUrl" binding:"required,url"`
	Price       decimal.Decimal `json:"price" binding:"required"`
}

// partial update: nil pointer means keep the stored value
type UpdateCourseRequest struct {
	CourseID    string           `json:"courseId" binding:"required,uuid"`
	Title       *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,min=1,max=2000"`
	ImageURL    *string          `json:"imageUrl" binding:"omitempty,url"`
	Price       *decimal.Decimal `json:"price" binding:"omitempty"`
}

// Validate enforces the price rules the binding tags cannot express for a
// decimal type.
func (r CreateCourseRequest) Validate() error {
	if !r.Price.IsPositive() {
		return errors.New("price must be positive")
	}
	return nil
}

func (r UpdateCourseRequest) Validate() error {
	if r.Price != nil && !r.Price.IsPositive() {
		return errors.New("price must be positive")
	}
	return nil
}

// A factory to build a Course from the incoming DTO

func NewFromCreateRequest(req CreateCourseRequest, creatorID string) Course {
	now := time.Now().UTC()
	return Course{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		CreatorID:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
