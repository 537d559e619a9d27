package purchase

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Purchase struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	CourseID  string    `json:"courseId"`
	CreatedAt time.Time `json:"createdAt"`
}

// a user may acquire a given course at most once
var ErrAlreadyPurchased = errors.New("course already purchased")

type CreatePurchaseRequest struct {
	CourseID string `json:"courseId" binding:"required,uuid"`
}

func New(userID, courseID string) Purchase {
	return Purchase{
		ID:        uuid.NewString(),
		UserID:    userID,
		CourseID:  courseID,
		CreatedAt: time.Now().UTC(),
	}
}
