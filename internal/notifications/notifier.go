package notifications

import "context"

type SendPurchaseConfirmationInput struct {
	Email       string
	FirstName   string
	CourseID    string
	CourseTitle string
	PurchaseID  string
}

type Notifier interface {
	SendPurchaseConfirmation(ctx context.Context, input SendPurchaseConfirmationInput) error
}
