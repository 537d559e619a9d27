package notifications

import (
	"context"
	"log/slog"
)

// LogNotifier is the stand-in provider: it writes the confirmation to the
// structured log instead of an email gateway.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendPurchaseConfirmation(ctx context.Context, in SendPurchaseConfirmationInput) error {
	n.log.InfoContext(ctx, "notification.purchase_confirmation",
		"email", in.Email,
		"first_name", in.FirstName,
		"course_id", in.CourseID,
		"course_title", in.CourseTitle,
		"purchase_id", in.PurchaseID,
	)
	return nil
}
