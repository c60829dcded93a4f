package notification

import (
	"context"

	"busbook/models"
	"busbook/utils"

	"go.uber.org/zap"
)

// NotificationService delivers booking lifecycle messages to users.
type NotificationService interface {
	BookingConfirmed(ctx context.Context, userID string, booking *models.Booking)
	BookingCancelled(ctx context.Context, userID string, booking *models.Booking)
	DepartureReminder(ctx context.Context, payload models.ReminderPayload)
}

// LogNotificationService writes notifications to the structured log. It stands
// in for a push channel until one is wired to a device token store.
type LogNotificationService struct{}

// NewLogNotificationService constructs the log-backed notifier.
func NewLogNotificationService() *LogNotificationService {
	return &LogNotificationService{}
}

func (s *LogNotificationService) BookingConfirmed(ctx context.Context, userID string, booking *models.Booking) {
	utils.GetLogger().Info("notify: booking confirmed",
		zap.String("userID", userID),
		zap.String("bookingCode", booking.BookingCode),
		zap.Float64("amount", booking.TotalAmount.Rupees()),
	)
}

func (s *LogNotificationService) BookingCancelled(ctx context.Context, userID string, booking *models.Booking) {
	utils.GetLogger().Info("notify: booking cancelled",
		zap.String("userID", userID),
		zap.String("bookingCode", booking.BookingCode),
	)
}

func (s *LogNotificationService) DepartureReminder(ctx context.Context, payload models.ReminderPayload) {
	utils.GetLogger().Info("notify: departure reminder",
		zap.String("userID", payload.UserID),
		zap.String("bookingCode", payload.BookingCode),
		zap.String("travelDate", payload.TravelDate),
		zap.String("departureTime", payload.DepartureTime),
	)
}
