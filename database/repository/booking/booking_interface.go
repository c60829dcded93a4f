package bookingRepo

import (
	"context"

	"busbook/models"
)

// BookingRepository stores bookings and their passengers. A booking
// exclusively owns its passengers: DeleteBooking removes passenger rows first,
// then the booking (cancellation never deletes either).
type BookingRepository interface {
	Insert(ctx context.Context, booking *models.Booking) error
	InsertPassengers(ctx context.Context, passengers []models.BookingPassenger) error
	// GetForUser loads a booking scoped to its owner.
	GetForUser(ctx context.Context, bookingID, userID string) (*models.Booking, error)
	ListForUser(ctx context.Context, userID string, limit int) ([]models.Booking, error)
	GetPassengers(ctx context.Context, bookingID string) ([]models.BookingPassenger, error)
	// MarkCancelled transitions confirmed -> cancelled; it matches only
	// bookings still in confirmed state.
	MarkCancelled(ctx context.Context, bookingID string) (*models.Booking, error)
	// MarkCompletedBySchedule flips all confirmed bookings on a schedule to
	// completed. Used by the trip-completion sweep.
	MarkCompletedBySchedule(ctx context.Context, scheduleID string) (int64, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	DeleteBooking(ctx context.Context, bookingID string) error
}
