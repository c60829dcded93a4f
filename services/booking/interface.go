package booking

import (
	"context"

	"busbook/models"
)

// BookingService is the transactional heart of the system: it reserves seats,
// moves wallet money and records the booking as one atomic unit.
type BookingService interface {
	CreateBooking(ctx context.Context, userID string, input models.BookingInput, source string) (*models.BookingResponse, error)
	CancelBooking(ctx context.Context, userID, bookingID string) (*models.BookingResponse, error)
	GetBooking(ctx context.Context, userID, bookingID string) (*models.BookingDetailResponse, error)
	ListBookings(ctx context.Context, userID string, limit int) ([]models.BookingResponse, error)
	// CompleteDepartedTrips flips schedules whose travel date has passed to
	// completed, together with their confirmed bookings. Returns the number of
	// schedules swept.
	CompleteDepartedTrips(ctx context.Context, beforeDate string) (int, error)
}
