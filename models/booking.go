package models

import "time"

// Booking statuses. Confirmed bookings can move to cancelled (user action) or
// completed (trip-completion sweep); both are terminal.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Payment methods.
const (
	PaymentMethodWallet = "wallet"
	PaymentMethodCard   = "card"
	PaymentMethodUPI    = "upi"
)

// Booking sources.
const (
	BookingSourceDirect = "direct"
	BookingSourceAgent  = "agent"
)

// Booking is a confirmed reservation of one or more seats for named
// passengers.
type Booking struct {
	ID            string     `bson:"id" json:"id"`
	BookingCode   string     `bson:"booking_code" json:"booking_code"` // unique, human-shareable
	UserID        string     `bson:"user_id" json:"user_id"`
	ScheduleID    string     `bson:"schedule_id" json:"schedule_id"`
	TotalAmount   Money      `bson:"total_amount" json:"total_amount"`
	Status        string     `bson:"status" json:"status"`
	PaymentMethod string     `bson:"payment_method" json:"payment_method"`
	Source        string     `bson:"source" json:"source"`
	BookedAt      time.Time  `bson:"booked_at" json:"booked_at"`
	CancelledAt   *time.Time `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
}

// BookingPassenger links one passenger to one reserved seat. Deleted only when
// its booking is deleted; cancellation just releases the seat.
type BookingPassenger struct {
	ID        string `bson:"id" json:"id"`
	BookingID string `bson:"booking_id" json:"booking_id"`
	SeatID    string `bson:"seat_id" json:"seat_id"`
	Name      string `bson:"name" json:"name"`
	Age       int    `bson:"age" json:"age"`
	Gender    string `bson:"gender" json:"gender"` // male, female, other
}
