package models

// PassengerInput carries one passenger's details and the seat they want.
type PassengerInput struct {
	SeatID string `json:"seat_id" binding:"required"`
	Name   string `json:"name" binding:"required"`
	Age    int    `json:"age" binding:"required"`
	Gender string `json:"gender" binding:"required"` // male, female, other
}

// BookingInput is the create-booking request body.
type BookingInput struct {
	ScheduleID    string           `json:"schedule_id" binding:"required"`
	Passengers    []PassengerInput `json:"passengers" binding:"required"`
	PaymentMethod string           `json:"payment_method" binding:"required"`
}

// AddMoneyInput is the wallet top-up request body.
type AddMoneyInput struct {
	Amount float64 `json:"amount" binding:"required"` // rupees
	Method string  `json:"method"`                    // card triggers a payment intent
}
