package models

import "time"

// PassengerResponse is one passenger with the resolved seat number attached
// for display.
type PassengerResponse struct {
	ID         string `json:"id"`
	SeatID     string `json:"seat_id"`
	SeatNumber string `json:"seat_number"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
}

// BookingResponse is a booking with flattened route/bus/operator fields.
type BookingResponse struct {
	ID            string              `json:"id"`
	BookingCode   string              `json:"booking_code"`
	ScheduleID    string              `json:"schedule_id"`
	TotalAmount   float64             `json:"total_amount"`
	Status        string              `json:"status"`
	PaymentMethod string              `json:"payment_method"`
	Source        string              `json:"source"`
	BookedAt      time.Time           `json:"booked_at"`
	CancelledAt   *time.Time          `json:"cancelled_at,omitempty"`
	BusNumber     string              `json:"bus_number,omitempty"`
	BusType       string              `json:"bus_type,omitempty"`
	OperatorName  string              `json:"operator_name,omitempty"`
	FromCity      string              `json:"from_city,omitempty"`
	ToCity        string              `json:"to_city,omitempty"`
	TravelDate    string              `json:"travel_date,omitempty"`
	DepartureTime string              `json:"departure_time,omitempty"`
	ArrivalTime   string              `json:"arrival_time,omitempty"`
	Passengers    []PassengerResponse `json:"passengers"`
}

// PointInfo is one boarding or dropping point in a detail view.
type PointInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Time     string `json:"time"`
	Address  string `json:"address"`
	Landmark string `json:"landmark"`
}

// BookingDetailResponse adds trip detail to a BookingResponse.
type BookingDetailResponse struct {
	BookingResponse
	OperatorRating  float64     `json:"operator_rating,omitempty"`
	Amenities       []string    `json:"amenities,omitempty"`
	DistanceKM      int         `json:"distance_km,omitempty"`
	DurationMinutes int         `json:"duration_minutes,omitempty"`
	BoardingPoints  []PointInfo `json:"boarding_points"`
	DroppingPoints  []PointInfo `json:"dropping_points"`
}

// SeatMap partitions a schedule's seats for presentation.
type SeatMap struct {
	ScheduleID string `json:"schedule_id"`
	Total      int    `json:"total_seats"`
	Available  []Seat `json:"available"`
	Booked     []Seat `json:"booked"`
}
