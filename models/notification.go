package models

// ReminderPayload is the queued payload for a departure reminder task.
type ReminderPayload struct {
	BookingID     string `json:"booking_id"`
	BookingCode   string `json:"booking_code"`
	UserID        string `json:"user_id"`
	TravelDate    string `json:"travel_date"`
	DepartureTime string `json:"departure_time"`
	FromCity      string `json:"from_city"`
	ToCity        string `json:"to_city"`
}
