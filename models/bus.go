package models

import "time"

// City is immutable reference data for route endpoints.
type City struct {
	ID        string `bson:"id" json:"id"`
	Name      string `bson:"name" json:"name"`
	State     string `bson:"state" json:"state"`
	Code      string `bson:"code" json:"code"` // unique short code, e.g. "BLR"
	IsPopular bool   `bson:"is_popular" json:"is_popular"`
}

// Operator runs buses on routes.
type Operator struct {
	ID     string  `bson:"id" json:"id"`
	Name   string  `bson:"name" json:"name"`
	Code   string  `bson:"code" json:"code"`
	Rating float64 `bson:"rating" json:"rating"`
}

// Route connects two cities.
type Route struct {
	ID              string `bson:"id" json:"id"`
	FromCityID      string `bson:"from_city_id" json:"from_city_id"`
	ToCityID        string `bson:"to_city_id" json:"to_city_id"`
	DistanceKM      int    `bson:"distance_km" json:"distance_km"`
	DurationMinutes int    `bson:"duration_minutes" json:"duration_minutes"`
}

// Bus types.
const (
	BusTypeSeater      = "seater"
	BusTypeSleeper     = "sleeper"
	BusTypeSemiSleeper = "semi-sleeper"
	BusTypeACSleeper   = "ac-sleeper"
	BusTypeVolvoAC     = "volvo-ac"
)

// Bus is one physical vehicle belonging to an operator.
type Bus struct {
	ID         string   `bson:"id" json:"id"`
	OperatorID string   `bson:"operator_id" json:"operator_id"`
	BusNumber  string   `bson:"bus_number" json:"bus_number"` // unique
	BusType    string   `bson:"bus_type" json:"bus_type"`
	TotalSeats int      `bson:"total_seats" json:"total_seats"`
	SeatLayout string   `bson:"seat_layout" json:"seat_layout"` // e.g. "2+1"
	Amenities  []string `bson:"amenities" json:"amenities"`
}

// Schedule statuses.
const (
	ScheduleStatusScheduled = "scheduled"
	ScheduleStatusCancelled = "cancelled"
	ScheduleStatusCompleted = "completed"
)

// Schedule is one bus trip instance on a specific date with its own seat
// inventory. AvailableSeats is a cached aggregate: every seat-state change
// updates it in the same transaction, so it always equals the count of
// available seats on the schedule.
type Schedule struct {
	ID             string    `bson:"id" json:"id"`
	BusID          string    `bson:"bus_id" json:"bus_id"`
	RouteID        string    `bson:"route_id" json:"route_id"`
	TravelDate     string    `bson:"travel_date" json:"travel_date"` // "YYYY-MM-DD"
	DepartureTime  string    `bson:"departure_time" json:"departure_time"`
	ArrivalTime    string    `bson:"arrival_time" json:"arrival_time"`
	BasePrice      Money     `bson:"base_price" json:"base_price"`
	AvailableSeats int       `bson:"available_seats" json:"available_seats"`
	Status         string    `bson:"status" json:"status"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

// Seat is one bookable unit of capacity on a schedule. Seats are created once
// with the schedule and never deleted while it exists; only IsAvailable flips.
type Seat struct {
	ID           string `bson:"id" json:"id"`
	ScheduleID   string `bson:"schedule_id" json:"schedule_id"`
	SeatNumber   string `bson:"seat_number" json:"seat_number"` // unique within schedule
	SeatType     string `bson:"seat_type" json:"seat_type"`
	Price        Money  `bson:"price" json:"price"`
	IsAvailable  bool   `bson:"is_available" json:"is_available"`
	IsLadiesOnly bool   `bson:"is_ladies_only" json:"is_ladies_only"`
	IsWindow     bool   `bson:"is_window" json:"is_window"`
	Side         string `bson:"side" json:"side"`
	Row          int    `bson:"row" json:"row"`
	Column       int    `bson:"column" json:"column"`
	Deck         string `bson:"deck" json:"deck"` // lower / upper
}

// BoardingPoint is a pickup stop for a schedule.
type BoardingPoint struct {
	ID         string `bson:"id" json:"id"`
	ScheduleID string `bson:"schedule_id" json:"schedule_id"`
	Name       string `bson:"name" json:"name"`
	Time       string `bson:"time" json:"time"`
	Address    string `bson:"address" json:"address"`
	Landmark   string `bson:"landmark" json:"landmark"`
}

// DroppingPoint is a drop-off stop for a schedule.
type DroppingPoint struct {
	ID         string `bson:"id" json:"id"`
	ScheduleID string `bson:"schedule_id" json:"schedule_id"`
	Name       string `bson:"name" json:"name"`
	Time       string `bson:"time" json:"time"`
	Address    string `bson:"address" json:"address"`
	Landmark   string `bson:"landmark" json:"landmark"`
}

// ScheduleSummary is the denormalized search result for one schedule.
type ScheduleSummary struct {
	ScheduleID     string   `json:"schedule_id"`
	OperatorName   string   `json:"operator"`
	OperatorRating float64  `json:"operator_rating"`
	BusNumber      string   `json:"bus_number"`
	BusType        string   `json:"bus_type"`
	DepartureTime  string   `json:"departure_time"`
	ArrivalTime    string   `json:"arrival_time"`
	AvailableSeats int      `json:"available_seats"`
	PriceFrom      float64  `json:"price_from"`
	Amenities      []string `json:"amenities"`
}
