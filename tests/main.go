// Seeder: populates the database with a demo catalog for local testing.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"busbook/config"
	"busbook/database"
	"busbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

var cities = []models.City{
	{ID: uuid.New().String(), Name: "Bengaluru", State: "Karnataka", Code: "BLR", IsPopular: true},
	{ID: uuid.New().String(), Name: "Chennai", State: "Tamil Nadu", Code: "MAA", IsPopular: true},
	{ID: uuid.New().String(), Name: "Hyderabad", State: "Telangana", Code: "HYD", IsPopular: true},
	{ID: uuid.New().String(), Name: "Mumbai", State: "Maharashtra", Code: "BOM", IsPopular: true},
	{ID: uuid.New().String(), Name: "Mysuru", State: "Karnataka", Code: "MYS", IsPopular: false},
	{ID: uuid.New().String(), Name: "Coimbatore", State: "Tamil Nadu", Code: "CJB", IsPopular: false},
}

var operators = []models.Operator{
	{ID: uuid.New().String(), Name: "SRS Travels", Code: "SRS", Rating: 4.2},
	{ID: uuid.New().String(), Name: "VRL Travels", Code: "VRL", Rating: 4.0},
	{ID: uuid.New().String(), Name: "Orange Tours", Code: "ORG", Rating: 4.4},
}

func main() {
	config.LoadConfig()
	database.InitDB()
	db := database.DB()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	collections := []string{
		"cities", "operators", "routes", "buses", "schedules", "seats",
		"boarding_points", "dropping_points", "users", "wallets",
	}
	for _, name := range collections {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			log.Fatalf("Failed to clear %s: %v", name, err)
		}
	}

	insertAll(ctx, db.Collection("cities"), toDocs(cities))
	insertAll(ctx, db.Collection("operators"), toDocs(operators))

	// Routes in both directions between every popular city pair.
	var routes []models.Route
	for i, from := range cities[:4] {
		for j, to := range cities[:4] {
			if i == j {
				continue
			}
			routes = append(routes, models.Route{
				ID:              uuid.New().String(),
				FromCityID:      from.ID,
				ToCityID:        to.ID,
				DistanceKM:      250 + 50*((i+j)%4),
				DurationMinutes: 360 + 60*((i+j)%4),
			})
		}
	}
	insertAll(ctx, db.Collection("routes"), toDocs(routes))

	busTypes := []string{models.BusTypeACSleeper, models.BusTypeVolvoAC, models.BusTypeSemiSleeper}
	var buses []models.Bus
	for i, op := range operators {
		for n := 1; n <= 3; n++ {
			buses = append(buses, models.Bus{
				ID:         uuid.New().String(),
				OperatorID: op.ID,
				BusNumber:  fmt.Sprintf("KA%02d-%d%03d", i+1, n, 100+n),
				BusType:    busTypes[(i+n)%len(busTypes)],
				TotalSeats: 30,
				SeatLayout: "2+1",
				Amenities:  []string{"wifi", "charging-point", "water-bottle"},
			})
		}
	}
	insertAll(ctx, db.Collection("buses"), toDocs(buses))

	// Schedules for the next 7 days, one bus per route per day.
	departures := []string{"06:00", "14:30", "21:45"}
	arrivals := []string{"12:30", "21:00", "05:30"}
	today := time.Now().UTC()
	var schedules []models.Schedule
	var seats []models.Seat
	var boarding []models.BoardingPoint
	var dropping []models.DroppingPoint

	for day := 0; day < 7; day++ {
		travelDate := today.AddDate(0, 0, day+1).Format("2006-01-02")
		for i, route := range routes {
			bus := buses[i%len(buses)]
			slot := i % len(departures)
			schedule := models.Schedule{
				ID:             uuid.New().String(),
				BusID:          bus.ID,
				RouteID:        route.ID,
				TravelDate:     travelDate,
				DepartureTime:  departures[slot],
				ArrivalTime:    arrivals[slot],
				BasePrice:      models.RupeesToMoney(float64(450 + 100*slot)),
				AvailableSeats: bus.TotalSeats,
				Status:         models.ScheduleStatusScheduled,
				CreatedAt:      time.Now().UTC(),
			}
			schedules = append(schedules, schedule)
			seats = append(seats, buildSeats(schedule, bus)...)
			boarding = append(boarding, models.BoardingPoint{
				ID: uuid.New().String(), ScheduleID: schedule.ID,
				Name: "Central Bus Stand", Time: schedule.DepartureTime,
				Address: "Main Road", Landmark: "Opposite railway station",
			})
			dropping = append(dropping, models.DroppingPoint{
				ID: uuid.New().String(), ScheduleID: schedule.ID,
				Name: "City Terminal", Time: schedule.ArrivalTime,
				Address: "Ring Road", Landmark: "Near metro station",
			})
		}
	}
	insertAll(ctx, db.Collection("schedules"), toDocs(schedules))
	insertAll(ctx, db.Collection("seats"), toDocs(seats))
	insertAll(ctx, db.Collection("boarding_points"), toDocs(boarding))
	insertAll(ctx, db.Collection("dropping_points"), toDocs(dropping))

	// Demo user with a funded wallet.
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}
	demoUser := models.User{
		ID:           uuid.New().String(),
		Name:         "Demo Rider",
		Email:        "demo@example.com",
		PasswordHash: string(hash),
		PhoneNumber:  "+919876543210",
		CreatedAt:    time.Now().UTC(),
	}
	insertAll(ctx, db.Collection("users"), []interface{}{demoUser})
	insertAll(ctx, db.Collection("wallets"), []interface{}{models.Wallet{
		ID:        uuid.New().String(),
		UserID:    demoUser.ID,
		Balance:   models.RupeesToMoney(5000),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}})

	log.Printf("Seeded %d cities, %d routes, %d buses, %d schedules, %d seats",
		len(cities), len(routes), len(buses), len(schedules), len(seats))
	log.Println("Demo login: demo@example.com / password123 (wallet ₹5000)")
}

func buildSeats(schedule models.Schedule, bus models.Bus) []models.Seat {
	var seats []models.Seat
	rows := bus.TotalSeats / 3
	for row := 1; row <= rows; row++ {
		for col := 1; col <= 3; col++ {
			side := "left"
			window := col == 1 || col == 3
			if col == 3 {
				side = "right"
			}
			price := schedule.BasePrice
			if window {
				price += models.RupeesToMoney(50)
			}
			seats = append(seats, models.Seat{
				ID:           uuid.New().String(),
				ScheduleID:   schedule.ID,
				SeatNumber:   fmt.Sprintf("%c%d", 'A'+row-1, col),
				SeatType:     bus.BusType,
				Price:        price,
				IsAvailable:  true,
				IsLadiesOnly: row == 1 && col == 1,
				IsWindow:     window,
				Side:         side,
				Row:          row,
				Column:       col,
				Deck:         "lower",
			})
		}
	}
	return seats
}

func toDocs[T any](items []T) []interface{} {
	docs := make([]interface{}, 0, len(items))
	for i := range items {
		docs = append(docs, items[i])
	}
	return docs
}

func insertAll(ctx context.Context, coll *mongo.Collection, docs []interface{}) {
	if len(docs) == 0 {
		return
	}
	if _, err := coll.InsertMany(ctx, docs); err != nil {
		log.Fatalf("Failed to seed %s: %v", coll.Name(), err)
	}
}
