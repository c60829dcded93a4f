package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the booking invariants rely on. The
// unique index on wallets.user_id is what makes lazy wallet creation safe
// under a first-use race; bookings.booking_code uniqueness backs the
// code-generation retry loop.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
	}
	plain := func(keys bson.D) mongo.IndexModel {
		return mongo.IndexModel{Keys: keys}
	}

	specs := map[string][]mongo.IndexModel{
		"cities": {
			unique(bson.D{{Key: "id", Value: 1}}),
			unique(bson.D{{Key: "code", Value: 1}}),
		},
		"operators": {unique(bson.D{{Key: "id", Value: 1}})},
		"routes": {
			unique(bson.D{{Key: "id", Value: 1}}),
			plain(bson.D{{Key: "from_city_id", Value: 1}, {Key: "to_city_id", Value: 1}}),
		},
		"buses": {
			unique(bson.D{{Key: "id", Value: 1}}),
			unique(bson.D{{Key: "bus_number", Value: 1}}),
		},
		"schedules": {
			unique(bson.D{{Key: "id", Value: 1}}),
			plain(bson.D{{Key: "route_id", Value: 1}, {Key: "travel_date", Value: 1}}),
		},
		"seats": {
			unique(bson.D{{Key: "id", Value: 1}}),
			unique(bson.D{{Key: "schedule_id", Value: 1}, {Key: "seat_number", Value: 1}}),
		},
		"boarding_points": {plain(bson.D{{Key: "schedule_id", Value: 1}})},
		"dropping_points": {plain(bson.D{{Key: "schedule_id", Value: 1}})},
		"wallets": {
			unique(bson.D{{Key: "id", Value: 1}}),
			unique(bson.D{{Key: "user_id", Value: 1}}),
		},
		"transactions": {
			unique(bson.D{{Key: "id", Value: 1}}),
			plain(bson.D{{Key: "wallet_id", Value: 1}, {Key: "created_at", Value: -1}}),
		},
		"bookings": {
			unique(bson.D{{Key: "id", Value: 1}}),
			unique(bson.D{{Key: "booking_code", Value: 1}}),
			plain(bson.D{{Key: "user_id", Value: 1}, {Key: "booked_at", Value: -1}}),
		},
		"booking_passengers": {
			unique(bson.D{{Key: "id", Value: 1}}),
			plain(bson.D{{Key: "booking_id", Value: 1}}),
		},
		"users": {
			unique(bson.D{{Key: "id", Value: 1}}),
			unique(bson.D{{Key: "email", Value: 1}}),
		},
		"chat_sessions": {
			unique(bson.D{{Key: "id", Value: 1}}),
			unique(bson.D{{Key: "session_id", Value: 1}}),
		},
		"chat_messages": {
			unique(bson.D{{Key: "id", Value: 1}}),
			plain(bson.D{{Key: "session_id", Value: 1}, {Key: "created_at", Value: 1}}),
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("indexes for %s: %w", coll, err)
		}
	}
	return nil
}
