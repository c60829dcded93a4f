package inventoryRepo

import (
	"context"
	"fmt"

	"busbook/database"
	"busbook/domain"
	"busbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoInventoryRepo implements InventoryRepository using MongoDB.
type MongoInventoryRepo struct {
	seats     *mongo.Collection
	schedules *mongo.Collection
}

// NewMongoInventoryRepo constructs a seat-ledger repository.
func NewMongoInventoryRepo() InventoryRepository {
	db := database.DB()
	return &MongoInventoryRepo{
		seats:     db.Collection("seats"),
		schedules: db.Collection("schedules"),
	}
}

func (r *MongoInventoryRepo) GetSeats(ctx context.Context, scheduleID string) ([]models.Seat, error) {
	cursor, err := r.seats.Find(ctx, bson.M{"schedule_id": scheduleID},
		options.Find().SetSort(bson.D{{Key: "seat_number", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error fetching seats for schedule %s: %w", scheduleID, err)
	}
	defer cursor.Close(ctx)

	var seats []models.Seat
	if err := cursor.All(ctx, &seats); err != nil {
		return nil, fmt.Errorf("error decoding seats: %w", err)
	}
	return seats, nil
}

func (r *MongoInventoryRepo) GetSeatsByIDs(ctx context.Context, scheduleID string, seatIDs []string) ([]models.Seat, error) {
	cursor, err := r.seats.Find(ctx, bson.M{
		"id":          bson.M{"$in": seatIDs},
		"schedule_id": scheduleID,
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching seats: %w", err)
	}
	defer cursor.Close(ctx)

	var seats []models.Seat
	if err := cursor.All(ctx, &seats); err != nil {
		return nil, fmt.Errorf("error decoding seats: %w", err)
	}
	return seats, nil
}

func (r *MongoInventoryRepo) ReserveSeats(ctx context.Context, scheduleID string, seatIDs []string) (int64, error) {
	res, err := r.seats.UpdateMany(ctx, bson.M{
		"id":           bson.M{"$in": seatIDs},
		"schedule_id":  scheduleID,
		"is_available": true,
	}, bson.M{"$set": bson.M{"is_available": false}})
	if err != nil {
		return 0, fmt.Errorf("error reserving seats: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoInventoryRepo) ReleaseSeats(ctx context.Context, scheduleID string, seatIDs []string) (int64, error) {
	res, err := r.seats.UpdateMany(ctx, bson.M{
		"id":           bson.M{"$in": seatIDs},
		"schedule_id":  scheduleID,
		"is_available": false,
	}, bson.M{"$set": bson.M{"is_available": true}})
	if err != nil {
		return 0, fmt.Errorf("error releasing seats: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoInventoryRepo) AdjustAvailableSeats(ctx context.Context, scheduleID string, delta int) error {
	filter := bson.M{"id": scheduleID}
	if delta < 0 {
		// Never let the counter underflow, even under contention.
		filter["available_seats"] = bson.M{"$gte": -delta}
	}
	res, err := r.schedules.UpdateOne(ctx, filter,
		bson.M{"$inc": bson.M{"available_seats": delta}})
	if err != nil {
		return fmt.Errorf("error adjusting available seats: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.BusinessError{
			Code: domain.CodeSeatUnavailable,
			Msg:  "not enough seats available on this schedule",
		}
	}
	return nil
}
