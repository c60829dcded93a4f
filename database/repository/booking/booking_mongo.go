package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"busbook/database"
	"busbook/domain"
	"busbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	bookings   *mongo.Collection
	passengers *mongo.Collection
}

// NewMongoBookingRepo constructs a booking repository.
func NewMongoBookingRepo() BookingRepository {
	db := database.DB()
	return &MongoBookingRepo{
		bookings:   db.Collection("bookings"),
		passengers: db.Collection("booking_passengers"),
	}
}

func (r *MongoBookingRepo) Insert(ctx context.Context, booking *models.Booking) error {
	if _, err := r.bookings.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) InsertPassengers(ctx context.Context, passengers []models.BookingPassenger) error {
	docs := make([]interface{}, 0, len(passengers))
	for i := range passengers {
		docs = append(docs, passengers[i])
	}
	if _, err := r.passengers.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("error creating booking passengers: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) GetForUser(ctx context.Context, bookingID, userID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.bookings.FindOne(ctx, bson.M{"id": bookingID, "user_id": userID}).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.NotFoundError{Resource: "booking"}
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) ListForUser(ctx context.Context, userID string, limit int) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "booked_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := r.bookings.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching bookings for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) GetPassengers(ctx context.Context, bookingID string) ([]models.BookingPassenger, error) {
	cursor, err := r.passengers.Find(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return nil, fmt.Errorf("error fetching passengers for booking %s: %w", bookingID, err)
	}
	defer cursor.Close(ctx)

	var passengers []models.BookingPassenger
	if err := cursor.All(ctx, &passengers); err != nil {
		return nil, fmt.Errorf("error decoding passengers: %w", err)
	}
	return passengers, nil
}

func (r *MongoBookingRepo) MarkCancelled(ctx context.Context, bookingID string) (*models.Booking, error) {
	now := time.Now().UTC()
	var booking models.Booking
	err := r.bookings.FindOneAndUpdate(ctx,
		bson.M{"id": bookingID, "status": models.BookingStatusConfirmed},
		bson.M{"$set": bson.M{
			"status":       models.BookingStatusCancelled,
			"cancelled_at": now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&booking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.BusinessError{
				Code: domain.CodeInvalidBookingState,
				Msg:  "booking is not in a cancellable state",
			}
		}
		return nil, fmt.Errorf("error cancelling booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

func (r *MongoBookingRepo) MarkCompletedBySchedule(ctx context.Context, scheduleID string) (int64, error) {
	res, err := r.bookings.UpdateMany(ctx,
		bson.M{"schedule_id": scheduleID, "status": models.BookingStatusConfirmed},
		bson.M{"$set": bson.M{"status": models.BookingStatusCompleted}})
	if err != nil {
		return 0, fmt.Errorf("error completing bookings for schedule %s: %w", scheduleID, err)
	}
	return res.ModifiedCount, nil
}

func (r *MongoBookingRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	count, err := r.bookings.CountDocuments(ctx, bson.M{"booking_code": code},
		options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking booking code: %w", err)
	}
	return count > 0, nil
}

// DeleteBooking removes a booking and its passenger rows (ownership cascade,
// passengers first).
func (r *MongoBookingRepo) DeleteBooking(ctx context.Context, bookingID string) error {
	if _, err := r.passengers.DeleteMany(ctx, bson.M{"booking_id": bookingID}); err != nil {
		return fmt.Errorf("error deleting passengers for booking %s: %w", bookingID, err)
	}
	res, err := r.bookings.DeleteOne(ctx, bson.M{"id": bookingID})
	if err != nil {
		return fmt.Errorf("error deleting booking %s: %w", bookingID, err)
	}
	if res.DeletedCount == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}
