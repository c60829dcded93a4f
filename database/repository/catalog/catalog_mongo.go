package catalogRepo

import (
	"context"
	"fmt"
	"regexp"

	"busbook/database"
	"busbook/domain"
	"busbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	cities    *mongo.Collection
	operators *mongo.Collection
	routes    *mongo.Collection
	buses     *mongo.Collection
	schedules *mongo.Collection
	boarding  *mongo.Collection
	dropping  *mongo.Collection
}

// NewMongoCatalogRepo constructs a catalog repository over the shared client.
func NewMongoCatalogRepo() CatalogRepository {
	db := database.DB()
	return &MongoCatalogRepo{
		cities:    db.Collection("cities"),
		operators: db.Collection("operators"),
		routes:    db.Collection("routes"),
		buses:     db.Collection("buses"),
		schedules: db.Collection("schedules"),
		boarding:  db.Collection("boarding_points"),
		dropping:  db.Collection("dropping_points"),
	}
}

// cityFilter matches name or code by case-insensitive substring.
func cityFilter(query string) bson.M {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"code": pattern},
	}}
}

func (r *MongoCatalogRepo) SearchCities(ctx context.Context, query string, limit int) ([]models.City, error) {
	if limit <= 0 {
		limit = 10
	}
	cursor, err := r.cities.Find(ctx, cityFilter(query),
		options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error searching cities: %w", err)
	}
	defer cursor.Close(ctx)

	var cities []models.City
	if err := cursor.All(ctx, &cities); err != nil {
		return nil, fmt.Errorf("error decoding cities: %w", err)
	}
	return cities, nil
}

func (r *MongoCatalogRepo) FindCity(ctx context.Context, query string) (*models.City, error) {
	var city models.City
	if err := r.cities.FindOne(ctx, cityFilter(query)).Decode(&city); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.NotFoundError{Resource: "city"}
		}
		return nil, fmt.Errorf("error fetching city %q: %w", query, err)
	}
	return &city, nil
}

func (r *MongoCatalogRepo) GetPopularCities(ctx context.Context) ([]models.City, error) {
	cursor, err := r.cities.Find(ctx, bson.M{"is_popular": true},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error fetching popular cities: %w", err)
	}
	defer cursor.Close(ctx)

	var cities []models.City
	if err := cursor.All(ctx, &cities); err != nil {
		return nil, fmt.Errorf("error decoding cities: %w", err)
	}
	return cities, nil
}

func (r *MongoCatalogRepo) GetCityByID(ctx context.Context, id string) (*models.City, error) {
	var city models.City
	if err := r.cities.FindOne(ctx, bson.M{"id": id}).Decode(&city); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.NotFoundError{Resource: "city"}
		}
		return nil, fmt.Errorf("error fetching city %s: %w", id, err)
	}
	return &city, nil
}

func (r *MongoCatalogRepo) FindRoutes(ctx context.Context, fromCityID, toCityID string) ([]models.Route, error) {
	cursor, err := r.routes.Find(ctx, bson.M{
		"from_city_id": fromCityID,
		"to_city_id":   toCityID,
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching routes: %w", err)
	}
	defer cursor.Close(ctx)

	var routes []models.Route
	if err := cursor.All(ctx, &routes); err != nil {
		return nil, fmt.Errorf("error decoding routes: %w", err)
	}
	return routes, nil
}

func (r *MongoCatalogRepo) GetRouteByID(ctx context.Context, id string) (*models.Route, error) {
	var route models.Route
	if err := r.routes.FindOne(ctx, bson.M{"id": id}).Decode(&route); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.NotFoundError{Resource: "route"}
		}
		return nil, fmt.Errorf("error fetching route %s: %w", id, err)
	}
	return &route, nil
}

func (r *MongoCatalogRepo) GetOperatorByID(ctx context.Context, id string) (*models.Operator, error) {
	var op models.Operator
	if err := r.operators.FindOne(ctx, bson.M{"id": id}).Decode(&op); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.NotFoundError{Resource: "operator"}
		}
		return nil, fmt.Errorf("error fetching operator %s: %w", id, err)
	}
	return &op, nil
}

func (r *MongoCatalogRepo) GetBusByID(ctx context.Context, id string) (*models.Bus, error) {
	var bus models.Bus
	if err := r.buses.FindOne(ctx, bson.M{"id": id}).Decode(&bus); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.NotFoundError{Resource: "bus"}
		}
		return nil, fmt.Errorf("error fetching bus %s: %w", id, err)
	}
	return &bus, nil
}

func (r *MongoCatalogRepo) GetScheduleByID(ctx context.Context, id string) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := r.schedules.FindOne(ctx, bson.M{"id": id}).Decode(&schedule); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.NotFoundError{Resource: "bus schedule"}
		}
		return nil, fmt.Errorf("error fetching schedule %s: %w", id, err)
	}
	return &schedule, nil
}

func (r *MongoCatalogRepo) FindBookableSchedules(ctx context.Context, routeIDs []string, travelDate string) ([]models.Schedule, error) {
	cursor, err := r.schedules.Find(ctx, bson.M{
		"route_id":        bson.M{"$in": routeIDs},
		"travel_date":     travelDate,
		"status":          models.ScheduleStatusScheduled,
		"available_seats": bson.M{"$gt": 0},
	}, options.Find().SetSort(bson.D{{Key: "departure_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error fetching schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []models.Schedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("error decoding schedules: %w", err)
	}
	return schedules, nil
}

func (r *MongoCatalogRepo) ListDepartedScheduled(ctx context.Context, beforeDate string) ([]models.Schedule, error) {
	cursor, err := r.schedules.Find(ctx, bson.M{
		"travel_date": bson.M{"$lt": beforeDate},
		"status":      models.ScheduleStatusScheduled,
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching departed schedules: %w", err)
	}
	defer cursor.Close(ctx)

	var schedules []models.Schedule
	if err := cursor.All(ctx, &schedules); err != nil {
		return nil, fmt.Errorf("error decoding schedules: %w", err)
	}
	return schedules, nil
}

func (r *MongoCatalogRepo) MarkScheduleCompleted(ctx context.Context, id string) error {
	res, err := r.schedules.UpdateOne(ctx,
		bson.M{"id": id, "status": models.ScheduleStatusScheduled},
		bson.M{"$set": bson.M{"status": models.ScheduleStatusCompleted}})
	if err != nil {
		return fmt.Errorf("error completing schedule %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFoundError{Resource: "bus schedule"}
	}
	return nil
}

func (r *MongoCatalogRepo) GetBoardingPoints(ctx context.Context, scheduleID string) ([]models.BoardingPoint, error) {
	cursor, err := r.boarding.Find(ctx, bson.M{"schedule_id": scheduleID},
		options.Find().SetSort(bson.D{{Key: "time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error fetching boarding points: %w", err)
	}
	defer cursor.Close(ctx)

	var points []models.BoardingPoint
	if err := cursor.All(ctx, &points); err != nil {
		return nil, fmt.Errorf("error decoding boarding points: %w", err)
	}
	return points, nil
}

func (r *MongoCatalogRepo) GetDroppingPoints(ctx context.Context, scheduleID string) ([]models.DroppingPoint, error) {
	cursor, err := r.dropping.Find(ctx, bson.M{"schedule_id": scheduleID},
		options.Find().SetSort(bson.D{{Key: "time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error fetching dropping points: %w", err)
	}
	defer cursor.Close(ctx)

	var points []models.DroppingPoint
	if err := cursor.All(ctx, &points); err != nil {
		return nil, fmt.Errorf("error decoding dropping points: %w", err)
	}
	return points, nil
}
