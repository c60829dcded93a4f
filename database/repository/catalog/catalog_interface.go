package catalogRepo

import (
	"context"

	"busbook/models"
)

// CatalogRepository serves the read-mostly reference data: cities, operators,
// routes, buses, schedules and their boarding/dropping points.
type CatalogRepository interface {
	SearchCities(ctx context.Context, query string, limit int) ([]models.City, error)
	FindCity(ctx context.Context, query string) (*models.City, error)
	GetPopularCities(ctx context.Context) ([]models.City, error)
	GetCityByID(ctx context.Context, id string) (*models.City, error)

	FindRoutes(ctx context.Context, fromCityID, toCityID string) ([]models.Route, error)
	GetRouteByID(ctx context.Context, id string) (*models.Route, error)

	GetOperatorByID(ctx context.Context, id string) (*models.Operator, error)
	GetBusByID(ctx context.Context, id string) (*models.Bus, error)

	GetScheduleByID(ctx context.Context, id string) (*models.Schedule, error)
	// FindBookableSchedules returns schedules on the given routes and date
	// with status "scheduled" and seats left, ordered by departure time.
	FindBookableSchedules(ctx context.Context, routeIDs []string, travelDate string) ([]models.Schedule, error)
	// ListDepartedScheduled returns schedules still marked "scheduled" whose
	// travel date is before the given date. Used by the completion sweep.
	ListDepartedScheduled(ctx context.Context, beforeDate string) ([]models.Schedule, error)
	MarkScheduleCompleted(ctx context.Context, id string) error

	GetBoardingPoints(ctx context.Context, scheduleID string) ([]models.BoardingPoint, error)
	GetDroppingPoints(ctx context.Context, scheduleID string) ([]models.DroppingPoint, error)
}
