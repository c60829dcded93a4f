package catalog

import (
	"context"
	"time"

	catalogRepo "busbook/database/repository/catalog"
	inventoryRepo "busbook/database/repository/inventory"
	"busbook/domain"
	"busbook/models"
)

// CatalogService answers the discovery questions: which cities exist, which
// buses run between them on a date, and which seats are open.
type CatalogService interface {
	SearchCities(ctx context.Context, query string, limit int) ([]models.City, error)
	GetPopularCities(ctx context.Context) ([]models.City, error)
	// SearchBuses resolves the city names fuzzily and returns bookable
	// schedules between them on the travel date.
	SearchBuses(ctx context.Context, fromCity, toCity, travelDate string) ([]models.ScheduleSummary, error)
	GetSeatMap(ctx context.Context, scheduleID string) (*models.SeatMap, error)
	GetSchedulePoints(ctx context.Context, scheduleID string) ([]models.PointInfo, []models.PointInfo, error)
}

// DefaultCatalogService implements CatalogService.
type DefaultCatalogService struct {
	CatalogRepo   catalogRepo.CatalogRepository
	InventoryRepo inventoryRepo.InventoryRepository
}

// NewDefaultCatalogService wires a catalog service over the given stores.
func NewDefaultCatalogService(catalog catalogRepo.CatalogRepository, inventory inventoryRepo.InventoryRepository) *DefaultCatalogService {
	return &DefaultCatalogService{CatalogRepo: catalog, InventoryRepo: inventory}
}

func (s *DefaultCatalogService) SearchCities(ctx context.Context, query string, limit int) ([]models.City, error) {
	if query == "" {
		return nil, domain.ValidationError{Field: "query", Msg: "search query is required"}
	}
	return s.CatalogRepo.SearchCities(ctx, query, limit)
}

func (s *DefaultCatalogService) GetPopularCities(ctx context.Context) ([]models.City, error) {
	return s.CatalogRepo.GetPopularCities(ctx)
}

func (s *DefaultCatalogService) SearchBuses(ctx context.Context, fromCity, toCity, travelDate string) ([]models.ScheduleSummary, error) {
	if fromCity == "" || toCity == "" {
		return nil, domain.ValidationError{Field: "from/to", Msg: "both cities are required"}
	}
	if _, err := time.Parse("2006-01-02", travelDate); err != nil {
		return nil, domain.ValidationError{Field: "travel_date", Msg: "must be YYYY-MM-DD"}
	}

	from, err := s.CatalogRepo.FindCity(ctx, fromCity)
	if err != nil {
		return nil, err
	}
	to, err := s.CatalogRepo.FindCity(ctx, toCity)
	if err != nil {
		return nil, err
	}

	routes, err := s.CatalogRepo.FindRoutes(ctx, from.ID, to.ID)
	if err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		return []models.ScheduleSummary{}, nil
	}
	routeIDs := make([]string, 0, len(routes))
	for _, r := range routes {
		routeIDs = append(routeIDs, r.ID)
	}

	schedules, err := s.CatalogRepo.FindBookableSchedules(ctx, routeIDs, travelDate)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ScheduleSummary, 0, len(schedules))
	for _, schedule := range schedules {
		summary := models.ScheduleSummary{
			ScheduleID:     schedule.ID,
			DepartureTime:  schedule.DepartureTime,
			ArrivalTime:    schedule.ArrivalTime,
			AvailableSeats: schedule.AvailableSeats,
			PriceFrom:      schedule.BasePrice.Rupees(),
		}
		if bus, berr := s.CatalogRepo.GetBusByID(ctx, schedule.BusID); berr == nil {
			summary.BusNumber = bus.BusNumber
			summary.BusType = bus.BusType
			summary.Amenities = bus.Amenities
			if op, oerr := s.CatalogRepo.GetOperatorByID(ctx, bus.OperatorID); oerr == nil {
				summary.OperatorName = op.Name
				summary.OperatorRating = op.Rating
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *DefaultCatalogService) GetSeatMap(ctx context.Context, scheduleID string) (*models.SeatMap, error) {
	if _, err := s.CatalogRepo.GetScheduleByID(ctx, scheduleID); err != nil {
		return nil, err
	}
	seats, err := s.InventoryRepo.GetSeats(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	seatMap := &models.SeatMap{
		ScheduleID: scheduleID,
		Total:      len(seats),
		Available:  make([]models.Seat, 0, len(seats)),
		Booked:     make([]models.Seat, 0),
	}
	for _, seat := range seats {
		if seat.IsAvailable {
			seatMap.Available = append(seatMap.Available, seat)
		} else {
			seatMap.Booked = append(seatMap.Booked, seat)
		}
	}
	return seatMap, nil
}

func (s *DefaultCatalogService) GetSchedulePoints(ctx context.Context, scheduleID string) ([]models.PointInfo, []models.PointInfo, error) {
	if _, err := s.CatalogRepo.GetScheduleByID(ctx, scheduleID); err != nil {
		return nil, nil, err
	}
	boardingRows, err := s.CatalogRepo.GetBoardingPoints(ctx, scheduleID)
	if err != nil {
		return nil, nil, err
	}
	droppingRows, err := s.CatalogRepo.GetDroppingPoints(ctx, scheduleID)
	if err != nil {
		return nil, nil, err
	}

	boarding := make([]models.PointInfo, 0, len(boardingRows))
	for _, p := range boardingRows {
		boarding = append(boarding, models.PointInfo{ID: p.ID, Name: p.Name, Time: p.Time, Address: p.Address, Landmark: p.Landmark})
	}
	dropping := make([]models.PointInfo, 0, len(droppingRows))
	for _, p := range droppingRows {
		dropping = append(dropping, models.PointInfo{ID: p.ID, Name: p.Name, Time: p.Time, Address: p.Address, Landmark: p.Landmark})
	}
	return boarding, dropping, nil
}
