package booking

import (
	"context"

	"busbook/models"
	"busbook/utils"

	"go.uber.org/zap"
)

func (s *DefaultBookingService) GetBooking(ctx context.Context, userID, bookingID string) (*models.BookingDetailResponse, error) {
	bk, err := s.BookingRepo.GetForUser(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}
	passengers, err := s.BookingRepo.GetPassengers(ctx, bk.ID)
	if err != nil {
		return nil, err
	}

	resp, err := s.buildResponse(ctx, bk, passengers, nil)
	if err != nil {
		return nil, err
	}
	detail := &models.BookingDetailResponse{BookingResponse: *resp}

	schedule, err := s.CatalogRepo.GetScheduleByID(ctx, bk.ScheduleID)
	if err != nil {
		return nil, err
	}
	if bus, berr := s.CatalogRepo.GetBusByID(ctx, schedule.BusID); berr == nil {
		detail.Amenities = bus.Amenities
		if op, oerr := s.CatalogRepo.GetOperatorByID(ctx, bus.OperatorID); oerr == nil {
			detail.OperatorRating = op.Rating
		}
	}
	if route, rerr := s.CatalogRepo.GetRouteByID(ctx, schedule.RouteID); rerr == nil {
		detail.DistanceKM = route.DistanceKM
		detail.DurationMinutes = route.DurationMinutes
	}

	boarding, err := s.CatalogRepo.GetBoardingPoints(ctx, bk.ScheduleID)
	if err != nil {
		return nil, err
	}
	dropping, err := s.CatalogRepo.GetDroppingPoints(ctx, bk.ScheduleID)
	if err != nil {
		return nil, err
	}
	detail.BoardingPoints = make([]models.PointInfo, 0, len(boarding))
	for _, p := range boarding {
		detail.BoardingPoints = append(detail.BoardingPoints, models.PointInfo{
			ID: p.ID, Name: p.Name, Time: p.Time, Address: p.Address, Landmark: p.Landmark,
		})
	}
	detail.DroppingPoints = make([]models.PointInfo, 0, len(dropping))
	for _, p := range dropping {
		detail.DroppingPoints = append(detail.DroppingPoints, models.PointInfo{
			ID: p.ID, Name: p.Name, Time: p.Time, Address: p.Address, Landmark: p.Landmark,
		})
	}
	return detail, nil
}

func (s *DefaultBookingService) ListBookings(ctx context.Context, userID string, limit int) ([]models.BookingResponse, error) {
	bookings, err := s.BookingRepo.ListForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]models.BookingResponse, 0, len(bookings))
	for i := range bookings {
		passengers, perr := s.BookingRepo.GetPassengers(ctx, bookings[i].ID)
		if perr != nil {
			return nil, perr
		}
		resp, rerr := s.buildResponse(ctx, &bookings[i], passengers, nil)
		if rerr != nil {
			return nil, rerr
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// CompleteDepartedTrips is the daily sweep: any schedule still "scheduled"
// whose travel date has passed becomes completed, along with its confirmed
// bookings.
func (s *DefaultBookingService) CompleteDepartedTrips(ctx context.Context, beforeDate string) (int, error) {
	logger := utils.GetLogger()

	departed, err := s.CatalogRepo.ListDepartedScheduled(ctx, beforeDate)
	if err != nil {
		return 0, err
	}
	swept := 0
	for _, schedule := range departed {
		err := s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
			if merr := s.CatalogRepo.MarkScheduleCompleted(txCtx, schedule.ID); merr != nil {
				return merr
			}
			_, merr := s.BookingRepo.MarkCompletedBySchedule(txCtx, schedule.ID)
			return merr
		})
		if err != nil {
			logger.Error("trip completion sweep failed for schedule",
				zap.String("scheduleID", schedule.ID), zap.Error(err))
			continue
		}
		swept++
	}
	if swept > 0 {
		logger.Info("trip completion sweep finished", zap.Int("schedules", swept))
	}
	return swept, nil
}

// buildResponse flattens a booking with its trip context. seatByID may carry
// pre-fetched seats; missing seats are loaded from the inventory.
func (s *DefaultBookingService) buildResponse(ctx context.Context, bk *models.Booking, passengers []models.BookingPassenger, seatByID map[string]models.Seat) (*models.BookingResponse, error) {
	if seatByID == nil {
		seatIDs := make([]string, 0, len(passengers))
		for _, p := range passengers {
			seatIDs = append(seatIDs, p.SeatID)
		}
		seats, err := s.InventoryRepo.GetSeatsByIDs(ctx, bk.ScheduleID, seatIDs)
		if err != nil {
			return nil, err
		}
		seatByID = make(map[string]models.Seat, len(seats))
		for _, seat := range seats {
			seatByID[seat.ID] = seat
		}
	}

	resp := &models.BookingResponse{
		ID:            bk.ID,
		BookingCode:   bk.BookingCode,
		ScheduleID:    bk.ScheduleID,
		TotalAmount:   bk.TotalAmount.Rupees(),
		Status:        bk.Status,
		PaymentMethod: bk.PaymentMethod,
		Source:        bk.Source,
		BookedAt:      bk.BookedAt,
		CancelledAt:   bk.CancelledAt,
		Passengers:    make([]models.PassengerResponse, 0, len(passengers)),
	}
	for _, p := range passengers {
		pr := models.PassengerResponse{
			ID:     p.ID,
			SeatID: p.SeatID,
			Name:   p.Name,
			Age:    p.Age,
			Gender: p.Gender,
		}
		if seat, ok := seatByID[p.SeatID]; ok {
			pr.SeatNumber = seat.SeatNumber
		}
		resp.Passengers = append(resp.Passengers, pr)
	}

	schedule, err := s.CatalogRepo.GetScheduleByID(ctx, bk.ScheduleID)
	if err != nil {
		return resp, nil
	}
	resp.TravelDate = schedule.TravelDate
	resp.DepartureTime = schedule.DepartureTime
	resp.ArrivalTime = schedule.ArrivalTime

	if bus, berr := s.CatalogRepo.GetBusByID(ctx, schedule.BusID); berr == nil {
		resp.BusNumber = bus.BusNumber
		resp.BusType = bus.BusType
		if op, oerr := s.CatalogRepo.GetOperatorByID(ctx, bus.OperatorID); oerr == nil {
			resp.OperatorName = op.Name
		}
	}
	if route, rerr := s.CatalogRepo.GetRouteByID(ctx, schedule.RouteID); rerr == nil {
		if from, ferr := s.CatalogRepo.GetCityByID(ctx, route.FromCityID); ferr == nil {
			resp.FromCity = from.Name
		}
		if to, terr := s.CatalogRepo.GetCityByID(ctx, route.ToCityID); terr == nil {
			resp.ToCity = to.Name
		}
	}
	return resp, nil
}
