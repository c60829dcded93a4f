package booking

import (
	"context"
	"fmt"
	"time"

	"busbook/database"
	bookingRepo "busbook/database/repository/booking"
	catalogRepo "busbook/database/repository/catalog"
	inventoryRepo "busbook/database/repository/inventory"
	walletRepo "busbook/database/repository/wallet"
	"busbook/domain"
	"busbook/models"
	"busbook/services/notification"
	"busbook/services/payment"
	"busbook/services/tasks"
	"busbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	CatalogRepo     catalogRepo.CatalogRepository
	InventoryRepo   inventoryRepo.InventoryRepository
	WalletRepo      walletRepo.WalletRepository
	BookingRepo     bookingRepo.BookingRepository
	Tx              database.TxRunner
	Codes           *CodeGenerator
	PaymentSvc      payment.PaymentService
	NotificationSvc notification.NotificationService
	Reminders       tasks.ReminderScheduler
}

// NewDefaultBookingService wires a booking service over the given stores.
func NewDefaultBookingService(
	catalog catalogRepo.CatalogRepository,
	inventory inventoryRepo.InventoryRepository,
	wallets walletRepo.WalletRepository,
	bookings bookingRepo.BookingRepository,
	tx database.TxRunner,
	paymentSvc payment.PaymentService,
	notificationSvc notification.NotificationService,
	reminders tasks.ReminderScheduler,
) *DefaultBookingService {
	return &DefaultBookingService{
		CatalogRepo:     catalog,
		InventoryRepo:   inventory,
		WalletRepo:      wallets,
		BookingRepo:     bookings,
		Tx:              tx,
		Codes:           NewCodeGenerator(bookings),
		PaymentSvc:      paymentSvc,
		NotificationSvc: notificationSvc,
		Reminders:       reminders,
	}
}

func validPaymentMethod(method string) bool {
	switch method {
	case models.PaymentMethodWallet, models.PaymentMethodCard, models.PaymentMethodUPI:
		return true
	}
	return false
}

// CreateBooking reserves the requested seats, charges the user and records the
// booking. Seat flips, the counter adjustment, the wallet debit and the
// booking insert commit or roll back together.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, userID string, input models.BookingInput, source string) (*models.BookingResponse, error) {
	logger := utils.GetLogger()

	if len(input.Passengers) == 0 {
		return nil, domain.ValidationError{Field: "passengers", Msg: "at least one passenger is required"}
	}
	if !validPaymentMethod(input.PaymentMethod) {
		return nil, domain.ValidationError{Field: "payment_method", Msg: "must be wallet, card or upi"}
	}
	if source == "" {
		source = models.BookingSourceDirect
	}

	seatIDs := make([]string, 0, len(input.Passengers))
	seen := make(map[string]bool, len(input.Passengers))
	for _, p := range input.Passengers {
		if seen[p.SeatID] {
			return nil, domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("seat %s requested more than once", p.SeatID)}
		}
		seen[p.SeatID] = true
		seatIDs = append(seatIDs, p.SeatID)
	}

	schedule, err := s.CatalogRepo.GetScheduleByID(ctx, input.ScheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.Status != models.ScheduleStatusScheduled {
		return nil, domain.BusinessError{
			Code: domain.CodeScheduleNotBookable,
			Msg:  fmt.Sprintf("schedule is %s and cannot be booked", schedule.Status),
		}
	}

	seats, err := s.InventoryRepo.GetSeatsByIDs(ctx, schedule.ID, seatIDs)
	if err != nil {
		return nil, err
	}
	seatByID := make(map[string]models.Seat, len(seats))
	for _, seat := range seats {
		seatByID[seat.ID] = seat
	}

	var total models.Money
	for _, id := range seatIDs {
		seat, ok := seatByID[id]
		if !ok {
			return nil, domain.ValidationError{Field: "passengers", Msg: fmt.Sprintf("seat %s does not exist on this schedule", id)}
		}
		if !seat.IsAvailable {
			return nil, domain.BusinessError{
				Code: domain.CodeSeatUnavailable,
				Msg:  fmt.Sprintf("seat %s is already booked", seat.SeatNumber),
			}
		}
		total += seat.Price
	}

	code, err := s.Codes.Generate(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	bk := &models.Booking{
		ID:            uuid.New().String(),
		BookingCode:   code,
		UserID:        userID,
		ScheduleID:    schedule.ID,
		TotalAmount:   total,
		Status:        models.BookingStatusConfirmed,
		PaymentMethod: input.PaymentMethod,
		Source:        source,
		BookedAt:      now,
	}
	passengers := make([]models.BookingPassenger, 0, len(input.Passengers))
	for _, p := range input.Passengers {
		passengers = append(passengers, models.BookingPassenger{
			ID:        uuid.New().String(),
			BookingID: bk.ID,
			SeatID:    p.SeatID,
			Name:      p.Name,
			Age:       p.Age,
			Gender:    p.Gender,
		})
	}

	// Card and UPI charges happen before the reservation transaction; if the
	// transaction aborts the charge is voided by the payment provider flow.
	if input.PaymentMethod == models.PaymentMethodCard && s.PaymentSvc != nil {
		if _, err := s.PaymentSvc.CreateIntent(ctx, userID, total, "booking "+code); err != nil {
			return nil, err
		}
	}

	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if input.PaymentMethod == models.PaymentMethodWallet {
			wallet, werr := s.WalletRepo.GetOrCreate(txCtx, userID)
			if werr != nil {
				return werr
			}
			if werr := s.WalletRepo.ApplyDebit(txCtx, wallet.ID, total); werr != nil {
				return werr
			}
			txn := &models.Transaction{
				ID:          uuid.New().String(),
				WalletID:    wallet.ID,
				Type:        models.TransactionDebit,
				Amount:      total,
				Description: "Bus booking " + code,
				ReferenceID: bk.ID,
				CreatedAt:   now,
			}
			if werr := s.WalletRepo.InsertTransaction(txCtx, txn); werr != nil {
				return werr
			}
		}

		modified, rerr := s.InventoryRepo.ReserveSeats(txCtx, schedule.ID, seatIDs)
		if rerr != nil {
			return rerr
		}
		if modified != int64(len(seatIDs)) {
			return domain.BusinessError{
				Code: domain.CodeSeatUnavailable,
				Msg:  "one or more selected seats were just booked by someone else",
			}
		}
		if rerr := s.InventoryRepo.AdjustAvailableSeats(txCtx, schedule.ID, -len(seatIDs)); rerr != nil {
			return rerr
		}

		if rerr := s.BookingRepo.Insert(txCtx, bk); rerr != nil {
			return rerr
		}
		return s.BookingRepo.InsertPassengers(txCtx, passengers)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("booking created",
		zap.String("bookingCode", code),
		zap.String("userID", userID),
		zap.String("scheduleID", schedule.ID),
		zap.Int("seats", len(seatIDs)),
		zap.Float64("amount", total.Rupees()),
	)

	if s.NotificationSvc != nil {
		s.NotificationSvc.BookingConfirmed(ctx, userID, bk)
	}
	s.scheduleReminder(ctx, bk, schedule)

	return s.buildResponse(ctx, bk, passengers, seatByID)
}

// scheduleReminder enqueues a departure reminder two hours before the trip.
// Best effort: a queue failure never fails the booking.
func (s *DefaultBookingService) scheduleReminder(ctx context.Context, bk *models.Booking, schedule *models.Schedule) {
	if s.Reminders == nil {
		return
	}
	departure, err := time.Parse("2006-01-02 15:04", schedule.TravelDate+" "+schedule.DepartureTime)
	if err != nil {
		return
	}
	fireAt := departure.Add(-2 * time.Hour)
	if !fireAt.After(time.Now()) {
		return
	}
	payload := models.ReminderPayload{
		BookingID:     bk.ID,
		BookingCode:   bk.BookingCode,
		UserID:        bk.UserID,
		TravelDate:    schedule.TravelDate,
		DepartureTime: schedule.DepartureTime,
	}
	if err := s.Reminders.ScheduleDepartureReminder(ctx, payload, fireAt); err != nil {
		utils.GetLogger().Warn("could not schedule departure reminder",
			zap.String("bookingCode", bk.BookingCode), zap.Error(err))
	}
}

// CancelBooking releases the seats and refunds wallet payments. Only confirmed
// bookings can be cancelled; the state check and the seat release ride the
// same transaction.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, userID, bookingID string) (*models.BookingResponse, error) {
	logger := utils.GetLogger()

	bk, err := s.BookingRepo.GetForUser(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}

	passengers, err := s.BookingRepo.GetPassengers(ctx, bk.ID)
	if err != nil {
		return nil, err
	}
	seatIDs := make([]string, 0, len(passengers))
	for _, p := range passengers {
		seatIDs = append(seatIDs, p.SeatID)
	}

	var cancelled *models.Booking
	err = s.Tx.WithTransaction(ctx, func(txCtx context.Context) error {
		var terr error
		cancelled, terr = s.BookingRepo.MarkCancelled(txCtx, bk.ID)
		if terr != nil {
			return terr
		}

		if _, terr = s.InventoryRepo.ReleaseSeats(txCtx, bk.ScheduleID, seatIDs); terr != nil {
			return terr
		}
		if terr = s.InventoryRepo.AdjustAvailableSeats(txCtx, bk.ScheduleID, len(seatIDs)); terr != nil {
			return terr
		}

		if bk.PaymentMethod == models.PaymentMethodWallet {
			wallet, werr := s.WalletRepo.GetOrCreate(txCtx, userID)
			if werr != nil {
				return werr
			}
			if werr := s.WalletRepo.ApplyCredit(txCtx, wallet.ID, bk.TotalAmount); werr != nil {
				return werr
			}
			txn := &models.Transaction{
				ID:          uuid.New().String(),
				WalletID:    wallet.ID,
				Type:        models.TransactionCredit,
				Amount:      bk.TotalAmount,
				Description: "Refund for booking " + bk.BookingCode,
				ReferenceID: bk.ID,
				CreatedAt:   time.Now().UTC(),
			}
			if werr := s.WalletRepo.InsertTransaction(txCtx, txn); werr != nil {
				return werr
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("booking cancelled",
		zap.String("bookingCode", cancelled.BookingCode),
		zap.String("userID", userID),
		zap.Int("seatsReleased", len(seatIDs)),
	)

	if s.NotificationSvc != nil {
		s.NotificationSvc.BookingCancelled(ctx, userID, cancelled)
	}

	return s.buildResponse(ctx, cancelled, passengers, nil)
}
