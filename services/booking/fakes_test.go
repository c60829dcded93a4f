package booking

import (
	"context"
	"sync"
	"time"

	"busbook/domain"
	"busbook/models"
)

// memStore is a single in-memory backing store shared by the fake
// repositories, so a test sees the same consistency rules the real
// repositories enforce.
type memStore struct {
	mu         sync.Mutex
	schedules  map[string]*models.Schedule
	seats      map[string]*models.Seat
	wallets    map[string]*models.Wallet // keyed by user id
	txns       []models.Transaction
	bookings   map[string]*models.Booking
	passengers map[string][]models.BookingPassenger
	codes      map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		schedules:  make(map[string]*models.Schedule),
		seats:      make(map[string]*models.Seat),
		wallets:    make(map[string]*models.Wallet),
		bookings:   make(map[string]*models.Booking),
		passengers: make(map[string][]models.BookingPassenger),
		codes:      make(map[string]bool),
	}
}

type memSnapshot struct {
	schedules  map[string]models.Schedule
	seats      map[string]models.Seat
	wallets    map[string]models.Wallet
	txns       []models.Transaction
	bookings   map[string]models.Booking
	passengers map[string][]models.BookingPassenger
	codes      map[string]bool
}

func (s *memStore) snapshot() *memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := &memSnapshot{
		schedules:  make(map[string]models.Schedule, len(s.schedules)),
		seats:      make(map[string]models.Seat, len(s.seats)),
		wallets:    make(map[string]models.Wallet, len(s.wallets)),
		txns:       append([]models.Transaction(nil), s.txns...),
		bookings:   make(map[string]models.Booking, len(s.bookings)),
		passengers: make(map[string][]models.BookingPassenger, len(s.passengers)),
		codes:      make(map[string]bool, len(s.codes)),
	}
	for id, v := range s.schedules {
		snap.schedules[id] = *v
	}
	for id, v := range s.seats {
		snap.seats[id] = *v
	}
	for id, v := range s.wallets {
		snap.wallets[id] = *v
	}
	for id, v := range s.bookings {
		snap.bookings[id] = *v
	}
	for id, v := range s.passengers {
		snap.passengers[id] = append([]models.BookingPassenger(nil), v...)
	}
	for code := range s.codes {
		snap.codes[code] = true
	}
	return snap
}

func (s *memStore) restore(snap *memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.schedules = make(map[string]*models.Schedule, len(snap.schedules))
	for id := range snap.schedules {
		v := snap.schedules[id]
		s.schedules[id] = &v
	}
	s.seats = make(map[string]*models.Seat, len(snap.seats))
	for id := range snap.seats {
		v := snap.seats[id]
		s.seats[id] = &v
	}
	s.wallets = make(map[string]*models.Wallet, len(snap.wallets))
	for id := range snap.wallets {
		v := snap.wallets[id]
		s.wallets[id] = &v
	}
	s.txns = append([]models.Transaction(nil), snap.txns...)
	s.bookings = make(map[string]*models.Booking, len(snap.bookings))
	for id := range snap.bookings {
		v := snap.bookings[id]
		s.bookings[id] = &v
	}
	s.passengers = make(map[string][]models.BookingPassenger, len(snap.passengers))
	for id, v := range snap.passengers {
		s.passengers[id] = append([]models.BookingPassenger(nil), v...)
	}
	s.codes = make(map[string]bool, len(snap.codes))
	for code := range snap.codes {
		s.codes[code] = true
	}
}

// fakeTxRunner serializes transactions and rolls the store back to its
// pre-transaction state when fn fails, mirroring the commit-or-rollback
// contract of the real runner.
type fakeTxRunner struct {
	store *memStore
	txMu  sync.Mutex
}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()

	snap := f.store.snapshot()
	if err := fn(ctx); err != nil {
		f.store.restore(snap)
		return err
	}
	return nil
}

// --- catalog fake ---

type fakeCatalogRepo struct{ store *memStore }

func (r *fakeCatalogRepo) SearchCities(ctx context.Context, query string, limit int) ([]models.City, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) FindCity(ctx context.Context, query string) (*models.City, error) {
	return nil, domain.NotFoundError{Resource: "city"}
}

func (r *fakeCatalogRepo) GetPopularCities(ctx context.Context) ([]models.City, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) GetCityByID(ctx context.Context, id string) (*models.City, error) {
	return nil, domain.NotFoundError{Resource: "city"}
}

func (r *fakeCatalogRepo) FindRoutes(ctx context.Context, fromCityID, toCityID string) ([]models.Route, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) GetRouteByID(ctx context.Context, id string) (*models.Route, error) {
	return nil, domain.NotFoundError{Resource: "route"}
}

func (r *fakeCatalogRepo) GetOperatorByID(ctx context.Context, id string) (*models.Operator, error) {
	return nil, domain.NotFoundError{Resource: "operator"}
}

func (r *fakeCatalogRepo) GetBusByID(ctx context.Context, id string) (*models.Bus, error) {
	return nil, domain.NotFoundError{Resource: "bus"}
}

func (r *fakeCatalogRepo) GetScheduleByID(ctx context.Context, id string) (*models.Schedule, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	schedule, ok := r.store.schedules[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "schedule"}
	}
	copied := *schedule
	return &copied, nil
}

func (r *fakeCatalogRepo) FindBookableSchedules(ctx context.Context, routeIDs []string, travelDate string) ([]models.Schedule, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) ListDepartedScheduled(ctx context.Context, beforeDate string) ([]models.Schedule, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Schedule
	for _, schedule := range r.store.schedules {
		if schedule.Status == models.ScheduleStatusScheduled && schedule.TravelDate < beforeDate {
			out = append(out, *schedule)
		}
	}
	return out, nil
}

func (r *fakeCatalogRepo) MarkScheduleCompleted(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	schedule, ok := r.store.schedules[id]
	if !ok {
		return domain.NotFoundError{Resource: "schedule"}
	}
	schedule.Status = models.ScheduleStatusCompleted
	return nil
}

func (r *fakeCatalogRepo) GetBoardingPoints(ctx context.Context, scheduleID string) ([]models.BoardingPoint, error) {
	return nil, nil
}

func (r *fakeCatalogRepo) GetDroppingPoints(ctx context.Context, scheduleID string) ([]models.DroppingPoint, error) {
	return nil, nil
}

// --- inventory fake ---

type fakeInventoryRepo struct{ store *memStore }

func (r *fakeInventoryRepo) GetSeats(ctx context.Context, scheduleID string) ([]models.Seat, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Seat
	for _, seat := range r.store.seats {
		if seat.ScheduleID == scheduleID {
			out = append(out, *seat)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) GetSeatsByIDs(ctx context.Context, scheduleID string, seatIDs []string) ([]models.Seat, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Seat
	for _, id := range seatIDs {
		if seat, ok := r.store.seats[id]; ok && seat.ScheduleID == scheduleID {
			out = append(out, *seat)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) ReserveSeats(ctx context.Context, scheduleID string, seatIDs []string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var modified int64
	for _, id := range seatIDs {
		seat, ok := r.store.seats[id]
		if ok && seat.ScheduleID == scheduleID && seat.IsAvailable {
			seat.IsAvailable = false
			modified++
		}
	}
	return modified, nil
}

func (r *fakeInventoryRepo) ReleaseSeats(ctx context.Context, scheduleID string, seatIDs []string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var modified int64
	for _, id := range seatIDs {
		seat, ok := r.store.seats[id]
		if ok && seat.ScheduleID == scheduleID && !seat.IsAvailable {
			seat.IsAvailable = true
			modified++
		}
	}
	return modified, nil
}

func (r *fakeInventoryRepo) AdjustAvailableSeats(ctx context.Context, scheduleID string, delta int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	schedule, ok := r.store.schedules[scheduleID]
	if !ok {
		return domain.NotFoundError{Resource: "schedule"}
	}
	if delta < 0 && schedule.AvailableSeats+delta < 0 {
		return domain.BusinessError{Code: domain.CodeSeatUnavailable, Msg: "not enough seats left"}
	}
	schedule.AvailableSeats += delta
	return nil
}

// --- wallet fake ---

type fakeWalletRepo struct {
	store  *memStore
	nextID int
}

func (r *fakeWalletRepo) GetOrCreate(ctx context.Context, userID string) (*models.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if wallet, ok := r.store.wallets[userID]; ok {
		copied := *wallet
		return &copied, nil
	}
	r.nextID++
	wallet := &models.Wallet{
		ID:        "wallet-" + userID,
		UserID:    userID,
		Balance:   0,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.store.wallets[userID] = wallet
	copied := *wallet
	return &copied, nil
}

func (r *fakeWalletRepo) GetByUserID(ctx context.Context, userID string) (*models.Wallet, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wallet, ok := r.store.wallets[userID]
	if !ok {
		return nil, domain.NotFoundError{Resource: "wallet"}
	}
	copied := *wallet
	return &copied, nil
}

func (r *fakeWalletRepo) findByID(walletID string) *models.Wallet {
	for _, wallet := range r.store.wallets {
		if wallet.ID == walletID {
			return wallet
		}
	}
	return nil
}

func (r *fakeWalletRepo) ApplyDebit(ctx context.Context, walletID string, amount models.Money) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wallet := r.findByID(walletID)
	if wallet == nil || wallet.Balance < amount {
		return domain.BusinessError{Code: domain.CodeInsufficientBalance, Msg: "insufficient wallet balance"}
	}
	wallet.Balance -= amount
	return nil
}

func (r *fakeWalletRepo) ApplyCredit(ctx context.Context, walletID string, amount models.Money) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wallet := r.findByID(walletID)
	if wallet == nil {
		return domain.NotFoundError{Resource: "wallet"}
	}
	wallet.Balance += amount
	return nil
}

func (r *fakeWalletRepo) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.txns = append(r.store.txns, *txn)
	return nil
}

func (r *fakeWalletRepo) ListTransactions(ctx context.Context, walletID string, limit, offset int) ([]models.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Transaction
	for i := len(r.store.txns) - 1; i >= 0; i-- {
		if r.store.txns[i].WalletID == walletID {
			out = append(out, r.store.txns[i])
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeWalletRepo) CountTransactions(ctx context.Context, walletID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, txn := range r.store.txns {
		if txn.WalletID == walletID {
			count++
		}
	}
	return count, nil
}

// --- booking fake ---

type fakeBookingRepo struct{ store *memStore }

func (r *fakeBookingRepo) Insert(ctx context.Context, booking *models.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *booking
	r.store.bookings[booking.ID] = &copied
	r.store.codes[booking.BookingCode] = true
	return nil
}

func (r *fakeBookingRepo) InsertPassengers(ctx context.Context, passengers []models.BookingPassenger) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, p := range passengers {
		r.store.passengers[p.BookingID] = append(r.store.passengers[p.BookingID], p)
	}
	return nil
}

func (r *fakeBookingRepo) GetForUser(ctx context.Context, bookingID, userID string) (*models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	booking, ok := r.store.bookings[bookingID]
	if !ok || booking.UserID != userID {
		return nil, domain.NotFoundError{Resource: "booking"}
	}
	copied := *booking
	return &copied, nil
}

func (r *fakeBookingRepo) ListForUser(ctx context.Context, userID string, limit int) ([]models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Booking
	for _, booking := range r.store.bookings {
		if booking.UserID == userID {
			out = append(out, *booking)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeBookingRepo) GetPassengers(ctx context.Context, bookingID string) ([]models.BookingPassenger, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return append([]models.BookingPassenger(nil), r.store.passengers[bookingID]...), nil
}

func (r *fakeBookingRepo) MarkCancelled(ctx context.Context, bookingID string) (*models.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	booking, ok := r.store.bookings[bookingID]
	if !ok || booking.Status != models.BookingStatusConfirmed {
		return nil, domain.BusinessError{
			Code: domain.CodeInvalidBookingState,
			Msg:  "booking is not in a cancellable state",
		}
	}
	now := time.Now()
	booking.Status = models.BookingStatusCancelled
	booking.CancelledAt = &now
	copied := *booking
	return &copied, nil
}

func (r *fakeBookingRepo) MarkCompletedBySchedule(ctx context.Context, scheduleID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var modified int64
	for _, booking := range r.store.bookings {
		if booking.ScheduleID == scheduleID && booking.Status == models.BookingStatusConfirmed {
			booking.Status = models.BookingStatusCompleted
			modified++
		}
	}
	return modified, nil
}

func (r *fakeBookingRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.codes[code], nil
}

func (r *fakeBookingRepo) DeleteBooking(ctx context.Context, bookingID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.bookings[bookingID]; !ok {
		return domain.NotFoundError{Resource: "booking"}
	}
	delete(r.store.passengers, bookingID)
	delete(r.store.bookings, bookingID)
	return nil
}
