package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"busbook/domain"
	"busbook/models"
)

func newTestService() (*DefaultBookingService, *memStore) {
	store := newMemStore()
	bookings := &fakeBookingRepo{store: store}
	svc := &DefaultBookingService{
		CatalogRepo:   &fakeCatalogRepo{store: store},
		InventoryRepo: &fakeInventoryRepo{store: store},
		WalletRepo:    &fakeWalletRepo{store: store},
		BookingRepo:   bookings,
		Tx:            &fakeTxRunner{store: store},
		Codes:         NewCodeGenerator(bookings),
	}
	return svc, store
}

// seedSchedule adds a scheduled trip with n seats priced uniformly.
func seedSchedule(store *memStore, scheduleID string, n int, price models.Money) []string {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.schedules[scheduleID] = &models.Schedule{
		ID:             scheduleID,
		TravelDate:     "2026-09-15",
		DepartureTime:  "21:30",
		ArrivalTime:    "05:45",
		BasePrice:      price,
		AvailableSeats: n,
		Status:         models.ScheduleStatusScheduled,
	}
	seatIDs := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("%s-seat-%d", scheduleID, i)
		store.seats[id] = &models.Seat{
			ID:          id,
			ScheduleID:  scheduleID,
			SeatNumber:  fmt.Sprintf("A%d", i),
			Price:       price,
			IsAvailable: true,
		}
		seatIDs = append(seatIDs, id)
	}
	return seatIDs
}

func seedWallet(store *memStore, userID string, balance models.Money) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.wallets[userID] = &models.Wallet{
		ID:      "wallet-" + userID,
		UserID:  userID,
		Balance: balance,
	}
}

func walletBalance(store *memStore, userID string) models.Money {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.wallets[userID].Balance
}

func scheduleCounter(store *memStore, scheduleID string) int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.schedules[scheduleID].AvailableSeats
}

func availableSeatCount(store *memStore, scheduleID string) int {
	store.mu.Lock()
	defer store.mu.Unlock()
	count := 0
	for _, seat := range store.seats {
		if seat.ScheduleID == scheduleID && seat.IsAvailable {
			count++
		}
	}
	return count
}

func bookingInput(scheduleID string, seatIDs ...string) models.BookingInput {
	input := models.BookingInput{
		ScheduleID:    scheduleID,
		PaymentMethod: models.PaymentMethodWallet,
	}
	for i, id := range seatIDs {
		input.Passengers = append(input.Passengers, models.PassengerInput{
			SeatID: id,
			Name:   fmt.Sprintf("Passenger %d", i+1),
			Age:    30,
			Gender: "female",
		})
	}
	return input
}

func TestCreateBookingHappyPath(t *testing.T) {
	svc, store := newTestService()
	seatIDs := seedSchedule(store, "sched-1", 4, models.RupeesToMoney(500))
	seedWallet(store, "user-1", models.RupeesToMoney(2000))

	resp, err := svc.CreateBooking(context.Background(), "user-1", bookingInput("sched-1", seatIDs[0], seatIDs[1]), "")
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	if resp.Status != models.BookingStatusConfirmed {
		t.Errorf("status = %q, want confirmed", resp.Status)
	}
	if resp.TotalAmount != 1000 {
		t.Errorf("total = %v, want 1000", resp.TotalAmount)
	}
	if len(resp.BookingCode) != 10 || resp.BookingCode[:2] != "BK" {
		t.Errorf("booking code %q does not match BK + 8 chars", resp.BookingCode)
	}
	if resp.Source != models.BookingSourceDirect {
		t.Errorf("source = %q, want direct", resp.Source)
	}
	if got := walletBalance(store, "user-1"); got != models.RupeesToMoney(1000) {
		t.Errorf("wallet balance = %v, want 1000 rupees", got)
	}
	if got := scheduleCounter(store, "sched-1"); got != 2 {
		t.Errorf("available_seats = %d, want 2", got)
	}
	if got := availableSeatCount(store, "sched-1"); got != 2 {
		t.Errorf("available seat rows = %d, want 2", got)
	}
	if len(resp.Passengers) != 2 || resp.Passengers[0].SeatNumber == "" {
		t.Errorf("passenger seat numbers not resolved: %+v", resp.Passengers)
	}
}

func TestCreateBookingInsufficientBalanceRollsBack(t *testing.T) {
	svc, store := newTestService()
	seatIDs := seedSchedule(store, "sched-1", 2, models.RupeesToMoney(500))
	seedWallet(store, "user-1", models.RupeesToMoney(300))

	_, err := svc.CreateBooking(context.Background(), "user-1", bookingInput("sched-1", seatIDs[0]), "")
	if domain.BusinessCode(err) != domain.CodeInsufficientBalance {
		t.Fatalf("err = %v, want insufficient_balance", err)
	}

	if got := walletBalance(store, "user-1"); got != models.RupeesToMoney(300) {
		t.Errorf("wallet balance changed on failure: %v", got)
	}
	if got := scheduleCounter(store, "sched-1"); got != 2 {
		t.Errorf("counter changed on failure: %d", got)
	}
	if got := availableSeatCount(store, "sched-1"); got != 2 {
		t.Errorf("seat flipped on failure: %d available", got)
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.bookings) != 0 || len(store.txns) != 0 {
		t.Errorf("failed booking left records: %d bookings, %d txns", len(store.bookings), len(store.txns))
	}
}

func TestCreateBookingSeatAlreadyTaken(t *testing.T) {
	svc, store := newTestService()
	seatIDs := seedSchedule(store, "sched-1", 2, models.RupeesToMoney(400))
	seedWallet(store, "user-1", models.RupeesToMoney(5000))

	store.mu.Lock()
	store.seats[seatIDs[0]].IsAvailable = false
	store.schedules["sched-1"].AvailableSeats = 1
	store.mu.Unlock()

	_, err := svc.CreateBooking(context.Background(), "user-1", bookingInput("sched-1", seatIDs[0]), "")
	if domain.BusinessCode(err) != domain.CodeSeatUnavailable {
		t.Fatalf("err = %v, want seat_unavailable", err)
	}
}

func TestCreateBookingUnknownSeat(t *testing.T) {
	svc, store := newTestService()
	seedSchedule(store, "sched-1", 2, models.RupeesToMoney(400))
	seedWallet(store, "user-1", models.RupeesToMoney(5000))

	_, err := svc.CreateBooking(context.Background(), "user-1", bookingInput("sched-1", "no-such-seat"), "")
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCreateBookingDuplicateSeatInRequest(t *testing.T) {
	svc, store := newTestService()
	seatIDs := seedSchedule(store, "sched-1", 2, models.RupeesToMoney(400))
	seedWallet(store, "user-1", models.RupeesToMoney(5000))

	_, err := svc.CreateBooking(context.Background(), "user-1", bookingInput("sched-1", seatIDs[0], seatIDs[0]), "")
	if !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCreateBookingScheduleNotBookable(t *testing.T) {
	svc, store := newTestService()
	seatIDs := seedSchedule(store, "sched-1", 2, models.RupeesToMoney(400))
	seedWallet(store, "user-1", models.RupeesToMoney(5000))

	store.mu.Lock()
	store.schedules["sched-1"].Status = models.ScheduleStatusCancelled
	store.mu.Unlock()

	_, err := svc.CreateBooking(context.Background(), "user-1", bookingInput("sched-1", seatIDs[0]), "")
	if domain.BusinessCode(err) != domain.CodeScheduleNotBookable {
		t.Fatalf("err = %v, want schedule_not_bookable", err)
	}
}

func TestCreateBookingUnknownSchedule(t *testing.T) {
	svc, store := newTestService()
	seedWallet(store, "user-1", models.RupeesToMoney(5000))

	_, err := svc.CreateBooking(context.Background(), "user-1", bookingInput("ghost", "seat"), "")
	if !domain.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestBookThenCancelRestoresEverything(t *testing.T) {
	svc, store := newTestService()
	seatIDs := seedSchedule(store, "sched-1", 3, models.RupeesToMoney(250))
	seedWallet(store, "user-1", models.RupeesToMoney(1000))

	resp, err := svc.CreateBooking(context.Background(), "user-1", bookingInput("sched-1", seatIDs[0], seatIDs[1]), "")
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	cancelled, err := svc.CancelBooking(context.Background(), "user-1", resp.ID)
	if err != nil {
		t.Fatalf("CancelBooking failed: %v", err)
	}
	if cancelled.Status != models.BookingStatusCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
	if cancelled.CancelledAt == nil {
		t.Error("cancelled_at not set")
	}

	if got := walletBalance(store, "user-1"); got != models.RupeesToMoney(1000) {
		t.Errorf("wallet balance = %v, want full refund to 1000", got)
	}
	if got := scheduleCounter(store, "sched-1"); got != 3 {
		t.Errorf("counter = %d, want 3 after cancel", got)
	}
	if got := availableSeatCount(store, "sched-1"); got != 3 {
		t.Errorf("available seats = %d, want 3 after cancel", got)
	}

	// Ledger has one debit and one credit of the same amount.
	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.txns) != 2 {
		t.Fatalf("txns = %d, want 2", len(store.txns))
	}
	if store.txns[0].Type != models.TransactionDebit || store.txns[1].Type != models.TransactionCredit {
		t.Errorf("txn types = %s, %s", store.txns[0].Type, store.txns[1].Type)
	}
	if store.txns[0].Amount != store.txns[1].Amount {
		t.Errorf("refund amount %v != debit amount %v", store.txns[1].Amount, store.txns[0].Amount)
	}
}

func TestCancelTwiceFails(t *testing.T) {
	svc, store := newTestService()
	seatIDs := seedSchedule(store, "sched-1", 1, models.RupeesToMoney(100))
	seedWallet(store, "user-1", models.RupeesToMoney(100))

	resp, err := svc.CreateBooking(context.Background(), "user-1", bookingInput("sched-1", seatIDs[0]), "")
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	if _, err := svc.CancelBooking(context.Background(), "user-1", resp.ID); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}

	_, err = svc.CancelBooking(context.Background(), "user-1", resp.ID)
	if domain.BusinessCode(err) != domain.CodeInvalidBookingState {
		t.Fatalf("err = %v, want invalid_booking_state", err)
	}
	// The failed cancel must not double-refund.
	if got := walletBalance(store, "user-1"); got != models.RupeesToMoney(100) {
		t.Errorf("balance = %v after double cancel, want 100", got)
	}
}

func TestCancelSomeoneElsesBooking(t *testing.T) {
	svc, store := newTestService()
	seatIDs := seedSchedule(store, "sched-1", 1, models.RupeesToMoney(100))
	seedWallet(store, "user-1", models.RupeesToMoney(100))

	resp, err := svc.CreateBooking(context.Background(), "user-1", bookingInput("sched-1", seatIDs[0]), "")
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	if _, err := svc.CancelBooking(context.Background(), "user-2", resp.ID); !domain.IsNotFound(err) {
		t.Fatalf("err = %v, want not found for foreign booking", err)
	}
}

// Two bookings of 100 and 120 rupees against a 300-rupee wallet leave exactly
// 80, and the balance always equals credits minus debits.
func TestWalletReconciliation(t *testing.T) {
	svc, store := newTestService()
	seatIDs := seedSchedule(store, "sched-1", 2, models.RupeesToMoney(100))

	store.mu.Lock()
	store.seats[seatIDs[1]].Price = models.RupeesToMoney(120)
	store.mu.Unlock()
	seedWallet(store, "user-1", models.RupeesToMoney(300))

	if _, err := svc.CreateBooking(context.Background(), "user-1", bookingInput("sched-1", seatIDs[0]), ""); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if _, err := svc.CreateBooking(context.Background(), "user-1", bookingInput("sched-1", seatIDs[1]), ""); err != nil {
		t.Fatalf("second booking failed: %v", err)
	}

	if got := walletBalance(store, "user-1"); got != models.RupeesToMoney(80) {
		t.Errorf("balance = %v, want 80 rupees", got)
	}

	store.mu.Lock()
	var net models.Money = models.RupeesToMoney(300)
	for _, txn := range store.txns {
		if txn.Type == models.TransactionCredit {
			net += txn.Amount
		} else {
			net -= txn.Amount
		}
	}
	balance := store.wallets["user-1"].Balance
	store.mu.Unlock()
	if net != balance {
		t.Errorf("ledger net %v != balance %v", net, balance)
	}
}

func TestConcurrentBookingSameSeat(t *testing.T) {
	svc, store := newTestService()
	seatIDs := seedSchedule(store, "sched-1", 1, models.RupeesToMoney(100))
	seedWallet(store, "user-1", models.RupeesToMoney(1000))
	seedWallet(store, "user-2", models.RupeesToMoney(1000))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, userID := range []string{"user-1", "user-2"} {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, errs[i] = svc.CreateBooking(context.Background(), userID, bookingInput("sched-1", seatIDs[0]), "")
		}(i, userID)
	}
	wg.Wait()

	var succeeded, seatConflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case domain.BusinessCode(err) == domain.CodeSeatUnavailable:
			seatConflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || seatConflicts != 1 {
		t.Fatalf("succeeded=%d conflicts=%d, want exactly one of each", succeeded, seatConflicts)
	}
	if got := scheduleCounter(store, "sched-1"); got != 0 {
		t.Errorf("counter = %d, want 0", got)
	}

	// Exactly one wallet paid.
	total := walletBalance(store, "user-1") + walletBalance(store, "user-2")
	if total != models.RupeesToMoney(1900) {
		t.Errorf("combined balances = %v, want 1900 rupees", total)
	}
}

func TestAgentBookingCarriesSource(t *testing.T) {
	svc, store := newTestService()
	seatIDs := seedSchedule(store, "sched-1", 1, models.RupeesToMoney(100))
	seedWallet(store, "user-1", models.RupeesToMoney(100))

	resp, err := svc.CreateBooking(context.Background(), "user-1", bookingInput("sched-1", seatIDs[0]), models.BookingSourceAgent)
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}
	if resp.Source != models.BookingSourceAgent {
		t.Errorf("source = %q, want agent", resp.Source)
	}
}

func TestCompleteDepartedTrips(t *testing.T) {
	svc, store := newTestService()
	seatIDs := seedSchedule(store, "sched-old", 2, models.RupeesToMoney(100))
	seedSchedule(store, "sched-future", 2, models.RupeesToMoney(100))
	seedWallet(store, "user-1", models.RupeesToMoney(500))

	store.mu.Lock()
	store.schedules["sched-old"].TravelDate = "2026-08-01"
	store.mu.Unlock()

	resp, err := svc.CreateBooking(context.Background(), "user-1", bookingInput("sched-old", seatIDs[0]), "")
	if err != nil {
		t.Fatalf("CreateBooking failed: %v", err)
	}

	swept, err := svc.CompleteDepartedTrips(context.Background(), "2026-08-30")
	if err != nil {
		t.Fatalf("CompleteDepartedTrips failed: %v", err)
	}
	if swept != 1 {
		t.Errorf("swept = %d, want 1", swept)
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.schedules["sched-old"].Status != models.ScheduleStatusCompleted {
		t.Errorf("old schedule status = %q, want completed", store.schedules["sched-old"].Status)
	}
	if store.schedules["sched-future"].Status != models.ScheduleStatusScheduled {
		t.Errorf("future schedule status = %q, want scheduled", store.schedules["sched-future"].Status)
	}
	if store.bookings[resp.ID].Status != models.BookingStatusCompleted {
		t.Errorf("booking status = %q, want completed", store.bookings[resp.ID].Status)
	}
}

func TestCreateBookingInvalidPaymentMethod(t *testing.T) {
	svc, store := newTestService()
	seatIDs := seedSchedule(store, "sched-1", 1, models.RupeesToMoney(100))
	seedWallet(store, "user-1", models.RupeesToMoney(100))

	input := bookingInput("sched-1", seatIDs[0])
	input.PaymentMethod = "cheque"
	if _, err := svc.CreateBooking(context.Background(), "user-1", input, ""); !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestCreateBookingNoPassengers(t *testing.T) {
	svc, store := newTestService()
	seedSchedule(store, "sched-1", 1, models.RupeesToMoney(100))

	input := models.BookingInput{ScheduleID: "sched-1", PaymentMethod: models.PaymentMethodWallet}
	if _, err := svc.CreateBooking(context.Background(), "user-1", input, ""); !domain.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}
