package agent

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"busbook/domain"
	"busbook/models"
	"busbook/services/wallet"
)

type stubCatalogService struct {
	seatMap *models.SeatMap
	buses   []models.ScheduleSummary
}

func (s *stubCatalogService) SearchCities(ctx context.Context, query string, limit int) ([]models.City, error) {
	if query == "" {
		return nil, domain.ValidationError{Field: "query", Msg: "search query is required"}
	}
	return []models.City{{ID: "c1", Name: "Bengaluru", Code: "BLR"}}, nil
}

func (s *stubCatalogService) GetPopularCities(ctx context.Context) ([]models.City, error) {
	return []models.City{{ID: "c1", Name: "Bengaluru"}, {ID: "c2", Name: "Chennai"}}, nil
}

func (s *stubCatalogService) SearchBuses(ctx context.Context, fromCity, toCity, travelDate string) ([]models.ScheduleSummary, error) {
	return s.buses, nil
}

func (s *stubCatalogService) GetSeatMap(ctx context.Context, scheduleID string) (*models.SeatMap, error) {
	if s.seatMap == nil || s.seatMap.ScheduleID != scheduleID {
		return nil, domain.NotFoundError{Resource: "schedule"}
	}
	return s.seatMap, nil
}

func (s *stubCatalogService) GetSchedulePoints(ctx context.Context, scheduleID string) ([]models.PointInfo, []models.PointInfo, error) {
	return []models.PointInfo{{Name: "Majestic"}}, []models.PointInfo{{Name: "Koyambedu"}}, nil
}

type stubWalletService struct {
	balance models.Money
}

func (s *stubWalletService) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	return &models.Wallet{ID: "w1", UserID: userID, Balance: s.balance}, nil
}

func (s *stubWalletService) AddMoney(ctx context.Context, userID string, input models.AddMoneyInput) (*wallet.AddMoneyResult, error) {
	return nil, domain.ValidationError{Msg: "not supported"}
}

func (s *stubWalletService) ListTransactions(ctx context.Context, userID string, limit, offset int) ([]models.Transaction, int64, error) {
	return nil, 0, nil
}

type stubBookingService struct {
	lastInput  models.BookingInput
	lastSource string
	bookErr    error
}

func (s *stubBookingService) CreateBooking(ctx context.Context, userID string, input models.BookingInput, source string) (*models.BookingResponse, error) {
	s.lastInput = input
	s.lastSource = source
	if s.bookErr != nil {
		return nil, s.bookErr
	}
	return &models.BookingResponse{
		BookingCode: "BKTEST1234",
		Status:      models.BookingStatusConfirmed,
		TotalAmount: 500,
	}, nil
}

func (s *stubBookingService) CancelBooking(ctx context.Context, userID, bookingID string) (*models.BookingResponse, error) {
	return nil, domain.NotFoundError{Resource: "booking"}
}

func (s *stubBookingService) GetBooking(ctx context.Context, userID, bookingID string) (*models.BookingDetailResponse, error) {
	return nil, domain.NotFoundError{Resource: "booking"}
}

func (s *stubBookingService) ListBookings(ctx context.Context, userID string, limit int) ([]models.BookingResponse, error) {
	return []models.BookingResponse{{BookingCode: "BKAAAA1111", Status: models.BookingStatusConfirmed}}, nil
}

func (s *stubBookingService) CompleteDepartedTrips(ctx context.Context, beforeDate string) (int, error) {
	return 0, nil
}

func newTestRegistry() (*ToolRegistry, *stubBookingService) {
	bookingSvc := &stubBookingService{}
	catalogSvc := &stubCatalogService{
		seatMap: &models.SeatMap{
			ScheduleID: "sched-1",
			Total:      2,
			Available: []models.Seat{
				{ID: "s1", SeatNumber: "A1", Price: models.RupeesToMoney(500), IsWindow: true},
			},
			Booked: []models.Seat{{ID: "s2", SeatNumber: "A2"}},
		},
	}
	walletSvc := &stubWalletService{balance: models.RupeesToMoney(750)}
	return NewToolRegistry(catalogSvc, walletSvc, bookingSvc), bookingSvc
}

func decodeResult(t *testing.T, out string) map[string]any {
	t.Helper()
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("tool output is not JSON: %q: %v", out, err)
	}
	return decoded
}

func TestDispatchUnknownTool(t *testing.T) {
	registry, _ := newTestRegistry()

	out := registry.Dispatch(context.Background(), "user-1", "launch_rocket", nil)
	decoded := decodeResult(t, out)
	if _, ok := decoded["error"]; !ok {
		t.Fatalf("unknown tool should produce error text, got %q", out)
	}
}

func TestCheckWalletBalanceTool(t *testing.T) {
	registry, _ := newTestRegistry()

	out := registry.Dispatch(context.Background(), "user-1", "check_wallet_balance", map[string]any{})
	decoded := decodeResult(t, out)
	if decoded["balance"] != 750.0 {
		t.Errorf("balance = %v, want 750", decoded["balance"])
	}
}

func TestSeatAvailabilityTool(t *testing.T) {
	registry, _ := newTestRegistry()

	out := registry.Dispatch(context.Background(), "user-1", "get_seat_availability",
		map[string]any{"schedule_id": "sched-1"})
	decoded := decodeResult(t, out)
	if decoded["available_count"] != 1.0 {
		t.Errorf("available_count = %v, want 1", decoded["available_count"])
	}

	out = registry.Dispatch(context.Background(), "user-1", "get_seat_availability",
		map[string]any{"schedule_id": "ghost"})
	decoded = decodeResult(t, out)
	if _, ok := decoded["error"]; !ok {
		t.Errorf("missing schedule should produce error text, got %q", out)
	}
}

func TestBookSeatsTool(t *testing.T) {
	registry, bookingSvc := newTestRegistry()

	out := registry.Dispatch(context.Background(), "user-1", "book_seats", map[string]any{
		"schedule_id":       "sched-1",
		"seat_ids":          []any{"s1"},
		"passenger_names":   []any{"Asha"},
		"passenger_ages":    []any{30.0},
		"passenger_genders": []any{"female"},
	})
	decoded := decodeResult(t, out)
	if decoded["booking_code"] != "BKTEST1234" {
		t.Fatalf("unexpected output: %q", out)
	}
	if bookingSvc.lastSource != models.BookingSourceAgent {
		t.Errorf("source = %q, want agent", bookingSvc.lastSource)
	}
	if bookingSvc.lastInput.PaymentMethod != models.PaymentMethodWallet {
		t.Errorf("payment method = %q, want wallet", bookingSvc.lastInput.PaymentMethod)
	}
}

func TestBookSeatsToolMismatchedArrays(t *testing.T) {
	registry, bookingSvc := newTestRegistry()

	out := registry.Dispatch(context.Background(), "user-1", "book_seats", map[string]any{
		"schedule_id":       "sched-1",
		"seat_ids":          []any{"s1", "s2"},
		"passenger_names":   []any{"Asha"},
		"passenger_ages":    []any{30.0, 40.0},
		"passenger_genders": []any{"female", "male"},
	})
	decoded := decodeResult(t, out)
	errMsg, ok := decoded["error"].(string)
	if !ok || !strings.Contains(errMsg, "same length") {
		t.Fatalf("mismatched arrays should produce a length error, got %q", out)
	}
	if bookingSvc.lastInput.ScheduleID != "" {
		t.Error("booking service must not be called on malformed args")
	}
}

func TestBookSeatsToolStringEncodedArrays(t *testing.T) {
	registry, _ := newTestRegistry()

	out := registry.Dispatch(context.Background(), "user-1", "book_seats", map[string]any{
		"schedule_id":       "sched-1",
		"seat_ids":          `["s1"]`,
		"passenger_names":   `["Asha"]`,
		"passenger_ages":    `[30]`,
		"passenger_genders": `["female"]`,
	})
	decoded := decodeResult(t, out)
	if decoded["booking_code"] != "BKTEST1234" {
		t.Fatalf("string-encoded arrays should be accepted, got %q", out)
	}
}

func TestBookSeatsToolMalformedArgs(t *testing.T) {
	registry, _ := newTestRegistry()

	out := registry.Dispatch(context.Background(), "user-1", "book_seats", map[string]any{
		"schedule_id": "sched-1",
		"seat_ids":    42,
	})
	decoded := decodeResult(t, out)
	if _, ok := decoded["error"]; !ok {
		t.Fatalf("malformed args should produce error text, got %q", out)
	}
}

func TestBookSeatsToolBusinessErrorSurfaced(t *testing.T) {
	registry, bookingSvc := newTestRegistry()
	bookingSvc.bookErr = domain.BusinessError{
		Code: domain.CodeInsufficientBalance,
		Msg:  "insufficient wallet balance",
	}

	out := registry.Dispatch(context.Background(), "user-1", "book_seats", map[string]any{
		"schedule_id":       "sched-1",
		"seat_ids":          []any{"s1"},
		"passenger_names":   []any{"Asha"},
		"passenger_ages":    []any{30.0},
		"passenger_genders": []any{"female"},
	})
	decoded := decodeResult(t, out)
	errMsg, ok := decoded["error"].(string)
	if !ok || !strings.Contains(errMsg, "insufficient") {
		t.Fatalf("business error should be readable by the model, got %q", out)
	}
}

func TestDeclarationsCoverEveryTool(t *testing.T) {
	registry, _ := newTestRegistry()

	decls := registry.Declarations()
	if len(decls) != 8 {
		t.Fatalf("declarations = %d, want 8", len(decls))
	}
	names := make(map[string]bool, len(decls))
	for _, d := range decls {
		names[d.Name] = true
	}
	for _, want := range []string{
		"search_cities", "get_popular_cities", "search_buses",
		"get_seat_availability", "get_boarding_dropping_points",
		"check_wallet_balance", "book_seats", "get_user_bookings",
	} {
		if !names[want] {
			t.Errorf("missing tool declaration %q", want)
		}
	}
}
