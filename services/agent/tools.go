package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"busbook/domain"
	"busbook/models"
	"busbook/services/booking"
	"busbook/services/catalog"
	"busbook/services/wallet"

	"github.com/google/generative-ai-go/genai"
)

// Tool is one agent-callable operation. Run always returns a JSON string;
// failures become {"error": ...} payloads rather than Go errors so the model
// can read them and recover.
type Tool struct {
	Declaration *genai.FunctionDeclaration
	Run         func(ctx context.Context, userID string, args map[string]any) string
}

// ToolRegistry is the closed set of operations the agent may perform.
// Anything outside it is rejected at dispatch.
type ToolRegistry struct {
	tools map[string]Tool
}

func toolError(format string, a ...any) string {
	b, _ := json.Marshal(map[string]string{"error": fmt.Sprintf(format, a...)})
	return string(b)
}

func toolResult(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return toolError("could not encode result: %v", err)
	}
	return string(b)
}

// errText folds a domain error into model-readable text.
func errText(err error) string {
	switch {
	case domain.IsNotFound(err), domain.IsValidation(err), domain.IsBusiness(err):
		return toolError("%s", err.Error())
	default:
		return toolError("something went wrong, please try again")
	}
}

func argString(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

// argStrings accepts either a real JSON array or an array encoded as a JSON
// string, which some models emit.
func argStrings(args map[string]any, key string) ([]string, error) {
	switch v := args[key].(type) {
	case nil:
		return nil, fmt.Errorf("%s is required", key)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be an array of strings", key)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		var out []string
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return nil, fmt.Errorf("%s must be a JSON array of strings", key)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be an array of strings", key)
	}
}

func argInts(args map[string]any, key string) ([]int, error) {
	switch v := args[key].(type) {
	case nil:
		return nil, fmt.Errorf("%s is required", key)
	case []any:
		out := make([]int, 0, len(v))
		for _, item := range v {
			switch n := item.(type) {
			case float64:
				out = append(out, int(n))
			case string:
				parsed, err := strconv.Atoi(n)
				if err != nil {
					return nil, fmt.Errorf("%s must be an array of numbers", key)
				}
				out = append(out, parsed)
			default:
				return nil, fmt.Errorf("%s must be an array of numbers", key)
			}
		}
		return out, nil
	case string:
		var out []int
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			return nil, fmt.Errorf("%s must be a JSON array of numbers", key)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s must be an array of numbers", key)
	}
}

// NewToolRegistry wires the agent tool set over the domain services.
func NewToolRegistry(catalogSvc catalog.CatalogService, walletSvc wallet.WalletService, bookingSvc booking.BookingService) *ToolRegistry {
	r := &ToolRegistry{tools: make(map[string]Tool)}

	r.register(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "search_cities",
			Description: "Search cities served by the bus network by partial name or code.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {Type: genai.TypeString, Description: "Partial city name or code, e.g. 'bang' or 'BLR'"},
				},
				Required: []string{"query"},
			},
		},
		Run: func(ctx context.Context, userID string, args map[string]any) string {
			query := argString(args, "query")
			cities, err := catalogSvc.SearchCities(ctx, query, 10)
			if err != nil {
				return errText(err)
			}
			return toolResult(map[string]any{"cities": cities})
		},
	})

	r.register(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "get_popular_cities",
			Description: "List popular cities to suggest when the user has no destination in mind.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
		},
		Run: func(ctx context.Context, userID string, args map[string]any) string {
			cities, err := catalogSvc.GetPopularCities(ctx)
			if err != nil {
				return errText(err)
			}
			return toolResult(map[string]any{"cities": cities})
		},
	})

	r.register(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "search_buses",
			Description: "Find buses between two cities on a travel date.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"from_city":   {Type: genai.TypeString, Description: "Departure city name"},
					"to_city":     {Type: genai.TypeString, Description: "Destination city name"},
					"travel_date": {Type: genai.TypeString, Description: "Travel date in YYYY-MM-DD"},
				},
				Required: []string{"from_city", "to_city", "travel_date"},
			},
		},
		Run: func(ctx context.Context, userID string, args map[string]any) string {
			buses, err := catalogSvc.SearchBuses(ctx,
				argString(args, "from_city"),
				argString(args, "to_city"),
				argString(args, "travel_date"))
			if err != nil {
				return errText(err)
			}
			return toolResult(map[string]any{"buses": buses})
		},
	})

	r.register(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "get_seat_availability",
			Description: "Get the seat map for a schedule: which seats are open, their numbers and prices.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"schedule_id": {Type: genai.TypeString, Description: "Schedule id from search_buses"},
				},
				Required: []string{"schedule_id"},
			},
		},
		Run: func(ctx context.Context, userID string, args map[string]any) string {
			seatMap, err := catalogSvc.GetSeatMap(ctx, argString(args, "schedule_id"))
			if err != nil {
				return errText(err)
			}
			available := make([]map[string]any, 0, len(seatMap.Available))
			for _, seat := range seatMap.Available {
				available = append(available, map[string]any{
					"seat_id":     seat.ID,
					"seat_number": seat.SeatNumber,
					"seat_type":   seat.SeatType,
					"price":       seat.Price.Rupees(),
					"is_window":   seat.IsWindow,
					"ladies_only": seat.IsLadiesOnly,
					"deck":        seat.Deck,
				})
			}
			return toolResult(map[string]any{
				"schedule_id":     seatMap.ScheduleID,
				"total_seats":     seatMap.Total,
				"available_count": len(seatMap.Available),
				"available_seats": available,
			})
		},
	})

	r.register(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "get_boarding_dropping_points",
			Description: "Get boarding and dropping points for a schedule.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"schedule_id": {Type: genai.TypeString, Description: "Schedule id from search_buses"},
				},
				Required: []string{"schedule_id"},
			},
		},
		Run: func(ctx context.Context, userID string, args map[string]any) string {
			boarding, dropping, err := catalogSvc.GetSchedulePoints(ctx, argString(args, "schedule_id"))
			if err != nil {
				return errText(err)
			}
			return toolResult(map[string]any{
				"boarding_points": boarding,
				"dropping_points": dropping,
			})
		},
	})

	r.register(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "check_wallet_balance",
			Description: "Check the user's wallet balance in rupees.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
		},
		Run: func(ctx context.Context, userID string, args map[string]any) string {
			w, err := walletSvc.GetWallet(ctx, userID)
			if err != nil {
				return errText(err)
			}
			return toolResult(map[string]any{"balance": w.Balance.Rupees()})
		},
	})

	r.register(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "book_seats",
			Description: "Book seats on a schedule, paying from the wallet. Seat ids, passenger names, ages and genders are parallel arrays: entry i of each describes passenger i.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"schedule_id":       {Type: genai.TypeString, Description: "Schedule id from search_buses"},
					"seat_ids":          {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "Seat ids from get_seat_availability"},
					"passenger_names":   {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"passenger_ages":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeInteger}},
					"passenger_genders": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}, Description: "male, female or other"},
				},
				Required: []string{"schedule_id", "seat_ids", "passenger_names", "passenger_ages", "passenger_genders"},
			},
		},
		Run: func(ctx context.Context, userID string, args map[string]any) string {
			scheduleID := argString(args, "schedule_id")
			if scheduleID == "" {
				return toolError("schedule_id is required")
			}
			seatIDs, err := argStrings(args, "seat_ids")
			if err != nil {
				return toolError("%s", err.Error())
			}
			names, err := argStrings(args, "passenger_names")
			if err != nil {
				return toolError("%s", err.Error())
			}
			ages, err := argInts(args, "passenger_ages")
			if err != nil {
				return toolError("%s", err.Error())
			}
			genders, err := argStrings(args, "passenger_genders")
			if err != nil {
				return toolError("%s", err.Error())
			}
			if len(seatIDs) == 0 {
				return toolError("at least one seat is required")
			}
			if len(names) != len(seatIDs) || len(ages) != len(seatIDs) || len(genders) != len(seatIDs) {
				return toolError("seat_ids, passenger_names, passenger_ages and passenger_genders must have the same length")
			}

			input := models.BookingInput{
				ScheduleID:    scheduleID,
				PaymentMethod: models.PaymentMethodWallet,
			}
			for i := range seatIDs {
				input.Passengers = append(input.Passengers, models.PassengerInput{
					SeatID: seatIDs[i],
					Name:   names[i],
					Age:    ages[i],
					Gender: genders[i],
				})
			}

			resp, err := bookingSvc.CreateBooking(ctx, userID, input, models.BookingSourceAgent)
			if err != nil {
				return errText(err)
			}
			return toolResult(map[string]any{
				"booking_code": resp.BookingCode,
				"status":       resp.Status,
				"total_amount": resp.TotalAmount,
				"passengers":   resp.Passengers,
			})
		},
	})

	r.register(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "get_user_bookings",
			Description: "List the user's recent bookings, newest first.",
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
		},
		Run: func(ctx context.Context, userID string, args map[string]any) string {
			bookings, err := bookingSvc.ListBookings(ctx, userID, 5)
			if err != nil {
				return errText(err)
			}
			return toolResult(map[string]any{"bookings": bookings})
		},
	})

	return r
}

func (r *ToolRegistry) register(t Tool) {
	r.tools[t.Declaration.Name] = t
}

// Declarations returns the function declarations for the model.
func (r *ToolRegistry) Declarations() []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(r.tools))
	for _, t := range r.tools {
		decls = append(decls, t.Declaration)
	}
	return decls
}

// Dispatch runs the named tool. Unknown names come back as error text so the
// model can correct itself.
func (r *ToolRegistry) Dispatch(ctx context.Context, userID, name string, args map[string]any) string {
	t, ok := r.tools[name]
	if !ok {
		return toolError("unknown tool %q", name)
	}
	return t.Run(ctx, userID, args)
}
