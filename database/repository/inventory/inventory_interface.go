package inventoryRepo

import (
	"context"

	"busbook/models"
)

// InventoryRepository is the per-schedule seat ledger. Reserve and release are
// guarded writes: they only flip seats whose availability matches the expected
// prior state, and they adjust the schedule's cached available-seat counter in
// the same call sequence. Callers run both inside one transaction so the
// counter invariant holds at every commit point.
type InventoryRepository interface {
	GetSeats(ctx context.Context, scheduleID string) ([]models.Seat, error)
	GetSeatsByIDs(ctx context.Context, scheduleID string, seatIDs []string) ([]models.Seat, error)
	// ReserveSeats flips the given seats to unavailable. It only matches seats
	// on the schedule that are currently available; if fewer than
	// len(seatIDs) were flipped it returns the number actually modified so
	// the caller can abort the transaction.
	ReserveSeats(ctx context.Context, scheduleID string, seatIDs []string) (int64, error)
	// ReleaseSeats flips the given seats back to available.
	ReleaseSeats(ctx context.Context, scheduleID string, seatIDs []string) (int64, error)
	// AdjustAvailableSeats applies a delta to the schedule's counter. Negative
	// deltas only match while the counter stays non-negative.
	AdjustAvailableSeats(ctx context.Context, scheduleID string, delta int) error
}
