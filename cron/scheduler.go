package cron

import (
	"context"
	"time"

	"busbook/services/booking"
	"busbook/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StartTripCompletionCron runs the hourly sweep that completes departed trips.
// Returns the cron so the caller can stop it on shutdown.
func StartTripCompletionCron(bookingSvc booking.BookingService) *cron.Cron {
	logger := utils.GetLogger()

	c := cron.New()
	_, err := c.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		today := time.Now().UTC().Format("2006-01-02")
		if _, err := bookingSvc.CompleteDepartedTrips(ctx, today); err != nil {
			logger.Error("trip completion sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Fatal("failed to schedule trip completion sweep", zap.Error(err))
	}
	c.Start()
	logger.Info("trip completion cron started")
	return c
}
