package cron

import (
	"context"
	"encoding/json"
	"time"

	"busbook/config"
	"busbook/models"
	"busbook/services/notification"
	"busbook/services/tasks"
	"busbook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitReminderWorker runs the async reminder worker in the background.
func InitReminderWorker(notifSvc notification.NotificationService) {
	logger := utils.GetLogger()

	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDepartureReminder, handleDepartureReminderTask(notifSvc))

	go func() {
		const maxAttempts = 5
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			logger.Info("starting reminder worker", zap.Int("attempt", attempt))
			if err := srv.Run(mux); err != nil {
				logger.Error("reminder worker failed to start", zap.Error(err))
				if attempt == maxAttempts {
					logger.Fatal("reminder worker could not start, giving up")
				}
				time.Sleep(time.Duration(attempt*2) * time.Second)
				continue
			}
			break
		}
	}()
}

func handleDepartureReminderTask(notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			utils.GetLogger().Error("invalid reminder payload", zap.Error(err))
			return err
		}
		notifSvc.DepartureReminder(ctx, payload)
		return nil
	}
}
