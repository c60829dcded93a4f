package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"busbook/config"
	"busbook/models"
	"busbook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeDepartureReminder = "reminder:departure"

// NewDepartureReminderTask builds a reminder task scheduled for fireAt.
func NewDepartureReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeDepartureReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}
	return task, opts, nil
}

// ReminderScheduler enqueues departure reminders onto the task queue.
type ReminderScheduler interface {
	ScheduleDepartureReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}

// AsynqReminderScheduler implements ReminderScheduler on asynq.
type AsynqReminderScheduler struct {
	client *asynq.Client
}

// NewAsynqReminderScheduler builds a scheduler against the configured Redis
// task queue.
func NewAsynqReminderScheduler() *AsynqReminderScheduler {
	return &AsynqReminderScheduler{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisTaskQueueDB,
		}),
	}
}

func (s *AsynqReminderScheduler) ScheduleDepartureReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	task, opts, err := NewDepartureReminderTask(payload, fireAt)
	if err != nil {
		return fmt.Errorf("error building reminder task: %w", err)
	}
	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("error enqueueing reminder task: %w", err)
	}
	utils.GetLogger().Debug("departure reminder scheduled",
		zap.String("taskID", info.ID),
		zap.String("bookingCode", payload.BookingCode),
		zap.Time("fireAt", fireAt),
	)
	return nil
}
