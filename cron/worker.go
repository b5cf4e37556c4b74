package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	cronv3 "github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"autoshine/config"
	"autoshine/models"
	"autoshine/services/notification"
	"autoshine/services/subscription"
)

// InitNotificationWorker runs the async delivery worker in background.
func InitNotificationWorker(logger *zap.Logger) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
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
	mux.HandleFunc(notification.TypeNotificationDeliver, handleDeliveryTask(logger))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[NotificationWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[NotificationWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[NotificationWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

// handleDeliveryTask hands queued notifications to the delivery
// transport. The structured log line stands in for the outbound
// email/push gateway, which lives outside this service.
func handleDeliveryTask(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.NotificationPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("notification worker: invalid payload", zap.Error(err))
			return err
		}

		logger.Info("notification delivered",
			zap.String("template", p.Template),
			zap.String("user", p.UserID),
			zap.String("booking", p.BookingID),
			zap.Any("data", p.Data))
		return nil
	}
}

// StartDueSweep schedules the subscription due-service sweep on the
// configured cron expression. Overlapping runs are harmless: the run
// marker in the subscription repository makes duplicates no-ops.
func StartDueSweep(svc subscription.SubscriptionService, logger *zap.Logger) *cronv3.Cron {
	c := cronv3.New()
	schedule := config.AppConfig.DueSweepSchedule

	_, err := c.AddFunc(schedule, func() {
		n, err := svc.ProcessDueServices()
		if err != nil {
			logger.Error("due sweep failed", zap.Error(err))
			return
		}
		if n > 0 {
			logger.Info("due sweep materialized bookings", zap.Int("count", n))
		}
	})
	if err != nil {
		log.Fatalf("[DueSweep] invalid schedule %q: %v", schedule, err)
	}

	c.Start()
	log.Printf("[DueSweep] scheduled with %q", schedule)
	return c
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[NotificationWorker] Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
