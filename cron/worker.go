package cron

import (
	"context"
	"fmt"
	"time"

	"plantco/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// StatsHandler applies one stats job. *stats.Aggregator satisfies it.
type StatsHandler interface {
	Handle(ctx context.Context, taskType string, p tasks.StatsPayload) error
}

// StatsWorker consumes the stats queue.
type StatsWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	redis  *redis.Client
	logger *zap.Logger
}

func NewStatsWorker(opts asynq.RedisClientOpt, handler StatsHandler, logger *zap.Logger) *StatsWorker {
	srv := asynq.NewServer(
		opts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.StatsQueue: 1,
			},
			RetryDelayFunc: asynq.DefaultRetryDelayFunc,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				retried, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				fields := []zap.Field{zap.String("type", task.Type()), zap.Int("retry", retried), zap.Error(err)}
				if retried >= maxRetry {
					logger.Error("stats task exhausted its retries", append(fields, zap.ByteString("payload", task.Payload()))...)
					return
				}
				logger.Warn("stats task failed", fields...)
			}),
		},
	)
	return &StatsWorker{
		srv:    srv,
		mux:    NewStatsMux(handler, logger),
		redis:  redis.NewClient(&redis.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB}),
		logger: logger,
	}
}

// NewStatsMux routes each stats task type to handler.
func NewStatsMux(handler StatsHandler, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	for _, t := range []string{tasks.TypeOrderDelivered, tasks.TypeOrderRefunded, tasks.TypeBookingCompleted, tasks.TypeReviewAdded} {
		mux.HandleFunc(t, handleStatsTask(handler, logger))
	}
	return mux
}

func handleStatsTask(handler StatsHandler, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := tasks.ParseStatsPayload(task)
		if err != nil {
			logger.Error("invalid stats payload", zap.String("type", task.Type()), zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err := handler.Handle(ctx, task.Type(), p); err != nil {
			return err
		}
		logger.Debug("stats task done", zap.String("type", task.Type()))
		return nil
	}
}

// Start runs the worker in the background, retrying start-up a few times
// while Redis is unavailable. It also watches the queue connection until ctx
// is done.
func (w *StatsWorker) Start(ctx context.Context) {
	go w.monitorRedisConnection(ctx)

	go func() {
		w.logger.Info("starting stats worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Warn("stats worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				w.logger.Error("stats worker gave up starting; stats jobs will queue until restart")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

// Shutdown waits for in-flight tasks and stops the worker.
func (w *StatsWorker) Shutdown() {
	w.srv.Shutdown()
	if err := w.redis.Close(); err != nil {
		w.logger.Warn("failed to close worker redis client", zap.Error(err))
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func (w *StatsWorker) monitorRedisConnection(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.redis.Ping(ctx).Err(); err != nil {
				w.logger.Warn("stats queue redis connection lost", zap.Error(err))
			}
		}
	}
}
