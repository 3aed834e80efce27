package stats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"plantco/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Dispatcher schedules a stats job after the triggering unit of work has
// committed.
type Dispatcher interface {
	Dispatch(ctx context.Context, taskType string, p tasks.StatsPayload) error
}

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqDispatcher hands jobs to the stats queue; cron.StatsWorker runs them.
type AsynqDispatcher struct {
	client Enqueuer
	logger *zap.Logger
}

func NewAsynqDispatcher(client Enqueuer, logger *zap.Logger) *AsynqDispatcher {
	return &AsynqDispatcher{client: client, logger: logger}
}

func (d *AsynqDispatcher) Dispatch(ctx context.Context, taskType string, p tasks.StatsPayload) error {
	task, opts, err := tasks.NewStatsTask(taskType, p)
	if err != nil {
		return fmt.Errorf("build %s task: %w", taskType, err)
	}
	info, err := d.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s task: %w", taskType, err)
	}
	d.logger.Debug("stats task enqueued", zap.String("type", taskType), zap.String("taskId", info.ID))
	return nil
}

// InlineDispatcher runs jobs in a goroutine with a few retries. Failures after
// the last attempt are logged with the payload so they can be replayed.
type InlineDispatcher struct {
	Aggregator *Aggregator
	Logger     *zap.Logger
	Attempts   int
	Backoff    time.Duration

	wg sync.WaitGroup
}

func (d *InlineDispatcher) Dispatch(_ context.Context, taskType string, p tasks.StatsPayload) error {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(taskType, p)
	}()
	return nil
}

func (d *InlineDispatcher) run(taskType string, p tasks.StatsPayload) {
	attempts := d.Attempts
	if attempts < 1 {
		attempts = 3
	}
	var err error
	for i := 1; i <= attempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = d.Aggregator.Handle(ctx, taskType, p)
		cancel()
		if err == nil {
			return
		}
		d.Logger.Warn("stats job failed",
			zap.String("type", taskType), zap.Int("attempt", i), zap.Error(err))
		time.Sleep(d.Backoff * time.Duration(i))
	}
	d.Logger.Error("stats job dropped after retries",
		zap.String("type", taskType), zap.Any("payload", p), zap.Error(err))
}

// Wait blocks until every dispatched job has finished.
func (d *InlineDispatcher) Wait() {
	d.wg.Wait()
}
