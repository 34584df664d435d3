package jobs

import (
	"context"
	"time"

	"orders/internal/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultPromotionSchedule fires at second 0 of every fifth minute.
const DefaultPromotionSchedule = "0 */5 * * * *"

// Promoter moves every live PENDING order to PROCESSING.
type Promoter interface {
	PromotePendingToProcessing(ctx context.Context) (int64, error)
}

// OrderPromotionJob runs the promotion on a six-field cron schedule.
// A tick that arrives while the previous run is still going is skipped.
type OrderPromotionJob struct {
	promoter Promoter
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

func NewOrderPromotionJob(promoter Promoter, schedule string, log *zap.Logger) *OrderPromotionJob {
	if schedule == "" {
		schedule = DefaultPromotionSchedule
	}

	log = logger.Component(log, "order_promotion_job")
	cl := newCronLogger(log)

	return &OrderPromotionJob{
		promoter: promoter,
		schedule: schedule,
		timeout:  time.Minute,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: log,
	}
}

// Start registers the job and starts the scheduler.
// Returns an error if the schedule does not parse.
func (j *OrderPromotionJob) Start() error {
	if _, err := j.cron.AddJob(j.schedule, cron.FuncJob(j.Run)); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Order promotion job started", zap.String("schedule", j.schedule))
	return nil
}

// Run performs one promotion. Failures are logged; the next tick retries.
func (j *OrderPromotionJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	promoted, err := j.promoter.PromotePendingToProcessing(ctx)
	if err != nil {
		j.logger.Error("Order promotion failed", zap.Error(err))
		return
	}

	if promoted > 0 {
		j.logger.Info("Promoted pending orders to processing", zap.Int64("count", promoted))
	}
}

// Stop halts the scheduler and waits for a running promotion to finish.
func (j *OrderPromotionJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Order promotion job stopped")
}
