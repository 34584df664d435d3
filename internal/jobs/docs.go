// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are built on github.com/robfig/cron/v3 with a seconds field.
//
// # Available Jobs
//
// OrderPromotionJob moves every non-canceled PENDING order to PROCESSING in a
// single bulk update, by default at second 0 of every fifth minute
// ("0 */5 * * * *"). Its cron chain recovers panics and skips a tick while the
// previous run is still in progress, so two promotions never overlap.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(lifecycleService, cfg.PromotionSchedule, logger)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed promotion is logged and left for the next tick. A schedule that
// does not parse fails StartAll.
package jobs
