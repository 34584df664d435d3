package jobs

import (
	"fmt"

	"go.uber.org/zap"
)

type job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	jobs  []job
	names []string
}

// NewJobManager wires the order promotion job to the lifecycle service.
func NewJobManager(promoter Promoter, promotionSchedule string, log *zap.Logger) *JobManager {
	jm := &JobManager{}
	jm.add("order promotion", NewOrderPromotionJob(promoter, promotionSchedule, log))
	return jm
}

func (jm *JobManager) add(name string, j job) {
	jm.jobs = append(jm.jobs, j)
	jm.names = append(jm.names, name)
}

// StartAll starts every job. If one fails, the ones already started are stopped.
func (jm *JobManager) StartAll() error {
	for i, j := range jm.jobs {
		if err := j.Start(); err != nil {
			for _, started := range jm.jobs[:i] {
				started.Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", jm.names[i], err)
		}
	}
	return nil
}

// StopAll stops all jobs and waits for running ones to return.
func (jm *JobManager) StopAll() {
	for _, j := range jm.jobs {
		j.Stop()
	}
}
