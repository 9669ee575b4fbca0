// Package job contains the scheduled maintenance jobs of the auth gate.
package job

import (
	"time"

	"authgate/logger"
	"authgate/util/common"
	"authgate/web/service"
)

// SessionCleanupJob sweeps sessions that expired without ever being touched
// again. Lazy deletion on resolve remains the correctness mechanism; this
// keeps the table from accumulating dead rows.
type SessionCleanupJob struct {
	sessionService service.SessionService
}

func NewSessionCleanupJob() *SessionCleanupJob {
	return new(SessionCleanupJob)
}

// Run implements cron.Job.
func (j *SessionCleanupJob) Run() {
	defer common.Recover("session cleanup job")

	n, err := j.sessionService.DeleteExpired(time.Now())
	if err != nil {
		logger.Warning("session cleanup job err:", err)
		return
	}
	if n > 0 {
		logger.Debugf("session cleanup removed %d expired sessions", n)
	}
}
