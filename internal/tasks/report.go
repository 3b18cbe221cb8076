package tasks

import (
	"fineops/internal/config"
	"fineops/internal/utils/logger"
)

// NewDailyReportJob returns the daily-report hook. Aggregating a full
// per-campaign report is an open extension point; for now the job only
// records its invocation together with the last processed batch.
func NewDailyReportJob(store *config.Store) func() {
	log := logger.New("daily-report")
	return func() {
		lr := store.LastReport()
		if lr == nil {
			log.Info("daily report tick: no decision batches recorded yet")
			return
		}
		log.Info("daily report tick: last batch on %s by %s", lr.Date, lr.User)
	}
}
