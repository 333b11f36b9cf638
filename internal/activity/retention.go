package activity

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Retention периодически чистит записи старше Days дней.
type Retention struct {
	cron     *cron.Cron
	recorder *Recorder
	days     int
	schedule string
}

func NewRetention(rec *Recorder, days int, schedule string) *Retention {
	if schedule == "" {
		schedule = "@daily"
	}
	return &Retention{
		cron:     cron.New(),
		recorder: rec,
		days:     days,
		schedule: schedule,
	}
}

// Start ничего не делает при Days <= 0.
func (r *Retention) Start() error {
	if r.days <= 0 {
		log.Info().Msg("activity retention disabled")
		return nil
	}
	if _, err := r.cron.AddFunc(r.schedule, func() {
		if _, err := r.RunOnce(context.Background()); err != nil {
			log.Error().Err(err).Msg("activity retention failed")
		}
	}); err != nil {
		return fmt.Errorf("activity: retention schedule %q: %w", r.schedule, err)
	}
	r.cron.Start()
	log.Info().Int("days", r.days).Str("schedule", r.schedule).Msg("activity retention started")
	return nil
}

func (r *Retention) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Retention) RunOnce(ctx context.Context) (int64, error) {
	cutoff := r.recorder.now().AddDate(0, 0, -r.days)
	n, err := r.recorder.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("activity retention pass")
	return n, nil
}
