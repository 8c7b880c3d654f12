// internal/janitor/janitor.go
//
// Periodic removal of idle sessions from stores that cannot expire keys on
// their own (memory, SQLite). Redis uses its native TTL instead.

package janitor

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numeros/internal/common/clock"
	"github.com/robalobadob/numeros/internal/store"
)

// Janitor deletes sessions idle for longer than ttl on a cron schedule.
type Janitor struct {
	cron    *cron.Cron
	sweeper store.Sweeper
	clock   clock.Clock
	ttl     time.Duration
}

// New schedules a sweep with spec (e.g. "@every 5m").
func New(spec string, sw store.Sweeper, clk clock.Clock, ttl time.Duration) (*Janitor, error) {
	j := &Janitor{cron: cron.New(), sweeper: sw, clock: clk, ttl: ttl}
	if _, err := j.cron.AddFunc(spec, func() {
		if _, err := j.Sweep(context.Background()); err != nil {
			log.Warn().Err(err).Msg("sweep idle games")
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule janitor %q: %w", spec, err)
	}
	return j, nil
}

// Sweep runs one pass and reports how many games were removed.
func (j *Janitor) Sweep(ctx context.Context) (int, error) {
	n, err := j.sweeper.DeleteIdle(ctx, j.clock.Now().Add(-j.ttl))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Info().Int("removed", n).Msg("swept idle games")
	}
	return n, nil
}

// Run starts the schedule and blocks until ctx is done.
func (j *Janitor) Run(ctx context.Context) error {
	j.cron.Start()
	<-ctx.Done()
	<-j.cron.Stop().Done()
	return nil
}
