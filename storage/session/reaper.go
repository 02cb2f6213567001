package session

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/trezcool/masomo-dashboard/core"
)

// ReaperSchedule runs the reaper every ten minutes.
const ReaperSchedule = "*/10 * * * *"

// StartReaper purges the expired sessions of store on schedule, then runs each of after,
// until the returned cron is stopped. It returns nil when the store expires sessions on its own
// and there is nothing to run after.
func StartReaper(
	store Store,
	schedule string,
	timeout time.Duration,
	logger core.Logger,
	after ...func(ctx context.Context),
) (*cron.Cron, error) {
	reaper, ok := store.(Reaper)
	if !ok && len(after) == 0 {
		return nil, nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err := c.AddFunc(schedule, func() {
		if reaper != nil {
			Reap(reaper, timeout, logger)
		}
		for _, fn := range after {
			runWithTimeout(fn, timeout)
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scheduling session reaper %q", schedule)
	}
	c.Start()
	return c, nil
}

func runWithTimeout(fn func(ctx context.Context), timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	fn(ctx)
}

// Reap deletes the expired sessions once.
func Reap(reaper Reaper, timeout time.Duration, logger core.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	n, err := reaper.DeleteExpired(ctx)
	if err != nil {
		logger.Error("reaping expired sessions", err)
		return
	}
	if n > 0 {
		logger.Info(fmt.Sprintf("reaped %d expired sessions", n))
	}
}
