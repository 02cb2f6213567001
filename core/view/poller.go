package view

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/trezcool/masomo-dashboard/core"
)

// Poller refreshes a view on a schedule while the view is visible.
// A tick is skipped when the previous refresh is still running.
type Poller struct {
	cron    *cron.Cron
	refresh func(ctx context.Context) error
	logger  core.Logger

	mu      sync.Mutex
	paused  bool
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewPoller schedules refresh every interval. The poller does nothing until Start is called.
func NewPoller(interval time.Duration, refresh func(ctx context.Context) error, logger core.Logger) (*Poller, error) {
	if interval < time.Second {
		return nil, errors.Errorf("poll interval must be at least 1s, got %s", interval)
	}

	var clog cron.Logger = cron.DiscardLogger
	if logger != nil {
		clog = cronLogger{logger}
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{
		cron:    cron.New(cron.WithLogger(clog), cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog))),
		refresh: refresh,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
	if _, err := p.cron.AddFunc("@every "+interval.String(), p.tick); err != nil {
		cancel()
		return nil, errors.Wrap(err, "scheduling poller")
	}
	return p, nil
}

func (p *Poller) Start() {
	p.cron.Start()
}

func (p *Poller) tick() {
	p.mu.Lock()
	skip := p.paused || p.stopped
	p.mu.Unlock()
	if skip {
		return
	}
	if err := p.Refresh(); err != nil && p.logger != nil && !errors.Is(err, context.Canceled) {
		p.logger.Debug("poller refresh failed", err)
	}
}

// Refresh runs the refresh func now, outside of the schedule.
func (p *Poller) Refresh() error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return errors.New("poller stopped")
	}
	ctx := p.ctx
	p.mu.Unlock()
	return p.refresh(ctx)
}

// Pause suppresses the scheduled refreshes, eg. while the view is hidden.
func (p *Poller) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paused = true
}

// Resume re-enables the scheduled refreshes and refreshes immediately.
func (p *Poller) Resume() error {
	p.mu.Lock()
	p.paused = false
	p.mu.Unlock()
	return p.Refresh()
}

func (p *Poller) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Stop cancels the schedule and any in-flight refresh, then waits for the running job to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.cancel()
	p.mu.Unlock()
	<-p.cron.Stop().Done()
}

type cronLogger struct {
	logger core.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{err}, keysAndValues...)...)
}
