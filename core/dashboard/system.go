package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/core/view"
	apisvc "github.com/trezcool/masomo-dashboard/services/api"
)

const systemFeedLimit = 20

type SystemData struct {
	Status   school.SystemStatus    `json:"status"`
	Activity []school.ActivityEntry `json:"activity"`
	Logs     []school.LogEntry      `json:"logs"`
	Failures []string               `json:"failures,omitempty"`
}

// SystemView is the system overview. Once Poll is called it refreshes itself on a schedule
// until Stop.
type SystemView struct {
	deps  Deps
	model *view.Model[SystemData]

	mu     sync.Mutex
	poller *view.Poller
}

func NewSystemView(deps Deps) *SystemView {
	return &SystemView{deps: deps, model: view.NewModel[SystemData]()}
}

func (v *SystemView) Load(ctx context.Context) (view.Snapshot[SystemData], error) {
	return v.model.Load(ctx, func(ctx context.Context) (SystemData, error) {
		var data SystemData
		failures := view.Parallel(ctx,
			view.NewCall("status", func(ctx context.Context) (err error) {
				data.Status, err = v.deps.API.SystemStatus(ctx)
				return err
			}),
			view.NewCall("activity", func(ctx context.Context) (err error) {
				data.Activity, err = v.deps.API.SystemActivity(ctx, systemFeedLimit)
				return err
			}),
			view.NewCall("logs", func(ctx context.Context) (err error) {
				data.Logs, err = v.deps.API.SystemLogs(ctx, systemFeedLimit)
				return err
			}),
		)
		var err error
		data.Failures, err = settle(failures, 3)
		return data, err
	})
}

func (v *SystemView) Snapshot() view.Snapshot[SystemData] {
	return v.model.Snapshot()
}

// Poll starts refreshing the view every interval, and once immediately. decorate prepares the
// context of each refresh, eg. with the session token. Calling Poll again is a no-op.
// The polling stops by itself once the API rejects the token.
func (v *SystemView) Poll(interval time.Duration, decorate func(context.Context) context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.poller != nil {
		return nil
	}

	var poller *view.Poller
	refresh := func(ctx context.Context) error {
		if decorate != nil {
			ctx = decorate(ctx)
		}
		_, err := v.Load(ctx)
		if errors.Is(err, view.ErrStale) {
			return nil
		}
		if apisvc.IsUnauthorized(err) {
			// Poller.Stop waits for the running refresh: stop from outside of it.
			go v.stopPoller(poller)
		}
		return err
	}
	var err error
	poller, err = view.NewPoller(interval, refresh, v.deps.Logger)
	if err != nil {
		return err
	}
	v.poller = poller
	poller.Start()
	go func() { _ = poller.Refresh() }()
	return nil
}

func (v *SystemView) Polling() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.poller != nil
}

// SetVisible pauses the polling while the view is hidden. Showing it again refreshes immediately.
func (v *SystemView) SetVisible(ctx context.Context, visible bool) (view.Snapshot[SystemData], error) {
	v.mu.Lock()
	poller := v.poller
	v.mu.Unlock()
	if poller == nil {
		if visible {
			return v.Load(ctx)
		}
		return v.model.Snapshot(), nil
	}
	if !visible {
		poller.Pause()
		return v.model.Snapshot(), nil
	}
	if err := poller.Resume(); err != nil {
		return v.model.Snapshot(), err
	}
	return v.model.Snapshot(), nil
}

// stopPoller stops p, and forgets it unless Poll was called again since.
func (v *SystemView) stopPoller(p *view.Poller) {
	v.mu.Lock()
	if v.poller == p {
		v.poller = nil
	}
	v.mu.Unlock()
	p.Stop()
}

// Stop stops the polling and cancels the refresh in flight.
func (v *SystemView) Stop() {
	v.mu.Lock()
	poller := v.poller
	v.poller = nil
	v.mu.Unlock()
	if poller != nil {
		poller.Stop()
	}
	v.model.Cancel()
}
