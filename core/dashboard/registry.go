package dashboard

import (
	"sync"
	"time"
)

// Views are the screens of one session.
type Views struct {
	Dashboard  *DashboardView
	Attendance *AttendanceView
	Finance    *FinanceView
	Family     *FamilyView
	Reports    *ReportsView
	Settings   *SettingsView
	System     *SystemView
	Messaging  *MessagingView
	Directory  *DirectoryView
	Grades     *GradesView
}

func NewViews(deps Deps) *Views {
	return &Views{
		Dashboard:  NewDashboardView(deps),
		Attendance: NewAttendanceView(deps),
		Finance:    NewFinanceView(deps),
		Family:     NewFamilyView(deps),
		Reports:    NewReportsView(deps),
		Settings:   NewSettingsView(deps),
		System:     NewSystemView(deps),
		Messaging:  NewMessagingView(deps),
		Directory:  NewDirectoryView(deps),
		Grades:     NewGradesView(deps),
	}
}

// Close stops the system poller and any fetch in flight.
func (vs *Views) Close() {
	vs.System.Stop()
	vs.Dashboard.model.Cancel()
	vs.Attendance.model.Cancel()
	vs.Finance.model.Cancel()
	vs.Family.model.Cancel()
	vs.Reports.model.Cancel()
	vs.Settings.model.Cancel()
	vs.Messaging.model.Cancel()
	vs.Directory.model.Cancel()
	vs.Grades.model.Cancel()
}

// Registry keeps the views of every live session, keyed by session ID.
type Registry struct {
	deps Deps

	mu    sync.Mutex
	views map[string]*entry
}

type entry struct {
	views    *Views
	lastUsed time.Time
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, views: make(map[string]*entry)}
}

// Get returns the views of a session, creating them on first use.
func (r *Registry) Get(sessionID string) *Views {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.views[sessionID]
	if !ok {
		e = &entry{views: NewViews(r.deps)}
		r.views[sessionID] = e
	}
	e.lastUsed = r.deps.now()
	return e.views
}

// Remove closes and forgets the views of a session.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	e, ok := r.views[sessionID]
	delete(r.views, sessionID)
	r.mu.Unlock()
	if ok {
		e.views.Close()
	}
}

// Prune closes and forgets the views of the sessions keep rejects, and returns how many went.
// keep runs outside of the registry lock. A session used while keep ran is kept.
func (r *Registry) Prune(keep func(sessionID string, lastUsed time.Time) bool) int {
	r.mu.Lock()
	seen := make(map[string]time.Time, len(r.views))
	for id, e := range r.views {
		seen[id] = e.lastUsed
	}
	r.mu.Unlock()

	var pruned []*Views
	for id, lastUsed := range seen {
		if keep(id, lastUsed) {
			continue
		}
		r.mu.Lock()
		if e, ok := r.views[id]; ok && e.lastUsed.Equal(lastUsed) {
			delete(r.views, id)
			pruned = append(pruned, e.views)
		}
		r.mu.Unlock()
	}
	for _, vs := range pruned {
		vs.Close()
	}
	return len(pruned)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Close removes every session's views, eg. on shutdown.
func (r *Registry) Close() {
	r.mu.Lock()
	views := r.views
	r.views = make(map[string]*entry)
	r.mu.Unlock()
	for _, e := range views {
		e.views.Close()
	}
}
