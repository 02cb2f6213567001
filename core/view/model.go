// Package view holds the fetch cycle shared by every dashboard view: a three state model,
// fetch sequencing, isolated parallel calls and a pausable poller.
package view

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

type State string

const (
	Loading State = "loading"
	Error   State = "error"
	Ready   State = "ready"
)

// ErrStale is returned by Model.Load when a newer fetch started before this one resolved.
// The result of the stale fetch is discarded.
var ErrStale = errors.New("stale fetch discarded")

// FetchFunc loads the data of a view. ctx is cancelled when a newer fetch starts.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Model is the state of one view. Data holds the last successfully fetched value and is kept
// when a later fetch fails.
type Model[T any] struct {
	mu        sync.Mutex
	state     State
	data      T
	err       error
	seq       uint64 // last ticket issued
	updatedAt time.Time
	cancel    context.CancelFunc
	nowFunc   func() time.Time
}

func NewModel[T any]() *Model[T] {
	return &Model[T]{state: Loading, nowFunc: time.Now}
}

// Snapshot is a consistent copy of a Model.
type Snapshot[T any] struct {
	State     State     `json:"state"`
	Data      T         `json:"data"`
	Error     string    `json:"error,omitempty"`
	Seq       uint64    `json:"seq"`
	UpdatedAt time.Time `json:"updated_at"`
	err       error
}

// Err returns the error of the last fetch, if it failed.
func (s Snapshot[T]) Err() error { return s.err }

// Load runs one fetch cycle: loading, then ready or error. The result is applied only if no
// other fetch started meanwhile; otherwise Load returns ErrStale and the model is untouched.
func (m *Model[T]) Load(ctx context.Context, fetch FetchFunc[T]) (Snapshot[T], error) {
	m.mu.Lock()
	m.seq++
	ticket := m.seq
	if m.cancel != nil {
		m.cancel() // previous fetch is now stale
	}
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.state = Loading
	m.mu.Unlock()

	data, err := fetch(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if ticket != m.seq {
		return m.snapshot(), ErrStale
	}
	cancel()
	m.cancel = nil
	if err != nil {
		m.state = Error
		m.err = err
		return m.snapshot(), err
	}
	m.state = Ready
	m.data = data
	m.err = nil
	m.updatedAt = m.nowFunc()
	return m.snapshot(), nil
}

// Update patches the current data in place, eg. after a successful status update.
func (m *Model[T]) Update(patch func(data *T)) Snapshot[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	patch(&m.data)
	return m.snapshot()
}

// Cancel aborts the in-flight fetch, if any. Its result will be discarded.
func (m *Model[T]) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.cancel = nil
	m.seq++
	switch {
	case m.err != nil:
		m.state = Error
	case !m.updatedAt.IsZero():
		m.state = Ready
	}
}

func (m *Model[T]) Snapshot() Snapshot[T] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

func (m *Model[T]) snapshot() Snapshot[T] {
	s := Snapshot[T]{
		State:     m.state,
		Data:      m.data,
		Seq:       m.seq,
		UpdatedAt: m.updatedAt,
		err:       m.err,
	}
	if m.err != nil {
		s.Error = m.err.Error()
	}
	return s
}
