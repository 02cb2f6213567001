package view

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Call is one independent fetch of a view.
type Call struct {
	Name string
	Fn   func(ctx context.Context) error
}

func NewCall(name string, fn func(ctx context.Context) error) Call {
	return Call{Name: name, Fn: fn}
}

// Failures maps the name of each failed call to its error.
type Failures map[string]error

// Names returns the failed call names, sorted.
func (f Failures) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f Failures) Has(name string) bool {
	_, ok := f[name]
	return ok
}

func (f Failures) Error() string {
	parts := make([]string, 0, len(f))
	for _, name := range f.Names() {
		parts = append(parts, name+": "+f[name].Error())
	}
	return strings.Join(parts, "; ")
}

// Err returns an error when all of the total calls failed, nil otherwise.
func (f Failures) Err(total int) error {
	if len(f) == 0 || len(f) < total {
		return nil
	}
	return errors.Wrap(f, "every call failed")
}

// Cause returns the first error, in name order, of the failed calls.
func (f Failures) Cause() error {
	names := f.Names()
	if len(names) == 0 {
		return nil
	}
	return f[names[0]]
}

// Parallel runs the calls concurrently and waits for all of them. A failing call never
// cancels or hides the result of the others.
func Parallel(ctx context.Context, calls ...Call) Failures {
	var (
		mu       sync.Mutex
		failures = make(Failures)
		g        errgroup.Group
	)
	for _, call := range calls {
		call := call
		g.Go(func() error {
			if err := call.Fn(ctx); err != nil {
				mu.Lock()
				failures[call.Name] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return failures
}
