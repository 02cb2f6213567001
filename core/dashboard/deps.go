package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/core/view"
	"github.com/trezcool/masomo-dashboard/services/api"
)

// Deps are the collaborators shared by every view.
type Deps struct {
	API      API
	Validate *validator.Validate
	Mailer   core.EmailService
	Logger   core.Logger
	AppName  string
	NowFunc  func() time.Time
}

func (d Deps) now() time.Time {
	if d.NowFunc != nil {
		return d.NowFunc()
	}
	return time.Now()
}

func (d Deps) today() string {
	return d.now().Format("2006-01-02")
}

// settle turns the failures of a fetch into the partial failure list of its view data.
// The fetch fails when a required call failed, when every call failed,
// or when the API rejected the session token on any call.
func settle(failures view.Failures, total int, required ...string) ([]string, error) {
	for _, name := range failures.Names() {
		if apisvc.IsUnauthorized(failures[name]) {
			return nil, errors.Wrapf(failures[name], "loading %s", name)
		}
	}
	for _, name := range required {
		if failures.Has(name) {
			return nil, errors.Wrapf(failures[name], "loading %s", name)
		}
	}
	if err := failures.Err(total); err != nil {
		return nil, err
	}
	if len(failures) == 0 {
		return nil, nil
	}
	return failures.Names(), nil
}

// Sort keys are compared as strings. Numbers are shifted above zero, then zero padded.
const numKeyOffset = 1e12

func numKey(v float64) string {
	return fmt.Sprintf("%019.2f", v+numKeyOffset)
}

func textKey(s string) string {
	return strings.ToLower(s)
}

// Viewer is the session user a view is loaded for.
type Viewer struct {
	ID   string
	Role school.Role
}
