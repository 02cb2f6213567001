package dashboard

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/core/view"
)

// SettingsView loads and saves the school settings as a whole.
type SettingsView struct {
	deps  Deps
	model *view.Model[school.Settings]
}

func NewSettingsView(deps Deps) *SettingsView {
	return &SettingsView{deps: deps, model: view.NewModel[school.Settings]()}
}

func (v *SettingsView) Load(ctx context.Context) (view.Snapshot[school.Settings], error) {
	return v.model.Load(ctx, func(ctx context.Context) (school.Settings, error) {
		s, err := v.deps.API.GetSettings(ctx)
		return s, errors.Wrap(err, "loading settings")
	})
}

func (v *SettingsView) Snapshot() view.Snapshot[school.Settings] {
	return v.model.Snapshot()
}

// Save validates then saves the whole settings object. The view shows the saved settings
// only once the API accepted them.
func (v *SettingsView) Save(ctx context.Context, s school.Settings) (view.Snapshot[school.Settings], error) {
	if err := s.Validate(v.deps.Validate); err != nil {
		return v.model.Snapshot(), err
	}
	saved, err := v.deps.API.SaveSettings(ctx, s)
	if err != nil {
		return v.model.Snapshot(), errors.Wrap(err, "saving settings")
	}
	return v.model.Update(func(data *school.Settings) { *data = saved }), nil
}
