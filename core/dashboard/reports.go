package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/export"
	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/core/view"
)

type ReportData struct {
	Kind   school.ReportKind   `json:"kind"`
	Filter school.ReportFilter `json:"filter"`
	Report school.Report       `json:"report"`
}

type ReportsView struct {
	deps  Deps
	model *view.Model[ReportData]

	mu     sync.Mutex
	kind   school.ReportKind
	filter school.ReportFilter
}

func NewReportsView(deps Deps) *ReportsView {
	return &ReportsView{deps: deps, model: view.NewModel[ReportData]()}
}

func (v *ReportsView) Load(ctx context.Context, kind school.ReportKind, filter school.ReportFilter) (view.Snapshot[ReportData], error) {
	if !kind.Valid() {
		return v.model.Snapshot(), core.NewValidationError(nil, core.FieldError{Field: "kind", Error: "unknown report kind"})
	}
	if err := filter.Validate(v.deps.Validate); err != nil {
		return v.model.Snapshot(), err
	}
	v.mu.Lock()
	v.kind, v.filter = kind, filter
	v.mu.Unlock()

	return v.model.Load(ctx, func(ctx context.Context) (ReportData, error) {
		report, err := v.deps.API.Report(ctx, kind, filter)
		if err != nil {
			return ReportData{}, errors.Wrapf(err, "loading %s report", kind)
		}
		return ReportData{Kind: kind, Filter: filter, Report: report}, nil
	})
}

func (v *ReportsView) Reload(ctx context.Context) (view.Snapshot[ReportData], error) {
	v.mu.Lock()
	kind, filter := v.kind, v.filter
	v.mu.Unlock()
	return v.Load(ctx, kind, filter)
}

func (v *ReportsView) Snapshot() view.Snapshot[ReportData] {
	return v.model.Snapshot()
}

func (v *ReportsView) Table() export.Table {
	return v.TableOf(v.model.Snapshot())
}

func (v *ReportsView) TableOf(snap view.Snapshot[ReportData]) export.Table {
	return export.ReportTable(snap.Data.Report)
}

type reportEmail struct {
	Title    string
	Period   string
	Lines    []school.ReportMetric
	RowCount int
	Filename string
}

func period(r school.Report) string {
	switch {
	case r.From != "" && r.To != "":
		return r.From + " to " + r.To
	case r.From != "":
		return "since " + r.From
	case r.To != "":
		return "until " + r.To
	}
	return "all time"
}

// Email loads the report and sends it to the recipients with its rows attached as CSV.
func (v *ReportsView) Email(ctx context.Context, kind school.ReportKind, filter school.ReportFilter, to ...mail.Address) error {
	if len(to) == 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "to", Error: "at least one recipient is required"})
	}
	if v.deps.Mailer == nil {
		return errors.New("no email service configured")
	}
	snap, err := v.Load(ctx, kind, filter)
	if err != nil {
		return err
	}
	report := snap.Data.Report

	var buf bytes.Buffer
	table := export.ReportTable(report)
	if err := export.WriteCSV(&buf, table); err != nil {
		return errors.Wrap(err, "writing report csv")
	}
	filename := fmt.Sprintf("%s-report-%s.csv", kind, v.deps.today())

	title := report.Title
	if title == "" {
		title = fmt.Sprintf("%s report", kind)
	}
	msg := &core.EmailMessage{
		To:           to,
		Subject:      title,
		TemplateName: "report",
		TemplateData: reportEmail{
			Title:    title,
			Period:   period(report),
			Lines:    report.Summary,
			RowCount: table.Len(),
			Filename: filename,
		},
	}
	if err := msg.Attach(&buf, filename, export.CSV.ContentType()); err != nil {
		return errors.Wrap(err, "attaching report")
	}
	return errors.Wrap(v.deps.Mailer.SendMessages(msg), "sending report")
}
