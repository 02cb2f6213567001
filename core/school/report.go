package school

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo-dashboard/core"
)

type ReportKind string

const (
	ReportAcademic   ReportKind = "academic"
	ReportAttendance ReportKind = "attendance"
	ReportFinancial  ReportKind = "financial"
	ReportEnrollment ReportKind = "enrollment"
)

var ReportKinds = []ReportKind{ReportAcademic, ReportAttendance, ReportFinancial, ReportEnrollment}

func (k ReportKind) Valid() bool {
	for _, kind := range ReportKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (k ReportKind) String() string { return string(k) }

// ReportMetric is one summary figure of a report, eg. {"Average grade", "72.5"}.
type ReportMetric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Report is a tabular report generated by the API.
type Report struct {
	Kind    ReportKind     `json:"kind"`
	Title   string         `json:"title"`
	From    string         `json:"from"`
	To      string         `json:"to"`
	Summary []ReportMetric `json:"summary"`
	Columns []string       `json:"columns"`
	Rows    [][]string     `json:"rows"`
}

type ReportFilter struct {
	From    string `query:"from" validate:"isodate"`
	To      string `query:"to" validate:"isodate"`
	ClassID string `query:"class_id"`
}

func (f *ReportFilter) Validate(validate *validator.Validate) error {
	f.From = core.CleanString(f.From)
	f.To = core.CleanString(f.To)
	f.ClassID = core.CleanString(f.ClassID)
	return validate.Struct(f)
}
