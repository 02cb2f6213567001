// Package export serializes the filtered table of a view to CSV or XLSX.
package export

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
)

// ParseFormat defaults to CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", CSV:
		return CSV, nil
	case XLSX:
		return XLSX, nil
	}
	return "", errors.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	if f == XLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

func (f Format) Ext() string { return "." + string(f) }

// Table is a header row plus one row per record.
type Table struct {
	Headers []string
	Rows    [][]string
}

func (t *Table) Append(row ...string) {
	t.Rows = append(t.Rows, row)
}

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.Rows) }

func Write(w io.Writer, t Table, format Format, sheet string) error {
	if format == XLSX {
		return WriteXLSX(w, t, sheet)
	}
	return WriteCSV(w, t)
}

// WriteCSV writes the header then every row. Fields are quoted as needed.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Headers); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return errors.Wrap(err, "writing csv rows")
	}
	return nil
}

// WriteXLSX writes the table to a single sheet workbook.
func WriteXLSX(w io.Writer, t Table, sheet string) error {
	if sheet == "" {
		sheet = "Sheet1"
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "naming sheet")
	}
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return errors.Wrap(err, "opening stream writer")
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}
	header := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = excelize.Cell{StyleID: bold, Value: h}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return errors.Wrap(err, "writing xlsx header")
	}

	for i, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(axis, cells); err != nil {
			return errors.Wrapf(err, "writing xlsx row %d", i+1)
		}
	}
	if err := sw.Flush(); err != nil {
		return errors.Wrap(err, "flushing xlsx")
	}
	_, err = f.WriteTo(w)
	return errors.Wrap(err, "writing xlsx")
}

// ReadXLSX reads the first sheet of a workbook. The first row is the header.
func ReadXLSX(r io.Reader) (Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Table{}, errors.Wrap(err, "opening xlsx")
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return Table{}, errors.New("workbook has no sheet")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Table{}, errors.Wrapf(err, "reading sheet %q", sheet)
	}
	if len(rows) == 0 {
		return Table{}, nil
	}
	return Table{Headers: rows[0], Rows: rows[1:]}, nil
}
