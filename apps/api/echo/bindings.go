package echoapi

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/export"
)

const timeLayout = time.RFC3339

var orderingParam = "ordering"

// Ordering binds `?ordering=field,-field`.
type Ordering struct {
	Orderings []core.Ordering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	ord.Orderings = core.ParseOrderings(ctx.QueryParam(orderingParam))
}

func ordering(ctx echo.Context) []core.Ordering {
	ord := new(Ordering)
	ord.Bind(ctx)
	return ord.Orderings
}

// bindQuery binds the query string to a filter, whatever the request method.
func bindQuery(ctx echo.Context, filter interface{}) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, filter); err != nil {
		return core.NewValidationError(errors.Wrap(err, "invalid query"))
	}
	return nil
}

func isJSON(req *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))
	return ct == echo.MIMEApplicationJSON
}

// exportFormat reads `?format=`, csv by default.
func exportFormat(ctx echo.Context) (export.Format, error) {
	format, err := export.ParseFormat(ctx.QueryParam("format"))
	if err != nil {
		return format, core.NewValidationError(nil, core.FieldError{Field: "format", Error: err.Error()})
	}
	return format, nil
}

// sendTable answers with the table as a CSV or XLSX download.
func sendTable(ctx echo.Context, name string, format export.Format, table export.Table, day time.Time) error {
	var buf bytes.Buffer
	if err := export.Write(&buf, table, format, name); err != nil {
		return errors.Wrapf(err, "exporting %s", name)
	}
	filename := fmt.Sprintf("%s-%s%s", name, day.Format("2006-01-02"), format.Ext())
	ctx.Response().Header().Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	return ctx.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}
