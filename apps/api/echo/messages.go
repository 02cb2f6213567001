package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo-dashboard/core/dashboard"
	"github.com/trezcool/masomo-dashboard/core/school"
)

// messaging loads the viewer's boxes on first use, so that mutations reload the right user.
func (api *viewsApi) messaging(ctx echo.Context) (*dashboard.MessagingView, error) {
	vs, viewer, err := api.views(ctx)
	if err != nil {
		return nil, err
	}
	if vs.Messaging.Snapshot().Seq == 0 {
		if _, err := vs.Messaging.Load(ctx.Request().Context(), viewer); err != nil {
			return nil, err
		}
	}
	return vs.Messaging, nil
}

func (api *viewsApi) messages(ctx echo.Context) error {
	vs, viewer, err := api.views(ctx)
	if err != nil {
		return err
	}
	snap, err := vs.Messaging.Load(ctx.Request().Context(), viewer)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) sendMessage(ctx echo.Context) error {
	mv, err := api.messaging(ctx)
	if err != nil {
		return err
	}
	var data school.NewMessage
	if err := bindBody(ctx, &data, "NewMessage"); err != nil {
		return err
	}
	snap, err := mv.Send(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, snap)
}

func (api *viewsApi) markMessageRead(ctx echo.Context) error {
	mv, err := api.messaging(ctx)
	if err != nil {
		return err
	}
	snap, err := mv.MarkRead(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}

func (api *viewsApi) deleteMessage(ctx echo.Context) error {
	mv, err := api.messaging(ctx)
	if err != nil {
		return err
	}
	snap, err := mv.Delete(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, snap)
}
