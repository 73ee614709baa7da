package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/virtuex/arbes/core/building"
	"github.com/virtuex/arbes/core/cleaning"
	"github.com/virtuex/arbes/core/user"
)

type cleaningApi struct {
	svc      *cleaning.Service
	userSvc  *user.Service
	reminder *cleaning.Reminder
}

func registerCleaningAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps *Deps) {
	api := cleaningApi{
		svc:      deps.CleaningSvc,
		userSvc:  deps.UserSvc,
		reminder: deps.Reminder,
	}

	fg := g.Group("/floors/:id/cleaning", jwt)
	fg.GET("", api.overview)
	fg.POST("/complete", api.complete)
	fg.GET("/records", api.queryRecords)
	fg.GET("/rotation", api.rotation)
	fg.PUT("/rotation", api.reorderRotation, adminMiddleware())
	fg.PUT("/frequency", api.setFrequency, adminMiddleware())
	fg.POST("/frequency-change", api.scheduleFrequencyChange, adminMiddleware())

	cg := g.Group("/cleaning", jwt, adminMiddleware())
	cg.POST("/frequency-change", api.scheduleFrequencyChangeAll)
	cg.POST("/reminders", api.sendReminders)
}

// Handlers

func (api *cleaningApi) overview(ctx echo.Context) error {
	ov, err := api.svc.Overview(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return trapCleaningErr(err)
	}
	return ctx.JSON(http.StatusOK, ov)
}

func trapCleaningErr(err error) error {
	switch errors.Cause(err) {
	case cleaning.ErrEmptyRotation:
		return echo.NewHTTPError(http.StatusBadRequest, cleaning.ErrEmptyRotation.Error())
	case cleaning.ErrAlreadyCompleted:
		return echo.NewHTTPError(http.StatusConflict, cleaning.ErrAlreadyCompleted.Error())
	default:
		return trapSvcErr(err, building.ErrFloorNotFound)
	}
}

// complete records the current period as cleaned. Only a resident of the
// assigned room, or an admin, may do so.
func (api *cleaningApi) complete(ctx echo.Context) error {
	var data cleaning.CompleteCleaning
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CompleteCleaning")
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if !ctxUsr.IsAdmin() {
		ov, err := api.svc.Overview(ctx.Request().Context(), ctx.Param("id"))
		if err != nil {
			return trapCleaningErr(err)
		}
		if ctxUsr.RoomID != ov.RoomID {
			return errHttpForbidden
		}
	}

	rec, err := api.svc.Complete(ctx.Request().Context(), ctx.Param("id"), ctxUsr.ID, data)
	if err != nil {
		return trapCleaningErr(err)
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *cleaningApi) queryRecords(ctx echo.Context) error {
	limit := 20
	if raw := ctx.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := api.svc.Records(ctx.Request().Context(), ctx.Param("id"), limit)
	if err != nil {
		return errors.Wrap(err, "querying cleaning records")
	}
	if records == nil {
		records = []cleaning.Record{}
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *cleaningApi) rotation(ctx echo.Context) error {
	rot, err := api.svc.Rotation(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying rotation")
	}
	if rot == nil {
		rot = []cleaning.RotationEntry{}
	}
	return ctx.JSON(http.StatusOK, rot)
}

func (api *cleaningApi) reorderRotation(ctx echo.Context) error {
	var data cleaning.ReorderRotation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReorderRotation")
	}

	if err := api.svc.Reorder(ctx.Request().Context(), ctx.Param("id"), data); err != nil {
		if errors.Cause(err) == cleaning.ErrRotationMismatch {
			return echo.NewHTTPError(http.StatusBadRequest, cleaning.ErrRotationMismatch.Error())
		}
		return errors.Wrap(err, "reordering rotation")
	}

	rot, err := api.svc.Rotation(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying rotation")
	}
	return ctx.JSON(http.StatusOK, rot)
}

func (api *cleaningApi) setFrequency(ctx echo.Context) error {
	var data cleaning.ChangeFrequency
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangeFrequency")
	}

	s, err := api.svc.SetFrequency(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return trapSvcErr(err, building.ErrFloorNotFound)
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *cleaningApi) scheduleFrequencyChange(ctx echo.Context) error {
	var data cleaning.ChangeFrequency
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangeFrequency")
	}

	s, err := api.svc.ScheduleFrequencyChange(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return trapSvcErr(err, building.ErrFloorNotFound)
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *cleaningApi) scheduleFrequencyChangeAll(ctx echo.Context) error {
	var data cleaning.ChangeFrequency
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangeFrequency")
	}

	if err := api.svc.ScheduleFrequencyChangeAll(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "scheduling frequency change")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *cleaningApi) sendReminders(ctx echo.Context) error {
	if err := api.reminder.Run(ctx.Request().Context()); err != nil {
		return errors.Wrap(err, "sending cleaning reminders")
	}
	return ctx.NoContent(http.StatusAccepted)
}
