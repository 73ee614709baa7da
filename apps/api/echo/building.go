package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/virtuex/arbes/core/building"
	"github.com/virtuex/arbes/core/cleaning"
)

type buildingApi struct {
	svc         *building.Service
	cleaningSvc *cleaning.Service
}

func registerBuildingAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *building.Service, cleaningSvc *cleaning.Service) {
	api := buildingApi{svc: svc, cleaningSvc: cleaningSvc}

	fg := g.Group("/floors", jwt)
	fg.GET("", api.queryFloors)
	fg.POST("", api.createFloor, adminMiddleware())
	fg.GET("/:id", api.retrieveFloor)
	fg.PUT("/:id", api.updateFloor, adminMiddleware())
	fg.DELETE("/:id", api.destroyFloor, adminMiddleware())
	fg.GET("/:id/rooms", api.queryRooms)
	fg.POST("/:id/rooms", api.createRoom, adminMiddleware())

	rg := g.Group("/rooms", jwt)
	rg.GET("/:id", api.retrieveRoom)
	rg.PUT("/:id", api.updateRoom, adminMiddleware())
	rg.DELETE("/:id", api.destroyRoom, adminMiddleware())
}

// Handlers

func (api *buildingApi) createFloor(ctx echo.Context) error {
	var data building.NewFloor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFloor")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	flr, err := api.svc.CreateFloor(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating floor")
	}
	return ctx.JSON(http.StatusCreated, flr)
}

func (api *buildingApi) queryFloors(ctx echo.Context) error {
	floors, err := api.svc.QueryAllFloors(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying floors")
	}
	if floors == nil {
		floors = []building.Floor{}
	}
	return ctx.JSON(http.StatusOK, floors)
}

func (api *buildingApi) retrieveFloor(ctx echo.Context) error {
	flr, err := api.svc.GetFloor(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return trapSvcErr(err, building.ErrFloorNotFound)
	}
	return ctx.JSON(http.StatusOK, flr)
}

func (api *buildingApi) updateFloor(ctx echo.Context) error {
	flr, err := api.svc.GetFloor(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return trapSvcErr(err, building.ErrFloorNotFound)
	}

	var data building.UpdateFloor
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateFloor")
	}
	if err := data.Validate(flr); err != nil {
		return err
	}

	flr, err = api.svc.UpdateFloor(ctx.Request().Context(), flr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating floor")
	}
	return ctx.JSON(http.StatusOK, flr)
}

func (api *buildingApi) destroyFloor(ctx echo.Context) error {
	if err := api.svc.DeleteFloor(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting floor")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *buildingApi) createRoom(ctx echo.Context) error {
	var data building.NewRoom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRoom")
	}
	data.FloorID = ctx.Param("id")
	if err := data.Validate(); err != nil {
		return err
	}

	rm, err := api.svc.CreateRoom(ctx.Request().Context(), data)
	if err != nil {
		return trapSvcErr(errors.Wrap(err, "creating room"), building.ErrFloorNotFound)
	}
	return ctx.JSON(http.StatusCreated, rm)
}

func (api *buildingApi) queryRooms(ctx echo.Context) error {
	if _, err := api.svc.GetFloor(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return trapSvcErr(err, building.ErrFloorNotFound)
	}
	rooms, err := api.svc.QueryRooms(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying rooms")
	}
	if rooms == nil {
		rooms = []building.Room{}
	}
	return ctx.JSON(http.StatusOK, rooms)
}

func (api *buildingApi) retrieveRoom(ctx echo.Context) error {
	rm, err := api.svc.GetRoom(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return trapSvcErr(err, building.ErrRoomNotFound)
	}
	return ctx.JSON(http.StatusOK, rm)
}

func (api *buildingApi) updateRoom(ctx echo.Context) error {
	var data building.UpdateRoom
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateRoom")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rm, err := api.svc.UpdateRoom(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return trapSvcErr(err, building.ErrRoomNotFound)
	}
	return ctx.JSON(http.StatusOK, rm)
}

func (api *buildingApi) destroyRoom(ctx echo.Context) error {
	rm, err := api.svc.GetRoom(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return trapSvcErr(err, building.ErrRoomNotFound)
	}
	if err := api.svc.DeleteRoom(ctx.Request().Context(), rm.ID); err != nil {
		return errors.Wrap(err, "deleting room")
	}
	if err := api.cleaningSvc.RemoveFromRotation(ctx.Request().Context(), rm.FloorID, rm.ID); err != nil {
		return errors.Wrap(err, "pruning rotation")
	}
	return ctx.NoContent(http.StatusNoContent)
}
