package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vinealabs/winery-system/internal/core/domain"
	"github.com/vinealabs/winery-system/internal/core/ports"
)

// VineyardHandler handles HTTP requests for vineyard operations.
type VineyardHandler struct {
	service ports.VineyardService
}

func NewVineyardHandler(service ports.VineyardService) *VineyardHandler {
	return &VineyardHandler{service: service}
}

type createVineyardRequest struct {
	Name         string  `json:"name" validate:"required"`
	Location     string  `json:"location" validate:"required"`
	AreaHectares float64 `json:"area_hectares" validate:"required,gt=0"`
	GrapeVariety string  `json:"grape_variety" validate:"required"`
}

type updateVineyardRequest struct {
	Name         *string  `json:"name" validate:"omitempty,min=1"`
	Location     *string  `json:"location" validate:"omitempty,min=1"`
	AreaHectares *float64 `json:"area_hectares" validate:"omitempty,gt=0"`
	GrapeVariety *string  `json:"grape_variety" validate:"omitempty,min=1"`
}

// Create registers a new vineyard owned by the caller.
//
// @Summary      Create a vineyard
// @Tags         vineyards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createVineyardRequest  true  "Vineyard details"
// @Success      201   {object}  domain.Vineyard
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /v1/vineyards [post]
func (h *VineyardHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createVineyardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	vineyard, err := h.service.Create(c.Request().Context(), actor, ports.CreateVineyardInput{
		Name:         req.Name,
		Location:     req.Location,
		AreaHectares: req.AreaHectares,
		GrapeVariety: req.GrapeVariety,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, vineyard)
}

// Get returns one vineyard if the caller is allowed to see it.
//
// @Summary      Get a vineyard
// @Tags         vineyards
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Vineyard ID"
// @Success      200  {object}  domain.Vineyard
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/vineyards/{id} [get]
func (h *VineyardHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	vineyard, err := h.service.Get(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vineyard)
}

// List returns the vineyards visible to the caller. Workers see only their
// own; admins and winemakers see everything.
//
// @Summary      List vineyards
// @Tags         vineyards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Vineyard
// @Failure      401  {object}  map[string]string
// @Router       /v1/vineyards [get]
func (h *VineyardHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	vineyards, err := h.service.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	if vineyards == nil {
		vineyards = []domain.Vineyard{}
	}
	return c.JSON(http.StatusOK, vineyards)
}

// Update patches a vineyard. Non-admins may only touch vineyards they own.
//
// @Summary      Update a vineyard
// @Tags         vineyards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Vineyard ID"
// @Param        body  body      updateVineyardRequest  true  "Fields to update"
// @Success      200   {object}  domain.Vineyard
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/vineyards/{id} [put]
func (h *VineyardHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req updateVineyardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	vineyard, err := h.service.Update(c.Request().Context(), actor, id, ports.UpdateVineyardInput{
		Name:         req.Name,
		Location:     req.Location,
		AreaHectares: req.AreaHectares,
		GrapeVariety: req.GrapeVariety,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vineyard)
}

// Delete removes a vineyard. Non-admins may only delete vineyards they own.
//
// @Summary      Delete a vineyard
// @Tags         vineyards
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Vineyard ID"
// @Success      204  "vineyard deleted"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/vineyards/{id} [delete]
func (h *VineyardHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
