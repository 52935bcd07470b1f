package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vinealabs/winery-system/internal/core/domain"
	"github.com/vinealabs/winery-system/internal/core/ports"
)

// HarvestHandler handles HTTP requests for harvest records.
type HarvestHandler struct {
	service ports.HarvestService
}

func NewHarvestHandler(service ports.HarvestService) *HarvestHandler {
	return &HarvestHandler{service: service}
}

type createHarvestRequest struct {
	VineyardID       string   `json:"vineyard_id" validate:"required,uuid"`
	HarvestDate      string   `json:"harvest_date" validate:"required"`
	QuantityKg       float64  `json:"quantity_kg" validate:"required,gt=0"`
	SugarContentBrix *float64 `json:"sugar_content_brix" validate:"omitempty,gte=0"`
	AcidityPH        *float64 `json:"acidity_ph" validate:"omitempty,gte=0,lte=14"`
	QualityNotes     string   `json:"quality_notes"`
}

type updateHarvestRequest struct {
	HarvestDate      *string  `json:"harvest_date"`
	QuantityKg       *float64 `json:"quantity_kg" validate:"omitempty,gt=0"`
	SugarContentBrix *float64 `json:"sugar_content_brix" validate:"omitempty,gte=0"`
	AcidityPH        *float64 `json:"acidity_ph" validate:"omitempty,gte=0,lte=14"`
	QualityNotes     *string  `json:"quality_notes"`
}

// parseDate accepts both date-only and full RFC 3339 timestamps because
// field crews submit "2026-09-14" while lab tooling sends full timestamps.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Create records a new harvest on a vineyard.
//
// @Summary      Record a harvest
// @Tags         harvests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createHarvestRequest  true  "Harvest details"
// @Success      201   {object}  domain.Harvest
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/harvests [post]
func (h *HarvestHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createHarvestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	vineyardID, err := parseUUIDField(req.VineyardID, "vineyard_id")
	if err != nil {
		return err
	}
	harvestDate, perr := parseDate(req.HarvestDate)
	if perr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "harvest_date must be a date or RFC 3339 timestamp")
	}

	harvest, err := h.service.Create(c.Request().Context(), actor, ports.CreateHarvestInput{
		VineyardID:       vineyardID,
		HarvestDate:      harvestDate,
		QuantityKg:       req.QuantityKg,
		SugarContentBrix: req.SugarContentBrix,
		AcidityPH:        req.AcidityPH,
		QualityNotes:     req.QualityNotes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, harvest)
}

// Get returns one harvest if the caller is allowed to see it.
//
// @Summary      Get a harvest
// @Tags         harvests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Harvest ID"
// @Success      200  {object}  domain.Harvest
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/harvests/{id} [get]
func (h *HarvestHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	harvest, err := h.service.Get(c.Request().Context(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, harvest)
}

// List returns the harvests visible to the caller.
//
// @Summary      List harvests
// @Tags         harvests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Harvest
// @Failure      401  {object}  map[string]string
// @Router       /v1/harvests [get]
func (h *HarvestHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	harvests, err := h.service.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	if harvests == nil {
		harvests = []domain.Harvest{}
	}
	return c.JSON(http.StatusOK, harvests)
}

// Update patches a harvest record.
//
// @Summary      Update a harvest
// @Tags         harvests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Harvest ID"
// @Param        body  body      updateHarvestRequest  true  "Fields to update"
// @Success      200   {object}  domain.Harvest
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/harvests/{id} [put]
func (h *HarvestHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req updateHarvestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	var harvestDate *time.Time
	if req.HarvestDate != nil {
		t, perr := parseDate(*req.HarvestDate)
		if perr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "harvest_date must be a date or RFC 3339 timestamp")
		}
		harvestDate = &t
	}

	harvest, err := h.service.Update(c.Request().Context(), actor, id, ports.UpdateHarvestInput{
		HarvestDate:      harvestDate,
		QuantityKg:       req.QuantityKg,
		SugarContentBrix: req.SugarContentBrix,
		AcidityPH:        req.AcidityPH,
		QualityNotes:     req.QualityNotes,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, harvest)
}

// Delete removes a harvest record.
//
// @Summary      Delete a harvest
// @Tags         harvests
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Harvest ID"
// @Success      204  "harvest deleted"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/harvests/{id} [delete]
func (h *HarvestHandler) Delete(c echo.Context) error {
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
