package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vinealabs/winery-system/internal/core/domain"
	"github.com/vinealabs/winery-system/internal/core/ports"
)

// ReadingQueue decouples the IoT ingest endpoint from the worker pool that
// persists readings. Enqueue must not block on persistence.
type ReadingQueue interface {
	Enqueue(reading ports.SensorReadingInput)
}

// FermentationHandler handles HTTP requests for tanks, batches and readings.
type FermentationHandler struct {
	service ports.FermentationService
	queue   ReadingQueue
}

func NewFermentationHandler(service ports.FermentationService, queue ReadingQueue) *FermentationHandler {
	return &FermentationHandler{service: service, queue: queue}
}

// --- Request types ---

type createTankRequest struct {
	Name           string  `json:"name" validate:"required"`
	CapacityLiters float64 `json:"capacity_liters" validate:"required,gt=0"`
	Material       string  `json:"material" validate:"required,oneof=stainless_steel oak concrete fiberglass"`
	Location       string  `json:"location"`
}

type updateTankRequest struct {
	Name           *string  `json:"name" validate:"omitempty,min=1"`
	CapacityLiters *float64 `json:"capacity_liters" validate:"omitempty,gt=0"`
	Material       *string  `json:"material" validate:"omitempty,oneof=stainless_steel oak concrete fiberglass"`
	Status         *string  `json:"status" validate:"omitempty,oneof=available in_use cleaning maintenance"`
	Location       *string  `json:"location"`
}

type createBatchRequest struct {
	TankID            string   `json:"tank_id" validate:"required,uuid"`
	HarvestID         *string  `json:"harvest_id" validate:"omitempty,uuid"`
	Name              string   `json:"name" validate:"required"`
	GrapeVariety      string   `json:"grape_variety" validate:"required"`
	VolumeLiters      float64  `json:"volume_liters" validate:"required,gt=0"`
	TargetTemperature *float64 `json:"target_temperature"`
	InitialBrix       *float64 `json:"initial_brix" validate:"omitempty,gte=0"`
}

type updateBatchRequest struct {
	Name              *string  `json:"name" validate:"omitempty,min=1"`
	Status            *string  `json:"status" validate:"omitempty,oneof=active paused completed cancelled"`
	TargetTemperature *float64 `json:"target_temperature"`
	InitialBrix       *float64 `json:"initial_brix" validate:"omitempty,gte=0"`
}

type addReadingRequest struct {
	TemperatureCelsius float64  `json:"temperature_celsius" validate:"required,gte=-10,lte=60"`
	Density            *float64 `json:"density" validate:"omitempty,gt=0"`
	PH                 *float64 `json:"ph" validate:"omitempty,gte=0,lte=14"`
	RecordedAt         *string  `json:"recorded_at"`
}

type iotReadingRequest struct {
	BatchID            string   `json:"batch_id" validate:"required,uuid"`
	TemperatureCelsius float64  `json:"temperature_celsius" validate:"required,gte=-10,lte=60"`
	Density            *float64 `json:"density" validate:"omitempty,gt=0"`
	PH                 *float64 `json:"ph" validate:"omitempty,gte=0,lte=14"`
	RecordedAt         string   `json:"recorded_at" validate:"required"`
}

// --- Tanks ---

// CreateTank registers a new fermentation tank.
//
// @Summary      Create a tank
// @Tags         tanks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTankRequest  true  "Tank details"
// @Success      201   {object}  domain.Tank
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /v1/tanks [post]
func (h *FermentationHandler) CreateTank(c echo.Context) error {
	var req createTankRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tank, err := h.service.CreateTank(c.Request().Context(), ports.CreateTankInput{
		Name:           req.Name,
		CapacityLiters: req.CapacityLiters,
		Material:       domain.TankMaterial(req.Material),
		Location:       req.Location,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, tank)
}

// GetTank returns one tank.
//
// @Summary      Get a tank
// @Tags         tanks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Tank ID"
// @Success      200  {object}  domain.Tank
// @Failure      404  {object}  map[string]string
// @Router       /v1/tanks/{id} [get]
func (h *FermentationHandler) GetTank(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	tank, err := h.service.GetTank(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tank)
}

// ListTanks returns all tanks.
//
// @Summary      List tanks
// @Tags         tanks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Tank
// @Router       /v1/tanks [get]
func (h *FermentationHandler) ListTanks(c echo.Context) error {
	tanks, err := h.service.ListTanks(c.Request().Context())
	if err != nil {
		return err
	}
	if tanks == nil {
		tanks = []domain.Tank{}
	}
	return c.JSON(http.StatusOK, tanks)
}

// UpdateTank patches a tank.
//
// @Summary      Update a tank
// @Tags         tanks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Tank ID"
// @Param        body  body      updateTankRequest  true  "Fields to update"
// @Success      200   {object}  domain.Tank
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/tanks/{id} [put]
func (h *FermentationHandler) UpdateTank(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req updateTankRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := ports.UpdateTankInput{
		Name:           req.Name,
		CapacityLiters: req.CapacityLiters,
		Location:       req.Location,
	}
	if req.Material != nil {
		m := domain.TankMaterial(*req.Material)
		in.Material = &m
	}
	if req.Status != nil {
		s := domain.TankStatus(*req.Status)
		in.Status = &s
	}

	tank, err := h.service.UpdateTank(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tank)
}

// DeleteTank removes a tank.
//
// @Summary      Delete a tank
// @Tags         tanks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Tank ID"
// @Success      204  "tank deleted"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/tanks/{id} [delete]
func (h *FermentationHandler) DeleteTank(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteTank(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Batches ---

// CreateBatch starts a fermentation batch in a tank.
//
// @Summary      Start a fermentation batch
// @Tags         batches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBatchRequest  true  "Batch details"
// @Success      201   {object}  domain.Batch
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/batches [post]
func (h *FermentationHandler) CreateBatch(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createBatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tankID, err := parseUUIDField(req.TankID, "tank_id")
	if err != nil {
		return err
	}
	in := ports.CreateBatchInput{
		TankID:            tankID,
		Name:              req.Name,
		GrapeVariety:      req.GrapeVariety,
		VolumeLiters:      req.VolumeLiters,
		TargetTemperature: req.TargetTemperature,
		InitialBrix:       req.InitialBrix,
	}
	if req.HarvestID != nil {
		harvestID, err := parseUUIDField(*req.HarvestID, "harvest_id")
		if err != nil {
			return err
		}
		in.HarvestID = &harvestID
	}

	batch, err := h.service.CreateBatch(c.Request().Context(), actor, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, batch)
}

// GetBatch returns one batch.
//
// @Summary      Get a batch
// @Tags         batches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Batch ID"
// @Success      200  {object}  domain.Batch
// @Failure      404  {object}  map[string]string
// @Router       /v1/batches/{id} [get]
func (h *FermentationHandler) GetBatch(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	batch, err := h.service.GetBatch(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, batch)
}

// ListBatches returns all batches, or only active ones when ?active=true.
//
// @Summary      List batches
// @Tags         batches
// @Produce      json
// @Security     BearerAuth
// @Param        active  query    bool  false  "Only active batches"
// @Success      200     {array}  domain.Batch
// @Router       /v1/batches [get]
func (h *FermentationHandler) ListBatches(c echo.Context) error {
	activeOnly, _ := strconv.ParseBool(c.QueryParam("active"))

	batches, err := h.service.ListBatches(c.Request().Context(), activeOnly)
	if err != nil {
		return err
	}
	if batches == nil {
		batches = []domain.Batch{}
	}
	return c.JSON(http.StatusOK, batches)
}

// UpdateBatch patches a batch. Non-admins may only touch batches they created.
//
// @Summary      Update a batch
// @Tags         batches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Batch ID"
// @Param        body  body      updateBatchRequest  true  "Fields to update"
// @Success      200   {object}  domain.Batch
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/batches/{id} [put]
func (h *FermentationHandler) UpdateBatch(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req updateBatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := ports.UpdateBatchInput{
		Name:              req.Name,
		TargetTemperature: req.TargetTemperature,
		InitialBrix:       req.InitialBrix,
	}
	if req.Status != nil {
		s := domain.BatchStatus(*req.Status)
		in.Status = &s
	}

	batch, err := h.service.UpdateBatch(c.Request().Context(), actor, id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, batch)
}

// DeleteBatch removes a batch and its readings.
//
// @Summary      Delete a batch
// @Tags         batches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Batch ID"
// @Success      204  "batch deleted"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/batches/{id} [delete]
func (h *FermentationHandler) DeleteBatch(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteBatch(c.Request().Context(), actor, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetBatchStats summarises the readings collected for a batch.
//
// @Summary      Get batch statistics
// @Tags         batches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Batch ID"
// @Success      200  {object}  domain.BatchStats
// @Failure      404  {object}  map[string]string
// @Router       /v1/batches/{id}/stats [get]
func (h *FermentationHandler) GetBatchStats(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	stats, err := h.service.GetBatchStats(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// --- Readings ---

// AddReading records a manual measurement on a batch.
//
// @Summary      Add a manual reading
// @Tags         readings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Batch ID"
// @Param        body  body      addReadingRequest  true  "Measurement"
// @Success      201   {object}  domain.Reading
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/batches/{id}/readings [post]
func (h *FermentationHandler) AddReading(c echo.Context) error {
	batchID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req addReadingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	in := ports.AddReadingInput{
		TemperatureCelsius: req.TemperatureCelsius,
		Density:            req.Density,
		PH:                 req.PH,
	}
	if req.RecordedAt != nil {
		t, perr := time.Parse(time.RFC3339, *req.RecordedAt)
		if perr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "recorded_at must be an RFC 3339 timestamp")
		}
		in.RecordedAt = t
	}

	reading, err := h.service.AddReading(c.Request().Context(), batchID, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, reading)
}

// ListReadings returns the readings of a batch, newest first.
//
// @Summary      List readings for a batch
// @Tags         readings
// @Produce      json
// @Security     BearerAuth
// @Param        id     path     string  true   "Batch ID"
// @Param        limit  query    int     false  "Maximum readings to return (0 = all)"
// @Success      200    {array}  domain.Reading
// @Failure      404    {object} map[string]string
// @Router       /v1/batches/{id}/readings [get]
func (h *FermentationHandler) ListReadings(c echo.Context) error {
	batchID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 0 {
		limit = 0
	}

	readings, err := h.service.ListReadings(c.Request().Context(), batchID, limit)
	if err != nil {
		return err
	}
	if readings == nil {
		readings = []domain.Reading{}
	}
	return c.JSON(http.StatusOK, readings)
}

// DeleteReading removes one reading from a batch.
//
// @Summary      Delete a reading
// @Tags         readings
// @Produce      json
// @Security     BearerAuth
// @Param        id          path      string  true  "Batch ID"
// @Param        reading_id  path      string  true  "Reading ID"
// @Success      204  "reading deleted"
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/batches/{id}/readings/{reading_id} [delete]
func (h *FermentationHandler) DeleteReading(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	batchID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	readingID, err := pathUUID(c, "reading_id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteReading(c.Request().Context(), actor, batchID, readingID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// IngestReading accepts a sensor measurement on the public IoT endpoint and
// queues it for asynchronous processing. The 202 only acknowledges receipt:
// validation against the batch happens in the worker.
//
// @Summary      Ingest an IoT sensor reading
// @Tags         iot
// @Accept       json
// @Produce      json
// @Param        body  body      iotReadingRequest  true  "Sensor measurement"
// @Success      202   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /iot/readings [post]
func (h *FermentationHandler) IngestReading(c echo.Context) error {
	var req iotReadingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	batchID, err := parseUUIDField(req.BatchID, "batch_id")
	if err != nil {
		return err
	}
	recordedAt, perr := time.Parse(time.RFC3339, req.RecordedAt)
	if perr != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "recorded_at must be an RFC 3339 timestamp")
	}

	h.queue.Enqueue(ports.SensorReadingInput{
		BatchID:            batchID,
		TemperatureCelsius: req.TemperatureCelsius,
		Density:            req.Density,
		PH:                 req.PH,
		RecordedAt:         recordedAt,
	})

	return c.JSON(http.StatusAccepted, map[string]string{"status": "accepted"})
}
