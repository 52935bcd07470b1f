package domain

import (
	"time"

	"github.com/google/uuid"
)

// TankStatus represents the operational state of a fermentation tank.
type TankStatus string

const (
	TankAvailable   TankStatus = "available"
	TankInUse       TankStatus = "in_use"
	TankCleaning    TankStatus = "cleaning"
	TankMaintenance TankStatus = "maintenance"
)

// TankMaterial is what the tank is built from.
type TankMaterial string

const (
	MaterialStainlessSteel TankMaterial = "stainless_steel"
	MaterialOak            TankMaterial = "oak"
	MaterialConcrete       TankMaterial = "concrete"
	MaterialFiberglass     TankMaterial = "fiberglass"
)

// BatchStatus represents the lifecycle state of a fermentation batch.
type BatchStatus string

const (
	BatchActive    BatchStatus = "active"
	BatchPaused    BatchStatus = "paused"
	BatchCompleted BatchStatus = "completed"
	BatchCancelled BatchStatus = "cancelled"
)

// ReadingSource tells whether a measurement was keyed in by hand or pushed
// by a tank sensor through the IoT endpoint.
type ReadingSource string

const (
	SourceManual ReadingSource = "manual"
	SourceIoT    ReadingSource = "iot"
)

// Tank is a fermentation vessel.
type Tank struct {
	ID             uuid.UUID    `json:"id"`
	Name           string       `json:"name"`
	CapacityLiters float64      `json:"capacity_liters"`
	Material       TankMaterial `json:"material"`
	Status         TankStatus   `json:"status"`
	Location       string       `json:"location,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Batch is a single fermentation run inside a tank.
type Batch struct {
	ID                uuid.UUID   `json:"id"`
	TankID            uuid.UUID   `json:"tank_id"`
	HarvestID         *uuid.UUID  `json:"harvest_id,omitempty"`
	Name              string      `json:"name"`
	GrapeVariety      string      `json:"grape_variety"`
	VolumeLiters      float64     `json:"volume_liters"`
	Status            BatchStatus `json:"status"`
	TargetTemperature *float64    `json:"target_temperature,omitempty"`
	InitialBrix       *float64    `json:"initial_brix,omitempty"`
	CreatedBy         uuid.UUID   `json:"created_by"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// Reading is one measurement taken on a batch.
type Reading struct {
	ID                 uuid.UUID     `json:"id"`
	BatchID            uuid.UUID     `json:"batch_id"`
	TemperatureCelsius float64       `json:"temperature_celsius"`
	Density            *float64      `json:"density,omitempty"`
	PH                 *float64      `json:"ph,omitempty"`
	Source             ReadingSource `json:"source"`
	RecordedAt         time.Time     `json:"recorded_at"`
	CreatedAt          time.Time     `json:"created_at"`
}

// BatchStats summarises the readings collected for one batch.
type BatchStats struct {
	BatchID        uuid.UUID `json:"batch_id"`
	ReadingCount   int       `json:"reading_count"`
	MinTemperature float64   `json:"min_temperature"`
	MaxTemperature float64   `json:"max_temperature"`
	AvgTemperature float64   `json:"avg_temperature"`
	LatestDensity  *float64  `json:"latest_density,omitempty"`
	LatestPH       *float64  `json:"latest_ph,omitempty"`
}
