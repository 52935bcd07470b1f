package domain

import (
	"time"

	"github.com/google/uuid"
)

// Harvest records a single pick from a vineyard together with the quality
// measurements taken at the press. Sugar and acidity are optional because
// older records predate the lab workflow.
type Harvest struct {
	ID               uuid.UUID `json:"id"`
	VineyardID       uuid.UUID `json:"vineyard_id"`
	HarvestDate      time.Time `json:"harvest_date"`
	QuantityKg       float64   `json:"quantity_kg"`
	SugarContentBrix *float64  `json:"sugar_content_brix,omitempty"`
	AcidityPH        *float64  `json:"acidity_ph,omitempty"`
	QualityNotes     string    `json:"quality_notes,omitempty"`
	CreatedBy        uuid.UUID `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
